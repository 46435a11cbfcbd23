package feed

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/tripshare/domain"
	"github.com/CrestNiraj12/tripshare/infra/browser"
)

func (m Model) fetchTrips(cycle int) tea.Cmd {
	assembler := m.assembler
	return func() tea.Msg {
		trips, err := assembler.Trips(context.Background())
		if err != nil {
			return TripsErrorMsg{Cycle: cycle, Err: err}
		}
		return TripsLoadedMsg{Cycle: cycle, Trips: trips}
	}
}

func (m Model) fetchLikes(cycle, gen int, userID string) tea.Cmd {
	assembler := m.assembler
	return func() tea.Msg {
		return LikesLoadedMsg{Cycle: cycle, Gen: gen, Liked: assembler.LikedTrips(context.Background(), userID)}
	}
}

// setLike creates or removes the user's like of tripID. likeID is required to unlike.
func (m Model) setLike(userID, tripID, likeID string, like bool) tea.Cmd {
	likes := m.likes
	return func() tea.Msg {
		var err error
		if like {
			_, err = likes.Like(context.Background(), userID, tripID)
			if errors.Is(err, domain.ErrAlreadyLiked) {
				err = nil
			}
		} else {
			err = likes.Unlike(context.Background(), likeID)
			if errors.Is(err, domain.ErrNotFound) {
				err = nil
			}
		}
		return LikeResultMsg{UserID: userID, TripID: tripID, Liked: like, Err: err}
	}
}

// notifyLikeChanged tells the user's other clients about a like change. Failures are
// only logged.
func (m Model) notifyLikeChanged(userID, tripID string, liked bool) tea.Cmd {
	if m.notifier == nil {
		return nil
	}
	notifier, logger := m.notifier, m.logger
	return func() tea.Msg {
		if err := notifier.LikeChanged(context.Background(), userID, tripID, liked); err != nil {
			logger.Warn("publishing like change failed", zap.String("trip_id", tripID), zap.Error(err))
		}
		return nil
	}
}

func openURL(rawURL string) tea.Cmd {
	return func() tea.Msg {
		_ = browser.Open(rawURL)
		return nil
	}
}
