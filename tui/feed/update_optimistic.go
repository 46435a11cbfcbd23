package feed

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// toggleLike flips the displayed state at once and sends the change to the backend.
// A second toggle on the same trip waits for the first to finish.
func (m *Model) toggleLike(tripID string) tea.Cmd {
	if m.pending[tripID] {
		return nil
	}
	userID := m.userID()
	want := !m.isLiked(tripID)

	likeID := ""
	if !want {
		id, ok := m.view.Liked().LikeID(tripID)
		if !ok {
			// Shown as liked without a stored record yet; wait for the liked set.
			m.notice = "Still saving your like, try again in a moment."
			return nil
		}
		likeID = id
	}

	m.overlay[tripID] = want
	m.pending[tripID] = true
	m.notice = ""
	return m.setLike(userID, tripID, likeID, want)
}

func (m Model) handleLikeResult(msg LikeResultMsg) (Model, tea.Cmd) {
	if m.view.Closed() {
		return m, nil
	}
	// The session changed while the request was in flight; the overlay already belongs
	// to someone else.
	current := msg.UserID == m.userID()

	if msg.Err != nil {
		m.logger.Warn("like toggle failed", zap.String("trip_id", msg.TripID), zap.Error(msg.Err))
		if current {
			// Rollback to the stored state.
			delete(m.pending, msg.TripID)
			delete(m.overlay, msg.TripID)
			m.notice = "Could not update like: " + msg.Err.Error()
		}
		return m, nil
	}

	m.assembler.InvalidateLikes(msg.UserID)
	notify := m.notifyLikeChanged(msg.UserID, msg.TripID, msg.Liked)
	if !current {
		return m, notify
	}
	delete(m.pending, msg.TripID)
	return m, tea.Batch(m.refetchLikes(), notify)
}
