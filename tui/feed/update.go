package feed

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorVisible()
		return m, nil

	case spinner.TickMsg:
		if !m.view.Loading() {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TripsLoadedMsg:
		if !m.view.ItemsLoaded(msg.Cycle, msg.Trips) {
			return m, nil
		}
		if m.cursor >= len(msg.Trips) {
			m.cursor = 0
		}
		m.ensureCursorVisible()
		return m, nil

	case TripsErrorMsg:
		if m.view.ItemsFailed(msg.Cycle, msg.Err) {
			m.logger.Warn("feed failed to load", zap.Int("cycle", msg.Cycle), zap.Error(msg.Err))
		}
		return m, nil

	case LikesLoadedMsg:
		if !m.view.LikesLoaded(msg.Cycle, msg.Gen, msg.Liked) {
			return m, nil
		}
		// The fresh set is authoritative for every trip without a request in flight.
		for id := range m.overlay {
			if !m.pending[id] {
				delete(m.overlay, id)
			}
		}
		return m, nil

	case SessionChangedMsg:
		if msg.User != nil && m.user != nil && msg.User.ID == m.user.ID {
			m.user = msg.User
			return m, nil
		}
		m.user = msg.User
		m.notice = ""
		clear(m.overlay)
		clear(m.pending)
		return m, m.refetchLikes()

	case LikesInvalidatedMsg:
		if msg.UserID == "" || msg.UserID != m.userID() {
			return m, nil
		}
		m.assembler.InvalidateLikes(msg.UserID)
		return m, m.refetchLikes()

	case LikeResultMsg:
		return m.handleLikeResult(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}
