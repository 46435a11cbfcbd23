package feed

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/tripshare/domain"
	"github.com/CrestNiraj12/tripshare/infra/browser"
	"github.com/CrestNiraj12/tripshare/session"
)

const loginHint = "Sign in to like trips: run `tripshare login`."

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	trips := m.view.Trips()

	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m, m.startCycle()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.ensureCursorVisible()

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(trips)-1 {
			m.cursor++
		}
		m.ensureCursorVisible()

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		m.startIndex = 0

	case key.Matches(msg, m.keys.Like):
		trip, ok := m.selected()
		if !ok {
			break
		}
		var cmd tea.Cmd
		session.RequireAuth(m.user,
			func() { m.notice = loginHint },
			func() { cmd = m.toggleLike(trip.ID) },
		)
		return m, cmd

	case key.Matches(msg, m.keys.Open):
		trip, ok := m.selected()
		if !ok || trip.AuthorUsername == "" {
			break
		}
		target := m.webURL + domain.ProfileURL(trip.AuthorUsername)
		if !browser.IsSafeExternalURL(target) {
			m.notice = "Profile link unavailable."
			break
		}
		return m, openURL(target)
	}

	return m, nil
}

// ensureCursorVisible scrolls so the cursor is within the visible window.
func (m *Model) ensureCursorVisible() {
	visible := m.visibleCount()
	if m.cursor < m.startIndex {
		m.startIndex = m.cursor
	}
	if m.cursor >= m.startIndex+visible {
		m.startIndex = m.cursor - visible + 1
	}
	if m.startIndex < 0 {
		m.startIndex = 0
	}
}

// visibleCount is how many trip cards fit the current height.
func (m Model) visibleCount() int {
	// Header (~4), help and status (~4), each card 6 lines (4 content + 2 border).
	n := (m.height - 8) / 6
	if n < 1 {
		n = 1
	}
	return n
}
