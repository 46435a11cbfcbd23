package feed

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// batch keeps test call sites short.
func batch(cmds ...tea.Cmd) tea.Cmd { return tea.Batch(cmds...) }

func TestNavigation_ClampsAndScrolls(t *testing.T) {
	m, _ := newTestModel(makeTrips(10))
	m = settle(m, m.Init())
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})

	m, _ = m.Update(keyMsg("k"))
	if m.cursor != 0 {
		t.Fatalf("cursor must not go above the first trip")
	}
	for range 15 {
		m, _ = m.Update(keyMsg("j"))
	}
	if m.cursor != 9 {
		t.Fatalf("cursor must stop at the last trip, got %d", m.cursor)
	}
	if m.cursor < m.startIndex || m.cursor >= m.startIndex+m.visibleCount() {
		t.Fatalf("cursor %d outside visible window from %d", m.cursor, m.startIndex)
	}

	m, _ = m.Update(keyMsg("g"))
	if m.cursor != 0 || m.startIndex != 0 {
		t.Fatalf("top should reset cursor and scroll")
	}
}

func TestOpen_RequiresUsernameAndSafeURL(t *testing.T) {
	m, _ := newTestModel(makeTrips(1))
	m = settle(m, m.Init())
	if _, cmd := m.Update(keyMsg("o")); cmd == nil {
		t.Fatalf("expected open command for author profile")
	}

	m.webURL = "javascript:alert(1)"
	m, cmd := m.Update(keyMsg("o"))
	if cmd != nil || m.notice == "" {
		t.Fatalf("unsafe profile url must not open")
	}
}

func TestRefresh_ClearsOptimisticState(t *testing.T) {
	m, _ := newTestModel(makeTrips(2))
	m = settle(m, m.Init())
	m.overlay["t0"] = true
	m.pending["t0"] = true

	m, cmd := m.Update(keyMsg("r"))
	if len(m.overlay) != 0 || len(m.pending) != 0 {
		t.Fatalf("refresh should drop optimistic state")
	}
	m = settle(m, cmd)
	if len(m.Trips()) != 2 {
		t.Fatalf("expected trips after refresh")
	}
}
