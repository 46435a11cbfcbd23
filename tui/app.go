package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/tripshare/session"
	"github.com/CrestNiraj12/tripshare/tui/common"
	"github.com/CrestNiraj12/tripshare/tui/feed"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Feed feed.Deps
}

// SessionMsg delivers a session transition from session.Session.Subscribe.
type SessionMsg struct {
	State session.State
}

// LikesChangedMsg reports a like change made by another client of userID.
type LikesChangedMsg struct {
	UserID string
}

// App is the root Bubble Tea model. It routes session events to the feed and
// renders the status line.
type App struct {
	deps   Deps
	feed   feed.Model
	keys   common.KeyMap
	state  session.State
	status string
}

// NewApp creates the root model with all dependencies wired. initial is the session
// state at startup.
func NewApp(deps Deps, initial session.State) App {
	a := App{
		deps: deps,
		feed: feed.New(deps.Feed),
		keys: common.DefaultKeyMap(),
	}
	a.applySession(initial)
	if initial.User != nil {
		a.feed, _ = a.feed.Update(feed.SessionChangedMsg{User: initial.User})
	}
	return a
}

// Init starts the feed's first cycle.
func (a App) Init() tea.Cmd {
	return a.feed.Init()
}

// Update handles messages and routes them to the feed.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, a.keys.Quit) {
			a.feed.Close()
			return a, tea.Quit
		}

	case SessionMsg:
		a.applySession(msg.State)
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(feed.SessionChangedMsg{User: msg.State.User})
		return a, cmd

	case LikesChangedMsg:
		var cmd tea.Cmd
		a.feed, cmd = a.feed.Update(feed.LikesInvalidatedMsg{UserID: msg.UserID})
		return a, cmd
	}

	var cmd tea.Cmd
	a.feed, cmd = a.feed.Update(msg)
	return a, cmd
}

func (a *App) applySession(s session.State) {
	a.state = s
	switch {
	case s.Loading:
		a.status = "Checking session..."
	case s.NeedsOnboarding():
		a.status = "Signed in as " + s.User.DisplayName() + ". Finish onboarding on the web to complete your profile."
	case s.SignedIn():
		a.status = "Signed in as " + s.User.DisplayName()
	default:
		a.status = "Browsing as guest. Run `tripshare login` to like trips."
	}
}

// View renders the feed and the status line.
func (a App) View() string {
	s := a.feed.View()
	if a.status != "" {
		s += "\n" + common.StatusBarStyle.Render("  "+a.status)
	}
	return s
}
