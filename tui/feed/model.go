package feed

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/tripshare/app"
	"github.com/CrestNiraj12/tripshare/domain"
	core "github.com/CrestNiraj12/tripshare/feed"
	"github.com/CrestNiraj12/tripshare/tui/common"
)

// --- Messages ---

// TripsLoadedMsg carries the shuffled trips of a fetch cycle.
type TripsLoadedMsg struct {
	Cycle int
	Trips []domain.Trip
}

// TripsErrorMsg is sent when listing trips fails.
type TripsErrorMsg struct {
	Cycle int
	Err   error
}

// LikesLoadedMsg carries the liked set of a cycle and likes generation.
type LikesLoadedMsg struct {
	Cycle int
	Gen   int
	Liked core.LikedSet
}

// LikeResultMsg is sent after a like or unlike attempt.
type LikeResultMsg struct {
	UserID string // who made the change
	TripID string
	Liked  bool // state that was requested
	Err    error
}

// SessionChangedMsg tells the feed who is signed in (nil for nobody).
type SessionChangedMsg struct {
	User *domain.User
}

// LikesInvalidatedMsg reports that userID's likes changed elsewhere.
type LikesInvalidatedMsg struct {
	UserID string
}

// --- Model ---

// Deps holds what the feed view needs.
type Deps struct {
	Assembler *core.Assembler
	Likes     app.LikeService
	Notifier  app.LikeNotifier // optional
	WebURL    string
	Logger    *zap.Logger
}

// Model is the trip feed screen. Fetch results are applied through core.View, which
// drops results of superseded cycles and anything arriving after Close.
type Model struct {
	assembler *core.Assembler
	likes     app.LikeService
	notifier  app.LikeNotifier
	webURL    string
	logger    *zap.Logger

	view core.View
	user *domain.User

	// Optimistic like state per trip, shown until the next liked set arrives.
	overlay map[string]bool
	pending map[string]bool

	cursor     int
	startIndex int
	width      int
	height     int
	notice     string
	keys       common.KeyMap
	spinner    spinner.Model
}

// New creates a feed model with injected dependencies.
func New(deps Deps) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(common.Accent)

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := Model{
		assembler: deps.Assembler,
		likes:     deps.Likes,
		notifier:  deps.Notifier,
		webURL:    deps.WebURL,
		logger:    logger,
		overlay:   make(map[string]bool),
		pending:   make(map[string]bool),
		keys:      common.DefaultKeyMap(),
		spinner:   s,
		height:    24,
		width:     80,
	}
	m.view.Begin()
	return m
}

// Init fetches the first cycle, started by New.
func (m Model) Init() tea.Cmd {
	return m.cycleCmds()
}

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m.update(msg)
}

// Close tears the view down; results still in flight are ignored.
func (m *Model) Close() {
	m.view.Close()
}

// Phase exposes the assembly phase.
func (m Model) Phase() core.Phase { return m.view.Phase() }

// Trips returns the trips in presentation order.
func (m Model) Trips() []domain.Trip { return m.view.Trips() }

func (m Model) userID() string {
	if m.user == nil {
		return ""
	}
	return m.user.ID
}

// startCycle discards the current view contents and fetches trips and likes anew.
func (m *Model) startCycle() tea.Cmd {
	m.view.Begin()
	clear(m.overlay)
	clear(m.pending)
	m.cursor = 0
	m.startIndex = 0
	m.notice = ""
	return m.cycleCmds()
}

func (m Model) cycleCmds() tea.Cmd {
	cycle := m.view.Cycle()
	return tea.Batch(
		m.fetchTrips(cycle),
		m.fetchLikes(cycle, m.view.LikesGen(), m.userID()),
		m.spinner.Tick,
	)
}

// refetchLikes starts a new likes generation and fetches it; trips stay as they are.
func (m *Model) refetchLikes() tea.Cmd {
	gen := m.view.RefreshLikes()
	return m.fetchLikes(m.view.Cycle(), gen, m.userID())
}

// isLiked is the displayed like state: the optimistic value if any, else the liked set.
func (m Model) isLiked(tripID string) bool {
	if liked, ok := m.overlay[tripID]; ok {
		return liked
	}
	return m.view.IsLiked(tripID)
}

// likesCount adjusts the stored count by a pending optimistic change.
func (m Model) likesCount(t domain.Trip) int {
	n := t.LikesCount
	if liked, ok := m.overlay[t.ID]; ok && liked != m.view.IsLiked(t.ID) {
		if liked {
			n++
		} else if n > 0 {
			n--
		}
	}
	return n
}

func (m Model) selected() (domain.Trip, bool) {
	trips := m.view.Trips()
	if m.cursor < 0 || m.cursor >= len(trips) {
		return domain.Trip{}, false
	}
	return trips[m.cursor], true
}
