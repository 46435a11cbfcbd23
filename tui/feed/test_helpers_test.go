package feed

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/tripshare/app"
	"github.com/CrestNiraj12/tripshare/domain"
	core "github.com/CrestNiraj12/tripshare/feed"
)

type stubStore struct {
	mu        sync.Mutex
	trips     []domain.Trip
	likes     []domain.TripLike
	tripsErr  error
	likeCalls int
}

func (s *stubStore) ListTrips(context.Context, string) ([]domain.Trip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tripsErr != nil {
		return nil, s.tripsErr
	}
	return append([]domain.Trip(nil), s.trips...), nil
}

func (s *stubStore) ListLikes(_ context.Context, f app.LikeFilter) ([]domain.TripLike, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likeCalls++
	var out []domain.TripLike
	for _, l := range s.likes {
		if f.LikerID == "" || l.LikerID == f.LikerID {
			out = append(out, l)
		}
	}
	return out, nil
}

// stubLikes writes through to the store so refetches observe the change.
type stubLikes struct {
	store *stubStore
	err   error
	calls []string
}

func (l *stubLikes) Like(_ context.Context, likerID, tripID string) (domain.TripLike, error) {
	l.calls = append(l.calls, "like:"+tripID)
	if l.err != nil {
		return domain.TripLike{}, l.err
	}
	like := domain.TripLike{ID: "l-" + tripID, LikerID: likerID, TripID: tripID}
	l.store.mu.Lock()
	l.store.likes = append(l.store.likes, like)
	l.store.mu.Unlock()
	return like, nil
}

func (l *stubLikes) Unlike(_ context.Context, likeID string) error {
	l.calls = append(l.calls, "unlike:"+likeID)
	if l.err != nil {
		return l.err
	}
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	for i, like := range l.store.likes {
		if like.ID == likeID {
			l.store.likes = append(l.store.likes[:i], l.store.likes[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type stubNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *stubNotifier) LikeChanged(_ context.Context, likerID, tripID string, liked bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, fmt.Sprintf("%s:%s:%v", likerID, tripID, liked))
	return nil
}

func makeTrips(n int) []domain.Trip {
	trips := make([]domain.Trip, n)
	base := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	for i := range trips {
		trips[i] = domain.Trip{
			ID:             fmt.Sprintf("t%d", i),
			CreatedAt:      base.Add(-time.Duration(i) * time.Hour),
			AuthorID:       fmt.Sprintf("a%d", i),
			AuthorName:     fmt.Sprintf("Author %d", i),
			AuthorUsername: fmt.Sprintf("author%d", i),
			Title:          fmt.Sprintf("Trip %d", i),
			Destination:    "Somewhere",
			Content:        "A long walk by the sea.",
			LikesCount:     i,
		}
	}
	return trips
}

type fixture struct {
	store    *stubStore
	likes    *stubLikes
	notifier *stubNotifier
}

// newTestModel returns a model whose shuffle keeps the backend order.
func newTestModel(trips []domain.Trip, likes ...domain.TripLike) (Model, *fixture) {
	f := &fixture{store: &stubStore{trips: trips, likes: likes}, notifier: &stubNotifier{}}
	f.likes = &stubLikes{store: f.store}
	index := core.NewLikeIndex(f.store, nil)
	assembler := core.NewAssembler(f.store, index, core.WithRand(func(n int) int { return n - 1 }))
	m := New(Deps{Assembler: assembler, Likes: f.likes, Notifier: f.notifier, WebURL: "https://trips.example"})
	return m, f
}

// run executes cmd, expanding batches, and returns the non-tick messages it produced.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch msg := msg.(type) {
	case nil:
		return nil
	case spinner.TickMsg:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, run(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

// settle feeds the messages produced by cmd back into m until nothing is left.
func settle(m Model, cmd tea.Cmd) Model {
	queue := run(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		var next tea.Cmd
		m, next = m.Update(msg)
		queue = append(queue, run(next)...)
	}
	return m
}

func user(id string) *domain.User {
	return &domain.User{ID: id, Username: id}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
