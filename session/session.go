// Package session holds the signed-in user for the lifetime of the process and
// notifies subscribers when it changes.
package session

import (
	"sync"

	"github.com/CrestNiraj12/tripshare/domain"
)

// State is a snapshot of the session.
type State struct {
	User    *domain.User // nil when nobody is signed in
	Loading bool         // true until the first resolution
}

// UserID returns the signed-in user's ID, or "".
func (s State) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

// SignedIn reports whether a user is present.
func (s State) SignedIn() bool {
	return s.User != nil
}

// NeedsOnboarding reports whether the signed-in user has not finished onboarding.
func (s State) NeedsOnboarding() bool {
	return s.User != nil && !s.User.OnboardingCompleted
}

// Session is the process-wide session cache. Pass it by reference; do not copy.
type Session struct {
	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int
}

// New returns a session in the loading state.
func New() *Session {
	return &Session{
		state: State{Loading: true},
		subs:  make(map[int]func(State)),
	}
}

// Get returns the current state.
func (s *Session) Get() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Set stores the signed-in user. Subscribers are notified when this resolves the
// session or changes who is signed in; refreshing the same user's profile updates
// the state silently.
func (s *Session) Set(u domain.User) {
	s.update(State{User: &u})
}

// Clear signs the user out.
func (s *Session) Clear() {
	s.update(State{})
}

func (s *Session) update(next State) {
	s.mu.Lock()
	prev := s.state
	s.state = next
	transition := prev.Loading || prev.UserID() != next.UserID()
	var handlers []func(State)
	if transition {
		handlers = make([]func(State), 0, len(s.subs))
		for _, h := range s.subs {
			handlers = append(handlers, h)
		}
	}
	s.mu.Unlock()

	for _, h := range handlers {
		h(next)
	}
}

// Subscribe registers fn for session transitions. Call the returned func on teardown;
// it is safe to call more than once.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// RequireAuth runs onAuthenticated when user is signed in, otherwise prompt (if any).
func RequireAuth(user *domain.User, prompt func(), onAuthenticated func()) {
	switch {
	case user != nil:
		onAuthenticated()
	case prompt != nil:
		prompt()
	}
}
