package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/CrestNiraj12/tripshare/app"
	"github.com/CrestNiraj12/tripshare/domain"
)

var errBackend = errors.New("backend unavailable")

// fakeStore is an in-memory app.TripStore that counts calls.
type fakeStore struct {
	mu        sync.Mutex
	trips     []domain.Trip
	likes     []domain.TripLike
	tripsErr  error
	likesErr  error
	sortKeys  []string
	filters   []app.LikeFilter
	likeCalls atomic.Int32
	tripCalls atomic.Int32

	// When set, the matching call blocks until the channel is closed or ctx ends.
	tripsGate chan struct{}
	likesGate chan struct{}
}

func (s *fakeStore) ListTrips(ctx context.Context, sortKey string) ([]domain.Trip, error) {
	s.tripCalls.Add(1)
	s.mu.Lock()
	s.sortKeys = append(s.sortKeys, sortKey)
	gate := s.tripsGate
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tripsErr != nil {
		return nil, s.tripsErr
	}
	return append([]domain.Trip(nil), s.trips...), nil
}

func (s *fakeStore) ListLikes(ctx context.Context, filter app.LikeFilter) ([]domain.TripLike, error) {
	s.likeCalls.Add(1)
	s.mu.Lock()
	s.filters = append(s.filters, filter)
	gate := s.likesGate
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.likesErr != nil {
		return nil, s.likesErr
	}
	var out []domain.TripLike
	for _, l := range s.likes {
		if filter.LikerID == "" || l.LikerID == filter.LikerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeStore) setLikes(likes ...domain.TripLike) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likes = likes
}

func makeTrips(n int) []domain.Trip {
	base := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	trips := make([]domain.Trip, n)
	for i := range trips {
		trips[i] = domain.Trip{
			ID:        fmt.Sprintf("trip-%d", i),
			CreatedAt: base.Add(-time.Duration(i) * time.Hour),
			AuthorID:  "author",
			Title:     fmt.Sprintf("Trip %d", i),
		}
	}
	return trips
}

func like(id, liker, trip string) domain.TripLike {
	return domain.TripLike{ID: id, LikerID: liker, TripID: trip}
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
