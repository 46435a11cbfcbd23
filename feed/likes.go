package feed

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/CrestNiraj12/tripshare/app"
	"github.com/CrestNiraj12/tripshare/domain"
)

const (
	// sharedFetchTimeout bounds a like query no caller can cancel.
	sharedFetchTimeout = 30 * time.Second

	// DefaultStaleAfter is how long a fetched like set is served without refetching.
	DefaultStaleAfter = 5 * time.Minute
	// DefaultEvictAfter is how long an unused like set is kept at all.
	DefaultEvictAfter = 10 * time.Minute
)

// LikedSet is an immutable set of trip IDs liked by one user.
type LikedSet struct {
	likes map[string]string // trip ID -> like record ID
}

// NewLikedSet builds a set from like records, keyed by each record's TripID.
func NewLikedSet(records []domain.TripLike) LikedSet {
	likes := make(map[string]string, len(records))
	for _, r := range records {
		if r.TripID == "" {
			continue
		}
		likes[r.TripID] = r.ID
	}
	return LikedSet{likes: likes}
}

// Has reports whether the trip is liked.
func (s LikedSet) Has(tripID string) bool {
	_, ok := s.likes[tripID]
	return ok
}

// LikeID returns the like record ID for a liked trip.
func (s LikedSet) LikeID(tripID string) (string, bool) {
	id, ok := s.likes[tripID]
	return id, ok
}

// Len returns the number of liked trips.
func (s LikedSet) Len() int {
	return len(s.likes)
}

// LikeLister is the part of app.TripStore the index needs.
type LikeLister interface {
	ListLikes(ctx context.Context, filter app.LikeFilter) ([]domain.TripLike, error)
}

type likeEntry struct {
	set       LikedSet
	fetchedAt time.Time
	usedAt    time.Time
	valid     bool
}

// LikeIndex caches each user's LikedSet. Entries are replaced whole, never edited,
// so concurrent readers always see a complete snapshot.
type LikeIndex struct {
	store      LikeLister
	logger     *zap.Logger
	staleAfter time.Duration
	evictAfter time.Duration
	now        func() time.Time

	mu      sync.RWMutex
	entries map[string]*likeEntry
	gens    map[string]uint64
	group   singleflight.Group
}

// IndexOption configures a LikeIndex.
type IndexOption func(*LikeIndex)

// WithFreshness overrides the stale-after and evict-after windows.
func WithFreshness(staleAfter, evictAfter time.Duration) IndexOption {
	return func(x *LikeIndex) {
		if staleAfter > 0 {
			x.staleAfter = staleAfter
		}
		if evictAfter > 0 {
			x.evictAfter = evictAfter
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) IndexOption {
	return func(x *LikeIndex) { x.now = now }
}

// NewLikeIndex creates an empty index over store.
func NewLikeIndex(store LikeLister, logger *zap.Logger, opts ...IndexOption) *LikeIndex {
	if logger == nil {
		logger = zap.NewNop()
	}
	x := &LikeIndex{
		store:      store,
		logger:     logger,
		staleAfter: DefaultStaleAfter,
		evictAfter: DefaultEvictAfter,
		now:        time.Now,
		entries:    make(map[string]*likeEntry),
		gens:       make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Get returns the user's liked trips. An empty userID yields an empty set without
// contacting the backend. Backend failures are logged and yield an empty set.
func (x *LikeIndex) Get(ctx context.Context, userID string) LikedSet {
	if userID == "" {
		return LikedSet{}
	}

	now := x.now()
	x.mu.Lock()
	x.evictLocked(now)
	if e, ok := x.entries[userID]; ok && e.valid && now.Sub(e.fetchedAt) < x.staleAfter {
		e.usedAt = now
		set := e.set
		x.mu.Unlock()
		return set
	}
	gen := x.gens[userID]
	x.mu.Unlock()

	// Callers sharing a generation share one query; an invalidation starts a new one.
	// The query outlives any single caller, so one caller leaving does not fail the rest.
	key := userID + "#" + strconv.FormatUint(gen, 10)
	shared := context.WithoutCancel(ctx)
	ch := x.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(shared, sharedFetchTimeout)
		defer cancel()
		records, err := x.store.ListLikes(fetchCtx, app.LikeFilter{LikerID: userID})
		if err != nil {
			return nil, err
		}
		set := NewLikedSet(records)
		x.put(userID, gen, set)
		return set, nil
	})

	select {
	case <-ctx.Done():
		x.logger.Debug("likes read abandoned", zap.String("user_id", userID), zap.Error(ctx.Err()))
		return LikedSet{}
	case res := <-ch:
		if res.Err != nil {
			x.logger.Warn("fetching user likes failed",
				zap.String("user_id", userID),
				zap.Error(res.Err))
			return LikedSet{}
		}
		return res.Val.(LikedSet)
	}
}

// put saves a fetched set unless the user was invalidated since the fetch began.
func (x *LikeIndex) put(userID string, gen uint64, set LikedSet) {
	now := x.now()
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.gens[userID] != gen {
		return
	}
	x.entries[userID] = &likeEntry{
		set:       set,
		fetchedAt: now,
		usedAt:    now,
		valid:     true,
	}
}

// Invalidate marks the user's cached set stale so the next Get refetches.
// It is a no-op for an empty userID.
func (x *LikeIndex) Invalidate(userID string) {
	if userID == "" {
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	x.gens[userID]++
	if e, ok := x.entries[userID]; ok {
		e.valid = false
	}
	x.logger.Debug("user likes invalidated", zap.String("user_id", userID))
}

// Cached reports whether a fresh, valid set is cached for the user.
func (x *LikeIndex) Cached(userID string) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	e, ok := x.entries[userID]
	return ok && e.valid && x.now().Sub(e.fetchedAt) < x.staleAfter
}

func (x *LikeIndex) evictLocked(now time.Time) {
	for id, e := range x.entries {
		if now.Sub(e.usedAt) >= x.evictAfter {
			delete(x.entries, id)
		}
	}
}
