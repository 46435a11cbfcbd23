package feed

import "github.com/CrestNiraj12/tripshare/domain"

// Phase is where a feed view is in its fetch cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoadingItems
	PhaseLoadingInteractions
	PhaseReady
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoadingItems:
		return "loading-items"
	case PhaseLoadingInteractions:
		return "loading-interactions"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// View is the state of one feed view. It performs no I/O: callers start a cycle with
// Begin, run the fetches, and report results tagged with the cycle (and, for likes,
// the generation) they belong to. Results for an older cycle or generation, or any
// result after Close, are rejected.
type View struct {
	phase      Phase
	cycle      int
	likesGen   int
	closed     bool
	trips      []domain.Trip
	liked      LikedSet
	likesKnown bool
	err        error
}

// Begin starts a new fetch cycle, discarding the previous one, and returns its number.
func (v *View) Begin() int {
	v.cycle++
	v.likesGen++
	v.phase = PhaseLoadingItems
	v.trips = nil
	v.liked = LikedSet{}
	v.likesKnown = false
	v.err = nil
	return v.cycle
}

// RefreshLikes starts a new likes generation within the current cycle, so results of
// earlier like fetches are ignored. Trips and their order are kept.
func (v *View) RefreshLikes() int {
	v.likesGen++
	return v.likesGen
}

// ItemsLoaded records the trips for cycle. Trips are expected in presentation order.
func (v *View) ItemsLoaded(cycle int, trips []domain.Trip) bool {
	if v.closed || cycle != v.cycle || v.phase != PhaseLoadingItems {
		return false
	}
	v.trips = trips
	if v.likesKnown {
		v.phase = PhaseReady
	} else {
		v.phase = PhaseLoadingInteractions
	}
	return true
}

// ItemsFailed moves cycle to PhaseError.
func (v *View) ItemsFailed(cycle int, err error) bool {
	if v.closed || cycle != v.cycle || v.phase != PhaseLoadingItems {
		return false
	}
	v.err = err
	v.phase = PhaseError
	return true
}

// LikesLoaded replaces the liked set for cycle and generation gen. Likes may arrive
// before the trips; they are held until the trips are in.
func (v *View) LikesLoaded(cycle, gen int, liked LikedSet) bool {
	if v.closed || cycle != v.cycle || gen != v.likesGen {
		return false
	}
	v.liked = liked
	v.likesKnown = true
	if v.phase == PhaseLoadingInteractions {
		v.phase = PhaseReady
	}
	return true
}

// Close tears the view down; every later result is rejected.
func (v *View) Close() {
	v.closed = true
}

func (v View) Phase() Phase         { return v.phase }
func (v View) Cycle() int           { return v.cycle }
func (v View) LikesGen() int        { return v.likesGen }
func (v View) Closed() bool         { return v.closed }
func (v View) Trips() []domain.Trip { return v.trips }
func (v View) Liked() LikedSet      { return v.liked }
func (v View) LikesKnown() bool     { return v.likesKnown }
func (v View) Err() error           { return v.err }

// Loading reports whether a loading indicator should be shown.
func (v View) Loading() bool {
	return v.phase == PhaseLoadingItems || v.phase == PhaseLoadingInteractions
}

// Empty reports whether the cycle finished with no trips to show.
func (v View) Empty() bool {
	return v.phase == PhaseReady && len(v.trips) == 0
}

// IsLiked reports whether tripID is in the liked set. Unknown likes read as false.
func (v View) IsLiked(tripID string) bool {
	return v.liked.Has(tripID)
}
