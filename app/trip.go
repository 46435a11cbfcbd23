package app

import (
	"context"

	"github.com/CrestNiraj12/tripshare/domain"
)

// LikeFilter narrows a like listing. Empty fields do not filter.
type LikeFilter struct {
	LikerID string
	TripID  string
}

// TripStore reads trips and like records from a backend.
type TripStore interface {
	// ListTrips returns every trip ordered by sortKey (e.g. domain.SortNewestFirst).
	ListTrips(ctx context.Context, sortKey string) ([]domain.Trip, error)

	// ListLikes returns like records matching the filter in a single request.
	ListLikes(ctx context.Context, filter LikeFilter) ([]domain.TripLike, error)
}

// LikeService creates and removes likes.
type LikeService interface {
	// Like records that likerID liked tripID.
	Like(ctx context.Context, likerID, tripID string) (domain.TripLike, error)

	// Unlike removes a like record by its ID.
	Unlike(ctx context.Context, likeID string) error
}

// LikeNotifier tells other clients that a user's likes changed.
type LikeNotifier interface {
	LikeChanged(ctx context.Context, likerID, tripID string, liked bool) error
}
