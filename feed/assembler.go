// Package feed assembles the trip feed: it lists trips, shuffles them once per
// fetch, and pairs them with the signed-in user's likes.
package feed

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/tripshare/app"
	"github.com/CrestNiraj12/tripshare/domain"
)

const tracerName = "github.com/CrestNiraj12/tripshare/feed"

// Assembler fetches the pieces of a feed view.
type Assembler struct {
	store  app.TripStore
	likes  *LikeIndex
	intN   func(n int) int
	logger *zap.Logger
	tracer trace.Tracer
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithRand sets the random source used to shuffle trips.
func WithRand(intN func(n int) int) AssemblerOption {
	return func(a *Assembler) { a.intN = intN }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) AssemblerOption {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewAssembler creates an Assembler reading trips from store and likes through likes.
func NewAssembler(store app.TripStore, likes *LikeIndex, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		store:  store,
		likes:  likes,
		logger: zap.NewNop(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Trips lists all trips newest first and returns them shuffled.
func (a *Assembler) Trips(ctx context.Context) ([]domain.Trip, error) {
	ctx, span := a.tracer.Start(ctx, "feed.trips")
	defer span.End()

	trips, err := a.store.ListTrips(ctx, domain.SortNewestFirst)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list trips")
		a.logger.Error("listing trips failed", zap.Error(err))
		return nil, fmt.Errorf("listing trips: %w", err)
	}
	span.SetAttributes(attribute.Int("trips.count", len(trips)))
	return Shuffle(trips, a.intN), nil
}

// LikedTrips returns the user's liked set. It never fails; see LikeIndex.Get.
func (a *Assembler) LikedTrips(ctx context.Context, userID string) LikedSet {
	ctx, span := a.tracer.Start(ctx, "feed.liked_trips",
		trace.WithAttributes(attribute.Bool("session", userID != "")))
	defer span.End()

	set := a.likes.Get(ctx, userID)
	span.SetAttributes(attribute.Int("likes.count", set.Len()))
	return set
}

// InvalidateLikes marks the user's cached likes stale. No-op for an empty userID.
func (a *Assembler) InvalidateLikes(userID string) {
	a.likes.Invalidate(userID)
}

type loadResult struct {
	trips   []domain.Trip
	err     error
	liked   LikedSet
	isLikes bool
}

// Load runs one full cycle for userID ("" for no session) and returns the finished
// view. Trips and likes are fetched concurrently and applied in arrival order. A
// trip failure is returned together with the view in PhaseError. If ctx ends first,
// Load returns ctx.Err() and the view is closed without applying anything further.
func (a *Assembler) Load(ctx context.Context, userID string) (View, error) {
	var v View
	cycle := v.Begin()
	gen := v.LikesGen()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan loadResult, 2)
	go func() {
		trips, err := a.Trips(ctx)
		results <- loadResult{trips: trips, err: err}
	}()
	go func() {
		results <- loadResult{liked: a.LikedTrips(ctx, userID), isLikes: true}
	}()

	for pending := 2; pending > 0; pending-- {
		select {
		case <-ctx.Done():
			v.Close()
			return v, ctx.Err()
		case r := <-results:
			switch {
			case r.isLikes:
				v.LikesLoaded(cycle, gen, r.liked)
			case r.err != nil:
				v.ItemsFailed(cycle, r.err)
			default:
				v.ItemsLoaded(cycle, r.trips)
			}
		}
	}
	return v, v.Err()
}
