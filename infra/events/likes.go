// Package events carries like changes between clients of the same user over NATS,
// so a like made on one device invalidates the cached like set on the others.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// SubjectLikesChanged is the subject every like change is published on.
const SubjectLikesChanged = "tripshare.likes.changed"

// LikeChanged is the event payload.
type LikeChanged struct {
	LikerID string    `json:"liker_id"`
	TripID  string    `json:"trip_id"`
	Liked   bool      `json:"liked"`
	Origin  string    `json:"origin"` // Publishing client; its own events are skipped
	At      time.Time `json:"at"`
}

// Bus publishes and receives like changes. It implements app.LikeNotifier.
type Bus struct {
	nc     *nats.Conn
	origin string
	logger *zap.Logger
	now    func() time.Time
}

// Connect dials the NATS server at url.
func Connect(url string, logger *zap.Logger) (*Bus, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	nc, err := nats.Connect(url,
		nats.Name("tripshare"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}
	return NewBus(nc, logger), nil
}

// NewBus wraps an existing connection.
func NewBus(nc *nats.Conn, logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{nc: nc, origin: uuid.NewString(), logger: logger, now: time.Now}
}

// LikeChanged publishes a like change with the caller's trace context in the headers.
func (b *Bus) LikeChanged(ctx context.Context, likerID, tripID string, liked bool) error {
	msg, err := b.message(ctx, LikeChanged{
		LikerID: likerID,
		TripID:  tripID,
		Liked:   liked,
		Origin:  b.origin,
		At:      b.now().UTC(),
	})
	if err != nil {
		return err
	}
	if err := b.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("publishing like change: %w", err)
	}
	b.logger.Debug("published like change", zap.String("trip_id", tripID), zap.Bool("liked", liked))
	return nil
}

func (b *Bus) message(ctx context.Context, ev LikeChanged) (*nats.Msg, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encoding like change: %w", err)
	}
	msg := &nats.Msg{Subject: SubjectLikesChanged, Data: data, Header: nats.Header{}}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))
	return msg, nil
}

// Subscribe calls fn for every like change published by another client. The
// returned func stops the subscription.
func (b *Bus) Subscribe(fn func(context.Context, LikeChanged)) (func() error, error) {
	sub, err := b.nc.Subscribe(SubjectLikesChanged, func(msg *nats.Msg) {
		b.dispatch(msg, fn)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", SubjectLikesChanged, err)
	}
	return sub.Unsubscribe, nil
}

func (b *Bus) dispatch(msg *nats.Msg, fn func(context.Context, LikeChanged)) {
	ctx := otel.GetTextMapPropagator().Extract(context.Background(), propagation.HeaderCarrier(msg.Header))
	ctx, span := otel.Tracer("tripshare/events").Start(ctx, "likes.changed", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	var ev LikeChanged
	if err := json.Unmarshal(msg.Data, &ev); err != nil {
		span.RecordError(err)
		b.logger.Warn("invalid like change event", zap.Error(err))
		return
	}
	if ev.Origin == b.origin || ev.LikerID == "" {
		return
	}
	fn(ctx, ev)
}

// Close drains the connection.
func (b *Bus) Close() error {
	return b.nc.Drain()
}
