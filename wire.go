package main

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/CrestNiraj12/tripshare/app"
	"github.com/CrestNiraj12/tripshare/domain"
	core "github.com/CrestNiraj12/tripshare/feed"
	"github.com/CrestNiraj12/tripshare/infra/auth"
	"github.com/CrestNiraj12/tripshare/infra/base44"
	"github.com/CrestNiraj12/tripshare/infra/config"
	"github.com/CrestNiraj12/tripshare/infra/events"
	"github.com/CrestNiraj12/tripshare/infra/logging"
	"github.com/CrestNiraj12/tripshare/infra/postgres"
)

// services is the wired application. Concrete types satisfy app.* interfaces.
type services struct {
	cfg       config.Config
	logger    *zap.Logger
	identity  *auth.TokenIdentity
	store     app.TripStore
	likes     app.LikeService
	account   app.AccountService
	assembler *core.Assembler
	bus       *events.Bus // nil without NATS

	closers []func()
}

// loadEnv reads the config and opens the log file.
func loadEnv() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("config: %w", err)
	}
	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("logging: %w", err)
	}
	return cfg, logger, nil
}

func buildServices(ctx context.Context, cfg config.Config, logger *zap.Logger) (*services, error) {
	tokens := auth.NewFileTokenProvider(cfg.TokenPath)
	s := &services{
		cfg:      cfg,
		logger:   logger,
		identity: auth.NewTokenIdentity(tokens, logger.Named("auth")),
	}

	switch cfg.Backend {
	case config.BackendPostgres:
		pool, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, pool.Close)
		if err := postgres.Migrate(ctx, pool); err != nil {
			s.Close()
			return nil, err
		}
		store := postgres.NewStore(pool, s.identity)
		s.store, s.likes, s.account = store, store, store
	default:
		client := base44.NewClient(cfg.BaseURL, cfg.AppID, tokens)
		s.store = base44.NewTripStore(client)
		s.likes = base44.NewLikeService(client)
		s.account = base44.NewAccountService(client)
	}
	logger.Info("backend ready", zap.String("backend", cfg.Backend))

	index := core.NewLikeIndex(s.store, logger.Named("likes"),
		core.WithFreshness(cfg.LikesStaleAfter, cfg.LikesEvictAfter))
	s.assembler = core.NewAssembler(s.store, index, core.WithLogger(logger.Named("feed")))

	if cfg.NatsURL != "" {
		bus, err := events.Connect(cfg.NatsURL, logger.Named("events"))
		if err != nil {
			// Events are optional.
			logger.Warn("like events disabled", zap.Error(err))
		} else {
			s.bus = bus
			s.closers = append(s.closers, func() { _ = bus.Close() })
		}
	}
	return s, nil
}

// notifier returns the like notifier, or nil when events are disabled.
func (s *services) notifier() app.LikeNotifier {
	if s.bus == nil {
		return nil
	}
	return s.bus
}

// currentUserID returns the signed-in user, or "" when nobody is.
func (s *services) currentUserID(ctx context.Context) (string, error) {
	id, err := s.identity.CurrentUserID(ctx)
	if errors.Is(err, domain.ErrNoSession) {
		return "", nil
	}
	return id, err
}

// Close releases resources in reverse order of acquisition.
func (s *services) Close() {
	_ = s.identity.Close()
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	_ = s.logger.Sync()
}
