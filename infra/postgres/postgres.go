// Package postgres is the self-hosted backend: trips, likes and accounts in a
// single PostgreSQL database accessed through pgxpool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CrestNiraj12/tripshare/app"
)

// Open connects a pool to dsn with query tracing and verifies the connection.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}
	cfg.ConnConfig.Tracer = otelpgx.NewTracer()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id                   TEXT PRIMARY KEY,
	email                TEXT NOT NULL DEFAULT '',
	full_name            TEXT NOT NULL DEFAULT '',
	username             TEXT NOT NULL DEFAULT '',
	picture              TEXT NOT NULL DEFAULT '',
	photo_url            TEXT NOT NULL DEFAULT '',
	photo_updated_at     TIMESTAMPTZ,
	onboarding_completed BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS trips (
	id          TEXT PRIMARY KEY,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	author_id   TEXT NOT NULL REFERENCES users(id),
	title       TEXT NOT NULL DEFAULT '',
	destination TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS trip_likes (
	id         TEXT PRIMARY KEY,
	liker_id   TEXT NOT NULL REFERENCES users(id),
	trip_id    TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (liker_id, trip_id)
);

CREATE INDEX IF NOT EXISTS trips_created_at_idx ON trips (created_at DESC);
CREATE INDEX IF NOT EXISTS trip_likes_liker_idx ON trip_likes (liker_id);
`

// Migrate creates the tables when they do not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// Store implements app.TripStore, app.LikeService and app.AccountService.
// Account calls act on the user reported by the identity provider.
type Store struct {
	db       *pgxpool.Pool
	identity app.IdentityProvider
}

// NewStore creates a Store over db.
func NewStore(db *pgxpool.Pool, identity app.IdentityProvider) *Store {
	return &Store{db: db, identity: identity}
}

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
