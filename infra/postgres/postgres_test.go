package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrestNiraj12/tripshare/app"
	"github.com/CrestNiraj12/tripshare/domain"
)

func TestOrderClause(t *testing.T) {
	newest, err := orderClause(domain.SortNewestFirst)
	require.NoError(t, err)
	assert.Contains(t, newest, "created_at DESC")

	def, err := orderClause("")
	require.NoError(t, err)
	assert.Equal(t, newest, def)

	oldest, err := orderClause("created_date")
	require.NoError(t, err)
	assert.Contains(t, oldest, "created_at ASC")

	_, err = orderClause("title; DROP TABLE trips")
	assert.Error(t, err)
}

func TestLikeQuery(t *testing.T) {
	q, args := likeQuery(app.LikeFilter{})
	assert.NotContains(t, q, "WHERE")
	assert.Empty(t, args)

	q, args = likeQuery(app.LikeFilter{LikerID: "u1"})
	assert.Contains(t, q, "WHERE liker_id = $1")
	assert.Equal(t, []any{"u1"}, args)

	q, args = likeQuery(app.LikeFilter{LikerID: "u1", TripID: "t1"})
	assert.Contains(t, q, "liker_id = $1 AND trip_id = $2")
	assert.Equal(t, []any{"u1", "t1"}, args)
}

func TestPgCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: codeUniqueViolation})
	assert.Equal(t, codeUniqueViolation, pgCode(err))
	assert.Empty(t, pgCode(errors.New("plain")))
}

type fixedIdentity string

func (f fixedIdentity) CurrentUserID(context.Context) (string, error) {
	if f == "" {
		return "", domain.ErrNoSession
	}
	return string(f), nil
}

func (fixedIdentity) OnSessionChange(func(string)) func() { return func() {} }

func TestStore_LikesRequireSignedInOwner(t *testing.T) {
	ctx := context.Background()
	// The identity check happens before any query, so no pool is needed.
	store := NewStore(nil, fixedIdentity("u1"))

	_, err := store.Like(ctx, "u2", "t1")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	anon := NewStore(nil, fixedIdentity(""))
	_, err = anon.Like(ctx, "u1", "t1")
	assert.ErrorIs(t, err, domain.ErrNoSession)
	assert.ErrorIs(t, anon.Unlike(ctx, "l1"), domain.ErrNoSession)
}

// TestStore_Integration runs against a disposable database named by
// TRIPSHARE_TEST_DATABASE_URL.
func TestStore_Integration(t *testing.T) {
	dsn := os.Getenv("TRIPSHARE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TRIPSHARE_TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()
	_, err = pool.Exec(ctx, `DROP TABLE IF EXISTS trip_likes, trips, users`)
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, pool))
	require.NoError(t, Migrate(ctx, pool), "migration is repeatable")

	_, err = pool.Exec(ctx, `
		INSERT INTO users (id, email, full_name, username, picture) VALUES
			('u1', 'a@x', 'Ana', 'ana', 'https://p/ana.png'),
			('u2', 'b@x', 'Ben', 'ben', '');
		INSERT INTO trips (id, created_at, author_id, title) VALUES
			('t1', now() - interval '2 hours', 'u2', 'Oslo'),
			('t2', now() - interval '1 hour', 'u2', 'Lisbon'),
			('t3', now(), 'u1', 'Kyoto');`)
	require.NoError(t, err)

	store := NewStore(pool, fixedIdentity("u1"))

	trips, err := store.ListTrips(ctx, domain.SortNewestFirst)
	require.NoError(t, err)
	require.Len(t, trips, 3)
	assert.Equal(t, []string{"t3", "t2", "t1"}, []string{trips[0].ID, trips[1].ID, trips[2].ID})
	assert.Equal(t, "Ben", trips[1].AuthorName)

	like, err := store.Like(ctx, "u1", "t2")
	require.NoError(t, err)
	assert.NotEmpty(t, like.ID)
	_, err = store.Like(ctx, "u1", "t2")
	assert.ErrorIs(t, err, domain.ErrAlreadyLiked)
	_, err = store.Like(ctx, "u1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	likes, err := store.ListLikes(ctx, app.LikeFilter{LikerID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, []domain.TripLike{like}, likes)

	trips, err = store.ListTrips(ctx, domain.SortNewestFirst)
	require.NoError(t, err)
	assert.Equal(t, 1, trips[1].LikesCount)

	assert.ErrorIs(t, NewStore(pool, fixedIdentity("u2")).Unlike(ctx, like.ID), domain.ErrNotFound,
		"another user cannot remove the like")
	require.NoError(t, store.Unlike(ctx, like.ID))
	assert.ErrorIs(t, store.Unlike(ctx, like.ID), domain.ErrNotFound)

	me, err := store.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://p/ana.png", me.Picture)
	assert.True(t, me.PhotoUpdatedAt.IsZero())

	photo := me.Picture
	at := time.Now().UTC().Truncate(time.Second)
	updated, err := store.UpdateMe(ctx, app.ProfilePatch{PhotoURL: &photo, PhotoUpdatedAt: &at})
	require.NoError(t, err)
	assert.Equal(t, photo, updated.PhotoURL)
	assert.True(t, updated.PhotoUpdatedAt.Equal(at))
	assert.False(t, updated.OnboardingCompleted)

	_, err = NewStore(pool, fixedIdentity("")).Me(ctx)
	assert.ErrorIs(t, err, domain.ErrNoSession)
	_, err = NewStore(pool, fixedIdentity("ghost")).Me(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
