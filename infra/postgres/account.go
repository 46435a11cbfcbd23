package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/CrestNiraj12/tripshare/app"
	"github.com/CrestNiraj12/tripshare/domain"
)

const userColumns = `id, email, full_name, username, picture, photo_url, photo_updated_at, onboarding_completed`

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	var photoAt *time.Time
	if err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.Username, &u.Picture, &u.PhotoURL, &photoAt, &u.OnboardingCompleted); err != nil {
		return domain.User{}, err
	}
	if photoAt != nil {
		u.PhotoUpdatedAt = photoAt.UTC()
	}
	return u, nil
}

func (s *Store) Me(ctx context.Context) (domain.User, error) {
	id, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return domain.User{}, err
	}
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("db: get user: %w", err)
	}
	return u, nil
}

func (s *Store) UpdateMe(ctx context.Context, patch app.ProfilePatch) (domain.User, error) {
	id, err := s.identity.CurrentUserID(ctx)
	if err != nil {
		return domain.User{}, err
	}
	u, err := scanUser(s.db.QueryRow(ctx, `
		UPDATE users SET
			photo_url            = COALESCE($2, photo_url),
			photo_updated_at     = COALESCE($3, photo_updated_at),
			onboarding_completed = COALESCE($4, onboarding_completed)
		WHERE id = $1
		RETURNING `+userColumns,
		id, patch.PhotoURL, patch.PhotoUpdatedAt, patch.OnboardingCompleted))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("db: update user: %w", err)
	}
	return u, nil
}
