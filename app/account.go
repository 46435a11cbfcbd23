package app

import (
	"context"
	"time"

	"github.com/CrestNiraj12/tripshare/domain"
)

// ProfilePatch lists profile fields to update. Nil fields are left untouched.
type ProfilePatch struct {
	PhotoURL            *string
	PhotoUpdatedAt      *time.Time
	OnboardingCompleted *bool
}

// AccountService provides the authenticated user's account.
type AccountService interface {
	// Me returns the authenticated user.
	Me(ctx context.Context) (domain.User, error)

	// UpdateMe applies a partial update and returns the updated user.
	UpdateMe(ctx context.Context, patch ProfilePatch) (domain.User, error)
}

// IdentityProvider supplies the signed-in user's identity and session changes.
type IdentityProvider interface {
	// CurrentUserID returns the signed-in user's ID, or domain.ErrNoSession.
	CurrentUserID(ctx context.Context) (string, error)

	// OnSessionChange registers fn to be called with the new user ID ("" on logout)
	// whenever the session changes. The returned func unregisters it.
	OnSessionChange(fn func(userID string)) (unsubscribe func())
}
