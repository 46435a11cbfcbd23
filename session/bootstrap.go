package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/CrestNiraj12/tripshare/app"
	"github.com/CrestNiraj12/tripshare/domain"
)

// Bootstrapper resolves the signed-in user into a Session on start and on every
// identity change.
type Bootstrapper struct {
	identity app.IdentityProvider
	account  app.AccountService
	session  *Session
	logger   *zap.Logger
	now      func() time.Time

	mu sync.Mutex // serializes refreshes
}

// NewBootstrapper wires identity and account into sess.
func NewBootstrapper(identity app.IdentityProvider, account app.AccountService, sess *Session, logger *zap.Logger) *Bootstrapper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bootstrapper{
		identity: identity,
		account:  account,
		session:  sess,
		logger:   logger,
		now:      time.Now,
	}
}

// Start resolves the session once and then follows identity changes until the
// returned stop func is called or ctx ends.
func (b *Bootstrapper) Start(ctx context.Context) (stop func()) {
	// Subscribe first so a change during the initial refresh is not missed.
	unsubscribe := b.identity.OnSessionChange(func(string) {
		if ctx.Err() != nil {
			return
		}
		b.Refresh(ctx)
	})
	b.Refresh(ctx)
	return unsubscribe
}

// Refresh reloads the signed-in user. Failures clear the session.
func (b *Bootstrapper) Refresh(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.identity.CurrentUserID(ctx); err != nil {
		if !errors.Is(err, domain.ErrNoSession) {
			b.logger.Warn("resolving session failed", zap.Error(err))
		}
		b.session.Clear()
		return
	}

	user, err := b.account.Me(ctx)
	if err != nil {
		b.logger.Error("loading user failed", zap.Error(err))
		b.session.Clear()
		return
	}
	b.logger.Info("user loaded", zap.String("user_id", user.ID))

	user = b.syncPhoto(ctx, user)
	b.session.Set(user)
}

// syncPhoto copies the identity provider's picture onto a profile without a photo.
// Failures are logged and the unsynced user is kept.
func (b *Bootstrapper) syncPhoto(ctx context.Context, user domain.User) domain.User {
	if user.Picture == "" || user.PhotoURL != "" {
		return user
	}
	photo := user.Picture
	at := b.now().UTC()
	updated, err := b.account.UpdateMe(ctx, app.ProfilePatch{
		PhotoURL:       &photo,
		PhotoUpdatedAt: &at,
	})
	if err != nil {
		b.logger.Warn("syncing profile photo failed", zap.String("user_id", user.ID), zap.Error(err))
		return user
	}
	return updated
}
