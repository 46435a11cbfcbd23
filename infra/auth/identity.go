package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/CrestNiraj12/tripshare/domain"
)

// TokenIdentity implements app.IdentityProvider over the token file.
type TokenIdentity struct {
	tokens *FileTokenProvider
	path   string
	logger *zap.Logger

	mu     sync.Mutex
	subs   map[int]func(string)
	nextID int
	last   string
	closed bool

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewTokenIdentity creates an identity provider over the token read by tokens.
func NewTokenIdentity(tokens *FileTokenProvider, logger *zap.Logger) *TokenIdentity {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TokenIdentity{
		tokens: tokens,
		path:   filepath.Clean(tokens.Path()),
		logger: logger,
		subs:   make(map[int]func(string)),
	}
}

// CurrentUserID returns the subject of the stored token. A missing, empty or expired
// token yields domain.ErrNoSession.
func (t *TokenIdentity) CurrentUserID(context.Context) (string, error) {
	return t.tokens.UserID()
}

// OnSessionChange registers fn; it runs once for every change of the signed-in user
// observed by Watch.
func (t *TokenIdentity) OnSessionChange(fn func(userID string)) func() {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.subs[id] = fn
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.subs, id)
			t.mu.Unlock()
		})
	}
}

// Watch follows the token file until ctx ends or Close is called. The directory is
// watched rather than the file so that logins (create) and logouts (remove) are seen.
func (t *TokenIdentity) Watch(ctx context.Context) error {
	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating token watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	t.mu.Lock()
	t.last = t.resolve()
	t.watcher = w
	t.done = make(chan struct{})
	done := t.done
	t.mu.Unlock()

	go t.loop(ctx, w, done)
	return nil
}

func (t *TokenIdentity) loop(ctx context.Context, w *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			_ = w.Close()
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != t.path {
				continue
			}
			t.check()
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			t.logger.Warn("token watcher error", zap.Error(err))
		}
	}
}

// check notifies subscribers when the signed-in user differs from the last one seen.
func (t *TokenIdentity) check() {
	next := t.resolve()

	t.mu.Lock()
	if t.closed || next == t.last {
		t.mu.Unlock()
		return
	}
	t.last = next
	handlers := make([]func(string), 0, len(t.subs))
	for _, h := range t.subs {
		handlers = append(handlers, h)
	}
	t.mu.Unlock()

	t.logger.Info("session changed", zap.Bool("signed_in", next != ""))
	for _, h := range handlers {
		h(next)
	}
}

func (t *TokenIdentity) resolve() string {
	id, err := t.CurrentUserID(context.Background())
	if err != nil {
		if !errors.Is(err, domain.ErrNoSession) {
			t.logger.Warn("reading session token failed", zap.Error(err))
		}
		return ""
	}
	return id
}

// Close stops watching and waits for the watch loop to exit.
func (t *TokenIdentity) Close() error {
	t.mu.Lock()
	t.closed = true
	w, done := t.watcher, t.done
	t.watcher = nil
	t.mu.Unlock()

	if w == nil {
		return nil
	}
	err := w.Close()
	<-done
	return err
}
