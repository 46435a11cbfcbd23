package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/CrestNiraj12/tripshare/domain"
)

// TokenProvider supplies an access token for API authentication.
// It returns domain.ErrNoSession when nobody is signed in.
type TokenProvider interface {
	AccessToken() (string, error)
}

// sessionClaims is the part of the access token the client reads.
type sessionClaims struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// FileTokenProvider reads the bearer token written by login. The token's signature
// is not checked here; the backend verifies it on every request.
type FileTokenProvider struct {
	path   string
	now    func() time.Time
	parser *jwt.Parser
}

// NewFileTokenProvider creates a TokenProvider that reads from the given file path.
func NewFileTokenProvider(path string) *FileTokenProvider {
	return &FileTokenProvider{
		path:   path,
		now:    time.Now,
		parser: jwt.NewParser(),
	}
}

// Path is the token file location.
func (f *FileTokenProvider) Path() string { return f.path }

// AccessToken returns the stored token. A missing, empty or expired token yields
// domain.ErrNoSession.
func (f *FileTokenProvider) AccessToken() (string, error) {
	raw, _, err := f.session()
	return raw, err
}

// UserID returns the subject of the stored token, falling back to its user_id claim.
func (f *FileTokenProvider) UserID() (string, error) {
	_, claims, err := f.session()
	if err != nil {
		return "", err
	}
	id := claims.Subject
	if id == "" {
		id = claims.UserID
	}
	if id == "" {
		return "", errors.New("session token has no subject")
	}
	return id, nil
}

func (f *FileTokenProvider) session() (string, sessionClaims, error) {
	var claims sessionClaims
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", claims, domain.ErrNoSession
		}
		return "", claims, fmt.Errorf("reading token from %s: %w", f.path, err)
	}

	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return "", claims, domain.ErrNoSession
	}
	if _, _, err := f.parser.ParseUnverified(raw, &claims); err != nil {
		return "", claims, fmt.Errorf("parsing session token: %w", err)
	}
	if claims.ExpiresAt != nil && !f.now().Before(claims.ExpiresAt.Time) {
		return "", claims, domain.ErrNoSession
	}
	return raw, claims, nil
}
