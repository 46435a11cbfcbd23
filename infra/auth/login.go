package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CrestNiraj12/tripshare/domain"
	"github.com/CrestNiraj12/tripshare/infra/browser"
)

// Opener opens a URL for the user. Replaced in tests.
var Opener = browser.Open

// EnsureLogin guarantees a valid access token exists at tokenPath.
// It validates an unexpired stored token and falls back to browser login if needed.
func EnsureLogin(ctx context.Context, baseURL, appID, tokenPath string, callbackPort int) error {
	token, err := NewFileTokenProvider(tokenPath).AccessToken()
	if err == nil {
		valid, err := validateToken(ctx, baseURL, appID, token)
		if err != nil {
			return err
		}
		if valid {
			return nil
		}
	}

	token, err = runBrowserLogin(ctx, baseURL, appID, callbackPort)
	if err != nil {
		return err
	}

	return writeToken(tokenPath, token)
}

func mePath(appID string) string {
	return "/api/apps/" + url.PathEscape(appID) + "/entities/User/me"
}

func validateToken(ctx context.Context, baseURL, appID, token string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+mePath(appID), nil)
	if err != nil {
		return false, fmt.Errorf("creating token validation request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-App-Id", appID)

	resp, err := (&http.Client{Timeout: 10 * time.Second}).Do(req)
	if err != nil {
		return false, fmt.Errorf("validating access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return false, fmt.Errorf("token validation failed: %d %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return true, nil
}

// loginURL is the hosted login page; after sign-in it redirects to redirectURI
// with an access_token query parameter appended.
func loginURL(baseURL, appID, redirectURI string) string {
	return baseURL + "/login?" + url.Values{
		"app_id":   {appID},
		"from_url": {redirectURI},
	}.Encode()
}

// callbackHandler accepts exactly one redirect carrying the expected state.
func callbackHandler(state string, tokenCh chan<- string, errCh chan<- error) http.Handler {
	fail := func(w http.ResponseWriter, msg string, err error) {
		http.Error(w, msg, http.StatusBadRequest)
		select {
		case errCh <- err:
		default:
		}
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/callback" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if q.Get("state") != state {
			fail(w, "invalid login state", errors.New("login state mismatch"))
			return
		}
		if e := q.Get("error"); e != "" {
			fail(w, "login denied", fmt.Errorf("login error: %s", e))
			return
		}
		token := strings.TrimSpace(q.Get("access_token"))
		if token == "" {
			fail(w, "missing access token", errors.New("login callback missing access token"))
			return
		}
		_, _ = io.WriteString(w, domain.AppTitle+" login complete. You can return to the terminal.")
		select {
		case tokenCh <- token:
		default:
		}
	})
}

func runBrowserLogin(ctx context.Context, baseURL, appID string, callbackPort int) (string, error) {
	state, err := randomState()
	if err != nil {
		return "", fmt.Errorf("generating login state: %w", err)
	}
	redirectURI := fmt.Sprintf("http://127.0.0.1:%d/callback?state=%s", callbackPort, url.QueryEscape(state))

	tokenCh := make(chan string, 1)
	errCh := make(chan error, 1)
	srv := &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", callbackPort),
		Handler:           callbackHandler(state, tokenCh, errCh),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case errCh <- fmt.Errorf("login callback server: %w", err):
			default:
			}
		}
	}()
	defer func() { _ = srv.Shutdown(context.Background()) }()

	authURL := loginURL(baseURL, appID, redirectURI)
	fmt.Printf("Opening browser to sign in...\nIf it does not open, visit:\n%s\n\n", authURL)
	_ = Opener(authURL)

	timeout := time.NewTimer(2 * time.Minute)
	defer timeout.Stop()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-errCh:
		return "", err
	case token := <-tokenCh:
		return token, nil
	case <-timeout.C:
		return "", errors.New("login timed out")
	}
}

func randomState() (string, error) {
	return randomToken(24)
}

func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func writeToken(path, token string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	return os.WriteFile(path, []byte(strings.TrimSpace(token)), 0o600)
}

// Logout removes the stored token. A missing token is not an error.
func Logout(tokenPath string) error {
	if err := os.Remove(tokenPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing token: %w", err)
	}
	return nil
}
