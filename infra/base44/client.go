package base44

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/CrestNiraj12/tripshare/domain"
	"github.com/CrestNiraj12/tripshare/infra/auth"
)

// Client is a thin HTTP wrapper for the base44 entity API.
// It handles base URL construction, the app header and bearer token injection.
type Client struct {
	baseURL       string
	appID         string
	tokenProvider auth.TokenProvider
	http          *http.Client
}

// NewClient creates a base44 API client.
func NewClient(baseURL, appID string, tp auth.TokenProvider) *Client {
	return &Client{
		baseURL:       baseURL,
		appID:         appID,
		tokenProvider: tp,
		http:          &http.Client{Timeout: 15 * time.Second},
	}
}

// entityPath returns the collection path of an entity, e.g. /api/apps/{id}/entities/Trip.
func (c *Client) entityPath(entity string) string {
	return "/api/apps/" + url.PathEscape(c.appID) + "/entities/" + entity
}

// Get performs an authenticated GET request.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post performs an authenticated POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Put performs an authenticated PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

// Delete performs an authenticated DELETE request.
func (c *Client) Delete(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	// Signed-out users read public entities anonymously.
	token, err := c.tokenProvider.AccessToken()
	if err != nil {
		if !errors.Is(err, domain.ErrNoSession) {
			return nil, fmt.Errorf("API %s %s: %w", method, path, err)
		}
		token = ""
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-App-Id", c.appID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("API %s %s: %w", method, path, domain.ErrUnauthorized)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("API %s %s: %w", method, path, domain.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("API %s %s returned %d: %s", method, path, resp.StatusCode, truncate(data, 256))
	}
	return data, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}
