// Package browser opens http(s) URLs in the user's browser.
package browser

import (
	"errors"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnsafeURL is returned for anything that is not an absolute http(s) URL.
var ErrUnsafeURL = errors.New("refusing to open non-http url")

// IsSafeExternalURL reports whether raw is an absolute http or https URL.
func IsSafeExternalURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Host == "" {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}

// Open starts the platform's URL opener without waiting for it.
func Open(rawURL string) error {
	if !IsSafeExternalURL(rawURL) {
		return ErrUnsafeURL
	}
	return command(runtime.GOOS, rawURL).Start()
}

func command(goos, rawURL string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", rawURL)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		return exec.Command("xdg-open", rawURL)
	}
}
