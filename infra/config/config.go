package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendBase44   = "base44"
	BackendPostgres = "postgres"

	defaultBaseURL      = "https://app.base44.com"
	defaultAppID        = "68e82e0380ac6e4a26051c6f"
	defaultCallbackPort = 45145
	defaultStaleAfter   = 5 * time.Minute
	defaultEvictAfter   = 10 * time.Minute
)

// Config holds application-level configuration.
type Config struct {
	Backend      string // "base44" or "postgres"
	BaseURL      string // base44 API root, e.g. "https://app.base44.com"
	AppID        string
	WebURL       string // Public site, used to build profile and page links
	DatabaseURL  string // Postgres DSN, postgres backend only
	NatsURL      string // Optional; enables cross-device like invalidation
	TokenPath    string
	CallbackPort int
	LogFile      string // "-" disables logging
	LogLevel     string

	LikesStaleAfter time.Duration
	LikesEvictAfter time.Duration
}

// fileConfig is the YAML layout of the optional config file.
type fileConfig struct {
	Backend      string `yaml:"backend"`
	BaseURL      string `yaml:"base_url"`
	AppID        string `yaml:"app_id"`
	WebURL       string `yaml:"web_url"`
	DatabaseURL  string `yaml:"database_url"`
	NatsURL      string `yaml:"nats_url"`
	AuthDir      string `yaml:"auth_dir"`
	CallbackPort int    `yaml:"callback_port"`
	Log          struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`
	Likes struct {
		StaleAfter string `yaml:"stale_after"`
		EvictAfter string `yaml:"evict_after"`
	} `yaml:"likes"`
}

// Load reads the optional YAML config file and then environment variables, which win.
//
//	TRIPSHARE_CONFIG              config file (default: ~/.config/tripshare/config.yaml)
//	TRIPSHARE_BACKEND             "base44" (default) or "postgres"
//	TRIPSHARE_BASE_URL            base44 API root, https only
//	TRIPSHARE_APP_ID              base44 application ID
//	TRIPSHARE_WEB_URL             public site URL (default: base URL)
//	TRIPSHARE_DATABASE_URL        Postgres DSN (required for postgres)
//	TRIPSHARE_NATS_URL            NATS server for like-change events (optional)
//	TRIPSHARE_AUTH_DIR            token directory (default: ~/.config/tripshare)
//	TRIPSHARE_CALLBACK_PORT       login callback port (default: 45145)
//	TRIPSHARE_LOG_FILE            log file (default: <auth dir>/tripshare.log, "-" disables)
//	TRIPSHARE_LOG_LEVEL           debug, info, warn, error (default: info)
//	TRIPSHARE_LIKES_STALE_AFTER   like cache freshness (default: 5m)
//	TRIPSHARE_LIKES_EVICT_AFTER   like cache retention (default: 10m)
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("cannot determine home directory: %w", err)
	}
	defaultDir := filepath.Join(home, ".config", "tripshare")

	path := os.Getenv("TRIPSHARE_CONFIG")
	explicit := path != ""
	if !explicit {
		path = filepath.Join(defaultDir, "config.yaml")
	}
	fc, err := readFile(path, explicit)
	if err != nil {
		return Config{}, err
	}

	authDir := pick(os.Getenv("TRIPSHARE_AUTH_DIR"), fc.AuthDir, defaultDir)

	cfg := Config{
		Backend:     strings.ToLower(pick(os.Getenv("TRIPSHARE_BACKEND"), fc.Backend, BackendBase44)),
		AppID:       pick(os.Getenv("TRIPSHARE_APP_ID"), fc.AppID, defaultAppID),
		DatabaseURL: pick(os.Getenv("TRIPSHARE_DATABASE_URL"), fc.DatabaseURL, ""),
		NatsURL:     pick(os.Getenv("TRIPSHARE_NATS_URL"), fc.NatsURL, ""),
		TokenPath:   filepath.Join(authDir, "token"),
		LogFile:     pick(os.Getenv("TRIPSHARE_LOG_FILE"), fc.Log.File, filepath.Join(authDir, "tripshare.log")),
		LogLevel:    strings.ToLower(pick(os.Getenv("TRIPSHARE_LOG_LEVEL"), fc.Log.Level, "info")),
	}

	cfg.BaseURL, err = normalizeURL("TRIPSHARE_BASE_URL", pick(os.Getenv("TRIPSHARE_BASE_URL"), fc.BaseURL, defaultBaseURL))
	if err != nil {
		return Config{}, err
	}
	cfg.WebURL, err = normalizeURL("TRIPSHARE_WEB_URL", pick(os.Getenv("TRIPSHARE_WEB_URL"), fc.WebURL, cfg.BaseURL))
	if err != nil {
		return Config{}, err
	}

	cfg.CallbackPort = defaultCallbackPort
	if fc.CallbackPort != 0 {
		cfg.CallbackPort = fc.CallbackPort
	}
	if v := os.Getenv("TRIPSHARE_CALLBACK_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TRIPSHARE_CALLBACK_PORT: %w", err)
		}
		cfg.CallbackPort = port
	}
	if cfg.CallbackPort < 1024 || cfg.CallbackPort > 65535 {
		return Config{}, fmt.Errorf("invalid TRIPSHARE_CALLBACK_PORT: %d out of range", cfg.CallbackPort)
	}

	cfg.LikesStaleAfter, err = duration("TRIPSHARE_LIKES_STALE_AFTER", fc.Likes.StaleAfter, defaultStaleAfter)
	if err != nil {
		return Config{}, err
	}
	cfg.LikesEvictAfter, err = duration("TRIPSHARE_LIKES_EVICT_AFTER", fc.Likes.EvictAfter, defaultEvictAfter)
	if err != nil {
		return Config{}, err
	}
	if cfg.LikesEvictAfter < cfg.LikesStaleAfter {
		return Config{}, errors.New("likes evict-after must not be shorter than stale-after")
	}

	switch cfg.Backend {
	case BackendBase44:
		if cfg.AppID == "" {
			return Config{}, errors.New("TRIPSHARE_APP_ID is required for the base44 backend")
		}
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("TRIPSHARE_DATABASE_URL is required for the postgres backend")
		}
	default:
		return Config{}, fmt.Errorf("invalid TRIPSHARE_BACKEND %q: must be %s or %s", cfg.Backend, BackendBase44, BackendPostgres)
	}

	return cfg, nil
}

func readFile(path string, required bool) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return fc, nil
		}
		return fc, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return fc, nil
}

func normalizeURL(name, raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid %s: must be an absolute URL", name)
	}
	if parsed.Scheme != "https" {
		return "", fmt.Errorf("invalid %s: only https is allowed", name)
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

func duration(env, fromFile string, fallback time.Duration) (time.Duration, error) {
	raw := pick(os.Getenv(env), fromFile, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", env, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", env)
	}
	return d, nil
}

// pick returns the first non-blank value.
func pick(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
