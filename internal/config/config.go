package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"calcify/internal/storage"

	"github.com/joho/godotenv"
)

const (
	DefaultAddr        = ":8080"
	DefaultStorePath   = "calcify-data"
	DefaultSessionTTL  = 30 * time.Minute
	DefaultMaxSessions = 1000
)

// Config holds the process settings read from the environment.
type Config struct {
	Addr      string
	Store     string
	StorePath string
	Telemetry bool
	LogFile   string

	// SessionTTL and MaxSessions bound the HTTP session registry; zero
	// disables the respective limit.
	SessionTTL  time.Duration
	MaxSessions int
}

// LoadDotEnv loads environment variables from .env when present.
// Existing process environment variables are not overridden.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load .env: %w", err)
}

// Load reads the CALCIFY_* variables. Unset values fall back to defaults.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	cfg := Config{
		Addr:      getenv("CALCIFY_ADDR"),
		Store:     strings.ToLower(strings.TrimSpace(getenv("CALCIFY_STORE"))),
		StorePath: getenv("CALCIFY_STORE_PATH"),
		LogFile:   getenv("CALCIFY_LOG_FILE"),

		SessionTTL:  DefaultSessionTTL,
		MaxSessions: DefaultMaxSessions,
	}

	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	switch cfg.Store {
	case "", storage.KindMemory:
		cfg.Store = storage.KindMemory
	case storage.KindFile, storage.KindSQLite:
		if cfg.StorePath == "" {
			cfg.StorePath = DefaultStorePath
			if cfg.Store == storage.KindSQLite {
				cfg.StorePath += ".db"
			}
		}
	default:
		return Config{}, fmt.Errorf("CALCIFY_STORE: unknown store %q", cfg.Store)
	}

	if v := getenv("CALCIFY_TELEMETRY"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("CALCIFY_TELEMETRY: %w", err)
		}
		cfg.Telemetry = on
	}

	if v := getenv("CALCIFY_SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl < 0 {
			return Config{}, fmt.Errorf("CALCIFY_SESSION_TTL: invalid duration %q", v)
		}
		cfg.SessionTTL = ttl
	}

	if v := getenv("CALCIFY_MAX_SESSIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("CALCIFY_MAX_SESSIONS: invalid count %q", v)
		}
		cfg.MaxSessions = n
	}

	return cfg, nil
}
