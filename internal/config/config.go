// Package config resolves runtime settings from defaults, .env files,
// WATCHLIST_* environment variables and command-line flags, in that order.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// EnvProduction is the WATCHLIST_ENV value that enables production checks.
const EnvProduction = "production"

// ErrSecretRequired is returned when production runs without WATCHLIST_SECRET_KEY.
var ErrSecretRequired = errors.New("WATCHLIST_SECRET_KEY is required in production")

// Config holds runtime settings for the watchlist server and commands.
type Config struct {
	Addr          string
	DBPath        string
	Env           string
	SecretKeyHex  string
	SessionTTL    time.Duration
	LogLevel      slog.Level
	SlowRequestMs int
	SlowQueryMs   int
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.DBPath = "watchlist.db"
	c.Env = "development"
	c.SecretKeyHex = ""
	c.SessionTTL = 24 * time.Hour
	c.LogLevel = slog.LevelInfo
	c.SlowRequestMs = 200
	c.SlowQueryMs = 50
}

// Load builds a Config from defaults, then any of envFiles that exist, then
// the process environment. Variables already set in the environment win over
// .env values.
func Load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays WATCHLIST_* variables found through lookup.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("WATCHLIST_ADDR"); ok && v != "" {
		c.Addr = v
	}
	if v, ok := lookup("WATCHLIST_DB"); ok && v != "" {
		c.DBPath = v
	}
	if v, ok := lookup("WATCHLIST_ENV"); ok && v != "" {
		c.Env = v
	}
	if v, ok := lookup("WATCHLIST_SECRET_KEY"); ok {
		c.SecretKeyHex = v
	}
	if v, ok := lookup("WATCHLIST_SESSION_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return fmt.Errorf("WATCHLIST_SESSION_TTL: invalid duration %q", v)
		}
		c.SessionTTL = d
	}
	if v, ok := lookup("WATCHLIST_LOG_LEVEL"); ok && v != "" {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("WATCHLIST_LOG_LEVEL: %w", err)
		}
	}
	if v, ok := lookup("WATCHLIST_SLOW_REQUEST_MS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("WATCHLIST_SLOW_REQUEST_MS: invalid value %q", v)
		}
		c.SlowRequestMs = n
	}
	if v, ok := lookup("WATCHLIST_SLOW_QUERY_MS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("WATCHLIST_SLOW_QUERY_MS: invalid value %q", v)
		}
		c.SlowQueryMs = n
	}
	return nil
}

// RegisterServeFlags binds the flags accepted by the serve command.
func (c *Config) RegisterServeFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Addr, "addr", c.Addr, "listen address")
	c.RegisterDBFlag(fs)
}

// RegisterDBFlag binds the database path flag shared by every command.
func (c *Config) RegisterDBFlag(fs *flag.FlagSet) {
	fs.StringVar(&c.DBPath, "db", c.DBPath, "path to the SQLite database file")
}

// IsProduction reports whether production checks apply.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// SecretKey returns the 32-byte key used for CSRF tokens and signed cookies.
// PRE: none
// POST: Returns the decoded WATCHLIST_SECRET_KEY; in development a random key
// is generated when it is unset, in production ErrSecretRequired is returned
func (c *Config) SecretKey() ([]byte, error) {
	if c.SecretKeyHex != "" {
		key, err := hex.DecodeString(c.SecretKeyHex)
		if err != nil || len(key) != 32 {
			return nil, errors.New("WATCHLIST_SECRET_KEY must be 64 hex characters (32 bytes)")
		}
		return key, nil
	}
	if c.IsProduction() {
		return nil, ErrSecretRequired
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate secret key: %w", err)
	}
	slog.Warn("config_random_secret", "detail", "sessions and flashes will not survive restart; set WATCHLIST_SECRET_KEY")
	return key, nil
}

// NewLogger returns the process logger: JSON in production, text otherwise.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
