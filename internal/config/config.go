// Package config loads portal settings from environment variables.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/carepoint/portal-client/internal/core/cache"
)

const (
	SessionStoreFile   = "file"
	SessionStoreRedis  = "redis"
	SessionStoreMemory = "memory"
)

type Config struct {
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
	Sandbox SandboxConfig
}

type APIConfig struct {
	BaseURL string `env:"PORTAL_API_BASE_URL, default=http://localhost:5000"`
	// Timeout bounds every remote call; zero leaves calls bounded by their
	// context only.
	Timeout  time.Duration `env:"PORTAL_API_TIMEOUT, default=0s"`
	CacheTTL time.Duration `env:"PORTAL_CACHE_TTL,   default=5m"`
	DemoMode bool          `env:"PORTAL_DEMO_MODE,   default=false"`
}

type SessionConfig struct {
	Store string `env:"PORTAL_SESSION_STORE, default=file"`
	File  string `env:"PORTAL_SESSION_FILE"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type SandboxConfig struct {
	Port      string        `env:"SANDBOX_PORT,      default=8080"`
	JWTSecret string        `env:"JWT_SECRET,        default=sandbox-secret"`
	TokenTTL  time.Duration `env:"SANDBOX_TOKEN_TTL, default=24h"`
}

// Pretty reports whether logs should be written for a terminal.
func (c *Config) Pretty() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.API.CacheTTL < 0 {
		cfg.API.CacheTTL = cache.DefaultTTL
	}
	switch cfg.Session.Store {
	case SessionStoreFile, SessionStoreRedis, SessionStoreMemory:
	default:
		return nil, fmt.Errorf("config: unknown PORTAL_SESSION_STORE %q", cfg.Session.Store)
	}
	if cfg.Session.Store == SessionStoreFile && cfg.Session.File == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config: resolve session file: %w", err)
		}
		cfg.Session.File = filepath.Join(home, ".portal", "session.json")
	}
	return &cfg, nil
}
