package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port        string `env:"PORT" envDefault:"8080"`
	AppEnv      string `env:"APP_ENV" envDefault:"development"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	Timezone    string `env:"TIMEZONE" envDefault:"America/Sao_Paulo"`

	// Upstream WordPress REST API
	Upstream Upstream `envPrefix:"WORDPRESS_"`

	// Session cookie
	Session Session `envPrefix:"SESSION_"`

	// Local account directory (optional)
	UsersFile string `env:"AUTH_USERS_FILE"`

	// Error log sink (optional)
	DatabaseDSN string `env:"DATABASE_DSN"`

	SentryDSN string `env:"SENTRY_DSN"`

	location *time.Location
}

type Upstream struct {
	BaseURL   string        `env:"API_URL" envDefault:"https://manager.simonetto.com.br/wp-json"`
	APIPrefix string        `env:"API_PREFIX" envDefault:"/api/v1"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

type Session struct {
	Secret       string        `env:"SECRET"`
	TTL          time.Duration `env:"TTL" envDefault:"168h"`
	SecureCookie *bool         `env:"SECURE_COOKIE"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using process environment")
	}
	return Parse()
}

// Parse builds a Config from the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Upstream.BaseURL = strings.TrimRight(cfg.Upstream.BaseURL, "/")
	if cfg.Upstream.APIPrefix != "" && !strings.HasPrefix(cfg.Upstream.APIPrefix, "/") {
		cfg.Upstream.APIPrefix = "/" + cfg.Upstream.APIPrefix
	}
	cfg.Upstream.APIPrefix = strings.TrimRight(cfg.Upstream.APIPrefix, "/")

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.location = loc

	return &cfg, nil
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return errors.New("SESSION_SECRET environment variable is required")
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.Upstream.BaseURL == "" {
		return errors.New("WORDPRESS_API_URL environment variable is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// SecureCookies defaults to true in production unless SESSION_SECURE_COOKIE says otherwise.
func (c *Config) SecureCookies() bool {
	if c.Session.SecureCookie != nil {
		return *c.Session.SecureCookie
	}
	return c.IsProduction()
}

// Location is the time zone used for "today" and day buckets.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
