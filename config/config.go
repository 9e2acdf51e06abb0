package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	auth "github.com/goliatone/go-guest-auth"
)

const (
	minGuestCookieMaxAge = time.Minute
	minSessionTTL        = time.Minute
)

// AppConfig is the server configuration, loaded from environment variables.
type AppConfig struct {
	// JWTSecret signs identity tokens. Startup fails when empty.
	JWTSecret   string        `env:"JWT_SECRET"`
	NodeEnv     string        `env:"NODE_ENV"     envDefault:"development"`
	TokenTTL    time.Duration `env:"TOKEN_TTL"    envDefault:"0s"`
	TokenIssuer string        `env:"TOKEN_ISSUER"`

	GuestCookie   CookieConfig  `envPrefix:"GUEST_COOKIE_"`
	SessionCookie string        `env:"SESSION_COOKIE_NAME" envDefault:"session"`
	SessionTTL    time.Duration `env:"SESSION_TTL"         envDefault:"720h"`

	Github OAuthConfig `envPrefix:"GITHUB_"`
	Google OAuthConfig `envPrefix:"GOOGLE_"`

	HTTP     HTTPConfig     `envPrefix:"HTTP_"`
	Database DatabaseConfig `envPrefix:"DATABASE_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// CookieConfig holds the guest cookie name and lifetime
type CookieConfig struct {
	Name   string        `env:"NAME"    envDefault:"guest"`
	MaxAge time.Duration `env:"MAX_AGE" envDefault:"720h"`
}

// OAuthConfig is a provider client pair. A provider is enabled when both
// values are set.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT"`
	ClientSecret string `env:"SECRET"`
}

type HTTPConfig struct {
	Addr            string        `env:"ADDR"             envDefault:":3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type DatabaseConfig struct {
	DSN string `env:"DSN" envDefault:"file:guest-auth.db?cache=shared"`
}

// RedisConfig selects the session store. An empty Addr keeps sessions in memory.
type RedisConfig struct {
	Addr     string `env:"ADDR"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB"        envDefault:"0"`
	Prefix   string `env:"PREFIX"    envDefault:"session:"`
}

var _ auth.Config = (*AppConfig)(nil)

// Load reads an optional .env file and parses the environment
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	return Parse(env.Options{})
}

// Parse parses the configuration with opts. Tests pass Environment to
// avoid touching the process environment.
func Parse(opts env.Options) (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	return cfg, nil
}

// Sanitize applies guardrails to values loaded from env
func (c *AppConfig) Sanitize() {
	c.NodeEnv = strings.ToLower(strings.TrimSpace(c.NodeEnv))
	if c.NodeEnv == "" {
		c.NodeEnv = "development"
	}

	if c.TokenTTL < 0 {
		c.TokenTTL = 0
	}

	c.GuestCookie.Name = strings.TrimSpace(c.GuestCookie.Name)
	if c.GuestCookie.Name == "" {
		c.GuestCookie.Name = auth.DefaultGuestCookieName
	}
	if c.GuestCookie.MaxAge < minGuestCookieMaxAge {
		c.GuestCookie.MaxAge = auth.DefaultGuestCookieMaxAge
	}

	c.SessionCookie = strings.TrimSpace(c.SessionCookie)
	if c.SessionCookie == "" {
		c.SessionCookie = auth.DefaultSessionCookieName
	}
	if c.SessionTTL < minSessionTTL {
		c.SessionTTL = auth.DefaultSessionDuration
	}

	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":3000"
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		c.HTTP.ShutdownTimeout = 10 * time.Second
	}

	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "session:"
	}
}

func (c *AppConfig) GetSigningKey() string {
	return c.JWTSecret
}

func (c *AppConfig) GetTokenExpiration() time.Duration {
	return c.TokenTTL
}

func (c *AppConfig) GetIssuer() string {
	return c.TokenIssuer
}

// IsProduction reports NODE_ENV=production
func (c *AppConfig) IsProduction() bool {
	return c.NodeEnv == "production"
}

func (c *AppConfig) GetGuestCookieName() string {
	return c.GuestCookie.Name
}

func (c *AppConfig) GetGuestCookieMaxAge() time.Duration {
	return c.GuestCookie.MaxAge
}

func (c *AppConfig) GetSessionCookieName() string {
	return c.SessionCookie
}

func (c *AppConfig) GetSessionDuration() time.Duration {
	return c.SessionTTL
}

// OAuthClients returns the client pairs keyed by provider
func (c *AppConfig) OAuthClients() map[auth.Provider]auth.OAuthClient {
	return map[auth.Provider]auth.OAuthClient{
		auth.ProviderGithub: {ClientID: c.Github.ClientID, ClientSecret: c.Github.ClientSecret},
		auth.ProviderGoogle: {ClientID: c.Google.ClientID, ClientSecret: c.Google.ClientSecret},
	}
}

// UseRedis reports whether sessions go to Redis
func (c *AppConfig) UseRedis() bool {
	return strings.TrimSpace(c.Redis.Addr) != ""
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c *AppConfig) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
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
