package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment     string        `env:"ENV" envDefault:"development"`
	Port            int           `env:"PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	RateLimit       int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"200"`

	// Base64 keys for the session cookie. Random keys are generated when empty,
	// which logs every browser out on restart.
	SessionAuthKey       string `env:"SESSION_AUTH_KEY"`
	SessionEncryptionKey string `env:"SESSION_ENCRYPTION_KEY"`
	SessionMaxAge        int    `env:"SESSION_MAX_AGE" envDefault:"604800"`

	// Workspaces unused for SessionMaxAge are evicted on this interval.
	WorkspaceSweepInterval time.Duration `env:"WORKSPACE_SWEEP_INTERVAL" envDefault:"1m"`

	DemoEmail    string `env:"DEMO_EMAIL" envDefault:"demo@example.com"`
	DemoPassword string `env:"DEMO_PASSWORD" envDefault:"password"`

	SeedDemoVideos bool `env:"SEED_DEMO_VIDEOS" envDefault:"true"`

	PlatformUploadDelay time.Duration `env:"PLATFORM_UPLOAD_DELAY" envDefault:"1s"`
	PlatformFailureRate float64       `env:"PLATFORM_FAILURE_RATE" envDefault:"0"`
	PlatformRedirectURL string        `env:"PLATFORM_REDIRECT_URL"`

	MaxUploadBytes      int64 `env:"MAX_UPLOAD_BYTES" envDefault:"536870912"`
	NotificationBacklog int   `env:"NOTIFICATION_BACKLOG" envDefault:"50"`

	// Notifications are mirrored to Redis pub/sub when RedisAddr is set.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisChannel  string `env:"REDIS_CHANNEL" envDefault:"yt_approval_hub:notifications"`
}

// Load reads an optional .env file and parses the environment into Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}
	return Parse()
}

func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.RedisAddr = strings.TrimSpace(cfg.RedisAddr)
	for i, origin := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.PlatformUploadDelay < 0 {
		return fmt.Errorf("PLATFORM_UPLOAD_DELAY must not be negative")
	}
	if c.PlatformFailureRate < 0 || c.PlatformFailureRate > 1 {
		return fmt.Errorf("PLATFORM_FAILURE_RATE must be between 0 and 1, got %v", c.PlatformFailureRate)
	}
	if c.SessionMaxAge <= 0 {
		return fmt.Errorf("SESSION_MAX_AGE must be positive")
	}
	if c.WorkspaceSweepInterval <= 0 {
		return fmt.Errorf("WORKSPACE_SWEEP_INTERVAL must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if _, err := c.SessionKeys(); err != nil {
		return err
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// WorkspaceIdleTimeout is how long an unused workspace outlives its last
// request; it matches the session cookie lifetime.
func (c *Config) WorkspaceIdleTimeout() time.Duration {
	return time.Duration(c.SessionMaxAge) * time.Second
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SessionKeys decodes the configured cookie keys in the order gorilla/sessions
// expects: authentication key, then optional encryption key. It returns nil
// when no keys are configured.
func (c *Config) SessionKeys() ([][]byte, error) {
	if c.SessionAuthKey == "" {
		if c.SessionEncryptionKey != "" {
			return nil, errors.New("SESSION_ENCRYPTION_KEY set without SESSION_AUTH_KEY")
		}
		return nil, nil
	}

	auth, err := base64.StdEncoding.DecodeString(c.SessionAuthKey)
	if err != nil {
		return nil, fmt.Errorf("SESSION_AUTH_KEY is not valid base64: %w", err)
	}
	keys := [][]byte{auth}

	if c.SessionEncryptionKey != "" {
		enc, err := base64.StdEncoding.DecodeString(c.SessionEncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("SESSION_ENCRYPTION_KEY is not valid base64: %w", err)
		}
		switch len(enc) {
		case 16, 24, 32:
		default:
			return nil, fmt.Errorf("SESSION_ENCRYPTION_KEY must decode to 16, 24 or 32 bytes, got %d", len(enc))
		}
		keys = append(keys, enc)
	}
	return keys, nil
}
