package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Storage   StorageConfig
	Registry  RegistryConfig
	Notify    NotifyConfig
	Shell     ShellConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// AllowedOrigins lists CORS origins; empty allows any origin
	AllowedOrigins []string `envconfig:"CORS_ORIGINS" default:""`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// StorageConfig holds key-value store configuration. An empty path keeps
// state in memory.
type StorageConfig struct {
	Path string `envconfig:"STORE_PATH" default:""`
}

// RegistryConfig holds app registry configuration.
type RegistryConfig struct {
	AppsDir string `envconfig:"APPS_DIR" default:""`
}

// NotifyConfig holds launch notification configuration.
type NotifyConfig struct {
	WebhookURL        string        `envconfig:"NOTIFY_WEBHOOK_URL" default:""`
	Timeout           time.Duration `envconfig:"NOTIFY_TIMEOUT" default:"5s"`
	RequestsPerSecond float64       `envconfig:"NOTIFY_RPS" default:"10"`
	QueueSize         int           `envconfig:"NOTIFY_QUEUE" default:"256"`
}

// ShellConfig holds shell defaults.
type ShellConfig struct {
	TuningFile     string `envconfig:"SHELL_TUNING_FILE" default:""`
	ViewportWidth  int    `envconfig:"VIEWPORT_WIDTH" default:"1366"`
	ViewportHeight int    `envconfig:"VIEWPORT_HEIGHT" default:"768"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Notify: NotifyConfig{
			Timeout:           5 * time.Second,
			RequestsPerSecond: 10,
			QueueSize:         256,
		},
		Shell: ShellConfig{
			ViewportWidth:  1366,
			ViewportHeight: 768,
		},
	}
}
