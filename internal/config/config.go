package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is prepended to every environment variable the config reads.
const EnvPrefix = "MTGINV_"

// Config represents the application configuration.
type Config struct {
	// HTTP server configuration
	Server ServerConfig `toml:"server" envPrefix:"SERVER_"`

	// Database configuration
	Database DatabaseConfig `toml:"database" envPrefix:"DATABASE_"`

	// Scryfall catalog client configuration
	Catalog CatalogConfig `toml:"catalog" envPrefix:"CATALOG_"`

	// Logging configuration
	Logging LoggingConfig `toml:"logging" envPrefix:"LOG_"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string   `toml:"host" env:"HOST"`
	Port            int      `toml:"port" env:"PORT"`
	RequestTimeout  string   `toml:"request_timeout" env:"REQUEST_TIMEOUT"`   // Per-request timeout (e.g., "10m"; imports run inline)
	ShutdownTimeout string   `toml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"` // Graceful shutdown window
	CORSOrigins     []string `toml:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`
	RateLimit       int      `toml:"rate_limit" env:"RATE_LIMIT"` // Requests per minute per IP (0 = unlimited)
}

// DatabaseConfig contains storage settings.
type DatabaseConfig struct {
	Path        string `toml:"path" env:"PATH"`                 // SQLite file, or ":memory:"
	AutoMigrate bool   `toml:"auto_migrate" env:"AUTO_MIGRATE"` // Apply migrations on open
	Seed        bool   `toml:"seed" env:"SEED"`                 // Seed colors, formats and rarities on startup

	BackupDir      string `toml:"backup_dir" env:"BACKUP_DIR"`           // Scheduled backup target; empty disables
	BackupInterval string `toml:"backup_interval" env:"BACKUP_INTERVAL"` // e.g. "24h"
}

// CatalogConfig contains Scryfall client settings.
type CatalogConfig struct {
	BaseURL        string `toml:"base_url" env:"BASE_URL"`
	UserAgent      string `toml:"user_agent" env:"USER_AGENT"`
	RequestDelay   string `toml:"request_delay" env:"REQUEST_DELAY"`     // Minimum gap between requests (e.g., "50ms")
	RequestTimeout string `toml:"request_timeout" env:"REQUEST_TIMEOUT"` // Per-request timeout
	MaxRetries     int    `toml:"max_retries" env:"MAX_RETRIES"`
}

// LoggingConfig contains logger settings.
type LoggingConfig struct {
	Level  string `toml:"level" env:"LEVEL"`   // debug, info, warn, error
	Format string `toml:"format" env:"FORMAT"` // text or json
	File   string `toml:"file" env:"FILE"`     // Optional JSON log file
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			RequestTimeout:  "10m",
			ShutdownTimeout: "15s",
			CORSOrigins:     []string{"http://localhost:3000"},
			RateLimit:       600,
		},
		Database: DatabaseConfig{
			Path:        "inventory.db",
			AutoMigrate: true,
			Seed:        true,

			BackupInterval: "24h",
		},
		Catalog: CatalogConfig{
			BaseURL:        "https://api.scryfall.com",
			UserAgent:      "MTG-Inventory/1.0",
			RequestDelay:   "50ms",
			RequestTimeout: "30s",
			MaxRetries:     3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns the path of the configuration file in the user's home.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".mtg-inventory", "config.toml"), nil
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// into the process environment. Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the configuration file at path on top of the defaults, then
// applies MTGINV_* environment overrides and validates the result.
// An empty path means DefaultPath. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config file: %w", err)
	default:
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyEnv overrides fields from MTGINV_* environment variables.
func (c *Config) ApplyEnv() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// Save writes the configuration to path, creating its directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	durations := map[string]string{
		"server request timeout":  c.Server.RequestTimeout,
		"server shutdown timeout": c.Server.ShutdownTimeout,
		"catalog request delay":   c.Catalog.RequestDelay,
		"catalog request timeout": c.Catalog.RequestTimeout,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, value, err)
		}
	}

	if c.Server.RateLimit < 0 {
		return fmt.Errorf("rate limit cannot be negative: %d", c.Server.RateLimit)
	}

	if c.Database.Path == "" {
		return errors.New("database path is required")
	}

	if c.Database.BackupDir != "" {
		interval, err := time.ParseDuration(c.Database.BackupInterval)
		if err != nil || interval <= 0 {
			return fmt.Errorf("invalid backup interval %q", c.Database.BackupInterval)
		}
	}

	if u, err := url.Parse(c.Catalog.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid catalog base URL %q", c.Catalog.BaseURL)
	}

	if c.Catalog.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative: %d", c.Catalog.MaxRetries)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Logging.Format)
	}

	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetRequestTimeout returns the server request timeout as a duration.
func (c *Config) GetRequestTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Server.RequestTimeout)
}

// GetShutdownTimeout returns the graceful shutdown window as a duration.
func (c *Config) GetShutdownTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Server.ShutdownTimeout)
}

// GetCatalogRequestDelay returns the catalog request delay as a duration.
func (c *Config) GetCatalogRequestDelay() (time.Duration, error) {
	return time.ParseDuration(c.Catalog.RequestDelay)
}

// GetCatalogRequestTimeout returns the catalog request timeout as a duration.
func (c *Config) GetCatalogRequestTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Catalog.RequestTimeout)
}

// GetBackupInterval returns the scheduled backup interval as a duration.
func (c *Config) GetBackupInterval() (time.Duration, error) {
	return time.ParseDuration(c.Database.BackupInterval)
}
