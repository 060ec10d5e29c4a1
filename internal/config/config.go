// Package config provides centralized configuration management for the
// seeder. It loads configuration from environment variables with sensible
// defaults and validates all settings on startup to fail fast on
// misconfiguration.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Database DatabaseConfig
	Seed     SeedConfig
	Logging  LoggingConfig
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	// CreateDatabase controls whether the target database is created on
	// startup when absent (default: true)
	CreateDatabase bool `env:"DB_CREATE_DATABASE" default:"true"`

	// MaxConns is the maximum number of connections in the pool (default: 10)
	MaxConns int `env:"DB_MAX_CONNS" default:"10"`

	// MinConns is the minimum number of connections to keep open (default: 2)
	MinConns int `env:"DB_MIN_CONNS" default:"2"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`

	// ConnectAttempts is how many times to try the initial connection (default: 3)
	ConnectAttempts int `env:"DB_CONNECT_ATTEMPTS" default:"3"`

	// ConnectBackoff is the wait between connection attempts (default: 2s)
	ConnectBackoff time.Duration `env:"DB_CONNECT_BACKOFF" default:"2s"`
}

// SeedConfig holds CSV import and streaming settings.
type SeedConfig struct {
	// CSVPath is the default CSV file when the seed command gets no argument
	CSVPath string `env:"SEED_CSV_PATH" default:"user_data.csv"`

	// BatchSize is the number of rows per batch when streaming in batches (default: 50)
	BatchSize int `env:"SEED_BATCH_SIZE" default:"50"`

	// PageSize is the number of rows per page for lazy pagination (default: 100)
	PageSize int `env:"SEED_PAGE_SIZE" default:"100"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log output format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Database.URL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if c.Database.MaxConns <= 0 {
		errs = append(errs, "DB_MAX_CONNS must be positive")
	}
	if c.Database.MinConns < 0 {
		errs = append(errs, "DB_MIN_CONNS must be non-negative")
	}
	if c.Database.MaxConns < c.Database.MinConns {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS (%d) must be >= DB_MIN_CONNS (%d)",
			c.Database.MaxConns, c.Database.MinConns))
	}
	if c.Database.ConnectAttempts <= 0 {
		errs = append(errs, "DB_CONNECT_ATTEMPTS must be positive")
	}
	if c.Database.ConnectBackoff < 0 {
		errs = append(errs, "DB_CONNECT_BACKOFF must be non-negative")
	}

	if c.Seed.CSVPath == "" {
		errs = append(errs, "SEED_CSV_PATH must not be empty")
	}
	if c.Seed.BatchSize <= 0 {
		errs = append(errs, "SEED_BATCH_SIZE must be positive")
	}
	if c.Seed.PageSize <= 0 {
		errs = append(errs, "SEED_PAGE_SIZE must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// String returns a safe string representation of the config for logging.
// The database URL is masked because it may carry credentials.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Database: {URL: [MASKED], MaxConns: %d, MinConns: %d, ConnectAttempts: %d}, ",
		c.Database.MaxConns, c.Database.MinConns, c.Database.ConnectAttempts))
	b.WriteString(fmt.Sprintf("Seed: {CSVPath: %q, BatchSize: %d, PageSize: %d}, ",
		c.Seed.CSVPath, c.Seed.BatchSize, c.Seed.PageSize))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
