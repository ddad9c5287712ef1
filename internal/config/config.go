// Package config provides configuration loading from environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

// Storage backends selectable with STORE_BACKEND.
const (
	BackendFile   = "file"
	BackendS3     = "s3"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Static errors for configuration validation.
var (
	// ErrHHAPIKeyRequired is returned when HH_API_KEY is not set.
	ErrHHAPIKeyRequired = errors.New("config: HH_API_KEY is required")
	// ErrUnknownBackend is returned when STORE_BACKEND is not recognised.
	ErrUnknownBackend = errors.New("config: STORE_BACKEND must be one of file, s3, redis, memory")
	// ErrS3Incomplete is returned when the s3 backend lacks bucket or region.
	ErrS3Incomplete = errors.New("config: S3_BUCKET and S3_REGION are required for the s3 backend")
	// ErrRedisAddrRequired is returned when the redis backend lacks an address.
	ErrRedisAddrRequired = errors.New("config: REDIS_ADDR is required for the redis backend")
)

// Config holds all configuration for the application.
type Config struct {
	// Server settings
	Port int `env:"PORT, default=8080" json:"port"`

	// hh.ru settings
	HHAPIKey    string `env:"HH_API_KEY, required" json:"-"` // Masked in JSON
	HHAPIURL    string `env:"HH_API_URL, default=https://api.hh.ru/vacancies" json:"hh_api_url"`
	HHPerPage   int    `env:"HH_PER_PAGE, default=0" json:"hh_per_page"`
	HHUserAgent string `env:"HH_USER_AGENT, default=vacancy-assistant/1.0" json:"hh_user_agent"`

	// Storage settings
	StoreBackend string `env:"STORE_BACKEND, default=file" json:"store_backend"`
	StorePath    string `env:"STORE_PATH, default=vacancies.json" json:"store_path"` // File path, S3 key or Redis key
	StoreFormat  string `env:"STORE_FORMAT" json:"store_format,omitempty"`            // "json" or "yaml"; inferred from STORE_PATH when empty

	// S3 settings
	S3Bucket           string `env:"S3_BUCKET" json:"s3_bucket,omitempty"`
	S3Region           string `env:"S3_REGION" json:"s3_region,omitempty"`
	S3Endpoint         string `env:"S3_ENDPOINT" json:"s3_endpoint,omitempty"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" json:"-"`     // Masked in JSON
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" json:"-"` // Masked in JSON

	// Redis settings
	RedisAddr     string `env:"REDIS_ADDR" json:"redis_addr,omitempty"`
	RedisPassword string `env:"REDIS_PASSWORD" json:"-"` // Masked in JSON
	RedisDB       int    `env:"REDIS_DB, default=0" json:"redis_db"`

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" json:"log_format"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info" json:"log_level"`   // "debug", "info", "warn", "error"
}

// Load reads configuration from environment variables using go-envconfig
// and validates backend-specific settings.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := envconfig.Process(context.Background(), cfg); err != nil {
		// Map envconfig errors to our domain errors for required fields
		if strings.Contains(err.Error(), "HH_API_KEY") {
			return nil, ErrHHAPIKeyRequired
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all required configuration is present.
func (c *Config) Validate() error {
	if c.HHAPIKey == "" {
		return ErrHHAPIKeyRequired
	}
	switch strings.ToLower(c.StoreBackend) {
	case BackendFile, BackendMemory:
	case BackendS3:
		if c.S3Bucket == "" || c.S3Region == "" {
			return ErrS3Incomplete
		}
	case BackendRedis:
		if c.RedisAddr == "" {
			return ErrRedisAddrRequired
		}
	default:
		return ErrUnknownBackend
	}
	return nil
}

// NewLogger creates a structured logger based on the configuration.
// When LogFormat is "json", it outputs JSON logs suitable for production.
// Otherwise, it outputs human-readable text logs.
func (c *Config) NewLogger() *slog.Logger {
	return c.NewLoggerTo(os.Stdout)
}

// NewLoggerTo is NewLogger writing to w.
func (c *Config) NewLoggerTo(w io.Writer) *slog.Logger {
	level := parseLogLevel(c.LogLevel)

	var handler slog.Handler
	if strings.ToLower(c.LogFormat) == "json" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	}

	return slog.New(handler)
}

// String returns a string representation of the config with sensitive values masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Port: %d, HHAPIURL: %s, HHPerPage: %d, StoreBackend: %s, StorePath: %s, StoreFormat: %s, S3Bucket: %s, S3Region: %s, RedisAddr: %s, LogFormat: %s, LogLevel: %s}",
		c.Port,
		c.HHAPIURL,
		c.HHPerPage,
		c.StoreBackend,
		c.StorePath,
		c.StoreFormat,
		c.S3Bucket,
		c.S3Region,
		c.RedisAddr,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
