// Package config holds application configuration loaded from YAML files
// and environment variables. Environment variables take precedence over
// file values so deployments can override without editing files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	envcfg "city-announcements/internal/pkg/config"
	pkgconfig "city-announcements/pkg/config"
)

// ServerConfig configures the HTTP server and its middleware.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `yaml:"addr"`

	// DatabaseURL is the Postgres DSN. Usually supplied via DATABASE_URL.
	DatabaseURL string `yaml:"database_url"`

	// AllowedOrigins lists origins permitted for CORS and WebSocket upgrades.
	// "*" allows any origin.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// RequestTimeout bounds a single request's processing time.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxBodyBytes limits request body size.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// GaugeRefreshSpec is the cron spec for refreshing database count gauges.
	GaugeRefreshSpec string `yaml:"gauge_refresh_spec"`

	// Version is reported by the health endpoint.
	Version string `yaml:"version"`
}

// DefaultServerConfig returns the configuration used when no file is present.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:             ":8080",
		AllowedOrigins:   []string{"*"},
		RequestTimeout:   30 * time.Second,
		ShutdownTimeout:  10 * time.Second,
		MaxBodyBytes:     1 << 20, // 1MB
		GaugeRefreshSpec: "@every 1m",
		Version:          "dev",
	}
}

// LoadServerConfig reads the YAML file at path (if it exists), applies
// environment overrides, validates, and returns the result.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// ファイルなしはデフォルト + 環境変数で起動
		case err != nil:
			return ServerConfig{}, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return ServerConfig{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

func (c *ServerConfig) applyEnv() {
	c.Addr = pkgconfig.GetEnvString("SERVER_ADDR", c.Addr)
	c.DatabaseURL = pkgconfig.GetEnvString("DATABASE_URL", c.DatabaseURL)
	c.AllowedOrigins = pkgconfig.GetEnvStringList("ALLOWED_ORIGINS", c.AllowedOrigins)
	c.RequestTimeout = pkgconfig.GetEnvDuration("REQUEST_TIMEOUT", c.RequestTimeout)
	c.ShutdownTimeout = pkgconfig.GetEnvDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	c.MaxBodyBytes = int64(pkgconfig.GetEnvInt("MAX_BODY_BYTES", int(c.MaxBodyBytes)))
	c.Version = pkgconfig.GetEnvString("APP_VERSION", c.Version)
}

// Validate checks the configuration for values that would break the server
// at runtime. Called after file and environment merging.
func (c *ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("database_url is required (set DATABASE_URL)")
	}
	if err := pkgconfig.ValidatePositiveDuration(c.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request_timeout: %w", err)
	}
	if err := pkgconfig.ValidatePositiveDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive, got %d", c.MaxBodyBytes)
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("allowed_origins must not be empty")
	}
	if err := envcfg.ValidateCronSchedule(c.GaugeRefreshSpec); err != nil {
		return fmt.Errorf("invalid gauge_refresh_spec: %w", err)
	}
	return nil
}
