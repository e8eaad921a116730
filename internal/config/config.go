// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/shelfmark/internal/recommend"
)

// Config holds the complete application configuration.
type Config struct {
	Server    ServerConfig     `koanf:"server"`
	Logging   LoggingConfig    `koanf:"logging"`
	Catalog   CatalogConfig    `koanf:"catalog"`
	Profile   ProfileConfig    `koanf:"profile"`
	Recommend recommend.Config `koanf:"recommend"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// Host is the bind address.
	Host string `koanf:"host"`

	// Port is the HTTP listen port.
	Port int `koanf:"port"`

	// Timeout is the per-request read/write timeout.
	Timeout time.Duration `koanf:"timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`

	// RateLimitReqs is the per-client request budget per RateLimitWindow.
	// 0 disables rate limiting.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limit accounting window.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// Environment is "development" or "production".
	Environment string `koanf:"environment"`
}

// Address returns the host:port string for net/http.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `koanf:"level"`

	// Format is "json" or "console".
	Format string `koanf:"format"`

	// Caller adds file:line caller information to log events.
	Caller bool `koanf:"caller"`
}

// CatalogConfig holds the book metadata provider configuration.
type CatalogConfig struct {
	OpenLibrary ProviderConfig `koanf:"openlibrary"`
	GoogleBooks ProviderConfig `koanf:"googlebooks"`
}

// ProviderConfig holds configuration for a single outbound catalog provider.
type ProviderConfig struct {
	// Enabled toggles the provider.
	Enabled bool `koanf:"enabled"`

	// BaseURL is the provider API root without a trailing slash.
	BaseURL string `koanf:"base_url"`

	// APIKey is the provider API key, if the provider requires one.
	APIKey string `koanf:"api_key"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `koanf:"timeout"`

	// RateLimit is the client-side request rate in requests per second.
	RateLimit float64 `koanf:"rate_limit"`

	// Burst is the client-side rate limiter burst size.
	Burst int `koanf:"burst"`
}

// ProfileConfig holds the user profile store configuration.
type ProfileConfig struct {
	// Dir is the directory holding per-user profile JSON files.
	Dir string `koanf:"dir"`
}

// Validate checks the configuration for errors. It is called after all
// configuration layers have been merged.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Server.RateLimitReqs < 0 {
		return fmt.Errorf("server.rate_limit_reqs must be non-negative, got %d", c.Server.RateLimitReqs)
	}
	if c.Server.Environment != "development" && c.Server.Environment != "production" {
		return fmt.Errorf("server.environment must be development or production, got %q", c.Server.Environment)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	if !c.Catalog.OpenLibrary.Enabled && !c.Catalog.GoogleBooks.Enabled {
		return fmt.Errorf("at least one catalog provider must be enabled")
	}
	if err := validateProvider("catalog.openlibrary", &c.Catalog.OpenLibrary); err != nil {
		return err
	}
	if err := validateProvider("catalog.googlebooks", &c.Catalog.GoogleBooks); err != nil {
		return err
	}

	if c.Profile.Dir == "" {
		return fmt.Errorf("profile.dir must not be empty")
	}

	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}

	return nil
}

func validateProvider(name string, p *ProviderConfig) error {
	if !p.Enabled {
		return nil
	}
	if p.BaseURL == "" {
		return fmt.Errorf("%s.base_url must not be empty when enabled", name)
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("%s.timeout must be positive, got %s", name, p.Timeout)
	}
	if p.RateLimit <= 0 {
		return fmt.Errorf("%s.rate_limit must be positive, got %f", name, p.RateLimit)
	}
	if p.Burst < 1 {
		return fmt.Errorf("%s.burst must be positive, got %d", name, p.Burst)
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
