// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/shelfmark/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/shelfmark/config.yaml",
	"/etc/shelfmark/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Catalog: CatalogConfig{
			OpenLibrary: ProviderConfig{
				Enabled:   true,
				BaseURL:   "https://openlibrary.org",
				Timeout:   10 * time.Second,
				RateLimit: 5,
				Burst:     10,
			},
			GoogleBooks: ProviderConfig{
				Enabled:   true,
				BaseURL:   "https://www.googleapis.com/books/v1",
				APIKey:    "",
				Timeout:   10 * time.Second,
				RateLimit: 5,
				Burst:     10,
			},
		},
		Profile: ProfileConfig{
			Dir: "/data/profiles",
		},
		Recommend: *recommend.DefaultConfig(),
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Precedence is ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// Transform environment variable names to koanf paths:
	// HTTP_PORT -> server.port
	// OPENLIBRARY_RATE_LIMIT -> catalog.openlibrary.rate_limit
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// Search default paths
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known
// slice fields. This is necessary because env vars come in as strings, but the
// config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// If it's already a slice (from YAML file), skip
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		// If it's a string, split by comma
		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - LOG_LEVEL -> logging.level
//   - GOOGLEBOOKS_API_KEY -> catalog.googlebooks.api_key
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Server mappings
		"http_host":           "server.host",
		"http_port":           "server.port",
		"http_timeout":        "server.timeout",
		"shutdown_timeout":    "server.shutdown_timeout",
		"cors_origins":        "server.cors_origins",
		"rate_limit_requests": "server.rate_limit_reqs",
		"rate_limit_window":   "server.rate_limit_window",
		"environment":         "server.environment",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",

		// OpenLibrary mappings
		"openlibrary_enabled":    "catalog.openlibrary.enabled",
		"openlibrary_base_url":   "catalog.openlibrary.base_url",
		"openlibrary_timeout":    "catalog.openlibrary.timeout",
		"openlibrary_rate_limit": "catalog.openlibrary.rate_limit",
		"openlibrary_burst":      "catalog.openlibrary.burst",

		// Google Books mappings
		"googlebooks_enabled":    "catalog.googlebooks.enabled",
		"googlebooks_base_url":   "catalog.googlebooks.base_url",
		"googlebooks_api_key":    "catalog.googlebooks.api_key",
		"googlebooks_timeout":    "catalog.googlebooks.timeout",
		"googlebooks_rate_limit": "catalog.googlebooks.rate_limit",
		"googlebooks_burst":      "catalog.googlebooks.burst",

		// Profile store mappings
		"profile_dir": "profile.dir",

		// Recommendation engine mappings
		"recommend_weight_content":       "recommend.weights.content",
		"recommend_weight_preference":    "recommend.weights.preference",
		"recommend_max_features":         "recommend.similarity.max_features",
		"recommend_min_similarity":       "recommend.similarity.min_similarity",
		"recommend_boost_author":         "recommend.boosts.favorite_author",
		"recommend_boost_genre":          "recommend.boosts.favorite_genre",
		"recommend_boost_consensus":      "recommend.boosts.consensus",
		"recommend_boost_mood_sentiment": "recommend.boosts.mood_sentiment",
		"recommend_boost_night":          "recommend.boosts.night_short_read",
		"recommend_pages_short_read":     "recommend.pages.short_read",
		"recommend_pages_quick_read_max": "recommend.pages.quick_read_max",
		"recommend_pages_deep_dive_min":  "recommend.pages.deep_dive_min",
		"recommend_default_k":            "recommend.limits.default_k",
		"recommend_max_k":                "recommend.limits.max_k",
		"recommend_max_candidates":       "recommend.limits.max_candidates",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// For unmapped keys, return empty string to skip them
	// This prevents random environment variables from polluting config
	return ""
}
