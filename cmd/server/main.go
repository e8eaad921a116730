// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

// Package main is the entry point for the Shelfmark server.
//
// Shelfmark is a self-hosted book discovery backend: it searches public
// book catalogs (OpenLibrary, Google Books), tracks per-user reading
// history, and serves hybrid content/preference recommendations with
// mood and trending variants over a JSON API.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: layered defaults, config file, environment (Koanf v2)
//  2. Catalog providers: OpenLibrary and Google Books clients behind a
//     fallback chain, each with its own rate limiter and circuit breaker
//  3. Profile store: JSON-file persistence for user reading history
//  4. Recommendation engine: TF-IDF content strategy, preference matcher,
//     diversity reranker
//  5. HTTP server: chi router with CORS, rate limiting, and Prometheus
//     metrics, run under a suture supervisor tree
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config file (CONFIG_PATH or
// config.yaml), built-in defaults. Common variables:
//
//	export HTTP_PORT=8080
//	export LOG_LEVEL=info
//	export PROFILE_DIR=/data/profiles
//	export GOOGLEBOOKS_API_KEY=your-key   # optional
//	export GOOGLEBOOKS_ENABLED=false      # OpenLibrary only
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, waits for in-flight requests to complete,
// and stops the supervised services.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/shelfmark/internal/api"
	"github.com/tomtom215/shelfmark/internal/catalog"
	"github.com/tomtom215/shelfmark/internal/config"
	"github.com/tomtom215/shelfmark/internal/logging"
	"github.com/tomtom215/shelfmark/internal/profile"
	"github.com/tomtom215/shelfmark/internal/recommend"
	"github.com/tomtom215/shelfmark/internal/recommend/reranking"
	"github.com/tomtom215/shelfmark/internal/recommend/strategies"
	"github.com/tomtom215/shelfmark/internal/supervisor"
	"github.com/tomtom215/shelfmark/internal/supervisor/services"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logger := logging.Logger()

	logging.Info().
		Str("version", version).
		Str("address", cfg.Server.Address()).
		Bool("openlibrary_enabled", cfg.Catalog.OpenLibrary.Enabled).
		Bool("googlebooks_enabled", cfg.Catalog.GoogleBooks.Enabled).
		Str("profile_dir", cfg.Profile.Dir).
		Msg("Configuration loaded")

	// Catalog providers in fallback order: OpenLibrary first, Google
	// Books second. Validate() guarantees at least one is enabled.
	var providers []catalog.Provider
	if cfg.Catalog.OpenLibrary.Enabled {
		providers = append(providers, catalog.NewOpenLibrary(&cfg.Catalog.OpenLibrary, logger))
	}
	if cfg.Catalog.GoogleBooks.Enabled {
		providers = append(providers, catalog.NewGoogleBooks(&cfg.Catalog.GoogleBooks, logger))
	}
	multi := catalog.NewMulti(logger, providers...)

	store, err := profile.NewStore(cfg.Profile.Dir, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize profile store")
	}

	engine, err := recommend.NewEngine(&cfg.Recommend, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}
	engine.RegisterStrategy(strategies.NewContentBased(engine.GetConfig(), logger))
	engine.RegisterStrategy(strategies.NewPreferenceMatcher(logger))
	engine.RegisterReranker(reranking.NewDiversity())

	handlers := api.NewHandlers(multi, store, engine, version, logger)
	router := api.NewRouter(handlers, api.NewMiddleware(&api.MiddlewareConfig{
		CORSAllowedOrigins: cfg.Server.CORSOrigins,
		RateLimitRequests:  cfg.Server.RateLimitReqs,
		RateLimitWindow:    cfg.Server.RateLimitWindow,
	}))

	httpServer := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridge zerolog to slog for sutureslog compatibility.
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(httpServer, cfg.Server.ShutdownTimeout))
	tree.AddOpsService(services.NewUptimeService(version, 0))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("address", cfg.Server.Address()).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
