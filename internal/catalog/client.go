// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/shelfmark/internal/config"
	"github.com/tomtom215/shelfmark/internal/metrics"
)

// maxResponseBytes caps provider response bodies. Search responses with
// full subject lists run to a few hundred KB; 10MB is far above anything
// legitimate.
const maxResponseBytes = 10 << 20

// resilientClient is the shared outbound HTTP client for catalog
// providers. It serializes requests through a client-side rate limiter
// and routes them through a circuit breaker so a failing upstream is
// backed off instead of hammered.
type resilientClient struct {
	name    string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  zerolog.Logger
}

//nolint:gocritic // zerolog.Logger is passed by value per its documentation
func newResilientClient(name string, cfg *config.ProviderConfig, logger zerolog.Logger) *resilientClient {
	clientLogger := logger.With().Str("component", "catalog").Str("provider", name).Logger()

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
			clientLogger.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &resilientClient{
		name:    name,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
		logger:  clientLogger,
	}
}

// getJSON performs a rate-limited, circuit-broken GET and decodes the
// JSON response body into out.
func (c *resilientClient) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.doGet(ctx, rawURL)
	})
	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.RecordCircuitBreakerRequest(c.name, "rejected")
			c.logger.Debug().Str("url", rawURL).Msg("request rejected by open circuit breaker")
		default:
			metrics.RecordCircuitBreakerRequest(c.name, "failure")
			c.logger.Error().Err(err).Str("url", rawURL).Msg("request failed")
		}
		return err
	}
	metrics.RecordCircuitBreakerRequest(c.name, "success")

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", c.name, err)
	}
	return nil
}

func (c *resilientClient) doGet(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "shelfmark/1.0")

	c.logger.Debug().Str("url", rawURL).Msg("outbound request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", c.name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", c.name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", c.name, err)
	}
	return body, nil
}
