// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - API endpoint latency and throughput
// - Recommendation pipeline timing per operation
// - Catalog provider calls, errors and fallbacks
// - Profile store operations
// - Circuit breaker state for outbound providers

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Recommendation Metrics
	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Duration of recommendation generation in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "ml", "mood", "trending"
	)

	RecommendationsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_generated_total",
			Help: "Total number of recommendations returned to clients",
		},
		[]string{"operation"},
	)

	RecommendationEmptyResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_empty_results_total",
			Help: "Total number of recommendation calls that returned no results",
		},
		[]string{"operation"},
	)

	// Catalog Provider Metrics
	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_request_duration_seconds",
			Help:    "Duration of catalog provider HTTP calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "operation"}, // operation: "search", "get"
	)

	CatalogRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_request_errors_total",
			Help: "Total number of catalog provider errors",
		},
		[]string{"provider", "operation"},
	)

	CatalogFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_fallbacks_total",
			Help: "Total number of fallbacks to a secondary catalog provider",
		},
		[]string{"from", "to"},
	)

	CatalogBooksFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_books_fetched_total",
			Help: "Total number of books fetched from catalog providers",
		},
		[]string{"provider"},
	)

	// Profile Store Metrics
	ProfileStoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_store_operations_total",
			Help: "Total number of profile store operations",
		},
		[]string{"operation", "success"}, // operation: "get", "put", "add_history"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records a recommendation operation and its result size
func RecordRecommendation(operation string, duration time.Duration, resultCount int) {
	RecommendationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	RecommendationsGenerated.WithLabelValues(operation).Add(float64(resultCount))
	if resultCount == 0 {
		RecommendationEmptyResults.WithLabelValues(operation).Inc()
	}
}

// RecordCatalogRequest records a catalog provider call
func RecordCatalogRequest(provider, operation string, duration time.Duration, books int, err error) {
	CatalogRequestDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
	if err != nil {
		CatalogRequestErrors.WithLabelValues(provider, operation).Inc()
		return
	}
	CatalogBooksFetched.WithLabelValues(provider).Add(float64(books))
}

// RecordCatalogFallback records a fallback from one provider to another
func RecordCatalogFallback(from, to string) {
	CatalogFallbacks.WithLabelValues(from, to).Inc()
}

// RecordProfileStoreOperation records a profile store operation
func RecordProfileStoreOperation(operation string, success bool) {
	successStr := "true"
	if !success {
		successStr = "false"
	}
	ProfileStoreOperations.WithLabelValues(operation, successStr).Inc()
}

// SetCircuitBreakerState updates the state gauge for a breaker
func SetCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordCircuitBreakerRequest records a request outcome through a breaker
func RecordCircuitBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}
