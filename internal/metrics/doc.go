// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

/*
Package metrics provides Prometheus metrics collection and export for observability.

# Overview

The package provides metrics for:
  - HTTP request latency and throughput
  - Recommendation pipeline timing per operation (ml, mood, trending)
  - Catalog provider call performance, errors and fallbacks
  - Profile store operations
  - Circuit breaker state for outbound providers

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Usage Example

	import (
	    "github.com/tomtom215/shelfmark/internal/metrics"
	)

	start := time.Now()
	recs := engine.Recommend(ctx, target, candidates, profile, reqCtx, topN)
	metrics.RecordRecommendation("ml", time.Since(start), len(recs))

Example PromQL queries:

	# HTTP request rate
	rate(api_requests_total[5m])

	# HTTP p95 latency
	histogram_quantile(0.95, rate(api_request_duration_seconds_bucket[5m]))

	# Catalog provider error rate
	rate(catalog_request_errors_total[5m])

# Thread Safety

All metric recording functions are thread-safe and designed for concurrent use
from multiple goroutines. The Prometheus client library handles synchronization
internally.

# Cardinality Management

To prevent high cardinality issues:

  - Endpoint labels use route patterns, never raw URLs or query parameters
  - Error types are limited to predefined constants
  - User-specific labels are avoided
*/
package metrics
