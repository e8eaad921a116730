// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package api

import (
	"net/http"
	"time"
)

// Health handles GET /api/v1/health.
//
// The process is healthy as long as it can serve this request; upstream
// catalog providers are not probed here since the multi-provider chain
// degrades gracefully when one of them is down.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"catalog":        h.catalog.Name(),
		"requests":       h.engine.RequestCount(),
	}, start)
}
