// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

// Package api implements the HTTP surface: a chi router with CORS,
// rate limiting, request-ID propagation, and Prometheus instrumentation,
// plus the JSON handlers for recommendations, catalog search, and user
// profiles.
//
// All endpoints respond with the models.APIResponse envelope. Handlers
// validate request bodies with go-playground/validator and never leak
// upstream error details to clients.
package api
