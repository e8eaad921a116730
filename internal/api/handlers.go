// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package api

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfmark/internal/catalog"
	"github.com/tomtom215/shelfmark/internal/profile"
	"github.com/tomtom215/shelfmark/internal/recommend"
)

// Handlers holds the dependencies shared by all HTTP handlers.
type Handlers struct {
	catalog  catalog.Provider
	profiles *profile.Store
	engine   *recommend.Engine
	logger   zerolog.Logger
	version  string
	started  time.Time
}

// NewHandlers creates the handler set.
//
//nolint:gocritic // zerolog.Logger is passed by value per its documentation
func NewHandlers(provider catalog.Provider, profiles *profile.Store, engine *recommend.Engine, version string, logger zerolog.Logger) *Handlers {
	return &Handlers{
		catalog:  provider,
		profiles: profiles,
		engine:   engine,
		logger:   logger.With().Str("component", "api").Logger(),
		version:  version,
		started:  time.Now(),
	}
}
