// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package catalog

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfmark/internal/metrics"
	"github.com/tomtom215/shelfmark/internal/models"
)

// Multi composes catalog providers with ordered fallback: the first
// provider returning a non-empty result wins. Provider failures are
// logged and absorbed; if every provider fails or comes back empty, the
// result is empty rather than an error.
type Multi struct {
	providers []Provider
	logger    zerolog.Logger
}

// NewMulti creates a fallback provider over the given providers, queried
// in argument order.
//
//nolint:gocritic // zerolog.Logger is passed by value per its documentation
func NewMulti(logger zerolog.Logger, providers ...Provider) *Multi {
	return &Multi{
		providers: providers,
		logger:    logger.With().Str("component", "catalog").Str("provider", "multi").Logger(),
	}
}

// Name returns the provider name used in logs and metrics.
func (m *Multi) Name() string {
	return "multi"
}

// SearchBooks queries providers in order and returns the first non-empty
// result.
func (m *Multi) SearchBooks(ctx context.Context, query string, filters *SearchFilters, limit int) ([]models.Book, error) {
	for i, provider := range m.providers {
		books, err := provider.SearchBooks(ctx, query, filters, limit)
		if err != nil {
			m.logger.Warn().
				Err(err).
				Str("failed_provider", provider.Name()).
				Msg("provider failed, trying next")
			m.recordFallback(i, provider)
			continue
		}
		if len(books) > 0 {
			return books, nil
		}
		m.recordFallback(i, provider)
	}

	m.logger.Error().Str("query", query).Msg("all catalog providers returned nothing")
	return []models.Book{}, nil
}

// GetBook resolves a work ID against providers in order. A nil book with
// a nil error means no provider knew the ID.
func (m *Multi) GetBook(ctx context.Context, id string) (*models.Book, error) {
	for _, provider := range m.providers {
		book, err := provider.GetBook(ctx, id)
		if err != nil {
			m.logger.Warn().
				Err(err).
				Str("failed_provider", provider.Name()).
				Str("book_id", id).
				Msg("provider failed, trying next")
			continue
		}
		if book != nil {
			return book, nil
		}
	}
	return nil, nil
}

func (m *Multi) recordFallback(i int, from Provider) {
	if i+1 < len(m.providers) {
		metrics.RecordCatalogFallback(from.Name(), m.providers[i+1].Name())
	}
}
