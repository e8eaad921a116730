// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package catalog

import (
	"context"

	"github.com/tomtom215/shelfmark/internal/models"
)

// SearchFilters narrows a catalog search. Zero values mean "no filter".
type SearchFilters struct {
	// YearFrom keeps books first published in or after this year.
	YearFrom int `json:"year_from,omitempty"`

	// YearTo keeps books first published in or before this year.
	YearTo int `json:"year_to,omitempty"`

	// MinRating keeps books rated at or above this value (0-5 scale).
	MinRating float64 `json:"min_rating,omitempty"`
}

// Provider is a source of book metadata.
//
// SearchBooks returns up to limit books matching the query. An empty
// result is not an error. GetBook resolves a provider-specific work ID;
// a nil book with a nil error means the work was not found.
type Provider interface {
	Name() string
	SearchBooks(ctx context.Context, query string, filters *SearchFilters, limit int) ([]models.Book, error)
	GetBook(ctx context.Context, id string) (*models.Book, error)
}

// Interface compliance checks.
var (
	_ Provider = (*OpenLibrary)(nil)
	_ Provider = (*GoogleBooks)(nil)
	_ Provider = (*Multi)(nil)
)
