// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/shelfmark/internal/catalog"
)

// searchLimitMax caps catalog searches regardless of client input.
const (
	searchLimitDefault = 20
	searchLimitMax     = 50
)

// SearchBooks handles GET /api/v1/books/search.
//
// Query parameters: q (required), limit, year_from, year_to, min_rating.
func (h *Handlers) SearchBooks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, codeValidationError, "Query parameter 'q' is required", nil)
		return
	}

	limit := clampLimit(getIntParam(r, "limit", 0), searchLimitDefault, searchLimitMax)

	var filters *catalog.SearchFilters
	yearFrom := getIntParam(r, "year_from", 0)
	yearTo := getIntParam(r, "year_to", 0)
	minRating := getFloatParam(r, "min_rating", 0)
	if yearFrom != 0 || yearTo != 0 || minRating != 0 {
		filters = &catalog.SearchFilters{
			YearFrom:  yearFrom,
			YearTo:    yearTo,
			MinRating: minRating,
		}
	}

	books, err := h.catalog.SearchBooks(r.Context(), query, filters, limit)
	if err != nil {
		respondError(w, http.StatusBadGateway, codeUpstreamError, "Book metadata providers are unavailable", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"books": books,
		"count": len(books),
	}, start)
}

// GetBook handles GET /api/v1/books/{workID}.
func (h *Handlers) GetBook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	workID := chi.URLParam(r, "workID")
	if workID == "" {
		respondError(w, http.StatusBadRequest, codeValidationError, "Work id is required", nil)
		return
	}

	book, err := h.catalog.GetBook(r.Context(), workID)
	if err != nil {
		respondError(w, http.StatusBadGateway, codeUpstreamError, "Book metadata providers are unavailable", err)
		return
	}
	if book == nil {
		respondError(w, http.StatusNotFound, codeNotFound, "No book found for the given work id", nil)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"book": book,
	}, start)
}
