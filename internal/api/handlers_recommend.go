// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/shelfmark/internal/metrics"
	"github.com/tomtom215/shelfmark/internal/models"
	"github.com/tomtom215/shelfmark/internal/profile"
	"github.com/tomtom215/shelfmark/internal/recommend"
)

// defaultTrendingQuery seeds the candidate search when a trending request
// carries no query of its own.
const defaultTrendingQuery = "popular books"

// MLRecommendationRequest is the body of POST /api/v1/recommendations/ml.
// Either a work ID or a free-text query must identify the target book.
type MLRecommendationRequest struct {
	WorkID  string             `json:"work_id" validate:"omitempty,max=100"`
	Query   string             `json:"query" validate:"required_without=WorkID,omitempty,max=500"`
	UserID  string             `json:"user_id" validate:"omitempty,max=100"`
	Context *recommend.Context `json:"context,omitempty"`
	Limit   int                `json:"limit" validate:"omitempty,min=1,max=50"`
}

// MoodRecommendationRequest is the body of POST /api/v1/recommendations/mood.
type MoodRecommendationRequest struct {
	Mood  string `json:"mood" validate:"required,oneof=happy sad adventurous thoughtful relaxed"`
	Query string `json:"query" validate:"omitempty,max=500"`
	Limit int    `json:"limit" validate:"omitempty,min=1,max=50"`
}

// MLRecommendations handles POST /api/v1/recommendations/ml.
//
// The target book is resolved by work ID when given, otherwise the first
// search hit for the query becomes the target and the remaining hits the
// candidate pool.
func (h *Handlers) MLRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	var req MLRecommendationRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	maxCandidates := h.engine.GetConfig().Limits.MaxCandidates

	var target *models.Book
	var candidates []models.Book

	if req.WorkID != "" {
		book, err := h.catalog.GetBook(ctx, req.WorkID)
		if err != nil {
			respondError(w, http.StatusBadGateway, codeUpstreamError, "Book metadata providers are unavailable", err)
			return
		}
		if book == nil {
			respondError(w, http.StatusNotFound, codeNotFound, "No book found for the given work id", nil)
			return
		}
		target = book

		query := req.Query
		if query == "" {
			query = target.Title
		}
		pool, err := h.catalog.SearchBooks(ctx, query, nil, maxCandidates)
		if err != nil {
			respondError(w, http.StatusBadGateway, codeUpstreamError, "Book metadata providers are unavailable", err)
			return
		}
		candidates = excludeBook(pool, target.ID())
	} else {
		pool, err := h.catalog.SearchBooks(ctx, req.Query, nil, maxCandidates)
		if err != nil {
			respondError(w, http.StatusBadGateway, codeUpstreamError, "Book metadata providers are unavailable", err)
			return
		}
		if len(pool) == 0 {
			respondError(w, http.StatusNotFound, codeNotFound, "No books matched the query", nil)
			return
		}
		target = &pool[0]
		candidates = pool[1:]
	}

	userProfile, ok := h.loadProfile(w, ctx, req.UserID)
	if !ok {
		return
	}

	recs := h.engine.Recommend(ctx, *target, candidates, userProfile, req.Context, req.Limit)
	metrics.RecordRecommendation("ml", time.Since(start), len(recs))

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"target":          target,
		"recommendations": recs,
		"count":           len(recs),
	}, start)
}

// MoodRecommendations handles POST /api/v1/recommendations/mood.
func (h *Handlers) MoodRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	var req MoodRecommendationRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	mood := recommend.Mood(req.Mood)
	query := req.Query
	if query == "" {
		query = recommend.MoodQuery(mood)
	}

	maxCandidates := h.engine.GetConfig().Limits.MaxCandidates
	candidates, err := h.catalog.SearchBooks(ctx, query, nil, maxCandidates)
	if err != nil {
		respondError(w, http.StatusBadGateway, codeUpstreamError, "Book metadata providers are unavailable", err)
		return
	}

	recs := h.engine.MoodBased(ctx, candidates, mood, req.Limit)
	metrics.RecordRecommendation("mood", time.Since(start), len(recs))

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"mood":            req.Mood,
		"recommendations": recs,
		"count":           len(recs),
	}, start)
}

// TrendingRecommendations handles GET /api/v1/recommendations/trending.
//
// Query parameters: window (recent, this_year, classic; anything else
// disables the year filter), q (candidate search query), limit.
func (h *Handlers) TrendingRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	window := recommend.TimeWindow(r.URL.Query().Get("window"))
	if window == "" {
		window = recommend.WindowRecent
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		query = defaultTrendingQuery
	}
	limit := getIntParam(r, "limit", 0)

	maxCandidates := h.engine.GetConfig().Limits.MaxCandidates
	candidates, err := h.catalog.SearchBooks(ctx, query, nil, maxCandidates)
	if err != nil {
		respondError(w, http.StatusBadGateway, codeUpstreamError, "Book metadata providers are unavailable", err)
		return
	}

	recs := h.engine.Trending(ctx, candidates, window, limit)
	metrics.RecordRecommendation("trending", time.Since(start), len(recs))

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"window":          string(window),
		"recommendations": recs,
		"count":           len(recs),
	}, start)
}

// loadProfile fetches the user profile when a user ID is present.
// A missing profile is not an error; recommendations proceed
// unpersonalized. Returns false if an error response was already written.
func (h *Handlers) loadProfile(w http.ResponseWriter, ctx context.Context, userID string) (*models.UserProfile, bool) {
	if userID == "" {
		return nil, true
	}

	userProfile, err := h.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrInvalidUserID) {
			respondError(w, http.StatusBadRequest, codeValidationError, "Invalid user id", nil)
			return nil, false
		}
		respondError(w, http.StatusInternalServerError, codeInternalError, "Failed to load user profile", err)
		return nil, false
	}
	return userProfile, true
}

// excludeBook filters the book with the given identity out of a slice.
func excludeBook(books []models.Book, id string) []models.Book {
	filtered := make([]models.Book, 0, len(books))
	for i := range books {
		if books[i].ID() == id {
			continue
		}
		filtered = append(filtered, books[i])
	}
	return filtered
}
