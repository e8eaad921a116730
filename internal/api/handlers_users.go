// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/shelfmark/internal/models"
	"github.com/tomtom215/shelfmark/internal/profile"
)

// CreateProfileRequest is the body of PUT /api/v1/users/{userID}/profile.
type CreateProfileRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// HistoryEntryRequest is the body of POST /api/v1/users/{userID}/history.
type HistoryEntryRequest struct {
	BookID   string   `json:"book_id" validate:"required,max=100"`
	Title    string   `json:"title" validate:"required,max=500"`
	Authors  []string `json:"authors" validate:"omitempty,max=20,dive,max=200"`
	Rating   *float64 `json:"rating" validate:"omitempty,min=0,max=5"`
	ReadDate string   `json:"read_date" validate:"omitempty,max=40"`
	Status   string   `json:"status" validate:"omitempty,oneof=read reading want_to_read"`
	Review   string   `json:"review" validate:"omitempty,max=5000"`
	Tags     []string `json:"tags" validate:"omitempty,max=20,dive,max=100"`
}

// GetProfile handles GET /api/v1/users/{userID}/profile.
func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := chi.URLParam(r, "userID")

	userProfile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, profile.ErrInvalidUserID) {
			respondError(w, http.StatusBadRequest, codeValidationError, "Invalid user id", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternalError, "Failed to load user profile", err)
		return
	}
	if userProfile == nil {
		respondError(w, http.StatusNotFound, codeNotFound, "No profile exists for this user", nil)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"profile": userProfile,
	}, start)
}

// PutProfile handles PUT /api/v1/users/{userID}/profile.
//
// Creates the profile if missing, otherwise updates the display name.
// Reading history and derived favorites are never replaced here.
func (h *Handlers) PutProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	userID := chi.URLParam(r, "userID")

	var req CreateProfileRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	userProfile, err := h.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrInvalidUserID) {
			respondError(w, http.StatusBadRequest, codeValidationError, "Invalid user id", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternalError, "Failed to load user profile", err)
		return
	}

	status := http.StatusOK
	if userProfile == nil {
		status = http.StatusCreated
		userProfile = &models.UserProfile{
			UserID:         userID,
			ReadingHistory: []models.ReadingHistoryEntry{},
		}
	}
	userProfile.Name = req.Name

	if err := h.profiles.Put(ctx, userProfile); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternalError, "Failed to save user profile", err)
		return
	}

	respondSuccess(w, status, map[string]interface{}{
		"profile": userProfile,
	}, start)
}

// AddHistory handles POST /api/v1/users/{userID}/history.
//
// Appends a reading history entry, creating the profile on first use, and
// returns the profile with recomputed favorites.
func (h *Handlers) AddHistory(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	userID := chi.URLParam(r, "userID")

	var req HistoryEntryRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	entry := models.ReadingHistoryEntry{
		BookID:   req.BookID,
		Title:    req.Title,
		Authors:  req.Authors,
		Rating:   req.Rating,
		ReadDate: req.ReadDate,
		Status:   models.ReadingStatus(req.Status),
		Review:   req.Review,
		Tags:     req.Tags,
	}
	if entry.ReadDate == "" {
		entry.ReadDate = time.Now().UTC().Format(time.RFC3339)
	}
	if entry.Status == "" {
		entry.Status = models.StatusRead
	}

	userProfile, err := h.profiles.AddHistoryEntry(r.Context(), userID, entry)
	if err != nil {
		if errors.Is(err, profile.ErrInvalidUserID) {
			respondError(w, http.StatusBadRequest, codeValidationError, "Invalid user id", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, codeInternalError, "Failed to record history entry", err)
		return
	}

	respondSuccess(w, http.StatusCreated, map[string]interface{}{
		"profile": userProfile,
	}, start)
}
