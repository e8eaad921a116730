// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

// Package profile persists user profiles as JSON files, one per user.
//
// The store is deliberately simple: profiles are small, reads dominate,
// and a full rewrite per update keeps the on-disk state human-readable
// and debuggable. Writes go through a temp file and rename so a crash
// mid-write never leaves a torn profile behind.
//
// # Thread Safety
//
// All operations are thread-safe. A single mutex serializes writes;
// reads take a shared lock.
package profile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfmark/internal/metrics"
	"github.com/tomtom215/shelfmark/internal/models"
)

// ErrInvalidUserID is returned for user IDs that cannot name a file.
var ErrInvalidUserID = errors.New("invalid user id")

// Store persists user profiles under a base directory.
type Store struct {
	dir    string
	mu     sync.RWMutex
	logger zerolog.Logger
}

// NewStore creates a profile store rooted at dir, creating the directory
// if needed.
//
//nolint:gocritic // zerolog.Logger is passed by value per its documentation
func NewStore(dir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create profile directory: %w", err)
	}
	return &Store{
		dir:    dir,
		logger: logger.With().Str("component", "profile").Logger(),
	}, nil
}

// Get loads a profile by user ID. A missing profile is not an error:
// both return values are nil and callers proceed unpersonalized.
func (s *Store) Get(_ context.Context, userID string) (*models.UserProfile, error) {
	if err := validateUserID(userID); err != nil {
		metrics.RecordProfileStoreOperation("get", false)
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.profilePath(userID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			metrics.RecordProfileStoreOperation("get", true)
			return nil, nil
		}
		metrics.RecordProfileStoreOperation("get", false)
		return nil, fmt.Errorf("read profile %s: %w", userID, err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		metrics.RecordProfileStoreOperation("get", false)
		return nil, fmt.Errorf("decode profile %s: %w", userID, err)
	}

	metrics.RecordProfileStoreOperation("get", true)
	return &profile, nil
}

// Put stores a profile, replacing any existing one for the same user.
func (s *Store) Put(_ context.Context, profile *models.UserProfile) error {
	if err := validateUserID(profile.UserID); err != nil {
		metrics.RecordProfileStoreOperation("put", false)
		return err
	}
	if profile.CreatedAt == "" {
		profile.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(profile); err != nil {
		metrics.RecordProfileStoreOperation("put", false)
		return err
	}

	metrics.RecordProfileStoreOperation("put", true)
	s.logger.Debug().Str("user_id", profile.UserID).Msg("profile saved")
	return nil
}

// AddHistoryEntry appends a reading history entry to a user's profile,
// creating the profile if it does not exist yet, and returns the updated
// profile. Derived favorites are recomputed on append.
func (s *Store) AddHistoryEntry(_ context.Context, userID string, entry models.ReadingHistoryEntry) (*models.UserProfile, error) {
	if err := validateUserID(userID); err != nil {
		metrics.RecordProfileStoreOperation("add_history", false)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.read(userID)
	if err != nil {
		metrics.RecordProfileStoreOperation("add_history", false)
		return nil, err
	}
	if profile == nil {
		profile = &models.UserProfile{
			UserID:    userID,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		}
	}

	profile.AddToHistory(entry)

	if err := s.write(profile); err != nil {
		metrics.RecordProfileStoreOperation("add_history", false)
		return nil, err
	}

	metrics.RecordProfileStoreOperation("add_history", true)
	s.logger.Debug().
		Str("user_id", userID).
		Str("book_id", entry.BookID).
		Int("history_size", len(profile.ReadingHistory)).
		Msg("history entry added")
	return profile, nil
}

// read loads a profile without locking; callers hold the mutex.
func (s *Store) read(userID string) (*models.UserProfile, error) {
	data, err := os.ReadFile(s.profilePath(userID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read profile %s: %w", userID, err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", userID, err)
	}
	return &profile, nil
}

// write persists a profile atomically via temp file and rename; callers
// hold the mutex.
func (s *Store) write(profile *models.UserProfile) error {
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profile %s: %w", profile.UserID, err)
	}

	tmp, err := os.CreateTemp(s.dir, profile.UserID+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp profile file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write profile %s: %w", profile.UserID, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp profile file: %w", err)
	}

	if err := os.Rename(tmpName, s.profilePath(profile.UserID)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace profile %s: %w", profile.UserID, err)
	}
	return nil
}

func (s *Store) profilePath(userID string) string {
	return filepath.Join(s.dir, userID+".json")
}

// validateUserID rejects IDs that are empty or could escape the profile
// directory.
func validateUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("%w: empty", ErrInvalidUserID)
	}
	if strings.ContainsAny(userID, "/\\") || strings.Contains(userID, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidUserID, userID)
	}
	return nil
}
