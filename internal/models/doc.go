// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

// Package models defines the shared data types used across Shelfmark.
//
// The package has no dependencies on other internal packages so it can be
// imported from anywhere without creating cycles.
//
// # Core Types
//
//   - Book: A catalog entry assembled from the metadata providers
//   - ReadingHistoryEntry: One book in a user's reading history
//   - UserProfile: A user with history and derived favorites
//   - Recommendation: A scored recommendation with explanations
//
// # HTTP Types
//
//   - APIResponse: Standardized API response wrapper
//   - APIError: Structured error details
//   - Metadata: Response timing metadata
//
// All types are plain value objects; derived fields (favorite lists,
// popularity score) are recomputed by the methods that own them.
package models
