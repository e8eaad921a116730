// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package recommend

import (
	"context"

	"github.com/tomtom215/shelfmark/internal/models"
)

// Strategy defines the interface all recommendation strategies implement.
// The set of strategies is fixed and small; there is no plugin registry.
type Strategy interface {
	// Name returns the strategy identifier (e.g. "TF-IDF Content-Based").
	Name() string

	// Recommend scores candidates against the target book and returns up
	// to topN recommendations sorted by descending score. The profile may
	// be nil for unpersonalized requests.
	//
	// Degenerate input (no scorable candidates) yields an empty slice,
	// not an error. Errors are reserved for genuine strategy failures;
	// the engine logs and skips failed strategies.
	Recommend(ctx context.Context, target models.Book, candidates []models.Book, profile *models.UserProfile, topN int) ([]models.Recommendation, error)
}

// Reranker modifies a ranked recommendation list for diversity or other
// secondary objectives.
type Reranker interface {
	// Name returns the reranker identifier (e.g. "diversity").
	Name() string

	// Rerank reorders and truncates an already score-sorted list,
	// returning up to topN recommendations.
	Rerank(ctx context.Context, recs []models.Recommendation, topN int) []models.Recommendation
}

// TimeOfDay values recognized by the context adjuster.
const (
	TimeMorning   = "morning"
	TimeAfternoon = "afternoon"
	TimeEvening   = "evening"
	TimeNight     = "night"
)

// Reading goal values recognized by the context adjuster.
const (
	GoalQuickRead = "quick_read"
	GoalDeepDive  = "deep_dive"
)

// Context carries situational signals for a recommendation request.
// Only the fields below are recognized; anything else a caller might
// send is dropped at the API boundary.
type Context struct {
	// TimeOfDay is one of morning, afternoon, evening, night.
	TimeOfDay string `json:"time_of_day,omitempty" validate:"omitempty,oneof=morning afternoon evening night"`

	// ReadingGoal is one of quick_read, deep_dive.
	ReadingGoal string `json:"reading_goal,omitempty" validate:"omitempty,oneof=quick_read deep_dive"`
}

// Mood selects a genre palette for mood-based recommendations.
type Mood string

// Supported moods.
const (
	MoodHappy       Mood = "happy"
	MoodSad         Mood = "sad"
	MoodAdventurous Mood = "adventurous"
	MoodThoughtful  Mood = "thoughtful"
	MoodRelaxed     Mood = "relaxed"
)

// Valid reports whether the mood is one of the supported values.
func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodSad, MoodAdventurous, MoodThoughtful, MoodRelaxed:
		return true
	default:
		return false
	}
}

// TimeWindow selects the publication-year filter for trending recommendations.
type TimeWindow string

// Supported time windows. Any other value disables the filter.
const (
	WindowRecent   TimeWindow = "recent"
	WindowThisYear TimeWindow = "this_year"
	WindowClassic  TimeWindow = "classic"
)

// Algorithm names emitted on recommendations.
const (
	AlgorithmHybrid     = "Hybrid ML"
	AlgorithmContent    = "TF-IDF Content-Based"
	AlgorithmPreference = "Collaborative Filtering"
	AlgorithmPopularity = "Popularity-Based"
	AlgorithmTrending   = "Trending"
	AlgorithmMood       = "Mood-Based"
)
