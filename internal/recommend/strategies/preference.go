// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package strategies

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfmark/internal/models"
	"github.com/tomtom215/shelfmark/internal/recommend"
)

// likedThreshold is the minimum rating for a history entry to contribute
// to preference scoring.
const likedThreshold = 4.0

// PreferenceMatcher scores candidates against the user's own reading
// history. For each liked history entry it computes a lightweight
// similarity (author overlap plus tag/subject overlap) and averages the
// rating-weighted similarities into a [0, 1] score.
//
// Without a profile or history the strategy falls back to popularity
// ranking; those recommendations carry the popularity algorithm name so
// the fused output stays honest about its provenance.
type PreferenceMatcher struct {
	logger zerolog.Logger
}

// NewPreferenceMatcher creates the preference matching strategy.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPreferenceMatcher(logger zerolog.Logger) *PreferenceMatcher {
	return &PreferenceMatcher{
		logger: logger.With().Str("component", "strategy_preference").Logger(),
	}
}

// Name returns the strategy identifier.
func (p *PreferenceMatcher) Name() string {
	return recommend.AlgorithmPreference
}

// Recommend scores candidates against the user's reading history.
//
//nolint:gocritic // hugeParam: target passed by value for immutability
func (p *PreferenceMatcher) Recommend(ctx context.Context, target models.Book, candidates []models.Book, profile *models.UserProfile, topN int) ([]models.Recommendation, error) {
	if profile == nil || len(profile.ReadingHistory) == 0 {
		p.logger.Debug().Msg("no reading history, falling back to popularity")
		return p.popularityFallback(candidates, topN), nil
	}

	recs := make([]models.Recommendation, 0, len(candidates))
	for i := range candidates {
		score := preferenceScore(&candidates[i], profile)
		if score <= 0 {
			continue
		}

		recs = append(recs, models.Recommendation{
			Book:      candidates[i],
			Score:     score,
			Algorithm: p.Name(),
			Reasons:   buildPreferenceReasons(&candidates[i], profile, score),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})

	if len(recs) > topN {
		recs = recs[:topN]
	}

	p.logger.Debug().
		Str("user_id", profile.UserID).
		Int("candidates", len(candidates)).
		Int("returned", len(recs)).
		Msg("preference recommendations generated")

	return recs, nil
}

// preferenceScore averages rating-weighted similarities over the liked
// history entries, scaled back to [0, 1] by the 5-point rating ceiling.
func preferenceScore(book *models.Book, profile *models.UserProfile) float64 {
	var sum float64
	count := 0

	for i := range profile.ReadingHistory {
		entry := &profile.ReadingHistory[i]
		if entry.Rating == nil || *entry.Rating < likedThreshold {
			continue
		}

		sim := entrySimilarity(book, entry)
		if sim > 0 {
			sum += *entry.Rating * sim
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return (sum / float64(count)) / 5.0
}

// entrySimilarity computes the similarity between a candidate and one
// history entry: 0.5 for author overlap plus up to 0.3 for tag overlap
// against the candidate's first five subjects, capped at 1.0.
func entrySimilarity(book *models.Book, entry *models.ReadingHistoryEntry) float64 {
	var sim float64

	if anyOverlap(book.Authors, entry.Authors) {
		sim += 0.5
	}

	subjects := headStrings(book.Subjects, 5)
	if len(subjects) > 0 && len(entry.Tags) > 0 {
		common := orderedIntersection(subjects, entry.Tags)
		if len(common) > 0 {
			denom := len(subjects)
			if len(entry.Tags) > denom {
				denom = len(entry.Tags)
			}
			sim += 0.3 * (float64(len(common)) / float64(denom))
		}
	}

	return math.Min(sim, 1.0)
}

// buildPreferenceReasons explains a preference match.
func buildPreferenceReasons(book *models.Book, profile *models.UserProfile, score float64) []string {
	reasons := make([]string, 0, 3)

	for i := range profile.ReadingHistory {
		entry := &profile.ReadingHistory[i]
		if entry.Rating == nil || *entry.Rating < likedThreshold {
			continue
		}
		if anyOverlap(book.Authors, entry.Authors) {
			reasons = append(reasons, "You enjoyed: "+entry.Title)
			break
		}
	}

	reasons = append(reasons, fmt.Sprintf("Match score: %.2f%%", score*100))

	if book.Rating != nil {
		reasons = append(reasons, fmt.Sprintf("Community rating: %.1f/5.0", *book.Rating))
	}

	return reasons
}

// popularityFallback ranks candidates by precomputed popularity.
// Candidates with zero popularity are skipped.
func (p *PreferenceMatcher) popularityFallback(candidates []models.Book, topN int) []models.Recommendation {
	recs := make([]models.Recommendation, 0, len(candidates))
	for i := range candidates {
		if candidates[i].PopularityScore == 0 {
			continue
		}
		recs = append(recs, models.Recommendation{
			Book:      candidates[i],
			Score:     candidates[i].PopularityScore,
			Algorithm: recommend.AlgorithmPopularity,
			Reasons: []string{
				fmt.Sprintf("Popular book with %d editions", candidates[i].EditionCount),
			},
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})

	if len(recs) > topN {
		recs = recs[:topN]
	}
	return recs
}
