// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package recommend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/shelfmark/internal/models"
)

// moodGenres maps each mood to its target genre palette. Matching is
// case-insensitive substring containment against candidate subjects.
var moodGenres = map[Mood][]string{
	MoodHappy:       {"comedy", "romance", "humor", "feel-good"},
	MoodSad:         {"drama", "literary fiction", "poetry"},
	MoodAdventurous: {"adventure", "action", "thriller", "fantasy"},
	MoodThoughtful:  {"philosophy", "non-fiction", "science", "history"},
	MoodRelaxed:     {"mystery", "cozy", "light fiction", "travel"},
}

// MoodBased scores candidates against the mood's genre palette.
//
// The base score is the fraction of target genres matched by the
// candidate's subjects. Matches whose already-memoized sentiment aligns
// with the mood polarity (happy/positive, sad/negative) receive the
// mood-sentiment boost; sentiment is never computed here, only read
// when a prior Recommend pass set it. Zero-score candidates are
// excluded.
func (e *Engine) MoodBased(ctx context.Context, candidates []models.Book, mood Mood, topN int) []models.Recommendation {
	e.requestCount.Add(1)
	topN = e.boundTopN(topN)

	targetGenres := moodGenres[mood]
	if len(targetGenres) == 0 {
		e.logger.Warn().Str("mood", string(mood)).Msg("unknown mood")
		return []models.Recommendation{}
	}

	recs := make([]models.Recommendation, 0, len(candidates))
	for i := range candidates {
		book := candidates[i]

		matches := 0
		for _, genre := range targetGenres {
			if subjectsContain(book.Subjects, genre) {
				matches++
			}
		}
		if matches == 0 {
			continue
		}

		score := float64(matches) / float64(len(targetGenres))

		var sentiment float64
		if book.SentimentScore != nil {
			sentiment = *book.SentimentScore
		}
		if moodAligned(mood, sentiment) {
			score = clamp01(score * e.config.Boosts.MoodSentiment)
		}

		recs = append(recs, models.Recommendation{
			Book:      book,
			Score:     score,
			Algorithm: AlgorithmMood,
			Reasons: []string{
				fmt.Sprintf("Matches '%s' mood", mood),
				"Genres: " + topSubjects(book.Subjects, 3),
				"Sentiment: " + e.sentiment.Label(sentiment),
			},
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})

	if len(recs) > topN {
		recs = recs[:topN]
	}

	e.logger.Debug().
		Str("mood", string(mood)).
		Int("candidates", len(candidates)).
		Int("returned", len(recs)).
		Msg("mood recommendations complete")

	return recs
}

// MoodQuery returns a catalog search query covering the mood's genre
// palette, for callers that need candidates but have no user query.
func MoodQuery(mood Mood) string {
	return strings.Join(moodGenres[mood], " ")
}

// subjectsContain reports whether any subject contains the genre as a
// case-insensitive substring.
func subjectsContain(subjects []string, genre string) bool {
	for _, subject := range subjects {
		if strings.Contains(strings.ToLower(subject), genre) {
			return true
		}
	}
	return false
}

// moodAligned reports whether the sentiment polarity matches the mood.
func moodAligned(mood Mood, sentiment float64) bool {
	switch mood {
	case MoodHappy:
		return sentiment > 0
	case MoodSad:
		return sentiment < 0
	default:
		return false
	}
}

// topSubjects joins the first n subjects, or "Various" when there are none.
func topSubjects(subjects []string, n int) string {
	if len(subjects) == 0 {
		return "Various"
	}
	if len(subjects) > n {
		subjects = subjects[:n]
	}
	return strings.Join(subjects, ", ")
}
