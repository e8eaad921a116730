// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package recommend

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/tomtom215/shelfmark/internal/models"
)

func TestMoodBasedScoring(t *testing.T) {
	t.Parallel()

	engine := newEngineForTest(t)
	candidates := []models.Book{
		{Title: "noir", Subjects: []string{"Crime Noir"}},
		{Title: "romcom", Subjects: []string{"Romance", "Humor"}},
		{Title: "comic", Subjects: []string{"Comedy"}},
	}

	recs := engine.MoodBased(context.Background(), candidates, MoodHappy, 10)
	if len(recs) != 2 {
		t.Fatalf("got %d recommendations, want 2 (zero-score excluded)", len(recs))
	}

	// romcom matches romance and humor: 2/4. comic matches comedy: 1/4.
	if recs[0].Book.Title != "romcom" {
		t.Errorf("top = %q, want %q", recs[0].Book.Title, "romcom")
	}
	if math.Abs(recs[0].Score-0.5) > 1e-9 {
		t.Errorf("romcom score = %v, want 0.5", recs[0].Score)
	}
	if math.Abs(recs[1].Score-0.25) > 1e-9 {
		t.Errorf("comic score = %v, want 0.25", recs[1].Score)
	}
	if recs[0].Algorithm != AlgorithmMood {
		t.Errorf("Algorithm = %q, want %q", recs[0].Algorithm, AlgorithmMood)
	}
}

func TestMoodBasedSentimentAlignmentBoost(t *testing.T) {
	t.Parallel()

	engine := newEngineForTest(t)
	positive := 0.8
	negative := -0.8

	tests := []struct {
		name string
		mood Mood
		book models.Book
		want float64
	}{
		{
			name: "happy boosted by positive sentiment",
			mood: MoodHappy,
			book: models.Book{Title: "x", Subjects: []string{"Comedy"}, SentimentScore: &positive},
			want: 0.25 * 1.2,
		},
		{
			name: "happy not boosted by negative sentiment",
			mood: MoodHappy,
			book: models.Book{Title: "x", Subjects: []string{"Comedy"}, SentimentScore: &negative},
			want: 0.25,
		},
		{
			name: "sad boosted by negative sentiment",
			mood: MoodSad,
			book: models.Book{Title: "x", Subjects: []string{"Drama"}, SentimentScore: &negative},
			want: (1.0 / 3.0) * 1.2,
		},
		{
			name: "adventurous never sentiment boosted",
			mood: MoodAdventurous,
			book: models.Book{Title: "x", Subjects: []string{"Adventure"}, SentimentScore: &positive},
			want: 0.25,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			recs := engine.MoodBased(context.Background(), []models.Book{tt.book}, tt.mood, 10)
			if len(recs) != 1 {
				t.Fatalf("got %d recommendations, want 1", len(recs))
			}
			if math.Abs(recs[0].Score-tt.want) > 1e-9 {
				t.Errorf("score = %v, want %v", recs[0].Score, tt.want)
			}
		})
	}
}

func TestMoodBasedUnknownMood(t *testing.T) {
	t.Parallel()

	engine := newEngineForTest(t)
	candidates := []models.Book{{Title: "x", Subjects: []string{"Comedy"}}}

	recs := engine.MoodBased(context.Background(), candidates, Mood("furious"), 10)
	if len(recs) != 0 {
		t.Errorf("got %d recommendations for unknown mood, want 0", len(recs))
	}
}

func TestMoodBasedDoesNotComputeSentiment(t *testing.T) {
	t.Parallel()

	engine := newEngineForTest(t)
	candidates := []models.Book{
		{
			Title:       "fresh",
			Subjects:    []string{"Comedy"},
			Description: "a wonderful and brilliant story",
		},
	}

	recs := engine.MoodBased(context.Background(), candidates, MoodHappy, 10)
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}

	// Sentiment is only read when a prior Recommend pass memoized it; a
	// fresh candidate scores the bare genre fraction with no alignment
	// boost, and its description is never analyzed here.
	if math.Abs(recs[0].Score-0.25) > 1e-9 {
		t.Errorf("score = %v, want 0.25 (1/4 genres, unboosted)", recs[0].Score)
	}
	if candidates[0].SentimentScore != nil {
		t.Errorf("SentimentScore = %v, want nil", *candidates[0].SentimentScore)
	}
	if !strings.Contains(strings.Join(recs[0].Reasons, "|"), "Sentiment: Neutral") {
		t.Errorf("Reasons = %v, missing neutral sentiment label", recs[0].Reasons)
	}
}

func TestMoodBasedReasons(t *testing.T) {
	t.Parallel()

	engine := newEngineForTest(t)
	candidates := []models.Book{
		{
			Title:          "cheery",
			Subjects:       []string{"Comedy", "Romance", "Slice of Life", "Extra"},
			Description:    "wonderful delightful",
			SentimentScore: floatPtr(1.0),
		},
	}

	recs := engine.MoodBased(context.Background(), candidates, MoodHappy, 10)
	if len(recs) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(recs))
	}

	joined := strings.Join(recs[0].Reasons, "|")
	for _, want := range []string{
		"Matches 'happy' mood",
		"Genres: Comedy, Romance, Slice of Life",
		"Sentiment: Positive",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("Reasons = %v, missing %q", recs[0].Reasons, want)
		}
	}
}

func TestMoodValid(t *testing.T) {
	t.Parallel()

	for _, mood := range []Mood{MoodHappy, MoodSad, MoodAdventurous, MoodThoughtful, MoodRelaxed} {
		if !mood.Valid() {
			t.Errorf("%q.Valid() = false, want true", mood)
		}
	}
	if Mood("grumpy").Valid() {
		t.Error(`Mood("grumpy").Valid() = true, want false`)
	}
}
