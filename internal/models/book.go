// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package models

import "strings"

// Book represents a catalog entry assembled from the book metadata providers.
type Book struct {
	// Title is the book title.
	Title string `json:"title"`

	// Authors is the ordered list of author names.
	Authors []string `json:"authors"`

	// Year is the first publication year (0 = unknown).
	Year int `json:"year"`

	// EditionCount is the number of known editions.
	EditionCount int `json:"edition_count"`

	// Subjects is a list of subject/genre tags, possibly empty.
	Subjects []string `json:"subjects,omitempty"`

	// Description is the free-text work description, if available.
	Description string `json:"description,omitempty"`

	// WorkID is a stable provider identifier (e.g. OpenLibrary work key).
	WorkID string `json:"work_id,omitempty"`

	// Rating is the community rating on a 0-5 scale, nil if unknown.
	Rating *float64 `json:"rating,omitempty"`

	// PageCount is the number of pages, nil if unknown.
	PageCount *int `json:"page_count,omitempty"`

	// ISBN is the primary ISBN, if known.
	ISBN string `json:"isbn,omitempty"`

	// Publisher is the primary publisher, if known.
	Publisher string `json:"publisher,omitempty"`

	// Language is the primary language code, if known.
	Language string `json:"language,omitempty"`

	// CoverURL points at a cover image, if one exists.
	CoverURL string `json:"cover_url,omitempty"`

	// SentimentScore is the lexicon sentiment of the description in [-1, 1].
	// Populated lazily by the recommendation engine on first use and never
	// recomputed afterwards, even if Description changes.
	SentimentScore *float64 `json:"sentiment_score,omitempty"`

	// PopularityScore is derived from edition count and rating, in [0, 1].
	PopularityScore float64 `json:"popularity_score,omitempty"`
}

// ID returns the stable identity used to merge strategy outputs:
// the work ID when present, otherwise the title.
func (b *Book) ID() string {
	if b.WorkID != "" {
		return b.WorkID
	}
	return b.Title
}

// CalculatePopularityScore derives the popularity score from edition count
// and rating: min(editions/100, 1)*0.4 + rating/5*0.6.
func (b *Book) CalculatePopularityScore() float64 {
	editionScore := float64(b.EditionCount) / 100.0
	if editionScore > 1.0 {
		editionScore = 1.0
	}
	var rating float64
	if b.Rating != nil {
		rating = *b.Rating
	}
	return editionScore*0.4 + rating/5.0*0.6
}

// TextRepresentation concatenates title, authors, subjects and description
// into the text document used for similarity scoring. Empty parts are skipped.
func (b *Book) TextRepresentation() string {
	parts := make([]string, 0, 4)
	if b.Title != "" {
		parts = append(parts, b.Title)
	}
	if len(b.Authors) > 0 {
		parts = append(parts, strings.Join(b.Authors, " "))
	}
	if len(b.Subjects) > 0 {
		parts = append(parts, strings.Join(b.Subjects, " "))
	}
	if b.Description != "" {
		parts = append(parts, b.Description)
	}
	return strings.Join(parts, " ")
}

// Recommendation is a single scored recommendation produced by the engine.
type Recommendation struct {
	// Book is the recommended book.
	Book Book `json:"book"`

	// Score is the recommendation score, clamped to [0, 1] after boosts.
	Score float64 `json:"score"`

	// Algorithm names the strategy that produced the recommendation.
	Algorithm string `json:"algorithm"`

	// Reasons is an ordered list of human-readable explanations.
	Reasons []string `json:"reasons,omitempty"`
}
