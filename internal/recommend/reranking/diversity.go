// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

// Package reranking implements post-processing algorithms for
// recommendation diversity.
package reranking

import (
	"context"

	"github.com/tomtom215/shelfmark/internal/models"
	"github.com/tomtom215/shelfmark/internal/recommend"
)

// Diversity greedily reduces author and subject repetition in a
// score-sorted recommendation list.
//
// A recommendation is admitted when it introduces a new author, a new
// subject among its first three, or while fewer than topN/2 slots are
// filled. Remaining slots are filled from the skipped items in score
// order, so the result always has min(len, topN) entries. Lists already
// within topN are returned unchanged.
type Diversity struct{}

// NewDiversity creates the diversity reranker.
func NewDiversity() *Diversity {
	return &Diversity{}
}

// Name returns the reranker identifier.
func (d *Diversity) Name() string {
	return "diversity"
}

// subjectWindow is how many leading subjects count toward diversity.
const subjectWindow = 3

// Rerank applies the greedy diversity pass.
func (d *Diversity) Rerank(ctx context.Context, recs []models.Recommendation, topN int) []models.Recommendation {
	if len(recs) <= topN || topN <= 0 {
		return recs
	}

	diverse := make([]models.Recommendation, 0, topN)
	admitted := make(map[int]struct{}, topN)
	seenAuthors := make(map[string]struct{})
	seenSubjects := make(map[string]struct{})

	for i := range recs {
		if len(diverse) >= topN {
			break
		}

		book := &recs[i].Book

		authorsNew := true
		for _, author := range book.Authors {
			if _, seen := seenAuthors[author]; seen {
				authorsNew = false
				break
			}
		}

		// Books without subjects never block on subject diversity.
		subjectsNew := true
		for _, subject := range headSubjects(book.Subjects) {
			if _, seen := seenSubjects[subject]; seen {
				subjectsNew = false
				break
			}
		}

		if !authorsNew && !subjectsNew && len(diverse) >= topN/2 {
			continue
		}

		diverse = append(diverse, recs[i])
		admitted[i] = struct{}{}
		for _, author := range book.Authors {
			seenAuthors[author] = struct{}{}
		}
		for _, subject := range headSubjects(book.Subjects) {
			seenSubjects[subject] = struct{}{}
		}
	}

	// Fill remaining slots with the highest scored skipped items.
	for i := range recs {
		if len(diverse) >= topN {
			break
		}
		if _, ok := admitted[i]; ok {
			continue
		}
		diverse = append(diverse, recs[i])
	}

	return diverse
}

// headSubjects returns the subjects that count toward diversity.
func headSubjects(subjects []string) []string {
	if len(subjects) > subjectWindow {
		return subjects[:subjectWindow]
	}
	return subjects
}

// Ensure Diversity implements the interface.
var _ recommend.Reranker = (*Diversity)(nil)
