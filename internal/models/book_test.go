// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package models

import (
	"math"
	"testing"
)

func floatPtr(f float64) *float64 { return &f }

func TestCalculatePopularityScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		book Book
		want float64
	}{
		{
			name: "no editions no rating",
			book: Book{},
			want: 0,
		},
		{
			name: "editions capped at 100",
			book: Book{EditionCount: 250},
			want: 0.4,
		},
		{
			name: "rating only",
			book: Book{Rating: floatPtr(5.0)},
			want: 0.6,
		},
		{
			name: "combined",
			book: Book{EditionCount: 50, Rating: floatPtr(4.0)},
			want: 0.5*0.4 + 4.0/5.0*0.6,
		},
		{
			name: "maximum",
			book: Book{EditionCount: 100, Rating: floatPtr(5.0)},
			want: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := tt.book.CalculatePopularityScore()
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CalculatePopularityScore() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBookID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		book Book
		want string
	}{
		{name: "work id preferred", book: Book{Title: "Dune", WorkID: "OL893415W"}, want: "OL893415W"},
		{name: "title fallback", book: Book{Title: "Dune"}, want: "Dune"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.book.ID(); got != tt.want {
				t.Errorf("ID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextRepresentation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		book Book
		want string
	}{
		{
			name: "all parts",
			book: Book{
				Title:       "Dune",
				Authors:     []string{"Frank Herbert"},
				Subjects:    []string{"science fiction", "desert"},
				Description: "A classic.",
			},
			want: "Dune Frank Herbert science fiction desert A classic.",
		},
		{
			name: "missing parts skipped",
			book: Book{Title: "Dune"},
			want: "Dune",
		},
		{
			name: "empty book",
			book: Book{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.book.TextRepresentation(); got != tt.want {
				t.Errorf("TextRepresentation() = %q, want %q", got, tt.want)
			}
		})
	}
}
