// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfmark/internal/models"
)

type stubProvider struct {
	name        string
	books       []models.Book
	searchErr   error
	book        *models.Book
	getErr      error
	searchCalls int
	getCalls    int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) SearchBooks(_ context.Context, _ string, _ *SearchFilters, _ int) ([]models.Book, error) {
	s.searchCalls++
	return s.books, s.searchErr
}

func (s *stubProvider) GetBook(_ context.Context, _ string) (*models.Book, error) {
	s.getCalls++
	return s.book, s.getErr
}

func TestMultiSearchPrimaryWins(t *testing.T) {
	t.Parallel()

	primary := &stubProvider{name: "primary", books: []models.Book{{Title: "Dune"}}}
	secondary := &stubProvider{name: "secondary", books: []models.Book{{Title: "Other"}}}
	multi := NewMulti(zerolog.Nop(), primary, secondary)

	books, err := multi.SearchBooks(context.Background(), "dune", nil, 10)
	if err != nil {
		t.Fatalf("SearchBooks() error = %v", err)
	}
	if len(books) != 1 || books[0].Title != "Dune" {
		t.Errorf("got %v, want primary result", books)
	}
	if secondary.searchCalls != 0 {
		t.Error("secondary provider was queried despite primary success")
	}
}

func TestMultiSearchFallsBackOnError(t *testing.T) {
	t.Parallel()

	primary := &stubProvider{name: "primary", searchErr: errors.New("upstream down")}
	secondary := &stubProvider{name: "secondary", books: []models.Book{{Title: "Other"}}}
	multi := NewMulti(zerolog.Nop(), primary, secondary)

	books, err := multi.SearchBooks(context.Background(), "dune", nil, 10)
	if err != nil {
		t.Fatalf("SearchBooks() error = %v", err)
	}
	if len(books) != 1 || books[0].Title != "Other" {
		t.Errorf("got %v, want fallback result", books)
	}
}

func TestMultiSearchFallsBackOnEmpty(t *testing.T) {
	t.Parallel()

	primary := &stubProvider{name: "primary", books: []models.Book{}}
	secondary := &stubProvider{name: "secondary", books: []models.Book{{Title: "Other"}}}
	multi := NewMulti(zerolog.Nop(), primary, secondary)

	books, err := multi.SearchBooks(context.Background(), "dune", nil, 10)
	if err != nil {
		t.Fatalf("SearchBooks() error = %v", err)
	}
	if len(books) != 1 || books[0].Title != "Other" {
		t.Errorf("got %v, want fallback result", books)
	}
}

func TestMultiSearchAllFailedReturnsEmpty(t *testing.T) {
	t.Parallel()

	primary := &stubProvider{name: "primary", searchErr: errors.New("down")}
	secondary := &stubProvider{name: "secondary", searchErr: errors.New("also down")}
	multi := NewMulti(zerolog.Nop(), primary, secondary)

	books, err := multi.SearchBooks(context.Background(), "dune", nil, 10)
	if err != nil {
		t.Fatalf("SearchBooks() error = %v, want graceful degradation", err)
	}
	if len(books) != 0 {
		t.Errorf("got %d books, want 0", len(books))
	}
}

func TestMultiGetBookFallback(t *testing.T) {
	t.Parallel()

	primary := &stubProvider{name: "primary", getErr: errors.New("down")}
	secondary := &stubProvider{name: "secondary", book: &models.Book{Title: "Dune"}}
	multi := NewMulti(zerolog.Nop(), primary, secondary)

	book, err := multi.GetBook(context.Background(), "OL1W")
	if err != nil {
		t.Fatalf("GetBook() error = %v", err)
	}
	if book == nil || book.Title != "Dune" {
		t.Errorf("got %v, want fallback book", book)
	}
}

func TestMultiGetBookNotFound(t *testing.T) {
	t.Parallel()

	primary := &stubProvider{name: "primary"}
	secondary := &stubProvider{name: "secondary"}
	multi := NewMulti(zerolog.Nop(), primary, secondary)

	book, err := multi.GetBook(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetBook() error = %v", err)
	}
	if book != nil {
		t.Errorf("got %v, want nil for unknown ID", book)
	}
	if primary.getCalls != 1 || secondary.getCalls != 1 {
		t.Error("expected both providers to be consulted")
	}
}
