// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfmark/internal/config"
)

// testProviderConfig returns a provider config pointing at a test server
// with a rate limit high enough to never block.
func testProviderConfig(baseURL string) *config.ProviderConfig {
	return &config.ProviderConfig{
		Enabled:   true,
		BaseURL:   baseURL,
		Timeout:   5 * time.Second,
		RateLimit: 1000,
		Burst:     1000,
	}
}

func TestOpenLibrarySearchBooks(t *testing.T) {
	t.Parallel()

	var searchParams url.Values
	mux := http.NewServeMux()
	mux.HandleFunc("/search.json", func(w http.ResponseWriter, r *http.Request) {
		searchParams = r.URL.Query()
		fmt.Fprint(w, `{
			"numFound": 2,
			"docs": [
				{
					"key": "/works/OL1W",
					"title": "Dune",
					"author_name": ["Frank Herbert"],
					"first_publish_year": 1965,
					"edition_count": 120,
					"cover_i": 42,
					"subject": ["s1","s2","s3","s4","s5","s6","s7","s8","s9","s10","s11","s12"],
					"ratings_average": 4.2,
					"isbn": ["9780441013593", "0441013597"],
					"publisher": ["Ace Books", "Chilton"],
					"language": ["eng", "fre"]
				},
				{"key": "/works/OL2W", "author_name": ["No Title"]}
			]
		}`)
	})
	mux.HandleFunc("/works/OL1W.json", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"description": {"type": "/type/text", "value": "Epic science fiction."}}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	provider := NewOpenLibrary(testProviderConfig(server.URL), zerolog.Nop())

	books, err := provider.SearchBooks(context.Background(), "dune", nil, 5)
	if err != nil {
		t.Fatalf("SearchBooks() error = %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("got %d books, want 1 (titleless doc skipped)", len(books))
	}

	if got := searchParams.Get("q"); got != "dune" {
		t.Errorf("q param = %q, want dune", got)
	}
	if got := searchParams.Get("limit"); got != "5" {
		t.Errorf("limit param = %q, want 5", got)
	}
	if got := searchParams.Get("fields"); got != searchFields {
		t.Errorf("fields param = %q, want %q", got, searchFields)
	}

	book := books[0]
	if book.Title != "Dune" {
		t.Errorf("Title = %q, want Dune", book.Title)
	}
	if book.WorkID != "OL1W" {
		t.Errorf("WorkID = %q, want OL1W", book.WorkID)
	}
	if book.Year != 1965 {
		t.Errorf("Year = %d, want 1965", book.Year)
	}
	if len(book.Subjects) != maxSubjects {
		t.Errorf("got %d subjects, want capped at %d", len(book.Subjects), maxSubjects)
	}
	if book.CoverURL != "https://covers.openlibrary.org/b/id/42-L.jpg" {
		t.Errorf("CoverURL = %q", book.CoverURL)
	}
	if book.ISBN != "9780441013593" {
		t.Errorf("ISBN = %q, want first element", book.ISBN)
	}
	if book.Publisher != "Ace Books" {
		t.Errorf("Publisher = %q, want first element", book.Publisher)
	}
	if book.Language != "eng" {
		t.Errorf("Language = %q, want first element", book.Language)
	}
	if book.Rating == nil || *book.Rating != 4.2 {
		t.Errorf("Rating = %v, want 4.2", book.Rating)
	}
	if book.Description != "Epic science fiction." {
		t.Errorf("Description = %q, want work description", book.Description)
	}
	if book.PopularityScore <= 0 {
		t.Errorf("PopularityScore = %f, want > 0", book.PopularityScore)
	}
}

func TestOpenLibrarySearchFilters(t *testing.T) {
	t.Parallel()

	var params url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params = r.URL.Query()
		fmt.Fprint(w, `{"numFound": 0, "docs": []}`)
	}))
	defer server.Close()

	provider := NewOpenLibrary(testProviderConfig(server.URL), zerolog.Nop())

	filters := &SearchFilters{YearFrom: 1990, YearTo: 2020, MinRating: 3.5}
	if _, err := provider.SearchBooks(context.Background(), "go", filters, 10); err != nil {
		t.Fatalf("SearchBooks() error = %v", err)
	}

	if got := params.Get("first_publish_year__gte"); got != "1990" {
		t.Errorf("year_from param = %q, want 1990", got)
	}
	if got := params.Get("first_publish_year__lte"); got != "2020" {
		t.Errorf("year_to param = %q, want 2020", got)
	}
	if got := params.Get("ratings_average__gte"); got != "3.5" {
		t.Errorf("min_rating param = %q, want 3.5", got)
	}
}

func TestOpenLibraryGetBook(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/works/OL9W.json" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{
			"title": "Hyperion",
			"description": "A pilgrimage to the Time Tombs.",
			"subjects": ["science fiction", "space opera"],
			"covers": [77]
		}`)
	}))
	defer server.Close()

	provider := NewOpenLibrary(testProviderConfig(server.URL), zerolog.Nop())

	book, err := provider.GetBook(context.Background(), "OL9W")
	if err != nil {
		t.Fatalf("GetBook() error = %v", err)
	}
	if book.Title != "Hyperion" {
		t.Errorf("Title = %q, want Hyperion", book.Title)
	}
	if book.WorkID != "OL9W" {
		t.Errorf("WorkID = %q, want OL9W", book.WorkID)
	}
	if book.Description != "A pilgrimage to the Time Tombs." {
		t.Errorf("Description = %q", book.Description)
	}
	if book.CoverURL != "https://covers.openlibrary.org/b/id/77-L.jpg" {
		t.Errorf("CoverURL = %q", book.CoverURL)
	}
}

func TestOpenLibrarySearchServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewOpenLibrary(testProviderConfig(server.URL), zerolog.Nop())

	if _, err := provider.SearchBooks(context.Background(), "dune", nil, 5); err == nil {
		t.Error("SearchBooks() = nil error, want error on 500")
	}
}

func TestDecodeDescription(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain string", `"a story"`, "a story"},
		{"typed value object", `{"type": "/type/text", "value": "a story"}`, "a story"},
		{"empty", ``, ""},
		{"object without value", `{"type": "/type/text"}`, ""},
		{"unexpected shape", `[1, 2]`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := decodeDescription([]byte(tt.raw)); got != tt.want {
				t.Errorf("decodeDescription(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestWorkIDFromKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want string
	}{
		{"/works/OL45883W", "OL45883W"},
		{"OL45883W", "OL45883W"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := workIDFromKey(tt.key); got != tt.want {
			t.Errorf("workIDFromKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
