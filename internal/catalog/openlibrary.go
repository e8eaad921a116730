// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfmark/internal/config"
	"github.com/tomtom215/shelfmark/internal/metrics"
	"github.com/tomtom215/shelfmark/internal/models"
)

const (
	openLibraryName = "openlibrary"

	// searchFields trims the search response to the fields we map.
	searchFields = "title,author_name,first_publish_year,edition_count,cover_i,subject,ratings_average,key,isbn,publisher,language"

	// coverURLFormat builds a large cover image URL from a cover ID.
	coverURLFormat = "https://covers.openlibrary.org/b/id/%d-L.jpg"

	// maxSubjects caps the subject list carried per book.
	maxSubjects = 10
)

// OpenLibrary fetches book metadata from the OpenLibrary API.
type OpenLibrary struct {
	baseURL string
	client  *resilientClient
	logger  zerolog.Logger
}

// NewOpenLibrary creates an OpenLibrary provider.
//
//nolint:gocritic // zerolog.Logger is passed by value per its documentation
func NewOpenLibrary(cfg *config.ProviderConfig, logger zerolog.Logger) *OpenLibrary {
	return &OpenLibrary{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		client:  newResilientClient(openLibraryName, cfg, logger),
		logger:  logger.With().Str("component", "catalog").Str("provider", openLibraryName).Logger(),
	}
}

// Name returns the provider name used in logs and metrics.
func (o *OpenLibrary) Name() string {
	return openLibraryName
}

type openLibrarySearchResponse struct {
	NumFound int              `json:"numFound"`
	Docs     []openLibraryDoc `json:"docs"`
}

type openLibraryDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear int      `json:"first_publish_year"`
	EditionCount     int      `json:"edition_count"`
	CoverID          int      `json:"cover_i"`
	Subject          []string `json:"subject"`
	RatingsAverage   *float64 `json:"ratings_average"`
	ISBN             []string `json:"isbn"`
	Publisher        []string `json:"publisher"`
	Language         []string `json:"language"`
}

type openLibraryWork struct {
	Title       string          `json:"title"`
	Description json.RawMessage `json:"description"`
	Subjects    []string        `json:"subjects"`
	Covers      []int           `json:"covers"`
}

// SearchBooks searches the OpenLibrary catalog. Docs without a title are
// skipped. Descriptions require one extra request per work and are fetched
// best-effort.
func (o *OpenLibrary) SearchBooks(ctx context.Context, query string, filters *SearchFilters, limit int) ([]models.Book, error) {
	start := time.Now()

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fields", searchFields)
	if filters != nil {
		if filters.YearFrom > 0 {
			params.Set("first_publish_year__gte", strconv.Itoa(filters.YearFrom))
		}
		if filters.YearTo > 0 {
			params.Set("first_publish_year__lte", strconv.Itoa(filters.YearTo))
		}
		if filters.MinRating > 0 {
			params.Set("ratings_average__gte", strconv.FormatFloat(filters.MinRating, 'f', -1, 64))
		}
	}

	var resp openLibrarySearchResponse
	err := o.client.getJSON(ctx, o.baseURL+"/search.json?"+params.Encode(), &resp)
	metrics.RecordCatalogRequest(openLibraryName, "search", time.Since(start), len(resp.Docs), err)
	if err != nil {
		return nil, fmt.Errorf("openlibrary search: %w", err)
	}

	books := make([]models.Book, 0, len(resp.Docs))
	for i := range resp.Docs {
		doc := &resp.Docs[i]
		if doc.Title == "" {
			continue
		}
		books = append(books, o.bookFromDoc(ctx, doc))
	}

	o.logger.Info().
		Str("query", query).
		Int("found", len(books)).
		Msg("search completed")
	return books, nil
}

func (o *OpenLibrary) bookFromDoc(ctx context.Context, doc *openLibraryDoc) models.Book {
	book := models.Book{
		Title:        doc.Title,
		Authors:      doc.AuthorName,
		Year:         doc.FirstPublishYear,
		EditionCount: doc.EditionCount,
		Subjects:     headSubjects(doc.Subject, maxSubjects),
		WorkID:       workIDFromKey(doc.Key),
		Rating:       doc.RatingsAverage,
		ISBN:         firstString(doc.ISBN),
		Publisher:    firstString(doc.Publisher),
		Language:     firstString(doc.Language),
	}
	if len(book.Authors) == 0 {
		book.Authors = []string{"Unknown"}
	}
	if doc.CoverID != 0 {
		book.CoverURL = fmt.Sprintf(coverURLFormat, doc.CoverID)
	}
	if book.WorkID != "" {
		book.Description = o.fetchDescription(ctx, book.WorkID)
	}
	book.PopularityScore = book.CalculatePopularityScore()
	return book
}

// GetBook fetches a single work by its OpenLibrary work ID.
func (o *OpenLibrary) GetBook(ctx context.Context, id string) (*models.Book, error) {
	start := time.Now()

	var work openLibraryWork
	err := o.client.getJSON(ctx, o.workURL(id), &work)
	if err != nil {
		metrics.RecordCatalogRequest(openLibraryName, "get", time.Since(start), 0, err)
		return nil, fmt.Errorf("openlibrary get %s: %w", id, err)
	}
	metrics.RecordCatalogRequest(openLibraryName, "get", time.Since(start), 1, nil)

	book := &models.Book{
		Title:       work.Title,
		WorkID:      id,
		Description: decodeDescription(work.Description),
		Subjects:    headSubjects(work.Subjects, maxSubjects),
	}
	if len(work.Covers) > 0 && work.Covers[0] > 0 {
		book.CoverURL = fmt.Sprintf(coverURLFormat, work.Covers[0])
	}
	book.PopularityScore = book.CalculatePopularityScore()
	return book, nil
}

// fetchDescription loads a work description. Failures degrade to an
// empty description rather than failing the whole search.
func (o *OpenLibrary) fetchDescription(ctx context.Context, workID string) string {
	var work openLibraryWork
	if err := o.client.getJSON(ctx, o.workURL(workID), &work); err != nil {
		o.logger.Debug().Err(err).Str("work_id", workID).Msg("description fetch failed")
		return ""
	}
	return decodeDescription(work.Description)
}

func (o *OpenLibrary) workURL(workID string) string {
	return o.baseURL + "/works/" + url.PathEscape(workID) + ".json"
}

// decodeDescription handles the two shapes OpenLibrary uses for work
// descriptions: a bare string, or {"type": ..., "value": "..."}.
func decodeDescription(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Value
	}
	return ""
}

// workIDFromKey extracts the work ID from an OpenLibrary key such as
// "/works/OL45883W".
func workIDFromKey(key string) string {
	if key == "" {
		return ""
	}
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}

func headSubjects(subjects []string, n int) []string {
	if len(subjects) > n {
		return subjects[:n]
	}
	return subjects
}

func firstString(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
