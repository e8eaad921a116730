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

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfmark/internal/config"
	"github.com/tomtom215/shelfmark/internal/metrics"
	"github.com/tomtom215/shelfmark/internal/models"
)

const (
	googleBooksName = "googlebooks"

	// googleBooksMaxResults is the API's hard cap on maxResults.
	googleBooksMaxResults = 40
)

// GoogleBooks fetches book metadata from the Google Books volumes API.
type GoogleBooks struct {
	baseURL string
	apiKey  string
	client  *resilientClient
	logger  zerolog.Logger
}

// NewGoogleBooks creates a Google Books provider. The API key is optional
// for search but raises quota limits when present.
//
//nolint:gocritic // zerolog.Logger is passed by value per its documentation
func NewGoogleBooks(cfg *config.ProviderConfig, logger zerolog.Logger) *GoogleBooks {
	return &GoogleBooks{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		client:  newResilientClient(googleBooksName, cfg, logger),
		logger:  logger.With().Str("component", "catalog").Str("provider", googleBooksName).Logger(),
	}
}

// Name returns the provider name used in logs and metrics.
func (g *GoogleBooks) Name() string {
	return googleBooksName
}

type googleBooksResponse struct {
	TotalItems int               `json:"totalItems"`
	Items      []googleBooksItem `json:"items"`
}

type googleBooksItem struct {
	ID         string                `json:"id"`
	VolumeInfo googleBooksVolumeInfo `json:"volumeInfo"`
}

type googleBooksVolumeInfo struct {
	Title               string                 `json:"title"`
	Authors             []string               `json:"authors"`
	PublishedDate       string                 `json:"publishedDate"`
	Categories          []string               `json:"categories"`
	Description         string                 `json:"description"`
	AverageRating       *float64               `json:"averageRating"`
	PageCount           *int                   `json:"pageCount"`
	Publisher           string                 `json:"publisher"`
	Language            string                 `json:"language"`
	IndustryIdentifiers []googleBooksID        `json:"industryIdentifiers"`
	ImageLinks          *googleBooksImageLinks `json:"imageLinks"`
}

type googleBooksID struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type googleBooksImageLinks struct {
	Thumbnail      string `json:"thumbnail"`
	SmallThumbnail string `json:"smallThumbnail"`
}

// SearchBooks searches the Google Books catalog.
func (g *GoogleBooks) SearchBooks(ctx context.Context, query string, _ *SearchFilters, limit int) ([]models.Book, error) {
	start := time.Now()

	if limit > googleBooksMaxResults {
		limit = googleBooksMaxResults
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(limit))
	params.Set("printType", "books")
	if g.apiKey != "" {
		params.Set("key", g.apiKey)
	}

	var resp googleBooksResponse
	err := g.client.getJSON(ctx, g.baseURL+"/volumes?"+params.Encode(), &resp)
	metrics.RecordCatalogRequest(googleBooksName, "search", time.Since(start), len(resp.Items), err)
	if err != nil {
		return nil, fmt.Errorf("googlebooks search: %w", err)
	}

	books := make([]models.Book, 0, len(resp.Items))
	for i := range resp.Items {
		if resp.Items[i].VolumeInfo.Title == "" {
			continue
		}
		books = append(books, bookFromVolume(&resp.Items[i]))
	}

	g.logger.Info().
		Str("query", query).
		Int("found", len(books)).
		Msg("search completed")
	return books, nil
}

// GetBook fetches a single volume by its Google Books volume ID.
func (g *GoogleBooks) GetBook(ctx context.Context, id string) (*models.Book, error) {
	start := time.Now()

	rawURL := g.baseURL + "/volumes/" + url.PathEscape(id)
	if g.apiKey != "" {
		rawURL += "?key=" + url.QueryEscape(g.apiKey)
	}

	var item googleBooksItem
	err := g.client.getJSON(ctx, rawURL, &item)
	if err != nil {
		metrics.RecordCatalogRequest(googleBooksName, "get", time.Since(start), 0, err)
		return nil, fmt.Errorf("googlebooks get %s: %w", id, err)
	}
	metrics.RecordCatalogRequest(googleBooksName, "get", time.Since(start), 1, nil)

	if item.VolumeInfo.Title == "" {
		return nil, nil
	}
	book := bookFromVolume(&item)
	return &book, nil
}

func bookFromVolume(item *googleBooksItem) models.Book {
	info := &item.VolumeInfo

	book := models.Book{
		Title:   info.Title,
		Authors: info.Authors,
		Year:    yearFromDate(info.PublishedDate),
		// Google Books does not expose edition counts.
		EditionCount: 1,
		Subjects:     info.Categories,
		Description:  info.Description,
		WorkID:       item.ID,
		Rating:       info.AverageRating,
		PageCount:    info.PageCount,
		ISBN:         extractISBN(info.IndustryIdentifiers),
		Publisher:    info.Publisher,
		Language:     info.Language,
	}
	if len(book.Authors) == 0 {
		book.Authors = []string{"Unknown"}
	}
	if info.ImageLinks != nil {
		book.CoverURL = info.ImageLinks.Thumbnail
		if book.CoverURL == "" {
			book.CoverURL = info.ImageLinks.SmallThumbnail
		}
	}
	book.PopularityScore = book.CalculatePopularityScore()
	return book
}

// yearFromDate parses the year prefix of a publishedDate value, which
// may be "2006", "2006-01" or "2006-01-02".
func yearFromDate(date string) int {
	if date == "" {
		return 0
	}
	if i := strings.Index(date, "-"); i >= 0 {
		date = date[:i]
	}
	year, err := strconv.Atoi(date)
	if err != nil {
		return 0
	}
	return year
}

// extractISBN returns the first ISBN-13 or ISBN-10 identifier.
func extractISBN(identifiers []googleBooksID) string {
	for _, id := range identifiers {
		if id.Type == "ISBN_13" || id.Type == "ISBN_10" {
			return id.Identifier
		}
	}
	return ""
}
