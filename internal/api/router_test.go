// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfmark/internal/catalog"
	"github.com/tomtom215/shelfmark/internal/models"
	"github.com/tomtom215/shelfmark/internal/profile"
	"github.com/tomtom215/shelfmark/internal/recommend"
	"github.com/tomtom215/shelfmark/internal/recommend/reranking"
	"github.com/tomtom215/shelfmark/internal/recommend/strategies"
)

// stubCatalog is a controllable catalog.Provider for handler tests.
type stubCatalog struct {
	books     []models.Book
	book      *models.Book
	searchErr error
	getErr    error
	lastQuery string
}

func (s *stubCatalog) Name() string { return "stub" }

func (s *stubCatalog) SearchBooks(_ context.Context, query string, _ *catalog.SearchFilters, _ int) ([]models.Book, error) {
	s.lastQuery = query
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	return s.books, nil
}

func (s *stubCatalog) GetBook(_ context.Context, _ string) (*models.Book, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.book, nil
}

var _ catalog.Provider = (*stubCatalog)(nil)

func floatPtr(f float64) *float64 { return &f }

func testBooks() []models.Book {
	return []models.Book{
		{
			Title:           "Dune",
			Authors:         []string{"Frank Herbert"},
			Year:            1965,
			EditionCount:    120,
			Subjects:        []string{"science fiction", "adventure", "politics"},
			Description:     "A wonderful epic of survival on a brilliant desert world",
			WorkID:          "OL1W",
			Rating:          floatPtr(4.5),
			PopularityScore: 0.9,
		},
		{
			Title:           "Hyperion",
			Authors:         []string{"Dan Simmons"},
			Year:            1989,
			EditionCount:    60,
			Subjects:        []string{"science fiction", "space opera"},
			Description:     "A haunting pilgrimage across a strange and dangerous world",
			WorkID:          "OL2W",
			Rating:          floatPtr(4.2),
			PopularityScore: 0.7,
		},
		{
			Title:           "Neuromancer",
			Authors:         []string{"William Gibson"},
			Year:            1984,
			EditionCount:    80,
			Subjects:        []string{"science fiction", "cyberpunk"},
			Description:     "A dark thriller of hackers and artificial minds",
			WorkID:          "OL3W",
			Rating:          floatPtr(4.0),
			PopularityScore: 0.75,
		},
	}
}

// newTestServer builds a full router backed by a stub catalog, a real
// engine, and a temp-dir profile store.
func newTestServer(t *testing.T, cat catalog.Provider) (*httptest.Server, *profile.Store) {
	t.Helper()
	logger := zerolog.Nop()

	engine, err := recommend.NewEngine(nil, logger)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	engine.RegisterStrategy(strategies.NewContentBased(engine.GetConfig(), logger))
	engine.RegisterStrategy(strategies.NewPreferenceMatcher(logger))
	engine.RegisterReranker(reranking.NewDiversity())

	store, err := profile.NewStore(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	handlers := NewHandlers(cat, store, engine, "test", logger)
	router := NewRouter(handlers, NewMiddleware(&MiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
	}))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, store
}

// doJSON issues a request and decodes the envelope.
func doJSON(t *testing.T, method, url, body string) (int, *models.APIResponse) {
	t.Helper()

	var reqBody *strings.Reader
	if body == "" {
		reqBody = strings.NewReader("")
	} else {
		reqBody = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var envelope models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.StatusCode, &envelope
}

func dataMap(t *testing.T, envelope *models.APIResponse) map[string]interface{} {
	t.Helper()
	data, ok := envelope.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is not an object: %T", envelope.Data)
	}
	return data
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &stubCatalog{})

	status, envelope := doJSON(t, http.MethodGet, srv.URL+"/api/v1/health", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if envelope.Status != "success" {
		t.Errorf("envelope status = %q, want success", envelope.Status)
	}

	data := dataMap(t, envelope)
	if data["status"] != "healthy" {
		t.Errorf("health status = %v, want healthy", data["status"])
	}
	if data["catalog"] != "stub" {
		t.Errorf("catalog = %v, want stub", data["catalog"])
	}
}

func TestMLRecommendationsByQuery(t *testing.T) {
	t.Parallel()

	cat := &stubCatalog{books: testBooks()}
	srv, _ := newTestServer(t, cat)

	status, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/v1/recommendations/ml",
		`{"query": "dune", "limit": 5}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200: %+v", status, envelope.Error)
	}

	data := dataMap(t, envelope)
	target, ok := data["target"].(map[string]interface{})
	if !ok {
		t.Fatal("target missing from response")
	}
	if target["title"] != "Dune" {
		t.Errorf("target = %v, want Dune (first search hit)", target["title"])
	}

	recs, ok := data["recommendations"].([]interface{})
	if !ok {
		t.Fatal("recommendations missing from response")
	}
	if len(recs) == 0 {
		t.Error("expected at least one recommendation")
	}
	for _, raw := range recs {
		rec := raw.(map[string]interface{})
		book := rec["book"].(map[string]interface{})
		if book["title"] == "Dune" {
			t.Error("target book leaked into recommendations")
		}
	}
}

func TestMLRecommendationsByWorkID(t *testing.T) {
	t.Parallel()

	books := testBooks()
	cat := &stubCatalog{books: books, book: &books[0]}
	srv, _ := newTestServer(t, cat)

	status, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/v1/recommendations/ml",
		`{"work_id": "OL1W"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200: %+v", status, envelope.Error)
	}

	data := dataMap(t, envelope)
	recs := data["recommendations"].([]interface{})
	for _, raw := range recs {
		rec := raw.(map[string]interface{})
		book := rec["book"].(map[string]interface{})
		if book["work_id"] == "OL1W" {
			t.Error("target book leaked into recommendations")
		}
	}
}

func TestMLRecommendationsValidation(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &stubCatalog{})

	tests := []struct {
		name string
		body string
	}{
		{"missing target", `{"limit": 5}`},
		{"limit too large", `{"query": "dune", "limit": 500}`},
		{"invalid context", `{"query": "dune", "context": {"time_of_day": "midnight"}}`},
		{"malformed json", `{"query": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			status, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/v1/recommendations/ml", tt.body)
			if status != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", status)
			}
			if envelope.Error == nil {
				t.Error("expected error details in envelope")
			}
		})
	}
}

func TestMLRecommendationsNoResults(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &stubCatalog{books: []models.Book{}})

	status, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/v1/recommendations/ml",
		`{"query": "zzz no such book"}`)
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if envelope.Error == nil || envelope.Error.Code != "NOT_FOUND" {
		t.Errorf("error code = %+v, want NOT_FOUND", envelope.Error)
	}
}

func TestMLRecommendationsUpstreamFailure(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &stubCatalog{searchErr: errors.New("provider down")})

	status, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/v1/recommendations/ml",
		`{"query": "dune"}`)
	if status != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", status)
	}
	if envelope.Error == nil || envelope.Error.Code != "UPSTREAM_ERROR" {
		t.Errorf("error code = %+v, want UPSTREAM_ERROR", envelope.Error)
	}
	if envelope.Error != nil && strings.Contains(envelope.Error.Message, "provider down") {
		t.Error("upstream error detail leaked to client")
	}
}

func TestMLRecommendationsWithProfile(t *testing.T) {
	t.Parallel()

	cat := &stubCatalog{books: testBooks()}
	srv, store := newTestServer(t, cat)

	rating := 5.0
	_, err := store.AddHistoryEntry(context.Background(), "reader-1", models.ReadingHistoryEntry{
		BookID:  "OL2W",
		Title:   "Hyperion",
		Authors: []string{"Dan Simmons"},
		Rating:  &rating,
		Status:  models.StatusRead,
		Tags:    []string{"science fiction"},
	})
	if err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	status, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/v1/recommendations/ml",
		`{"query": "dune", "user_id": "reader-1"}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200: %+v", status, envelope.Error)
	}
}

func TestMoodRecommendations(t *testing.T) {
	t.Parallel()

	cat := &stubCatalog{books: testBooks()}
	srv, _ := newTestServer(t, cat)

	status, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/v1/recommendations/mood",
		`{"mood": "adventurous", "limit": 5}`)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200: %+v", status, envelope.Error)
	}

	data := dataMap(t, envelope)
	if data["mood"] != "adventurous" {
		t.Errorf("mood = %v, want adventurous", data["mood"])
	}
	recs := data["recommendations"].([]interface{})
	if len(recs) == 0 {
		t.Error("expected adventure-subject candidates to match")
	}

	// No query in the body: the mood's genre palette seeds the search.
	if cat.lastQuery == "" {
		t.Error("candidate search query was empty")
	}
}

func TestMoodRecommendationsRejectsUnknownMood(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &stubCatalog{})

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/recommendations/mood",
		`{"mood": "grumpy"}`)
	if status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}
}

func TestTrendingRecommendations(t *testing.T) {
	t.Parallel()

	cat := &stubCatalog{books: testBooks()}
	srv, _ := newTestServer(t, cat)

	status, envelope := doJSON(t, http.MethodGet,
		srv.URL+"/api/v1/recommendations/trending?window=classic&limit=5", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200: %+v", status, envelope.Error)
	}

	data := dataMap(t, envelope)
	if data["window"] != "classic" {
		t.Errorf("window = %v, want classic", data["window"])
	}
	recs := data["recommendations"].([]interface{})
	// All three test books predate 2000.
	if len(recs) != 3 {
		t.Errorf("got %d recommendations, want 3", len(recs))
	}
}

func TestSearchBooks(t *testing.T) {
	t.Parallel()

	cat := &stubCatalog{books: testBooks()}
	srv, _ := newTestServer(t, cat)

	status, envelope := doJSON(t, http.MethodGet, srv.URL+"/api/v1/books/search?q=dune", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	data := dataMap(t, envelope)
	if count, _ := data["count"].(float64); count != 3 {
		t.Errorf("count = %v, want 3", data["count"])
	}
	if cat.lastQuery != "dune" {
		t.Errorf("search query = %q, want dune", cat.lastQuery)
	}
}

func TestSearchBooksRequiresQuery(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &stubCatalog{})

	status, envelope := doJSON(t, http.MethodGet, srv.URL+"/api/v1/books/search", "")
	if status != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", status)
	}
	if envelope.Error == nil || envelope.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("error code = %+v, want VALIDATION_ERROR", envelope.Error)
	}
}

func TestGetBook(t *testing.T) {
	t.Parallel()

	books := testBooks()
	srv, _ := newTestServer(t, &stubCatalog{book: &books[0]})

	status, envelope := doJSON(t, http.MethodGet, srv.URL+"/api/v1/books/OL1W", "")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}

	data := dataMap(t, envelope)
	book := data["book"].(map[string]interface{})
	if book["title"] != "Dune" {
		t.Errorf("title = %v, want Dune", book["title"])
	}
}

func TestGetBookNotFound(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &stubCatalog{})

	status, envelope := doJSON(t, http.MethodGet, srv.URL+"/api/v1/books/OL404W", "")
	if status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
	if envelope.Error == nil || envelope.Error.Code != "NOT_FOUND" {
		t.Errorf("error code = %+v, want NOT_FOUND", envelope.Error)
	}
}

func TestProfileLifecycle(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &stubCatalog{})

	// Unknown user: 404.
	status, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/users/reader-9/profile", "")
	if status != http.StatusNotFound {
		t.Fatalf("get before create: status = %d, want 404", status)
	}

	// Create.
	status, envelope := doJSON(t, http.MethodPut, srv.URL+"/api/v1/users/reader-9/profile",
		`{"name": "Avery"}`)
	if status != http.StatusCreated {
		t.Fatalf("create: status = %d, want 201: %+v", status, envelope.Error)
	}

	// Rename is an update, not a create.
	status, _ = doJSON(t, http.MethodPut, srv.URL+"/api/v1/users/reader-9/profile",
		`{"name": "Avery R."}`)
	if status != http.StatusOK {
		t.Fatalf("update: status = %d, want 200", status)
	}

	status, envelope = doJSON(t, http.MethodGet, srv.URL+"/api/v1/users/reader-9/profile", "")
	if status != http.StatusOK {
		t.Fatalf("get: status = %d, want 200", status)
	}
	data := dataMap(t, envelope)
	prof := data["profile"].(map[string]interface{})
	if prof["name"] != "Avery R." {
		t.Errorf("name = %v, want Avery R.", prof["name"])
	}
}

func TestAddHistoryCreatesProfileAndDerivesFavorites(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &stubCatalog{})

	status, envelope := doJSON(t, http.MethodPost, srv.URL+"/api/v1/users/reader-2/history",
		`{"book_id": "OL2W", "title": "Hyperion", "authors": ["Dan Simmons"], "rating": 4.5, "tags": ["science fiction"]}`)
	if status != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %+v", status, envelope.Error)
	}

	data := dataMap(t, envelope)
	prof := data["profile"].(map[string]interface{})

	authors, _ := prof["favorite_authors"].([]interface{})
	if len(authors) != 1 || authors[0] != "Dan Simmons" {
		t.Errorf("favorite_authors = %v, want [Dan Simmons]", authors)
	}

	history, _ := prof["reading_history"].([]interface{})
	if len(history) != 1 {
		t.Fatalf("history length = %d, want 1", len(history))
	}
	entry := history[0].(map[string]interface{})
	if entry["read_date"] == nil || entry["read_date"] == "" {
		t.Error("read_date was not defaulted")
	}
	if entry["status"] != "read" {
		t.Errorf("status = %v, want read", entry["status"])
	}
}

func TestAddHistoryValidation(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &stubCatalog{})

	tests := []struct {
		name string
		body string
	}{
		{"missing book id", `{"title": "Hyperion"}`},
		{"rating out of range", `{"book_id": "OL2W", "title": "Hyperion", "rating": 9}`},
		{"bad status", `{"book_id": "OL2W", "title": "Hyperion", "status": "skimmed"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			status, _ := doJSON(t, http.MethodPost, srv.URL+"/api/v1/users/reader-3/history", tt.body)
			if status != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", status)
			}
		})
	}
}

func TestInvalidUserIDRejected(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &stubCatalog{})

	// The encoded traversal decodes to a multi-segment path; whether chi
	// 404s it or the store rejects it, it must never reach a profile file.
	status, _ := doJSON(t, http.MethodGet, srv.URL+"/api/v1/users/..%2Fescape/profile", "")
	if status != http.StatusBadRequest && status != http.StatusNotFound {
		t.Errorf("status = %d, want 400 or 404", status)
	}
}

func TestUnknownEndpointReturnsEnvelope(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &stubCatalog{})

	status, envelope := doJSON(t, http.MethodGet, srv.URL+"/api/v1/nope", "")
	if status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
	if envelope.Status != "error" {
		t.Errorf("envelope status = %q, want error", envelope.Status)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &stubCatalog{})

	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, srv.URL+"/api/v1/health", nil)
	req.Header.Set("X-Request-ID", "trace-me-123")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("X-Request-ID"); got != "trace-me-123" {
		t.Errorf("X-Request-ID = %q, want trace-me-123", got)
	}
}

func TestRateLimitRejectsExcessRequests(t *testing.T) {
	t.Parallel()

	logger := zerolog.Nop()
	engine, _ := recommend.NewEngine(nil, logger)
	store, err := profile.NewStore(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	handlers := NewHandlers(&stubCatalog{}, store, engine, "test", logger)
	router := NewRouter(handlers, NewMiddleware(&MiddlewareConfig{
		RateLimitRequests: 2,
		RateLimitWindow:   time.Minute,
	}))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	var lastStatus int
	var lastEnvelope *models.APIResponse
	for i := 0; i < 5; i++ {
		lastStatus, lastEnvelope = doJSON(t, http.MethodGet, srv.URL+"/api/v1/health", "")
	}

	if lastStatus != http.StatusTooManyRequests {
		t.Fatalf("status after burst = %d, want 429", lastStatus)
	}
	if lastEnvelope.Error == nil || lastEnvelope.Error.Code != "RATE_LIMIT_EXCEEDED" {
		t.Errorf("error code = %+v, want RATE_LIMIT_EXCEEDED", lastEnvelope.Error)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, &stubCatalog{})

	resp, err := http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
