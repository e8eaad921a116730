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
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfmark/internal/models"
)

// Note: This package depends only on internal/models to maintain clean
// separation. Candidate sourcing and target resolution live in the catalog
// layer; the engine is a pure computation over caller-supplied slices.

// Engine coordinates the recommendation strategies and produces final
// ranked lists. It is stateless per call and safe for concurrent use;
// the only cross-call write is the idempotent sentiment memoization on
// candidate books.
type Engine struct {
	config    *Config
	logger    zerolog.Logger
	sentiment *SentimentAnalyzer

	strategies []Strategy
	rerankers  []Reranker
	mu         sync.RWMutex

	requestCount atomic.Int64
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config:     cfg,
		logger:     logger.With().Str("component", "recommend").Logger(),
		sentiment:  NewSentimentAnalyzer(),
		strategies: make([]Strategy, 0),
		rerankers:  make([]Reranker, 0),
	}, nil
}

// RegisterStrategy adds a strategy to the hybrid ensemble.
func (e *Engine) RegisterStrategy(s Strategy) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.strategies = append(e.strategies, s)
	e.logger.Info().
		Str("strategy", s.Name()).
		Msg("registered strategy")
}

// RegisterReranker adds a reranker to the post-processing pipeline.
func (e *Engine) RegisterReranker(rr Reranker) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rerankers = append(e.rerankers, rr)
	e.logger.Info().
		Str("reranker", rr.Name()).
		Msg("registered reranker")
}

// Sentiment returns the engine's sentiment analyzer.
func (e *Engine) Sentiment() *SentimentAnalyzer {
	return e.sentiment
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// RequestCount returns the number of recommendation requests served.
func (e *Engine) RequestCount() int64 {
	return e.requestCount.Load()
}

// Recommend generates personalized recommendations for a target book.
//
// The pipeline is: sentiment enrichment (memoized onto candidates) →
// hybrid strategy fusion with a 2×topN budget (each strategy asked for
// twice that again) → context adjustment → diversity reranking →
// first topN.
//
// Failures never propagate: degenerate input or strategy failure yields a
// shorter (possibly empty) list.
//
//nolint:gocritic // hugeParam: target passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, target models.Book, candidates []models.Book, profile *models.UserProfile, reqCtx *Context, topN int) []models.Recommendation {
	e.requestCount.Add(1)
	topN = e.boundTopN(topN)

	if len(candidates) == 0 {
		e.logger.Debug().Str("target", target.Title).Msg("no candidates available")
		return []models.Recommendation{}
	}
	if len(candidates) > e.config.Limits.MaxCandidates {
		candidates = candidates[:e.config.Limits.MaxCandidates]
	}

	e.enrichSentiment(candidates)

	recs := e.hybrid(ctx, target, candidates, profile, 2*topN)

	if reqCtx != nil {
		recs = e.applyContext(recs, reqCtx)
	}

	recs = e.applyRerankers(ctx, recs, topN)

	if len(recs) > topN {
		recs = recs[:topN]
	}

	e.logger.Debug().
		Str("target", target.Title).
		Int("candidates", len(candidates)).
		Int("returned", len(recs)).
		Msg("recommendation complete")

	return recs
}

// Trending ranks candidates by popularity within a publication-year window.
func (e *Engine) Trending(ctx context.Context, candidates []models.Book, window TimeWindow, topN int) []models.Recommendation {
	e.requestCount.Add(1)
	topN = e.boundTopN(topN)

	currentYear := time.Now().Year()
	filtered := make([]models.Book, 0, len(candidates))
	for i := range candidates {
		if matchesWindow(&candidates[i], window, currentYear) {
			filtered = append(filtered, candidates[i])
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].PopularityScore > filtered[j].PopularityScore
	})

	if len(filtered) > topN {
		filtered = filtered[:topN]
	}

	recs := make([]models.Recommendation, 0, len(filtered))
	for i := range filtered {
		book := filtered[i]
		score := book.PopularityScore
		if score == 0 {
			score = 0.5
		}

		ratingReason := "Popular choice"
		if book.Rating != nil {
			ratingReason = fmt.Sprintf("Rating: %.1f/5.0", *book.Rating)
		}

		recs = append(recs, models.Recommendation{
			Book:      book,
			Score:     score,
			Algorithm: AlgorithmTrending,
			Reasons: []string{
				fmt.Sprintf("Published in %d", book.Year),
				fmt.Sprintf("%d editions", book.EditionCount),
				ratingReason,
			},
		})
	}

	e.logger.Debug().
		Str("window", string(window)).
		Int("candidates", len(candidates)).
		Int("returned", len(recs)).
		Msg("trending recommendations complete")

	return recs
}

// matchesWindow reports whether a book falls inside the time window.
// A zero year is treated as unknown and excluded from year-bounded windows.
func matchesWindow(b *models.Book, window TimeWindow, currentYear int) bool {
	switch window {
	case WindowRecent:
		return b.Year != 0 && b.Year >= currentYear-2
	case WindowThisYear:
		return b.Year == currentYear
	case WindowClassic:
		return b.Year != 0 && b.Year < 2000
	default:
		return true
	}
}

// boundTopN applies the default and maximum K limits.
func (e *Engine) boundTopN(topN int) int {
	if topN <= 0 {
		return e.config.Limits.DefaultK
	}
	if topN > e.config.Limits.MaxK {
		return e.config.Limits.MaxK
	}
	return topN
}

// enrichSentiment memoizes description sentiment onto the candidate books.
// Already-set scores are never recomputed, even if the description changed.
func (e *Engine) enrichSentiment(candidates []models.Book) {
	for i := range candidates {
		if candidates[i].SentimentScore != nil || candidates[i].Description == "" {
			continue
		}
		score := e.sentiment.Analyze(candidates[i].Description)
		candidates[i].SentimentScore = &score
	}
}

// strategyResult holds one strategy's output.
type strategyResult struct {
	name string
	recs []models.Recommendation
	err  error
}

// hybrid runs all registered strategies and fuses their outputs.
//
// Scores are combined as sum(weight_i * score_i) / numStrategies, books
// emitted by more than one strategy receive the consensus boost, and all
// scores are clamped to 1.0. Books keep first-seen order on ties.
//
//nolint:gocritic // hugeParam: target passed by value for immutability
func (e *Engine) hybrid(ctx context.Context, target models.Book, candidates []models.Book, profile *models.UserProfile, topN int) []models.Recommendation {
	strategies := e.getStrategies()
	if len(strategies) == 0 {
		e.logger.Warn().Msg("no strategies registered")
		return []models.Recommendation{}
	}

	weights := e.config.Weights.Normalize().ToMap()

	results := make([]strategyResult, 0, len(strategies))
	for _, s := range strategies {
		// Each strategy gets twice the fusion budget so books one strategy
		// ranks deep can still reach the merge and earn a consensus boost.
		recs, err := s.Recommend(ctx, target, candidates, profile, 2*topN)
		results = append(results, strategyResult{name: s.Name(), recs: recs, err: err})
	}

	return e.combineResults(results, weights, len(strategies), topN)
}

// fusionEntry accumulates one book's contributions across strategies.
type fusionEntry struct {
	book       models.Book
	weighted   []float64
	reasons    []string
	reasonSeen map[string]struct{}
	algorithms []string
}

// combineResults merges per-strategy recommendations by book identity.
func (e *Engine) combineResults(results []strategyResult, weights map[string]float64, numStrategies, topN int) []models.Recommendation {
	entries := make(map[string]*fusionEntry)
	order := make([]string, 0)

	for _, result := range results {
		if result.err != nil {
			e.logger.Warn().
				Str("strategy", result.name).
				Err(result.err).
				Msg("strategy failed")
			continue
		}

		weight := weights[result.name]
		for i := range result.recs {
			rec := &result.recs[i]
			id := rec.Book.ID()

			entry, ok := entries[id]
			if !ok {
				entry = &fusionEntry{
					book:       rec.Book,
					reasonSeen: make(map[string]struct{}),
				}
				entries[id] = entry
				order = append(order, id)
			}

			entry.weighted = append(entry.weighted, rec.Score*weight)
			for _, reason := range rec.Reasons {
				if _, seen := entry.reasonSeen[reason]; seen {
					continue
				}
				entry.reasonSeen[reason] = struct{}{}
				entry.reasons = append(entry.reasons, reason)
			}
			entry.algorithms = append(entry.algorithms, rec.Algorithm)
		}
	}

	combined := make([]models.Recommendation, 0, len(entries))
	for _, id := range order {
		entry := entries[id]

		var sum float64
		for _, w := range entry.weighted {
			sum += w
		}
		score := sum / float64(numStrategies)

		if len(entry.algorithms) > 1 {
			score *= e.config.Boosts.Consensus
		}
		score = clamp01(score)

		reasons := entry.reasons
		if len(reasons) > maxFusedReasons {
			reasons = reasons[:maxFusedReasons]
		}
		reasons = append(reasons, "Recommended by: "+strings.Join(entry.algorithms, ", "))

		combined = append(combined, models.Recommendation{
			Book:      entry.book,
			Score:     score,
			Algorithm: AlgorithmHybrid,
			Reasons:   reasons,
		})
	}

	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Score > combined[j].Score
	})

	if len(combined) > topN {
		combined = combined[:topN]
	}
	return combined
}

// maxFusedReasons caps the unioned reasons before the contributor line.
const maxFusedReasons = 4

// applyContext re-weights and filters recommendations for the request
// context, then re-sorts. Unknown context values are ignored.
func (e *Engine) applyContext(recs []models.Recommendation, reqCtx *Context) []models.Recommendation {
	if reqCtx.TimeOfDay == TimeNight {
		for i := range recs {
			pc := recs[i].Book.PageCount
			if pc != nil && *pc < e.config.Pages.ShortRead {
				recs[i].Score = clamp01(recs[i].Score * e.config.Boosts.NightShortRead)
			}
		}
	}

	switch reqCtx.ReadingGoal {
	case GoalQuickRead:
		filtered := recs[:0]
		for i := range recs {
			pc := recs[i].Book.PageCount
			if pc == nil || *pc < e.config.Pages.QuickReadMax {
				filtered = append(filtered, recs[i])
			}
		}
		recs = filtered
	case GoalDeepDive:
		filtered := recs[:0]
		for i := range recs {
			pc := recs[i].Book.PageCount
			if pc != nil && *pc > e.config.Pages.DeepDiveMin {
				filtered = append(filtered, recs[i])
			}
		}
		recs = filtered
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	return recs
}

// applyRerankers applies the post-processing rerankers in order.
func (e *Engine) applyRerankers(ctx context.Context, recs []models.Recommendation, topN int) []models.Recommendation {
	e.mu.RLock()
	rerankers := e.rerankers
	e.mu.RUnlock()

	for _, rr := range rerankers {
		recs = rr.Rerank(ctx, recs, topN)
	}
	return recs
}

// getStrategies returns the registered strategies.
func (e *Engine) getStrategies() []Strategy {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.strategies
}

// clamp01 clamps a score to the [0, 1] range.
func clamp01(score float64) float64 {
	if score > 1.0 {
		return 1.0
	}
	if score < 0 {
		return 0
	}
	return score
}
