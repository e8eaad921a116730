// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package recommend

import (
	"fmt"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Weights defines the relative contribution of each strategy.
	Weights WeightsConfig `json:"weights" koanf:"weights"`

	// Similarity contains parameters for the text similarity scorer.
	Similarity SimilarityConfig `json:"similarity" koanf:"similarity"`

	// Boosts contains the multiplicative score boosts applied at the
	// various scoring stages. Boosted scores are always clamped to 1.0.
	Boosts BoostsConfig `json:"boosts" koanf:"boosts"`

	// Pages contains the page-count thresholds used by the context adjuster.
	Pages PagesConfig `json:"pages" koanf:"pages"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`
}

// WeightsConfig defines the relative contribution of each strategy.
// Weights are normalized at runtime, so they don't need to sum to 1.0.
type WeightsConfig struct {
	// Content is the weight for TF-IDF content-based filtering.
	// Default: 0.6.
	Content float64 `json:"content" koanf:"content"`

	// Preference is the weight for the preference matcher (and its
	// popularity fallback). Default: 0.4.
	Preference float64 `json:"preference" koanf:"preference"`
}

// Normalize returns a copy with weights normalized to sum to 1.0.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w WeightsConfig) Normalize() WeightsConfig {
	sum := w.Content + w.Preference
	if sum == 0 {
		return WeightsConfig{Content: 0.5, Preference: 0.5}
	}
	return WeightsConfig{
		Content:    w.Content / sum,
		Preference: w.Preference / sum,
	}
}

// ToMap returns the weights keyed by strategy name.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w WeightsConfig) ToMap() map[string]float64 {
	// Fusion weights are looked up by strategy name; the popularity
	// fallback is emitted by the preference strategy and shares its weight.
	return map[string]float64{
		AlgorithmContent:    w.Content,
		AlgorithmPreference: w.Preference,
	}
}

// SimilarityConfig contains parameters for the text similarity scorer.
type SimilarityConfig struct {
	// MaxFeatures caps the TF-IDF vocabulary size.
	// Default: 5000.
	MaxFeatures int `json:"max_features" koanf:"max_features"`

	// MinSimilarity is the hard relevance cutoff: candidates at or below
	// this raw cosine similarity are dropped. Default: 0.1.
	MinSimilarity float64 `json:"min_similarity" koanf:"min_similarity"`
}

// BoostsConfig contains the multiplicative score boosts.
type BoostsConfig struct {
	// FavoriteAuthor boosts similarity when a candidate author appears in
	// the user's favorites. Default: 1.3.
	FavoriteAuthor float64 `json:"favorite_author" koanf:"favorite_author"`

	// FavoriteGenre boosts similarity when a candidate subject appears in
	// the user's favorite genres. Composes with FavoriteAuthor.
	// Default: 1.2.
	FavoriteGenre float64 `json:"favorite_genre" koanf:"favorite_genre"`

	// Consensus boosts books emitted by more than one strategy.
	// Default: 1.2.
	Consensus float64 `json:"consensus" koanf:"consensus"`

	// MoodSentiment boosts mood matches whose description sentiment
	// aligns with the mood polarity. Default: 1.2.
	MoodSentiment float64 `json:"mood_sentiment" koanf:"mood_sentiment"`

	// NightShortRead boosts short books when the context is night.
	// Default: 1.1.
	NightShortRead float64 `json:"night_short_read" koanf:"night_short_read"`
}

// PagesConfig contains the page-count thresholds for context adjustment.
type PagesConfig struct {
	// ShortRead is the page count under which a book counts as a short
	// read for the night boost. Default: 300.
	ShortRead int `json:"short_read" koanf:"short_read"`

	// QuickReadMax is the page count at or above which a book is dropped
	// for the quick_read goal. Unknown page counts are kept.
	// Default: 400.
	QuickReadMax int `json:"quick_read_max" koanf:"quick_read_max"`

	// DeepDiveMin is the page count at or below which a book is dropped
	// for the deep_dive goal. Unknown page counts are dropped.
	// Default: 300.
	DeepDiveMin int `json:"deep_dive_min" koanf:"deep_dive_min"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultK is the default number of recommendations to return.
	// Default: 10.
	DefaultK int `json:"default_k" koanf:"default_k"`

	// MaxK is the maximum allowed K value.
	// Default: 50.
	MaxK int `json:"max_k" koanf:"max_k"`

	// MaxCandidates is the maximum number of candidate books to score.
	// Default: 50.
	MaxCandidates int `json:"max_candidates" koanf:"max_candidates"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: WeightsConfig{
			Content:    0.6,
			Preference: 0.4,
		},
		Similarity: SimilarityConfig{
			MaxFeatures:   5000,
			MinSimilarity: 0.1,
		},
		Boosts: BoostsConfig{
			FavoriteAuthor: 1.3,
			FavoriteGenre:  1.2,
			Consensus:      1.2,
			MoodSentiment:  1.2,
			NightShortRead: 1.1,
		},
		Pages: PagesConfig{
			ShortRead:    300,
			QuickReadMax: 400,
			DeepDiveMin:  300,
		},
		Limits: LimitsConfig{
			DefaultK:      10,
			MaxK:          50,
			MaxCandidates: 50,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Weights.Content < 0 {
		return fmt.Errorf("weights.content must be non-negative, got %f", c.Weights.Content)
	}
	if c.Weights.Preference < 0 {
		return fmt.Errorf("weights.preference must be non-negative, got %f", c.Weights.Preference)
	}

	if c.Similarity.MaxFeatures < 1 {
		return fmt.Errorf("similarity.max_features must be positive, got %d", c.Similarity.MaxFeatures)
	}
	if c.Similarity.MinSimilarity < 0 || c.Similarity.MinSimilarity >= 1 {
		return fmt.Errorf("similarity.min_similarity must be in [0, 1), got %f", c.Similarity.MinSimilarity)
	}

	boosts := map[string]float64{
		"boosts.favorite_author":  c.Boosts.FavoriteAuthor,
		"boosts.favorite_genre":   c.Boosts.FavoriteGenre,
		"boosts.consensus":        c.Boosts.Consensus,
		"boosts.mood_sentiment":   c.Boosts.MoodSentiment,
		"boosts.night_short_read": c.Boosts.NightShortRead,
	}
	for name, boost := range boosts {
		if boost < 1 {
			return fmt.Errorf("%s must be >= 1, got %f", name, boost)
		}
	}

	if c.Pages.ShortRead < 1 {
		return fmt.Errorf("pages.short_read must be positive, got %d", c.Pages.ShortRead)
	}
	if c.Pages.QuickReadMax < 1 {
		return fmt.Errorf("pages.quick_read_max must be positive, got %d", c.Pages.QuickReadMax)
	}
	if c.Pages.DeepDiveMin < 1 {
		return fmt.Errorf("pages.deep_dive_min must be positive, got %d", c.Pages.DeepDiveMin)
	}

	if c.Limits.DefaultK < 1 {
		return fmt.Errorf("limits.default_k must be positive, got %d", c.Limits.DefaultK)
	}
	if c.Limits.MaxK < c.Limits.DefaultK {
		return fmt.Errorf("limits.max_k must be >= limits.default_k, got %d < %d", c.Limits.MaxK, c.Limits.DefaultK)
	}
	if c.Limits.MaxCandidates < 1 {
		return fmt.Errorf("limits.max_candidates must be positive, got %d", c.Limits.MaxCandidates)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// Direct field copy - all nested structs contain only value types
	return &Config{
		Weights:    c.Weights,
		Similarity: c.Similarity,
		Boosts:     c.Boosts,
		Pages:      c.Pages,
		Limits:     c.Limits,
	}
}
