// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package recommend

import (
	"math"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	t.Parallel()

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}, wantErr: false},
		{name: "negative content weight", mutate: func(c *Config) { c.Weights.Content = -0.1 }, wantErr: true},
		{name: "zero max features", mutate: func(c *Config) { c.Similarity.MaxFeatures = 0 }, wantErr: true},
		{name: "min similarity at one", mutate: func(c *Config) { c.Similarity.MinSimilarity = 1.0 }, wantErr: true},
		{name: "boost below one", mutate: func(c *Config) { c.Boosts.Consensus = 0.9 }, wantErr: true},
		{name: "max k below default k", mutate: func(c *Config) { c.Limits.MaxK = 5 }, wantErr: true},
		{name: "zero short read pages", mutate: func(c *Config) { c.Pages.ShortRead = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWeightsNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		weights        WeightsConfig
		wantContent    float64
		wantPreference float64
	}{
		{
			name:           "already normalized",
			weights:        WeightsConfig{Content: 0.6, Preference: 0.4},
			wantContent:    0.6,
			wantPreference: 0.4,
		},
		{
			name:           "scales to unit sum",
			weights:        WeightsConfig{Content: 3, Preference: 1},
			wantContent:    0.75,
			wantPreference: 0.25,
		},
		{
			name:           "zero sum falls back to even split",
			weights:        WeightsConfig{},
			wantContent:    0.5,
			wantPreference: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.weights.Normalize()
			if math.Abs(got.Content-tt.wantContent) > 1e-9 {
				t.Errorf("Content = %v, want %v", got.Content, tt.wantContent)
			}
			if math.Abs(got.Preference-tt.wantPreference) > 1e-9 {
				t.Errorf("Preference = %v, want %v", got.Preference, tt.wantPreference)
			}
		})
	}
}

func TestWeightsToMap(t *testing.T) {
	t.Parallel()

	m := WeightsConfig{Content: 0.6, Preference: 0.4}.ToMap()

	if m[AlgorithmContent] != 0.6 {
		t.Errorf("content weight = %v, want 0.6", m[AlgorithmContent])
	}
	if m[AlgorithmPreference] != 0.4 {
		t.Errorf("preference weight = %v, want 0.4", m[AlgorithmPreference])
	}
	// Only strategy names appear: fusion looks weights up by the name
	// each strategy reports, and the popularity fallback is emitted by
	// the preference strategy.
	if len(m) != 2 {
		t.Errorf("len = %d, want 2 (%v)", len(m), m)
	}
}

func TestConfigClone(t *testing.T) {
	t.Parallel()

	original := DefaultConfig()
	clone := original.Clone()
	clone.Weights.Content = 0.9
	clone.Limits.MaxK = 5

	if original.Weights.Content != 0.6 {
		t.Errorf("original mutated: Weights.Content = %v", original.Weights.Content)
	}
	if original.Limits.MaxK != 50 {
		t.Errorf("original mutated: Limits.MaxK = %v", original.Limits.MaxK)
	}
}
