// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package recommend

import (
	"strings"
	"unicode"
)

// Sentiment label thresholds.
const (
	positiveLabelThreshold = 0.3
	negativeLabelThreshold = -0.3
)

// Sentiment labels.
const (
	SentimentPositive = "Positive"
	SentimentNegative = "Negative"
	SentimentNeutral  = "Neutral"
)

// positiveWords is the fixed positive lexicon for description sentiment.
var positiveWords = map[string]struct{}{
	"excellent": {}, "amazing": {}, "wonderful": {}, "brilliant": {},
	"outstanding": {}, "fantastic": {}, "great": {}, "good": {},
	"best": {}, "love": {}, "beautiful": {}, "perfect": {},
	"incredible": {}, "masterpiece": {}, "compelling": {}, "engaging": {},
	"captivating": {}, "thrilling": {}, "inspiring": {}, "powerful": {},
	"moving": {}, "delightful": {}, "entertaining": {},
}

// negativeWords is the fixed negative lexicon.
var negativeWords = map[string]struct{}{
	"bad": {}, "terrible": {}, "awful": {}, "horrible": {},
	"poor": {}, "worst": {}, "disappointing": {}, "boring": {},
	"dull": {}, "weak": {}, "confusing": {}, "tedious": {},
	"mediocre": {}, "bland": {}, "predictable": {}, "slow": {},
	"frustrating": {},
}

// SentimentAnalyzer scores text polarity against fixed word lexicons.
// The zero value is ready to use; it holds no state.
type SentimentAnalyzer struct{}

// NewSentimentAnalyzer creates a sentiment analyzer.
func NewSentimentAnalyzer() *SentimentAnalyzer {
	return &SentimentAnalyzer{}
}

// Analyze returns the polarity of the text in [-1, 1]:
// (positive - negative) / (positive + negative), or 0 with no lexicon hits.
func (a *SentimentAnalyzer) Analyze(text string) float64 {
	if text == "" {
		return 0
	}

	var positive, negative int
	for _, word := range tokenizeWords(text) {
		if _, ok := positiveWords[word]; ok {
			positive++
			continue
		}
		if _, ok := negativeWords[word]; ok {
			negative++
		}
	}

	total := positive + negative
	if total == 0 {
		return 0
	}

	return float64(positive-negative) / float64(total)
}

// Label maps a polarity score to Positive, Negative or Neutral.
func (a *SentimentAnalyzer) Label(score float64) string {
	switch {
	case score > positiveLabelThreshold:
		return SentimentPositive
	case score < negativeLabelThreshold:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// tokenizeWords splits text on word boundaries and lower-cases each token.
func tokenizeWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}
