// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package strategies

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shelfmark/internal/models"
	"github.com/tomtom215/shelfmark/internal/recommend"
)

// ContentBased scores candidates by TF-IDF cosine similarity against the
// target book's text representation.
//
// The model is rebuilt per call from the request corpus (target plus
// candidates): terms are unigrams and bigrams over the stopword-filtered
// token stream, the vocabulary is capped by corpus term frequency, IDF is
// smoothed as ln((1+n)/(1+df))+1, and document vectors are L2-normalized
// so cosine similarity reduces to a dot product.
//
// Candidates at or below the minimum similarity are dropped. Reasons are
// generated from the raw similarity before any user preference boost.
type ContentBased struct {
	maxFeatures   int
	minSimilarity float64
	authorBoost   float64
	genreBoost    float64
	logger        zerolog.Logger
}

// NewContentBased creates the TF-IDF content strategy.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewContentBased(cfg *recommend.Config, logger zerolog.Logger) *ContentBased {
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}
	return &ContentBased{
		maxFeatures:   cfg.Similarity.MaxFeatures,
		minSimilarity: cfg.Similarity.MinSimilarity,
		authorBoost:   cfg.Boosts.FavoriteAuthor,
		genreBoost:    cfg.Boosts.FavoriteGenre,
		logger:        logger.With().Str("component", "strategy_tfidf").Logger(),
	}
}

// Name returns the strategy identifier.
func (c *ContentBased) Name() string {
	return recommend.AlgorithmContent
}

// Recommend scores candidates against the target book.
//
//nolint:gocritic // hugeParam: target passed by value for immutability
func (c *ContentBased) Recommend(ctx context.Context, target models.Book, candidates []models.Book, profile *models.UserProfile, topN int) ([]models.Recommendation, error) {
	if len(candidates) == 0 {
		return []models.Recommendation{}, nil
	}

	docs := make([][]string, 0, len(candidates)+1)
	docs = append(docs, extractTerms(target.TextRepresentation()))
	for i := range candidates {
		docs = append(docs, extractTerms(candidates[i].TextRepresentation()))
	}

	model := fitTFIDF(docs, c.maxFeatures)
	if model == nil {
		c.logger.Debug().
			Str("target", target.Title).
			Msg("empty vocabulary, no scorable text")
		return []models.Recommendation{}, nil
	}

	targetVec := model.vectors[0]

	recs := make([]models.Recommendation, 0, len(candidates))
	for i := range candidates {
		sim := sparseDot(targetVec, model.vectors[i+1])
		if sim <= c.minSimilarity {
			continue
		}

		score := sim
		if profile != nil {
			score = c.applyUserBoost(score, &candidates[i], profile)
		}

		recs = append(recs, models.Recommendation{
			Book:      candidates[i],
			Score:     score,
			Algorithm: c.Name(),
			Reasons:   buildContentReasons(&target, &candidates[i], sim),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})

	if len(recs) > topN {
		recs = recs[:topN]
	}

	c.logger.Debug().
		Str("target", target.Title).
		Int("candidates", len(candidates)).
		Int("returned", len(recs)).
		Msg("content recommendations generated")

	return recs, nil
}

// applyUserBoost multiplies the score by the favorite author and genre
// boosts, then clamps to 1.0. Boosts compose when both apply.
func (c *ContentBased) applyUserBoost(score float64, book *models.Book, profile *models.UserProfile) float64 {
	boost := 1.0

	if anyOverlap(book.Authors, profile.FavoriteAuthors) {
		boost *= c.authorBoost
	}
	if anyOverlap(book.Subjects, profile.FavoriteGenres) {
		boost *= c.genreBoost
	}

	return math.Min(score*boost, 1.0)
}

// buildContentReasons explains a content match from the raw similarity.
func buildContentReasons(target, candidate *models.Book, sim float64) []string {
	reasons := make([]string, 0, 4)

	if common := orderedIntersection(target.Authors, candidate.Authors); len(common) > 0 {
		reasons = append(reasons, "Same author: "+strings.Join(common, ", "))
	}

	if len(target.Subjects) > 0 && len(candidate.Subjects) > 0 {
		common := orderedIntersection(headStrings(target.Subjects, 5), headStrings(candidate.Subjects, 5))
		if len(common) > 0 {
			if len(common) > 3 {
				common = common[:3]
			}
			reasons = append(reasons, "Similar topics: "+strings.Join(common, ", "))
		}
	}

	reasons = append(reasons, fmt.Sprintf("Content similarity: %.2f%%", sim*100))

	if candidate.Rating != nil {
		reasons = append(reasons, fmt.Sprintf("Rating: %.1f/5.0", *candidate.Rating))
	}

	return reasons
}

// tfidfModel holds the fitted per-request vectors. vectors[0] is the
// target document; vectors[i+1] corresponds to candidates[i].
type tfidfModel struct {
	vectors []map[int]float64
}

// fitTFIDF builds the capped vocabulary and L2-normalized TF-IDF vectors
// for the corpus. Returns nil when no document yields any term.
func fitTFIDF(docs [][]string, maxFeatures int) *tfidfModel {
	type termStats struct {
		corpusCount int
		docFreq     int
	}

	stats := make(map[string]*termStats)
	for _, doc := range docs {
		seen := make(map[string]struct{}, len(doc))
		for _, term := range doc {
			st, ok := stats[term]
			if !ok {
				st = &termStats{}
				stats[term] = st
			}
			st.corpusCount++
			if _, dup := seen[term]; !dup {
				st.docFreq++
				seen[term] = struct{}{}
			}
		}
	}

	if len(stats) == 0 {
		return nil
	}

	// Cap the vocabulary by corpus frequency, ties broken alphabetically.
	terms := make([]string, 0, len(stats))
	for term := range stats {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if stats[terms[i]].corpusCount != stats[terms[j]].corpusCount {
			return stats[terms[i]].corpusCount > stats[terms[j]].corpusCount
		}
		return terms[i] < terms[j]
	})
	if len(terms) > maxFeatures {
		terms = terms[:maxFeatures]
	}

	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	numDocs := float64(len(docs))
	for i, term := range terms {
		vocab[term] = i
		idf[i] = math.Log((1+numDocs)/(1+float64(stats[term].docFreq))) + 1
	}

	vectors := make([]map[int]float64, len(docs))
	for d, doc := range docs {
		vec := make(map[int]float64)
		for _, term := range doc {
			if idx, ok := vocab[term]; ok {
				vec[idx]++
			}
		}

		var norm float64
		for idx := range vec {
			vec[idx] *= idf[idx]
			norm += vec[idx] * vec[idx]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for idx := range vec {
				vec[idx] /= norm
			}
		}
		vectors[d] = vec
	}

	return &tfidfModel{vectors: vectors}
}

// sparseDot computes the dot product of two sparse vectors. For
// L2-normalized vectors this is the cosine similarity.
func sparseDot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for idx, v := range a {
		dot += v * b[idx]
	}
	return dot
}

// extractTerms preprocesses text and produces unigram and bigram terms.
// Bigrams are formed over the stopword-filtered token stream, so terms
// can bridge a removed stopword.
func extractTerms(text string) []string {
	tokens := tokenize(text)

	terms := make([]string, 0, len(tokens)*2)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

// tokenize lowercases, strips everything but letters, digits and spaces,
// then drops stopwords and single-character tokens.
func tokenize(text string) []string {
	var sb strings.Builder
	sb.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteByte(' ')
		}
	}

	fields := strings.Fields(sb.String())
	tokens := fields[:0]
	for _, tok := range fields {
		if len(tok) < 2 {
			continue
		}
		if _, stop := stopwords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// stopwords is the English stopword list applied before term extraction.
var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {},
	"against": {}, "all": {}, "am": {}, "an": {}, "and": {}, "any": {},
	"are": {}, "as": {}, "at": {}, "be": {}, "because": {}, "been": {},
	"before": {}, "being": {}, "below": {}, "between": {}, "both": {},
	"but": {}, "by": {}, "can": {}, "did": {}, "do": {}, "does": {},
	"doing": {}, "down": {}, "during": {}, "each": {}, "few": {},
	"for": {}, "from": {}, "further": {}, "had": {}, "has": {},
	"have": {}, "having": {}, "he": {}, "her": {}, "here": {},
	"hers": {}, "herself": {}, "him": {}, "himself": {}, "his": {},
	"how": {}, "i": {}, "if": {}, "in": {}, "into": {}, "is": {},
	"it": {}, "its": {}, "itself": {}, "just": {}, "me": {}, "more": {},
	"most": {}, "my": {}, "myself": {}, "no": {}, "nor": {}, "not": {},
	"now": {}, "of": {}, "off": {}, "on": {}, "once": {}, "only": {},
	"or": {}, "other": {}, "our": {}, "ours": {}, "ourselves": {},
	"out": {}, "over": {}, "own": {}, "same": {}, "she": {},
	"should": {}, "so": {}, "some": {}, "such": {}, "than": {},
	"that": {}, "the": {}, "their": {}, "theirs": {}, "them": {},
	"themselves": {}, "then": {}, "there": {}, "these": {}, "they": {},
	"this": {}, "those": {}, "through": {}, "to": {}, "too": {},
	"under": {}, "until": {}, "up": {}, "very": {}, "was": {}, "we": {},
	"were": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"while": {}, "who": {}, "whom": {}, "why": {}, "will": {},
	"with": {}, "you": {}, "your": {}, "yours": {}, "yourself": {},
	"yourselves": {},
}

// anyOverlap reports whether the two slices share any element.
func anyOverlap(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[s] = struct{}{}
	}
	for _, s := range a {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}

// orderedIntersection returns elements of a that also appear in b,
// preserving a's order and deduplicating.
func orderedIntersection(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[s] = struct{}{}
	}

	var out []string
	emitted := make(map[string]struct{})
	for _, s := range a {
		if _, ok := set[s]; !ok {
			continue
		}
		if _, dup := emitted[s]; dup {
			continue
		}
		emitted[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// headStrings returns the first n elements without copying.
func headStrings(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
