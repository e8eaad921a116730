// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

// Package recommend implements the hybrid book recommendation engine.
//
// The engine fuses a fixed set of strategies (TF-IDF content similarity
// and reading-history preference matching, see the strategies
// subpackage) into a single ranked list, then applies situational
// context adjustment and diversity reranking (see the reranking
// subpackage). It also serves trending and mood-based lists directly.
//
// # Design
//
//   - Per-request computation: no trained state is kept between calls.
//     The TF-IDF model is rebuilt from each request's corpus, so results
//     depend only on the inputs.
//   - Graceful degradation: a failed strategy is logged and skipped,
//     degenerate input yields a shorter or empty list, and no code path
//     returns an error to the caller.
//   - Scores live in [0, 1]. Every multiplicative boost is clamped.
//
// # Thread Safety
//
// The engine is safe for concurrent use. Strategy and reranker
// registration normally happens once at startup; the only cross-request
// mutation is the idempotent sentiment memoization on candidate books.
package recommend
