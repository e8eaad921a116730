// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

// Package strategies implements the recommendation strategies for the
// hybrid engine.
//
//   - ContentBased: TF-IDF cosine similarity over book text metadata
//   - PreferenceMatcher: reading-history matching with a popularity
//     fallback for users without history
//
// Each strategy implements the recommend.Strategy interface and is
// registered with the engine at startup. Strategies are stateless per
// call; the TF-IDF model is rebuilt from the request corpus every time,
// so candidates never leak between requests.
package strategies

import "github.com/tomtom215/shelfmark/internal/recommend"

// Ensure all strategies implement the interface.
var (
	_ recommend.Strategy = (*ContentBased)(nil)
	_ recommend.Strategy = (*PreferenceMatcher)(nil)
)
