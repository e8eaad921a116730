// Shelfmark - Book Discovery and Recommendation Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfmark

package models

// ReadingStatus classifies a reading history entry.
type ReadingStatus string

const (
	// StatusRead indicates a finished book.
	StatusRead ReadingStatus = "read"
	// StatusReading indicates a book currently in progress.
	StatusReading ReadingStatus = "reading"
	// StatusWantToRead indicates a book on the wish list.
	StatusWantToRead ReadingStatus = "want_to_read"
)

// favoriteListSize caps the derived favorite author/genre lists.
const favoriteListSize = 10

// likedRatingThreshold is the minimum rating for an entry to count
// towards derived preferences.
const likedRatingThreshold = 4.0

// ReadingHistoryEntry records one book a user has encountered.
type ReadingHistoryEntry struct {
	// BookID is the catalog identifier of the book.
	BookID string `json:"book_id"`

	// Title is the book title at the time it was recorded.
	Title string `json:"title"`

	// Authors is the list of author names.
	Authors []string `json:"authors"`

	// Rating is the user's rating on a 0-5 scale, nil if unrated.
	Rating *float64 `json:"rating,omitempty"`

	// ReadDate is an ISO-8601 date-time string, empty if unknown.
	ReadDate string `json:"read_date,omitempty"`

	// Status is the reading status.
	Status ReadingStatus `json:"status"`

	// Review is an optional free-text review.
	Review string `json:"review,omitempty"`

	// Tags is the list of genres the user associated with this book.
	// Distinct from the book's own subjects.
	Tags []string `json:"tags,omitempty"`
}

// Liked reports whether the entry counts towards derived preferences.
func (e *ReadingHistoryEntry) Liked() bool {
	return e.Rating != nil && *e.Rating >= likedRatingThreshold
}

// UserProfile holds a user's reading history and derived preferences.
type UserProfile struct {
	// UserID is the stable user identifier.
	UserID string `json:"user_id"`

	// Name is the display name.
	Name string `json:"name"`

	// ReadingHistory is the ordered, append-only list of history entries.
	ReadingHistory []ReadingHistoryEntry `json:"reading_history"`

	// FavoriteGenres is the derived top-10 genre list, recomputed on append.
	FavoriteGenres []string `json:"favorite_genres"`

	// FavoriteAuthors is the derived top-10 author list, recomputed on append.
	FavoriteAuthors []string `json:"favorite_authors"`

	// CreatedAt is an ISO-8601 creation timestamp.
	CreatedAt string `json:"created_at,omitempty"`
}

// AddToHistory appends an entry and recomputes the derived favorites.
func (p *UserProfile) AddToHistory(entry ReadingHistoryEntry) {
	p.ReadingHistory = append(p.ReadingHistory, entry)
	p.updatePreferences()
}

// updatePreferences rebuilds the favorite author/genre lists from entries
// rated at or above the liked threshold. Favorites are ranked by frequency;
// ties keep the insertion order of first occurrence.
func (p *UserProfile) updatePreferences() {
	authorCounts := make(map[string]int)
	genreCounts := make(map[string]int)
	authorOrder := make([]string, 0)
	genreOrder := make([]string, 0)

	for i := range p.ReadingHistory {
		entry := &p.ReadingHistory[i]
		if !entry.Liked() {
			continue
		}
		for _, author := range entry.Authors {
			if _, seen := authorCounts[author]; !seen {
				authorOrder = append(authorOrder, author)
			}
			authorCounts[author]++
		}
		for _, tag := range entry.Tags {
			if _, seen := genreCounts[tag]; !seen {
				genreOrder = append(genreOrder, tag)
			}
			genreCounts[tag]++
		}
	}

	p.FavoriteAuthors = topByCount(authorOrder, authorCounts, favoriteListSize)
	p.FavoriteGenres = topByCount(genreOrder, genreCounts, favoriteListSize)
}

// topByCount returns up to n keys ordered by descending count, with ties
// broken by first-occurrence order. Insertion sort keeps the pass stable.
func topByCount(order []string, counts map[string]int, n int) []string {
	ranked := make([]string, len(order))
	copy(ranked, order)

	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && counts[ranked[j]] > counts[ranked[j-1]]; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// AverageRating returns the mean of all rated history entries, 0 if none.
func (p *UserProfile) AverageRating() float64 {
	var sum float64
	var count int
	for i := range p.ReadingHistory {
		if r := p.ReadingHistory[i].Rating; r != nil {
			sum += *r
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// ReadCount returns the number of entries with status "read".
func (p *UserProfile) ReadCount() int {
	count := 0
	for i := range p.ReadingHistory {
		if p.ReadingHistory[i].Status == StatusRead {
			count++
		}
	}
	return count
}
