// Package library implements the pure computations behind the browse and
// notes views: the search/filter/sort pipeline over book records, and the
// pagination of margin notes into two-page spreads.
//
// Every function here is total over its documented input domain: empty
// collections, missing optional fields, and zero-length results are all
// valid, and inputs are never mutated.
package library

import (
	"slices"
	"strings"

	"github.com/shelfnote/shelfnote-server/internal/domain"
)

// SortKey selects the ordering applied after filtering.
type SortKey string

// Recognized sort keys. Anything else leaves the filtered order unchanged.
const (
	SortNewest     SortKey = "newest"
	SortOldest     SortKey = "oldest"
	SortLatestRead SortKey = "latest_read"
	SortRating     SortKey = "rating_desc"
	SortNotesDesc  SortKey = "notes_desc"
)

// Filters holds the active filter selections for the browse pipeline.
// An empty set in any category means "no constraint" for that category.
// Categories combine conjunctively; values within a category are OR'd.
type Filters struct {
	Formats  []domain.Format
	Statuses []domain.Status
	Ratings  []int // truncated star thresholds, 0-5
}

// Empty reports whether no filter category is active.
func (f Filters) Empty() bool {
	return len(f.Formats) == 0 && len(f.Statuses) == 0 && len(f.Ratings) == 0
}

// Apply runs the full pipeline: text query, category filters, then sort.
// It returns a fresh slice; the input collection and its books are never
// modified. Ties under every sort key keep their original relative order.
func Apply(books []*domain.Book, query string, filters Filters, sort SortKey) []*domain.Book {
	q := strings.ToLower(strings.TrimSpace(query))

	result := make([]*domain.Book, 0, len(books))
	for _, b := range books {
		if matchesQuery(b, q) && matchesFilters(b, filters) {
			result = append(result, b)
		}
	}

	sortBooks(result, sort)
	return result
}

// matchesQuery reports whether the book matches a pre-lowercased query.
// An empty query matches everything; otherwise the query must be a
// substring of the title, author, any genre tag, or any note's content.
func matchesQuery(b *domain.Book, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(b.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(b.Author), q) {
		return true
	}
	for _, g := range b.Genres {
		if strings.Contains(strings.ToLower(g), q) {
			return true
		}
	}
	for _, n := range b.Notes {
		if strings.Contains(strings.ToLower(n.Content), q) {
			return true
		}
	}
	return false
}

// matchesFilters checks every active category independently.
func matchesFilters(b *domain.Book, f Filters) bool {
	if len(f.Formats) > 0 {
		// Records written before the format field existed count as Digital.
		format := b.Format
		if format == "" {
			format = domain.FormatDigital
		}
		if !slices.Contains(f.Formats, format) {
			return false
		}
	}

	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, b.Status) {
		return false
	}

	if len(f.Ratings) > 0 {
		// Missing rating is 0, and the comparison truncates toward zero,
		// so an unrated book only matches a filter that includes 0.
		if !slices.Contains(f.Ratings, b.Rating) {
			return false
		}
	}

	return true
}

// sortBooks orders books in place with a stable sort.
// latest_read falls back to addedAt: there is no separately tracked
// last-read timestamp. See DESIGN.md.
func sortBooks(books []*domain.Book, key SortKey) {
	switch key {
	case SortNewest, SortLatestRead:
		slices.SortStableFunc(books, func(a, b *domain.Book) int {
			return compareInt64(b.AddedAt, a.AddedAt)
		})
	case SortOldest:
		slices.SortStableFunc(books, func(a, b *domain.Book) int {
			return compareInt64(a.AddedAt, b.AddedAt)
		})
	case SortRating:
		slices.SortStableFunc(books, func(a, b *domain.Book) int {
			return b.Rating - a.Rating
		})
	case SortNotesDesc:
		slices.SortStableFunc(books, func(a, b *domain.Book) int {
			return len(b.Notes) - len(a.Notes)
		})
	default:
		// Unknown key: keep the filtered order.
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
