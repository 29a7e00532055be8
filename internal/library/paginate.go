package library

import (
	"slices"

	"github.com/shelfnote/shelfnote-server/internal/domain"
)

// NotesPerPage is the fixed capacity of one displayed note page.
const NotesPerPage = 5

// Page is one side of a spread: a display page number (1-based, counted
// through the notes feed - not a PDF page number) and up to NotesPerPage
// notes in reading order.
type Page struct {
	Number int           `json:"number"`
	Notes  []domain.Note `json:"notes"`
}

// Spread is a pair of note pages displayed side by side, emulating an open
// book. Right is nil when the final spread has only one page.
type Spread struct {
	Left  Page  `json:"left"`
	Right *Page `json:"right,omitempty"`
}

// SortNotes returns the notes in stable reading order:
// page ascending, then timestamp ascending. The input is not modified.
func SortNotes(notes []domain.Note) []domain.Note {
	sorted := slices.Clone(notes)
	slices.SortStableFunc(sorted, func(a, b domain.Note) int {
		if a.Page != b.Page {
			return a.Page - b.Page
		}
		return compareInt64(a.Timestamp, b.Timestamp)
	})
	return sorted
}

// BuildSpreads paginates a book's notes into two-page spreads.
//
// Real notes are sorted into reading order first. An active draft, if any,
// is prepended as a synthetic first entry regardless of its own page value:
// in-progress work is always visible at the front. The sequence is then
// chunked into pages of NotesPerPage (an empty book still gets one blank
// page) and pages are paired left/right into spreads.
func BuildSpreads(notes []domain.Note, draft *domain.Note) []Spread {
	ordered := SortNotes(notes)
	if draft != nil {
		ordered = append([]domain.Note{*draft}, ordered...)
	}

	var pages []Page
	for i := 0; i < len(ordered); i += NotesPerPage {
		end := min(i+NotesPerPage, len(ordered))
		pages = append(pages, Page{
			Number: len(pages) + 1,
			Notes:  ordered[i:end],
		})
	}
	if len(pages) == 0 {
		pages = []Page{{Number: 1, Notes: []domain.Note{}}}
	}

	spreads := make([]Spread, 0, (len(pages)+1)/2)
	for i := 0; i < len(pages); i += 2 {
		s := Spread{Left: pages[i]}
		if i+1 < len(pages) {
			s.Right = &pages[i+1]
		}
		spreads = append(spreads, s)
	}
	return spreads
}

// ClampSpreadIndex bounds a spread index to [0, total-1]. It keeps the
// navigation position valid when the note collection shrinks underneath it.
func ClampSpreadIndex(index, total int) int {
	if total <= 0 {
		return 0
	}
	if index < 0 {
		return 0
	}
	if index > total-1 {
		return total - 1
	}
	return index
}
