// Package domain contains the core business entities for the Shelfnote library.
package domain

import "time"

// Status tracks where a book sits in the reading lifecycle.
type Status string

// Reading statuses. These are the exact strings stored and filtered on.
const (
	StatusToRead     Status = "To Read"
	StatusInProgress Status = "In Progress"
	StatusRead       Status = "Read"
	StatusAbandoned  Status = "Abandoned"
)

// Valid reports whether s is a known reading status.
func (s Status) Valid() bool {
	switch s {
	case StatusToRead, StatusInProgress, StatusRead, StatusAbandoned:
		return true
	}
	return false
}

// Format is the physical form of a book.
type Format string

// Book formats.
const (
	FormatDigital  Format = "Digital"
	FormatPhysical Format = "Physical"
)

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	return f == FormatDigital || f == FormatPhysical
}

// Book represents one library entry. Notes are embedded: they live and die
// with their book, and the whole record is read and written as a unit.
type Book struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author,omitempty"`
	CoverURL string `json:"cover_url,omitempty"`
	// CoverBlurHash is the placeholder shown while the cover image loads.
	CoverBlurHash string   `json:"cover_blurhash,omitempty"`
	FilePath      string   `json:"file_path,omitempty"`
	TotalPages    int      `json:"total_pages"` // 0 means unknown
	CurrentPage   int      `json:"current_page"`
	Status        Status   `json:"status"`
	Genres        []string `json:"genres,omitempty"`
	// LegacyGenre holds the old singular field from early records.
	// The store normalizes it into Genres on read; nothing else touches it.
	LegacyGenre string `json:"genre,omitempty"`
	Notes       []Note `json:"notes"`
	Rating      int    `json:"rating"`
	Review      string `json:"review,omitempty"`
	Format      Format `json:"format"`
	Saved       bool   `json:"saved"`
	AddedAt     int64  `json:"added_at"`   // unix millis
	UpdatedAt   int64  `json:"updated_at"` // unix millis
}

// NewBook builds a book with the library defaults applied.
func NewBook(id, title, author, coverURL string, genres []string) *Book {
	now := time.Now().UnixMilli()
	return &Book{
		ID:          id,
		Title:       title,
		Author:      author,
		CoverURL:    coverURL,
		TotalPages:  0,
		CurrentPage: 1,
		Status:      StatusToRead,
		Genres:      genres,
		Notes:       []Note{},
		Rating:      0,
		Format:      FormatDigital,
		Saved:       false,
		AddedAt:     now,
		UpdatedAt:   now,
	}
}

// Touch updates the UpdatedAt timestamp to the current time.
func (b *Book) Touch() {
	b.UpdatedAt = time.Now().UnixMilli()
}

// NormalizeGenres folds the legacy singular genre field into Genres.
// After this call Genres is never nil and LegacyGenre is cleared, so
// downstream consumers only ever see the plural form.
func (b *Book) NormalizeGenres() {
	if len(b.Genres) == 0 && b.LegacyGenre != "" {
		b.Genres = []string{b.LegacyGenre}
	}
	if b.Genres == nil {
		b.Genres = []string{}
	}
	b.LegacyGenre = ""
}

// AddGenre appends a genre tag, preserving insertion order.
// Returns false if the book already carries the tag.
func (b *Book) AddGenre(genre string) bool {
	for _, g := range b.Genres {
		if g == genre {
			return false
		}
	}
	b.Genres = append(b.Genres, genre)
	return true
}

// ApplyProgress records the reader's current page and advances the status:
// touching a "To Read" book marks it "In Progress", and reaching the final
// page of a book with a known page count marks it "Read".
func (b *Book) ApplyProgress(page int) {
	b.CurrentPage = page
	if b.Status == StatusToRead {
		b.Status = StatusInProgress
	}
	if b.TotalPages > 0 && page >= b.TotalPages {
		b.Status = StatusRead
	}
}

// NoteByID returns the note with the given ID, or nil if absent.
func (b *Book) NoteByID(noteID string) *Note {
	for i := range b.Notes {
		if b.Notes[i].ID == noteID {
			return &b.Notes[i]
		}
	}
	return nil
}

// RemoveNote deletes a note by ID. Returns true if a note was removed.
func (b *Book) RemoveNote(noteID string) bool {
	for i := range b.Notes {
		if b.Notes[i].ID == noteID {
			b.Notes = append(b.Notes[:i], b.Notes[i+1:]...)
			return true
		}
	}
	return false
}
