// Package search provides full-text search over the library using Bleve.
// It complements the exact substring matching of the browse pipeline with
// stemmed, fuzzy, ranked matching across titles, authors, genres, reviews,
// and note contents.
package search

import (
	"strings"

	"github.com/shelfnote/shelfnote-server/internal/domain"
)

// BookDocument is the document structure for the Bleve index. One document
// per book; note contents are flattened into a single field so a phrase
// remembered from a margin note finds its book.
type BookDocument struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`

	// Genres indexed as exact keywords for faceting.
	Genres []string `json:"genres,omitempty"`

	// Status and format as keywords for filtering and facet counts.
	Status string `json:"status"`
	Format string `json:"format"`

	Review string `json:"review,omitempty"`

	// NoteText is every note's content joined together.
	NoteText string `json:"note_text,omitempty"`

	Rating int `json:"rating"`

	// Timestamps for sorting. Unix millis.
	AddedAt   int64 `json:"added_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// ToMap converts the document to a map with lowercase field names.
// This ensures field names match the Bleve index mapping.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *BookDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"title":      d.Title,
		"status":     d.Status,
		"format":     d.Format,
		"rating":     d.Rating,
		"added_at":   d.AddedAt,
		"updated_at": d.UpdatedAt,
	}

	// Optional fields - only add if non-empty
	if d.Author != "" {
		m["author"] = d.Author
	}
	if len(d.Genres) > 0 {
		m["genres"] = d.Genres
	}
	if d.Review != "" {
		m["review"] = d.Review
	}
	if d.NoteText != "" {
		m["note_text"] = d.NoteText
	}

	return m
}

// BookToDocument converts a domain Book to a BookDocument.
func BookToDocument(book *domain.Book) *BookDocument {
	doc := &BookDocument{
		ID:        book.ID,
		Title:     book.Title,
		Author:    book.Author,
		Genres:    book.Genres,
		Status:    string(book.Status),
		Format:    string(book.Format),
		Review:    book.Review,
		Rating:    book.Rating,
		AddedAt:   book.AddedAt,
		UpdatedAt: book.UpdatedAt,
	}

	if len(book.Notes) > 0 {
		contents := make([]string, 0, len(book.Notes))
		for _, n := range book.Notes {
			if n.Content != "" {
				contents = append(contents, n.Content)
			}
		}
		doc.NoteText = strings.Join(contents, "\n")
	}

	return doc
}
