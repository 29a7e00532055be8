package search

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfnote/shelfnote-server/internal/domain"
)

// setupTestIndex creates a temporary search index for testing.
func setupTestIndex(t *testing.T) (*SearchIndex, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "search-test-*")
	require.NoError(t, err)

	index, err := NewSearchIndex(Options{
		DataPath: tmpDir,
		Logger:   nil,
	})
	require.NoError(t, err)

	cleanup := func() {
		_ = index.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return index, cleanup
}

func TestNewSearchIndex(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearchIndex_IndexDocument(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	doc := &BookDocument{
		ID:     "book-123",
		Title:  "The Hobbit",
		Author: "J.R.R. Tolkien",
	}

	err := index.IndexDocument(doc)
	require.NoError(t, err)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestSearchIndex_IndexDocuments_Batch(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	docs := []*BookDocument{
		{ID: "book-1", Title: "Book One"},
		{ID: "book-2", Title: "Book Two"},
		{ID: "book-3", Title: "Book Three"},
	}

	err := index.IndexDocuments(docs)
	require.NoError(t, err)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestSearchIndex_DeleteDocument(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	doc := &BookDocument{
		ID:    "book-123",
		Title: "Test Book",
	}

	err := index.IndexDocument(doc)
	require.NoError(t, err)

	err = index.DeleteDocument("book-123")
	require.NoError(t, err)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestSearch_TitleMatch(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	docs := []*BookDocument{
		{ID: "book-1", Title: "The Hobbit", Author: "J.R.R. Tolkien", Status: "Read", Format: "Physical"},
		{ID: "book-2", Title: "Dune", Author: "Frank Herbert", Status: "To Read", Format: "Digital"},
	}
	require.NoError(t, index.IndexDocuments(docs))

	params := DefaultSearchParams()
	params.Query = "hobbit"

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	require.Equal(t, uint64(1), result.Total)
	assert.Equal(t, "book-1", result.Hits[0].ID)
	assert.Equal(t, "The Hobbit", result.Hits[0].Title)
}

func TestSearch_NoteContentMatch(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	docs := []*BookDocument{
		{ID: "book-1", Title: "Circe", NoteText: "the loom metaphor recurs in chapter nine"},
		{ID: "book-2", Title: "Dune"},
	}
	require.NoError(t, index.IndexDocuments(docs))

	params := DefaultSearchParams()
	params.Query = "loom"

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	require.Equal(t, uint64(1), result.Total)
	assert.Equal(t, "book-1", result.Hits[0].ID)
}

func TestSearch_GenreFilter(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	docs := []*BookDocument{
		{ID: "book-1", Title: "Circe", Genres: []string{"Mythology"}},
		{ID: "book-2", Title: "Neuromancer", Genres: []string{"Science Fiction"}},
	}
	require.NoError(t, index.IndexDocuments(docs))

	params := DefaultSearchParams()
	params.Genres = []string{"Mythology"}

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	require.Equal(t, uint64(1), result.Total)
	assert.Equal(t, "book-1", result.Hits[0].ID)
}

func TestSearch_EmptyQueryMatchesAll(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	docs := []*BookDocument{
		{ID: "book-1", Title: "One"},
		{ID: "book-2", Title: "Two"},
	}
	require.NoError(t, index.IndexDocuments(docs))

	params := DefaultSearchParams()

	result, err := index.Search(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), result.Total)
}

func TestBookToDocument(t *testing.T) {
	book := domain.NewBook("book-1", "Circe", "Madeline Miller", "", []string{"Mythology"})
	book.Notes = []domain.Note{
		{ID: "note-1", Page: 3, Content: "opening imagery"},
		{ID: "note-2", Page: 9, Content: "the loom again"},
	}
	book.Review = "A retelling that earns its length."
	book.Rating = 5

	doc := BookToDocument(book)

	assert.Equal(t, "book-1", doc.ID)
	assert.Equal(t, "Circe", doc.Title)
	assert.Equal(t, "Madeline Miller", doc.Author)
	assert.Equal(t, []string{"Mythology"}, doc.Genres)
	assert.Equal(t, "To Read", doc.Status)
	assert.Contains(t, doc.NoteText, "opening imagery")
	assert.Contains(t, doc.NoteText, "the loom again")
	assert.Equal(t, 5, doc.Rating)
}

func TestSearchIndex_Rebuild(t *testing.T) {
	index, cleanup := setupTestIndex(t)
	defer cleanup()

	require.NoError(t, index.IndexDocument(&BookDocument{ID: "book-1", Title: "Stale"}))

	err := index.Rebuild()
	require.NoError(t, err)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}
