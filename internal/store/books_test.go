package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfnote/shelfnote-server/internal/domain"
)

// Helper function to create a test book
func createTestBook(id string) *domain.Book {
	book := domain.NewBook(id, "Test Book", "Test Author", "", []string{"Fiction"})
	book.TotalPages = 320
	return book
}

// TestCreateBook tests creating a new book
func TestCreateBook(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := createTestBook("book-001")

	err := store.CreateBook(ctx, book)
	require.NoError(t, err)

	// Verify book was created
	retrieved, err := store.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, retrieved.ID)
	assert.Equal(t, book.Title, retrieved.Title)
	assert.Equal(t, domain.StatusToRead, retrieved.Status)
	assert.Equal(t, 1, retrieved.CurrentPage)
	assert.Equal(t, domain.FormatDigital, retrieved.Format)
	assert.False(t, retrieved.Saved)
}

// TestCreateBook_Duplicate tests that creating a duplicate book returns an error
func TestCreateBook_Duplicate(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := createTestBook("book-001")

	err := store.CreateBook(ctx, book)
	require.NoError(t, err)

	// Try to create again - should fail
	err = store.CreateBook(ctx, book)
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrBookExists)
}

// TestGetBook_NotFound tests getting a nonexistent book
func TestGetBook_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.GetBook(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

// TestGetBook_LegacyGenreNormalized tests that old single-genre records are
// folded into the genres list when read back.
func TestGetBook_LegacyGenreNormalized(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := createTestBook("book-legacy")
	book.Genres = nil
	book.LegacyGenre = "Mythology"

	// Write raw, bypassing CreateBook's normalization-free path on purpose.
	require.NoError(t, store.set([]byte(bookPrefix+book.ID), book))

	retrieved, err := store.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Mythology"}, retrieved.Genres)
	assert.Empty(t, retrieved.LegacyGenre)
}

// TestUpdateBook tests updating an existing book
func TestUpdateBook(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := createTestBook("book-001")
	require.NoError(t, store.CreateBook(ctx, book))

	book.Rating = 5
	book.Review = "Loved it"
	book.Saved = true
	err := store.UpdateBook(ctx, book)
	require.NoError(t, err)

	retrieved, err := store.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, retrieved.Rating)
	assert.Equal(t, "Loved it", retrieved.Review)
	assert.True(t, retrieved.Saved)
	assert.GreaterOrEqual(t, retrieved.UpdatedAt, retrieved.AddedAt)
}

// TestUpdateBook_NotFound tests updating a nonexistent book
func TestUpdateBook_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	book := createTestBook("ghost")
	err := store.UpdateBook(context.Background(), book)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

// TestDeleteBook tests deleting a book and its canvas
func TestDeleteBook(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	book := createTestBook("book-001")
	require.NoError(t, store.CreateBook(ctx, book))

	canvas := domain.NewCanvasNotes(book.ID, "scratch", nil)
	require.NoError(t, store.SaveCanvas(ctx, canvas))

	err := store.DeleteBook(ctx, book.ID)
	require.NoError(t, err)

	_, err = store.GetBook(ctx, book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)

	_, err = store.GetCanvas(ctx, book.ID)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

// TestListBooks tests listing all books
func TestListBooks(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	for _, id := range []string{"book-001", "book-002", "book-003"} {
		require.NoError(t, store.CreateBook(ctx, createTestBook(id)))
	}

	books, err := store.ListBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 3)
}

// TestListBooks_Empty tests listing when the library is empty
func TestListBooks_Empty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	books, err := store.ListBooks(context.Background())
	require.NoError(t, err)
	assert.Empty(t, books)
}

// TestDeleteBooks tests bulk deletion with missing IDs mixed in
func TestDeleteBooks(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-001")))
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-002")))

	deleted, err := store.DeleteBooks(ctx, []string{"book-001", "missing", "book-002"})
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	books, err := store.ListBooks(ctx)
	require.NoError(t, err)
	assert.Empty(t, books)
}

// TestSetBooksStatus tests bulk status updates
func TestSetBooksStatus(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-001")))
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-002")))

	updated, err := store.SetBooksStatus(ctx, []string{"book-001", "book-002", "missing"}, domain.StatusRead)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	book, err := store.GetBook(ctx, "book-001")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRead, book.Status)
}

// TestAddBooksGenre tests bulk genre tagging with dedup
func TestAddBooksGenre(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	tagged := createTestBook("book-001")
	require.NoError(t, store.CreateBook(ctx, tagged))

	fresh := createTestBook("book-002")
	fresh.Genres = nil
	require.NoError(t, store.CreateBook(ctx, fresh))

	// "Fiction" is already on book-001, so only book-002 changes.
	updated, err := store.AddBooksGenre(ctx, []string{"book-001", "book-002"}, "Fiction")
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	book, err := store.GetBook(ctx, "book-002")
	require.NoError(t, err)
	assert.Contains(t, book.Genres, "Fiction")
}
