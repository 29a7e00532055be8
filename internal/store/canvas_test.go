package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfnote/shelfnote-server/internal/domain"
)

func TestGetCanvas_DefaultsToEmpty(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-001")))

	canvas, err := store.GetCanvas(ctx, "book-001")
	require.NoError(t, err)
	assert.Equal(t, "book-001", canvas.BookID)
	assert.Empty(t, canvas.Text)
	assert.NotNil(t, canvas.Strokes)
	assert.Empty(t, canvas.Strokes)
}

func TestGetCanvas_BookNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.GetCanvas(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestSaveCanvas_RoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-001")))

	canvas := domain.NewCanvasNotes("book-001", "themes to revisit", []domain.Stroke{
		{Color: "#1a1a1a", Width: 2, Points: []domain.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}},
	})
	require.NoError(t, store.SaveCanvas(ctx, canvas))

	retrieved, err := store.GetCanvas(ctx, "book-001")
	require.NoError(t, err)
	assert.Equal(t, "themes to revisit", retrieved.Text)
	require.Len(t, retrieved.Strokes, 1)
	assert.Len(t, retrieved.Strokes[0].Points, 2)
	assert.Positive(t, retrieved.UpdatedAt)
}

func TestSaveCanvas_ReplacesPrevious(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.CreateBook(ctx, createTestBook("book-001")))

	require.NoError(t, store.SaveCanvas(ctx, domain.NewCanvasNotes("book-001", "first", nil)))
	require.NoError(t, store.SaveCanvas(ctx, domain.NewCanvasNotes("book-001", "second", nil)))

	retrieved, err := store.GetCanvas(ctx, "book-001")
	require.NoError(t, err)
	assert.Equal(t, "second", retrieved.Text)
}

func TestSaveCanvas_BookNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	canvas := domain.NewCanvasNotes("missing", "text", nil)
	err := store.SaveCanvas(context.Background(), canvas)
	assert.ErrorIs(t, err, ErrBookNotFound)
}
