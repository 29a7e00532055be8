package store

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/sse"
)

const canvasPrefix = "canvas:"

// Canvas operations. One blob per book, keyed by the book ID.

// GetCanvas retrieves the canvas blob for a book. A book with no saved
// canvas yet gets an empty one rather than an error.
func (s *Store) GetCanvas(ctx context.Context, bookID string) (*domain.CanvasNotes, error) {
	exists, err := s.BookExists(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrBookNotFound
	}

	var canvas domain.CanvasNotes
	err = s.get([]byte(canvasPrefix+bookID), &canvas)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.NewCanvasNotes(bookID, "", nil), nil
	}
	if err != nil {
		return nil, err
	}

	if canvas.Strokes == nil {
		canvas.Strokes = []domain.Stroke{}
	}
	return &canvas, nil
}

// SaveCanvas writes the canvas blob for a book, replacing whatever was there.
func (s *Store) SaveCanvas(ctx context.Context, canvas *domain.CanvasNotes) error {
	exists, err := s.BookExists(ctx, canvas.BookID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrBookNotFound
	}

	canvas.UpdatedAt = time.Now().UnixMilli()
	if canvas.Strokes == nil {
		canvas.Strokes = []domain.Stroke{}
	}

	if err := s.set([]byte(canvasPrefix+canvas.BookID), canvas); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("canvas saved", "book_id", canvas.BookID, "strokes", len(canvas.Strokes))
	}

	s.eventEmitter.Emit(sse.NewCanvasUpdatedEvent(canvas.BookID, time.UnixMilli(canvas.UpdatedAt)))
	return nil
}
