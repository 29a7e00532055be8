package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/errors"
	"github.com/shelfnote/shelfnote-server/internal/id"
	"github.com/shelfnote/shelfnote-server/internal/library"
	"github.com/shelfnote/shelfnote-server/internal/store"
)

// NoteService manages margin notes and their spread view.
type NoteService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewNoteService creates a new note service.
func NewNoteService(st *store.Store, logger *slog.Logger) *NoteService {
	return &NoteService{
		store:  st,
		logger: logger,
	}
}

// AddNote creates a note on a book page and returns the updated book.
func (s *NoteService) AddNote(ctx context.Context, bookID string, page int, content string) (*domain.Book, error) {
	if page < 1 {
		return nil, errors.Validation("page must be at least 1")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.Validation("note content cannot be empty")
	}

	note := domain.NewNote(id.MustGenerate("note"), page, content)
	return s.store.AddNote(ctx, bookID, note)
}

// UpdateNote rewrites a note's content, bumping its timestamp so it moves
// to the end of its page in reading order. Returns the updated book.
func (s *NoteService) UpdateNote(ctx context.Context, bookID, noteID string, content string) (*domain.Book, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.Validation("note content cannot be empty")
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	note := book.NoteByID(noteID)
	if note == nil {
		return nil, store.ErrNoteNotFound
	}

	return s.store.UpdateNote(ctx, bookID, noteID, note.Page, content)
}

// DeleteNote removes a note from a book and returns the updated book.
func (s *NoteService) DeleteNote(ctx context.Context, bookID, noteID string) (*domain.Book, error) {
	return s.store.DeleteNote(ctx, bookID, noteID)
}

// SpreadsResult is the paginated spread view of a book's notes.
type SpreadsResult struct {
	BookID  string           `json:"book_id"`
	Spreads []library.Spread `json:"spreads"`
	Total   int              `json:"total"`
}

// Spreads builds the two-page spread view of a book's notes.
// A non-nil draft is shown as the first entry without being persisted.
func (s *NoteService) Spreads(ctx context.Context, bookID string, draft *domain.Note) (*SpreadsResult, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	spreads := library.BuildSpreads(book.Notes, draft)
	return &SpreadsResult{
		BookID:  book.ID,
		Spreads: spreads,
		Total:   len(spreads),
	}, nil
}

// Canvas returns the free-form canvas blob for a book.
func (s *NoteService) Canvas(ctx context.Context, bookID string) (*domain.CanvasNotes, error) {
	return s.store.GetCanvas(ctx, bookID)
}

// SaveCanvas replaces the canvas blob for a book.
func (s *NoteService) SaveCanvas(ctx context.Context, bookID, text string, strokes []domain.Stroke) (*domain.CanvasNotes, error) {
	canvas := domain.NewCanvasNotes(bookID, text, strokes)
	if err := s.store.SaveCanvas(ctx, canvas); err != nil {
		return nil, err
	}
	return canvas, nil
}
