package store

import (
	"context"
	"errors"
	"time"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/sse"
)

// Note operations. Notes live embedded in their book record, so every
// mutation rewrites the book. Note events are emitted instead of
// book.updated so clients can react to the note feed specifically.

var ErrNoteNotFound = errors.New("note not found")

// AddNote appends a note to a book and returns the updated book.
func (s *Store) AddNote(ctx context.Context, bookID string, note domain.Note) (*domain.Book, error) {
	book, err := s.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	book.Notes = append(book.Notes, note)
	book.Touch()

	if err := s.set([]byte(bookPrefix+bookID), book); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("note added", "book_id", bookID, "note_id", note.ID, "page", note.Page)
	}

	s.eventEmitter.Emit(sse.NewNoteCreatedEvent(bookID, &note))
	s.indexBookAsync(book)
	return book, nil
}

// UpdateNote replaces the content and page of an existing note. The note's
// timestamp is refreshed so it moves to its new place in reading order.
func (s *Store) UpdateNote(ctx context.Context, bookID, noteID string, page int, content string) (*domain.Book, error) {
	book, err := s.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	note := book.NoteByID(noteID)
	if note == nil {
		return nil, ErrNoteNotFound
	}

	note.Page = page
	note.Content = content
	note.Timestamp = time.Now().UnixMilli()
	book.Touch()

	if err := s.set([]byte(bookPrefix+bookID), book); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("note updated", "book_id", bookID, "note_id", noteID)
	}

	s.eventEmitter.Emit(sse.NewNoteUpdatedEvent(bookID, note))
	s.indexBookAsync(book)
	return book, nil
}

// DeleteNote removes a note from a book.
func (s *Store) DeleteNote(ctx context.Context, bookID, noteID string) (*domain.Book, error) {
	book, err := s.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if !book.RemoveNote(noteID) {
		return nil, ErrNoteNotFound
	}
	book.Touch()

	if err := s.set([]byte(bookPrefix+bookID), book); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("note deleted", "book_id", bookID, "note_id", noteID)
	}

	s.eventEmitter.Emit(sse.NewNoteDeletedEvent(bookID, noteID))
	s.indexBookAsync(book)
	return book, nil
}
