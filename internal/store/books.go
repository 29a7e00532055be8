package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/sse"
)

const bookPrefix = "book:"

var (
	ErrBookNotFound = errors.New("book not found")
	ErrBookExists   = errors.New("book already exists")
)

// Book Operations

// CreateBook creates a new book
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	key := []byte(bookPrefix + book.ID)

	// Check if it already exists
	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check book exists: %w", err)
	}
	if exists {
		return ErrBookExists
	}

	if err := s.set(key, book); err != nil {
		return fmt.Errorf("create book: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "book created",
			slog.String("id", book.ID),
			slog.String("title", book.Title),
			slog.String("author", book.Author),
		)
	}

	s.eventEmitter.Emit(sse.NewBookCreatedEvent(book))
	s.indexBookAsync(book)
	return nil
}

// GetBook retrieves a book by ID.
// Legacy single-genre records are folded into the genres list before the
// book leaves the store, so callers only ever see the current shape.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	key := []byte(bookPrefix + id)

	var book domain.Book
	err := s.get(key, &book)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	book.NormalizeGenres()
	return &book, nil
}

// UpdateBook updates an existing book
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	key := []byte(bookPrefix + book.ID)

	exists, err := s.exists(key)
	if err != nil {
		return fmt.Errorf("check book exists: %w", err)
	}
	if !exists {
		return ErrBookNotFound
	}

	book.Touch()
	if err := s.set(key, book); err != nil {
		return fmt.Errorf("update book: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("book updated", "id", book.ID, "title", book.Title)
	}

	s.eventEmitter.Emit(sse.NewBookUpdatedEvent(book))
	s.indexBookAsync(book)
	return nil
}

// DeleteBook deletes a book along with its canvas blob.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(bookPrefix + id)); err != nil {
			return err
		}

		// The canvas rides along with its book.
		if err := txn.Delete([]byte(canvasPrefix + id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("book deleted", "id", id, "title", book.Title)
	}

	s.eventEmitter.Emit(sse.NewBookDeletedEvent(id, time.Now()))
	s.removeBookFromIndexAsync(id)
	return nil
}

// BookExists checks if a book exists in our db by ID
func (s *Store) BookExists(ctx context.Context, id string) (bool, error) {
	key := []byte(bookPrefix + id)
	return s.exists(key)
}

// ListBooks returns all books. The whole library lives in memory on every
// browse request; a personal shelf is small enough that this beats cursor
// bookkeeping.
func (s *Store) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	var books []*domain.Book

	prefix := []byte(bookPrefix)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			err := item.Value(func(val []byte) error {
				var book domain.Book
				if err := json.Unmarshal(val, &book); err != nil {
					return err
				}
				book.NormalizeGenres()
				books = append(books, &book)
				return nil
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	return books, nil
}

// DeleteBooks removes several books at once. Missing IDs are skipped, and
// the count of actually deleted books is returned.
func (s *Store) DeleteBooks(ctx context.Context, ids []string) (int, error) {
	deleted := 0
	for _, id := range ids {
		err := s.DeleteBook(ctx, id)
		if errors.Is(err, ErrBookNotFound) {
			continue
		}
		if err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// SetBooksStatus sets the reading status on several books at once.
// Missing IDs are skipped.
func (s *Store) SetBooksStatus(ctx context.Context, ids []string, status domain.Status) (int, error) {
	updated := 0
	for _, id := range ids {
		book, err := s.GetBook(ctx, id)
		if errors.Is(err, ErrBookNotFound) {
			continue
		}
		if err != nil {
			return updated, err
		}

		book.Status = status
		if err := s.UpdateBook(ctx, book); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// AddBooksGenre adds a genre tag to several books at once. Books that
// already carry the tag are left alone; missing IDs are skipped.
func (s *Store) AddBooksGenre(ctx context.Context, ids []string, genre string) (int, error) {
	updated := 0
	for _, id := range ids {
		book, err := s.GetBook(ctx, id)
		if errors.Is(err, ErrBookNotFound) {
			continue
		}
		if err != nil {
			return updated, err
		}

		if !book.AddGenre(genre) {
			continue
		}
		if err := s.UpdateBook(ctx, book); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
