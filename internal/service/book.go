// Package service provides the business logic layer for the Shelfnote library.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/errors"
	"github.com/shelfnote/shelfnote-server/internal/id"
	"github.com/shelfnote/shelfnote-server/internal/media/covers"
	"github.com/shelfnote/shelfnote-server/internal/media/images"
	"github.com/shelfnote/shelfnote-server/internal/store"
	"github.com/shelfnote/shelfnote-server/internal/validation"
)

// BookService orchestrates book operations.
type BookService struct {
	store       *store.Store
	validator   *validation.Validator
	fileStorage *images.Storage
	coverStore  *images.Storage
	downloader  *covers.Downloader
	logger      *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(
	st *store.Store,
	validator *validation.Validator,
	fileStorage *images.Storage,
	coverStore *images.Storage,
	downloader *covers.Downloader,
	logger *slog.Logger,
) *BookService {
	return &BookService{
		store:       st,
		validator:   validator,
		fileStorage: fileStorage,
		coverStore:  coverStore,
		downloader:  downloader,
		logger:      logger,
	}
}

// CreateBookParams holds the fields accepted when adding a book.
type CreateBookParams struct {
	Title    string   `json:"title" validate:"required,max=500"`
	Author   string   `json:"author" validate:"max=500"`
	Genres   []string `json:"genres" validate:"max=50,dive,required,max=100"`
	CoverURL string   `json:"cover_url" validate:"omitempty,url"`
	FileData []byte   `json:"-"`
}

// CreateBook adds a new book to the library. The uploaded PDF, if any, is
// written to file storage first so a store failure never leaves a book
// pointing at a missing file. Cover download runs in the background.
func (s *BookService) CreateBook(ctx context.Context, params CreateBookParams) (*domain.Book, error) {
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}

	book := domain.NewBook(id.MustGenerate("book"), strings.TrimSpace(params.Title), strings.TrimSpace(params.Author), params.CoverURL, params.Genres)

	if len(params.FileData) > 0 {
		if err := s.fileStorage.Save(book.ID, params.FileData); err != nil {
			return nil, fmt.Errorf("save book file: %w", err)
		}
		book.FilePath = s.fileStorage.Path(book.ID)
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		// Don't leave an orphaned file behind.
		if book.FilePath != "" {
			if cleanupErr := s.fileStorage.Delete(book.ID); cleanupErr != nil {
				s.logger.Warn("failed to clean up book file", "book_id", book.ID, "error", cleanupErr)
			}
		}
		return nil, err
	}

	if params.CoverURL != "" {
		go s.downloadCover(context.WithoutCancel(ctx), book.ID, params.CoverURL)
	}

	return book, nil
}

// downloadCover fetches a cover in the background and stores the resulting
// blurhash on the book. Failures are logged, never surfaced to the caller.
func (s *BookService) downloadCover(ctx context.Context, bookID, coverURL string) {
	result := s.downloader.Download(ctx, bookID, coverURL)
	if !result.Success {
		s.logger.Warn("cover download failed",
			"book_id", bookID,
			"url", coverURL,
			"error", result.Error,
		)
		return
	}

	if result.BlurHash == "" {
		return
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		// Book may have been deleted while the download ran.
		s.logger.Warn("cover downloaded for missing book", "book_id", bookID, "error", err)
		return
	}

	book.CoverBlurHash = result.BlurHash
	if err := s.store.UpdateBook(ctx, book); err != nil {
		s.logger.Warn("failed to store cover blurhash", "book_id", bookID, "error", err)
	}
}

// GetBook retrieves a single book by ID.
func (s *BookService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.store.GetBook(ctx, bookID)
}

// ListBooks returns every book in the library.
func (s *BookService) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	return s.store.ListBooks(ctx)
}

// UpdateBookParams holds the optional fields of a partial details update.
// Nil pointers leave the corresponding field untouched.
type UpdateBookParams struct {
	Title    *string   `json:"title,omitempty"`
	Author   *string   `json:"author,omitempty"`
	Genres   *[]string `json:"genres,omitempty"`
	Status   *string   `json:"status,omitempty"`
	Rating   *int      `json:"rating,omitempty"`
	Review   *string   `json:"review,omitempty"`
	Format   *string   `json:"format,omitempty"`
	Saved    *bool     `json:"saved,omitempty"`
	CoverURL *string   `json:"cover_url,omitempty"`
}

// UpdateBookDetails applies a partial update to a book's details.
// Setting a new cover URL triggers a background re-download.
func (s *BookService) UpdateBookDetails(ctx context.Context, bookID string, params UpdateBookParams) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if title == "" {
			return nil, errors.Validation("title cannot be empty")
		}
		book.Title = title
	}
	if params.Author != nil {
		book.Author = strings.TrimSpace(*params.Author)
	}
	if params.Genres != nil {
		book.Genres = *params.Genres
	}
	if params.Status != nil {
		status := domain.Status(*params.Status)
		if !status.Valid() {
			return nil, errors.Validationf("invalid status %q", *params.Status)
		}
		book.Status = status
	}
	if params.Rating != nil {
		if *params.Rating < 0 || *params.Rating > 5 {
			return nil, errors.Validation("rating must be between 0 and 5")
		}
		book.Rating = *params.Rating
	}
	if params.Review != nil {
		book.Review = *params.Review
	}
	if params.Format != nil {
		format := domain.Format(*params.Format)
		if !format.Valid() {
			return nil, errors.Validationf("invalid format %q", *params.Format)
		}
		book.Format = format
	}
	if params.Saved != nil {
		book.Saved = *params.Saved
	}

	coverChanged := params.CoverURL != nil && *params.CoverURL != book.CoverURL
	if params.CoverURL != nil {
		book.CoverURL = *params.CoverURL
	}

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, err
	}

	if coverChanged && book.CoverURL != "" {
		go s.downloadCover(context.WithoutCancel(ctx), book.ID, book.CoverURL)
	}

	return book, nil
}

// UpdateProgress records the reader's current page. Status transitions
// (To Read becomes In Progress, the final page marks the book Read)
// happen on the book itself.
func (s *BookService) UpdateProgress(ctx context.Context, bookID string, page int) (*domain.Book, error) {
	if page < 1 {
		return nil, errors.Validation("page must be at least 1")
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	book.ApplyProgress(page)

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// SetTotalPages records the page count of a book, typically when its PDF is
// first opened by a reader that can count pages.
func (s *BookService) SetTotalPages(ctx context.Context, bookID string, total int) (*domain.Book, error) {
	if total < 0 {
		return nil, errors.Validation("total pages cannot be negative")
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	book.TotalPages = total
	// The reader may already be past the last page of a previously
	// unknown-length book.
	if total > 0 && book.CurrentPage >= total {
		book.Status = domain.StatusRead
	}

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// BookFilePath returns the filesystem path of a book's stored PDF.
func (s *BookService) BookFilePath(ctx context.Context, bookID string) (string, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return "", err
	}

	if book.FilePath == "" || !s.fileStorage.Exists(book.ID) {
		return "", errors.NotFoundf("no file stored for book %s", bookID)
	}
	return s.fileStorage.Path(book.ID), nil
}

// CoverPath returns the filesystem path of a book's stored cover image.
func (s *BookService) CoverPath(ctx context.Context, bookID string) (string, error) {
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		return "", err
	}

	if !s.coverStore.Exists(bookID) {
		return "", errors.NotFoundf("no cover stored for book %s", bookID)
	}
	return s.coverStore.Path(bookID), nil
}

// DeleteBook removes a book, its notes and canvas, and its stored files.
func (s *BookService) DeleteBook(ctx context.Context, bookID string) error {
	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		return err
	}

	s.removeFiles(bookID)
	return nil
}

// DeleteBooks removes multiple books at once, skipping missing IDs.
// Returns the number of books actually deleted.
func (s *BookService) DeleteBooks(ctx context.Context, ids []string) (int, error) {
	deleted, err := s.store.DeleteBooks(ctx, ids)
	if err != nil {
		return 0, err
	}

	for _, bookID := range ids {
		s.removeFiles(bookID)
	}
	return deleted, nil
}

// removeFiles deletes the stored PDF and cover for a book. Best effort;
// the book record is already gone.
func (s *BookService) removeFiles(bookID string) {
	if err := s.fileStorage.Delete(bookID); err != nil {
		s.logger.Warn("failed to delete book file", "book_id", bookID, "error", err)
	}
	if err := s.coverStore.Delete(bookID); err != nil {
		s.logger.Warn("failed to delete cover", "book_id", bookID, "error", err)
	}
}

// SetBooksStatus updates the reading status of multiple books at once.
// Returns the number of books actually updated.
func (s *BookService) SetBooksStatus(ctx context.Context, ids []string, status string) (int, error) {
	st := domain.Status(status)
	if !st.Valid() {
		return 0, errors.Validationf("invalid status %q", status)
	}
	return s.store.SetBooksStatus(ctx, ids, st)
}

// AddBooksGenre appends a genre tag to multiple books at once, skipping
// books that already carry it. Returns the number of books updated.
func (s *BookService) AddBooksGenre(ctx context.Context, ids []string, genre string) (int, error) {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return 0, errors.Validation("genre cannot be empty")
	}
	return s.store.AddBooksGenre(ctx, ids, genre)
}

// SavedBooks returns the books flagged as saved, in library order.
func (s *BookService) SavedBooks(ctx context.Context) ([]*domain.Book, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	saved := make([]*domain.Book, 0)
	for _, b := range books {
		if b.Saved {
			saved = append(saved, b)
		}
	}
	return saved, nil
}

// LibraryStats is the headline summary shown on the library view.
type LibraryStats struct {
	TotalBooks     int `json:"total_books"`
	TotalPagesRead int `json:"total_pages_read"`
	TotalNotes     int `json:"total_notes"`
}

// Stats computes library-wide statistics.
func (s *BookService) Stats(ctx context.Context) (*LibraryStats, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	stats := &LibraryStats{TotalBooks: len(books)}
	for _, b := range books {
		stats.TotalPagesRead += b.CurrentPage
		stats.TotalNotes += len(b.Notes)
	}
	return stats, nil
}
