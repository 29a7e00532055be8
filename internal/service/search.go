package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/search"
	"github.com/shelfnote/shelfnote-server/internal/store"
)

// SearchService bridges the store and the Bleve index. It implements
// store.SearchIndexer so writes keep the index current, and serves the
// full-text search endpoint.
type SearchService struct {
	index  *search.SearchIndex
	store  *store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, st *store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  st,
		logger: logger,
	}
}

// IndexBook implements store.SearchIndexer.
func (s *SearchService) IndexBook(_ context.Context, book *domain.Book) error {
	return s.index.IndexDocument(search.BookToDocument(book))
}

// DeleteBook implements store.SearchIndexer.
func (s *SearchService) DeleteBook(_ context.Context, bookID string) error {
	return s.index.DeleteDocument(bookID)
}

// Search runs a full-text query over titles, authors, reviews, and note
// content, with optional genre/status/format filters and facet counts.
func (s *SearchService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	return s.index.Search(ctx, params)
}

// ReindexAll rebuilds the search index from the store. Used at startup when
// the index mapping version changed, and by the seed tool.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return fmt.Errorf("list books: %w", err)
	}

	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	docs := make([]*search.BookDocument, 0, len(books))
	for _, b := range books {
		docs = append(docs, search.BookToDocument(b))
	}

	if err := s.index.IndexDocuments(docs); err != nil {
		return fmt.Errorf("index books: %w", err)
	}

	s.logger.Info("search index rebuilt", "books", len(docs))
	return nil
}
