package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfnote/shelfnote-server/internal/service"
)

func (s *Server) registerBrowseRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Description: "Returns the library's genre tags aggregated into categories",
		Tags:        []string{"Browse"},
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategoryBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/{slug}/books",
		Summary:     "Get category books",
		Description: "Returns the books tagged with the genre behind a slug",
		Tags:        []string{"Browse"},
	}, s.handleGetCategoryBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSavedBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/saved",
		Summary:     "List saved books",
		Description: "Returns the books flagged as saved",
		Tags:        []string{"Browse"},
	}, s.handleListSavedBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats",
		Summary:     "Get library stats",
		Description: "Returns library-wide totals for books, pages read, and notes",
		Tags:        []string{"Browse"},
	}, s.handleGetStats)
}

// === DTOs ===

// CategoriesResponse contains the categories gallery.
type CategoriesResponse struct {
	Categories []service.Category `json:"categories" doc:"Categories ordered by book count"`
}

// CategoriesOutput wraps the categories gallery for Huma.
type CategoriesOutput struct {
	Body CategoriesResponse
}

// CategoryBooksInput identifies a category by slug.
type CategoryBooksInput struct {
	Slug string `path:"slug" doc:"Category slug"`
}

// StatsOutput wraps the library stats for Huma.
type StatsOutput struct {
	Body *service.LibraryStats
}

// === Handlers ===

func (s *Server) handleListCategories(ctx context.Context, _ *struct{}) (*CategoriesOutput, error) {
	categories, err := s.services.Browse.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return &CategoriesOutput{Body: CategoriesResponse{Categories: categories}}, nil
}

func (s *Server) handleGetCategoryBooks(ctx context.Context, input *CategoryBooksInput) (*BookListOutput, error) {
	books, err := s.services.Browse.CategoryBooks(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	return &BookListOutput{Body: BookListResponse{Books: books, Total: len(books)}}, nil
}

func (s *Server) handleListSavedBooks(ctx context.Context, _ *struct{}) (*BookListOutput, error) {
	books, err := s.services.Books.SavedBooks(ctx)
	if err != nil {
		return nil, err
	}
	return &BookListOutput{Body: BookListResponse{Books: books, Total: len(books)}}, nil
}

func (s *Server) handleGetStats(ctx context.Context, _ *struct{}) (*StatsOutput, error) {
	stats, err := s.services.Books.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsOutput{Body: stats}, nil
}
