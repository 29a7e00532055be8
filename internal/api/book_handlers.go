package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "Browse books",
		Description: "Returns the library filtered and sorted by the browse pipeline",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book with its embedded notes",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book details",
		Description: "Applies a partial update to a book's details",
		Tags:        []string{"Books"},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}",
		Summary:     "Delete book",
		Description: "Removes a book, its notes, canvas, and stored files",
		Tags:        []string{"Books"},
	}, s.handleDeleteBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBooks",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/delete",
		Summary:     "Delete books",
		Description: "Removes multiple books, skipping missing IDs",
		Tags:        []string{"Books"},
	}, s.handleDeleteBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "setBooksStatus",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/status",
		Summary:     "Set status on books",
		Description: "Updates the reading status of multiple books",
		Tags:        []string{"Books"},
	}, s.handleSetBooksStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "addBooksCategory",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/category",
		Summary:     "Tag books with a category",
		Description: "Appends a genre tag to multiple books, skipping books that already carry it",
		Tags:        []string{"Books"},
	}, s.handleAddBooksCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProgress",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}/progress",
		Summary:     "Update reading progress",
		Description: "Records the current page and applies status transitions",
		Tags:        []string{"Books"},
	}, s.handleUpdateProgress)

	huma.Register(s.api, huma.Operation{
		OperationID: "setTotalPages",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}/pages",
		Summary:     "Set total pages",
		Description: "Records the page count once the PDF has been opened",
		Tags:        []string{"Books"},
	}, s.handleSetTotalPages)
}

// === DTOs ===

// ListBooksInput carries the browse pipeline's query-string selections.
type ListBooksInput struct {
	Query  string   `query:"q" doc:"Case-insensitive substring match on title, author, and genres"`
	Format []string `query:"format" doc:"Filter by book format"`
	Status []string `query:"status" doc:"Filter by reading status"`
	Rating []int    `query:"rating" doc:"Filter by star rating"`
	Sort   string   `query:"sort" doc:"Sort key: newest, oldest, latest_read, rating_desc, or notes_desc"`
}

// BookListResponse contains a list of books.
type BookListResponse struct {
	Books []*domain.Book `json:"books" doc:"Matching books"`
	Total int            `json:"total" doc:"Number of matching books"`
}

// BookListOutput wraps the book list response for Huma.
type BookListOutput struct {
	Body BookListResponse
}

// BookOutput wraps a single book for Huma.
type BookOutput struct {
	Body *domain.Book
}

// GetBookInput identifies a book by ID.
type GetBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// UpdateBookInput wraps a partial book update for Huma.
type UpdateBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body service.UpdateBookParams
}

// DeleteBookInput identifies a book to delete.
type DeleteBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// MessageResponse is a simple confirmation message.
type MessageResponse struct {
	Message string `json:"message" doc:"Confirmation message"`
}

// MessageOutput wraps a confirmation message for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// BookIDsRequest is the body of a bulk delete.
type BookIDsRequest struct {
	IDs []string `json:"ids" minItems:"1" doc:"Book IDs"`
}

// DeleteBooksInput wraps a bulk delete request for Huma.
type DeleteBooksInput struct {
	Body BookIDsRequest
}

// AffectedResponse reports how many books a bulk operation touched.
type AffectedResponse struct {
	Affected int `json:"affected" doc:"Number of books affected"`
}

// AffectedOutput wraps the affected count for Huma.
type AffectedOutput struct {
	Body AffectedResponse
}

// SetBooksStatusRequest is the body of a bulk status update.
type SetBooksStatusRequest struct {
	IDs    []string `json:"ids" minItems:"1" doc:"Book IDs"`
	Status string   `json:"status" doc:"Reading status to apply"`
}

// SetBooksStatusInput wraps a bulk status update for Huma.
type SetBooksStatusInput struct {
	Body SetBooksStatusRequest
}

// AddBooksCategoryRequest is the body of a bulk genre append.
type AddBooksCategoryRequest struct {
	IDs      []string `json:"ids" minItems:"1" doc:"Book IDs"`
	Category string   `json:"category" doc:"Genre tag to append"`
}

// AddBooksCategoryInput wraps a bulk genre append for Huma.
type AddBooksCategoryInput struct {
	Body AddBooksCategoryRequest
}

// UpdateProgressInput wraps a progress update for Huma.
type UpdateProgressInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body struct {
		Page int `json:"page" doc:"Current page, 1-based"`
	}
}

// SetTotalPagesInput wraps a page count update for Huma.
type SetTotalPagesInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body struct {
		Total int `json:"total" doc:"Total pages in the book, 0 if unknown"`
	}
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*BookListOutput, error) {
	books, err := s.services.Browse.Browse(ctx, service.BrowseParams{
		Query:    input.Query,
		Formats:  input.Format,
		Statuses: input.Status,
		Ratings:  input.Rating,
		Sort:     input.Sort,
	})
	if err != nil {
		return nil, err
	}

	return &BookListOutput{Body: BookListResponse{Books: books, Total: len(books)}}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	book, err := s.services.Books.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	book, err := s.services.Books.UpdateBookDetails(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *DeleteBookInput) (*MessageOutput, error) {
	if err := s.services.Books.DeleteBook(ctx, input.ID); err != nil {
		return nil, err
	}
	return &MessageOutput{Body: MessageResponse{Message: "book deleted"}}, nil
}

func (s *Server) handleDeleteBooks(ctx context.Context, input *DeleteBooksInput) (*AffectedOutput, error) {
	deleted, err := s.services.Books.DeleteBooks(ctx, input.Body.IDs)
	if err != nil {
		return nil, err
	}
	return &AffectedOutput{Body: AffectedResponse{Affected: deleted}}, nil
}

func (s *Server) handleSetBooksStatus(ctx context.Context, input *SetBooksStatusInput) (*AffectedOutput, error) {
	updated, err := s.services.Books.SetBooksStatus(ctx, input.Body.IDs, input.Body.Status)
	if err != nil {
		return nil, err
	}
	return &AffectedOutput{Body: AffectedResponse{Affected: updated}}, nil
}

func (s *Server) handleAddBooksCategory(ctx context.Context, input *AddBooksCategoryInput) (*AffectedOutput, error) {
	updated, err := s.services.Books.AddBooksGenre(ctx, input.Body.IDs, input.Body.Category)
	if err != nil {
		return nil, err
	}
	return &AffectedOutput{Body: AffectedResponse{Affected: updated}}, nil
}

func (s *Server) handleUpdateProgress(ctx context.Context, input *UpdateProgressInput) (*BookOutput, error) {
	book, err := s.services.Books.UpdateProgress(ctx, input.ID, input.Body.Page)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleSetTotalPages(ctx context.Context, input *SetTotalPagesInput) (*BookOutput, error) {
	book, err := s.services.Books.SetTotalPages(ctx, input.ID, input.Body.Total)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}
