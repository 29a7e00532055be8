package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfnote/shelfnote-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search books",
		Description: "Full-text search over titles, authors, genres, and note text",
		Tags:        []string{"Search"},
	}, s.handleSearchBooks)
}

// SearchInput carries the full-text search parameters.
type SearchInput struct {
	Query  string   `query:"q" doc:"Search query; empty matches everything"`
	Genre  []string `query:"genre" doc:"Filter by exact genre tag"`
	Status []string `query:"status" doc:"Filter by reading status"`
	Format []string `query:"format" doc:"Filter by book format"`
	Limit  int      `query:"limit" minimum:"1" maximum:"100" default:"20" doc:"Maximum hits to return"`
	Offset int      `query:"offset" minimum:"0" default:"0" doc:"Hits to skip for pagination"`
	Sort   string   `query:"sort" enum:"relevance,title,author,recent" default:"relevance" doc:"Sort order"`
}

// SearchOutput wraps the search result for Huma.
type SearchOutput struct {
	Body *search.SearchResult
}

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	params := search.DefaultSearchParams()
	params.Query = input.Query
	params.Genres = input.Genre
	params.Statuses = input.Status
	params.Formats = input.Format
	params.Limit = input.Limit
	params.Offset = input.Offset
	params.SortBy = input.Sort

	result, err := s.services.Search.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Body: result}, nil
}
