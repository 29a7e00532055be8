package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/errors"
	"github.com/shelfnote/shelfnote-server/internal/library"
	"github.com/shelfnote/shelfnote-server/internal/store"
	"github.com/shelfnote/shelfnote-server/internal/util"
)

// BrowseService runs the library browse pipeline and category aggregation.
type BrowseService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewBrowseService creates a new browse service.
func NewBrowseService(st *store.Store, logger *slog.Logger) *BrowseService {
	return &BrowseService{
		store:  st,
		logger: logger,
	}
}

// BrowseParams carries the query-string selections of a browse request.
type BrowseParams struct {
	Query    string
	Formats  []string
	Statuses []string
	Ratings  []int
	Sort     string
}

// Browse filters and sorts the library.
// Filter categories combine conjunctively; values within one category are
// OR'd. An unknown sort key leaves the filtered order unchanged.
func (s *BrowseService) Browse(ctx context.Context, params BrowseParams) ([]*domain.Book, error) {
	filters := library.Filters{Ratings: params.Ratings}

	for _, f := range params.Formats {
		format := domain.Format(f)
		if !format.Valid() {
			return nil, errors.Validationf("invalid format %q", f)
		}
		filters.Formats = append(filters.Formats, format)
	}
	for _, st := range params.Statuses {
		status := domain.Status(st)
		if !status.Valid() {
			return nil, errors.Validationf("invalid status %q", st)
		}
		filters.Statuses = append(filters.Statuses, status)
	}
	for _, r := range params.Ratings {
		if r < 0 || r > 5 {
			return nil, errors.Validation("rating filter must be between 0 and 5")
		}
	}

	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	return library.Apply(books, params.Query, filters, library.SortKey(params.Sort)), nil
}

// Category is one genre aggregate for the categories gallery.
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	// CoverBookIDs holds up to three books whose covers preview the category.
	CoverBookIDs []string `json:"cover_book_ids"`
	Count        int      `json:"count"`
}

// maxCategoryCovers is how many preview covers a gallery tile shows.
const maxCategoryCovers = 3

// Categories aggregates the library's genre tags.
// Each distinct genre becomes a category with its book count and a handful
// of preview covers, ordered by count descending (name ascending on ties).
func (s *BrowseService) Categories(ctx context.Context) ([]Category, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	// Keyed by slug so casing variants of the same genre collapse into one
	// category. The first-seen spelling wins as the display name.
	bySlug := make(map[string]*Category)
	var order []string

	for _, b := range books {
		for _, g := range b.Genres {
			slug := util.Slugify(g)
			if slug == "" {
				continue
			}

			cat, ok := bySlug[slug]
			if !ok {
				cat = &Category{Name: g, Slug: slug, CoverBookIDs: []string{}}
				bySlug[slug] = cat
				order = append(order, slug)
			}
			cat.Count++
			if len(cat.CoverBookIDs) < maxCategoryCovers {
				cat.CoverBookIDs = append(cat.CoverBookIDs, b.ID)
			}
		}
	}

	categories := make([]Category, 0, len(order))
	for _, slug := range order {
		categories = append(categories, *bySlug[slug])
	}

	slices.SortStableFunc(categories, func(a, b Category) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return strings.Compare(a.Name, b.Name)
	})

	return categories, nil
}

// CategoryBooks returns the books tagged with the genre behind a slug.
// Unknown slugs are a not-found error, not an empty list.
func (s *BrowseService) CategoryBooks(ctx context.Context, slug string) ([]*domain.Book, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*domain.Book, 0)
	for _, b := range books {
		for _, g := range b.Genres {
			if util.Slugify(g) == slug {
				matched = append(matched, b)
				break
			}
		}
	}

	if len(matched) == 0 {
		return nil, errors.NotFoundf("no category %q", slug)
	}
	return matched, nil
}
