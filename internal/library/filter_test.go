package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfnote/shelfnote-server/internal/domain"
)

func testBook(id, title string, addedAt int64) *domain.Book {
	return &domain.Book{
		ID:      id,
		Title:   title,
		Status:  domain.StatusToRead,
		Format:  domain.FormatDigital,
		AddedAt: addedAt,
	}
}

func TestApply_EmptyQueryAndFiltersKeepsEverything(t *testing.T) {
	books := []*domain.Book{
		testBook("book-1", "Dune", 100),
		testBook("book-2", "Hyperion", 200),
		testBook("book-3", "Solaris", 300),
	}

	result := Apply(books, "", Filters{}, SortNewest)

	require.Len(t, result, 3)
	assert.Equal(t, "book-3", result[0].ID)
	assert.Equal(t, "book-2", result[1].ID)
	assert.Equal(t, "book-1", result[2].ID)

	// Input order untouched.
	assert.Equal(t, "book-1", books[0].ID)
}

func TestApply_FilteringIsIdempotent(t *testing.T) {
	books := []*domain.Book{
		testBook("book-1", "The Left Hand of Darkness", 100),
		testBook("book-2", "Neuromancer", 200),
	}

	once := Apply(books, "darkness", Filters{}, SortNewest)
	twice := Apply(once, "darkness", Filters{}, SortNewest)

	require.Len(t, once, 1)
	assert.Equal(t, once, twice)
}

func TestApply_QueryMatchesTitleAuthorGenreAndNotes(t *testing.T) {
	byTitle := testBook("book-1", "Circe", 1)
	byAuthor := testBook("book-2", "Untitled", 2)
	byAuthor.Author = "Madeline Miller"
	byGenre := testBook("book-3", "Norse Tales", 3)
	byGenre.Genres = []string{"Mythology"}
	byNote := testBook("book-4", "Blank", 4)
	byNote.Notes = []domain.Note{{ID: "note-1", Page: 1, Content: "compare with Greek mythology"}}
	noMatch := testBook("book-5", "Cookbook", 5)

	books := []*domain.Book{byTitle, byAuthor, byGenre, byNote, noMatch}

	result := Apply(books, "mythology", Filters{}, "")
	require.Len(t, result, 2)
	assert.Equal(t, "book-3", result[0].ID)
	assert.Equal(t, "book-4", result[1].ID)

	result = Apply(books, "  MILLER ", Filters{}, "")
	require.Len(t, result, 1)
	assert.Equal(t, "book-2", result[0].ID)
}

func TestApply_GenreTagMatchIsCaseInsensitive(t *testing.T) {
	b := testBook("book-1", "Song of Achilles", 1)
	b.Genres = []string{"Mythology"}

	result := Apply([]*domain.Book{b}, "mythology", Filters{}, SortNewest)

	require.Len(t, result, 1)
	assert.Equal(t, "book-1", result[0].ID)
}

func TestApply_CategoriesAreConjunctive(t *testing.T) {
	match := testBook("book-1", "A", 1)
	match.Format = domain.FormatPhysical
	match.Status = domain.StatusRead
	wrongStatus := testBook("book-2", "B", 2)
	wrongStatus.Format = domain.FormatPhysical

	result := Apply([]*domain.Book{match, wrongStatus}, "", Filters{
		Formats:  []domain.Format{domain.FormatPhysical},
		Statuses: []domain.Status{domain.StatusRead},
	}, "")

	require.Len(t, result, 1)
	assert.Equal(t, "book-1", result[0].ID)
}

func TestApply_ValuesWithinCategoryAreDisjunctive(t *testing.T) {
	read := testBook("book-1", "A", 1)
	read.Status = domain.StatusRead
	abandoned := testBook("book-2", "B", 2)
	abandoned.Status = domain.StatusAbandoned
	toRead := testBook("book-3", "C", 3)

	result := Apply([]*domain.Book{read, abandoned, toRead}, "", Filters{
		Statuses: []domain.Status{domain.StatusRead, domain.StatusAbandoned},
	}, "")

	require.Len(t, result, 2)
}

func TestApply_RatingFilterTreatsUnratedAsZero(t *testing.T) {
	rated := testBook("book-1", "A", 1)
	rated.Rating = 5
	unrated := testBook("book-2", "B", 2)

	result := Apply([]*domain.Book{rated, unrated}, "", Filters{Ratings: []int{5}}, "")
	require.Len(t, result, 1)
	assert.Equal(t, "book-1", result[0].ID)

	result = Apply([]*domain.Book{rated, unrated}, "", Filters{Ratings: []int{0}}, "")
	require.Len(t, result, 1)
	assert.Equal(t, "book-2", result[0].ID)
}

func TestApply_MissingFormatCountsAsDigital(t *testing.T) {
	legacy := testBook("book-1", "A", 1)
	legacy.Format = ""

	result := Apply([]*domain.Book{legacy}, "", Filters{
		Formats: []domain.Format{domain.FormatDigital},
	}, "")

	require.Len(t, result, 1)
}

func TestApply_SortKeys(t *testing.T) {
	a := testBook("book-1", "A", 100)
	a.Rating = 2
	a.Notes = []domain.Note{{ID: "n1"}, {ID: "n2"}}
	b := testBook("book-2", "B", 300)
	b.Rating = 4
	c := testBook("book-3", "C", 200)
	c.Rating = 4
	c.Notes = []domain.Note{{ID: "n3"}}
	books := []*domain.Book{a, b, c}

	tests := []struct {
		name string
		key  SortKey
		want []string
	}{
		{"newest", SortNewest, []string{"book-2", "book-3", "book-1"}},
		{"oldest", SortOldest, []string{"book-1", "book-3", "book-2"}},
		{"latest_read falls back to added time", SortLatestRead, []string{"book-2", "book-3", "book-1"}},
		{"rating ties keep input order", SortRating, []string{"book-2", "book-3", "book-1"}},
		{"note count", SortNotesDesc, []string{"book-1", "book-3", "book-2"}},
		{"unknown key keeps input order", SortKey("shuffle"), []string{"book-1", "book-2", "book-3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Apply(books, "", Filters{}, tt.key)
			got := make([]string, len(result))
			for i, bk := range result {
				got[i] = bk.ID
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply_StableSortPreservesTiedOrder(t *testing.T) {
	first := testBook("book-1", "A", 1)
	first.Notes = []domain.Note{{ID: "n1"}}
	second := testBook("book-2", "B", 2)
	second.Notes = []domain.Note{{ID: "n2"}}

	result := Apply([]*domain.Book{first, second}, "", Filters{}, SortNotesDesc)

	require.Len(t, result, 2)
	assert.Equal(t, "book-1", result[0].ID)
	assert.Equal(t, "book-2", result[1].ID)
}

func TestApply_EmptyResultIsValid(t *testing.T) {
	books := []*domain.Book{testBook("book-1", "A", 1)}

	result := Apply(books, "no such thing", Filters{}, SortNewest)

	assert.Empty(t, result)
}
