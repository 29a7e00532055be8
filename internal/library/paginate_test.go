package library

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfnote/shelfnote-server/internal/domain"
)

func makeNotes(n int) []domain.Note {
	notes := make([]domain.Note, n)
	for i := range notes {
		notes[i] = domain.Note{
			ID:        fmt.Sprintf("note-%d", i+1),
			Page:      i + 1,
			Content:   fmt.Sprintf("note %d", i+1),
			Timestamp: int64(i + 1),
		}
	}
	return notes
}

func TestSortNotes_PageThenTimestamp(t *testing.T) {
	notes := []domain.Note{
		{ID: "note-c", Page: 3, Timestamp: 10},
		{ID: "note-a", Page: 1, Timestamp: 50},
		{ID: "note-b", Page: 1, Timestamp: 20},
		{ID: "note-d", Page: 3, Timestamp: 5},
	}

	sorted := SortNotes(notes)

	require.Len(t, sorted, 4)
	assert.Equal(t, "note-b", sorted[0].ID)
	assert.Equal(t, "note-a", sorted[1].ID)
	assert.Equal(t, "note-d", sorted[2].ID)
	assert.Equal(t, "note-c", sorted[3].ID)

	// Input untouched.
	assert.Equal(t, "note-c", notes[0].ID)
}

func TestBuildSpreads_EmptyNotesGetOneBlankPage(t *testing.T) {
	spreads := BuildSpreads(nil, nil)

	require.Len(t, spreads, 1)
	assert.Equal(t, 1, spreads[0].Left.Number)
	assert.Empty(t, spreads[0].Left.Notes)
	assert.Nil(t, spreads[0].Right)
}

func TestBuildSpreads_TwelveNotesChunkIntoThreePages(t *testing.T) {
	spreads := BuildSpreads(makeNotes(12), nil)

	require.Len(t, spreads, 2)

	require.NotNil(t, spreads[0].Right)
	assert.Equal(t, 1, spreads[0].Left.Number)
	assert.Len(t, spreads[0].Left.Notes, 5)
	assert.Equal(t, 2, spreads[0].Right.Number)
	assert.Len(t, spreads[0].Right.Notes, 5)

	assert.Equal(t, 3, spreads[1].Left.Number)
	assert.Len(t, spreads[1].Left.Notes, 2)
	assert.Nil(t, spreads[1].Right)
}

func TestBuildSpreads_ExactMultipleFillsLastSpread(t *testing.T) {
	spreads := BuildSpreads(makeNotes(10), nil)

	require.Len(t, spreads, 1)
	require.NotNil(t, spreads[0].Right)
	assert.Len(t, spreads[0].Left.Notes, 5)
	assert.Len(t, spreads[0].Right.Notes, 5)
}

func TestBuildSpreads_DraftAlwaysLeadsFirstPage(t *testing.T) {
	notes := makeNotes(7)
	draft := domain.NewDraftNote(99, "work in progress")

	spreads := BuildSpreads(notes, &draft)

	require.NotEmpty(t, spreads)
	first := spreads[0].Left.Notes
	require.NotEmpty(t, first)
	assert.Equal(t, domain.DraftNoteID, first[0].ID)
	assert.True(t, first[0].IsDraft())

	// The draft shifts everything down by one slot.
	assert.Equal(t, "note-1", first[1].ID)
	require.NotNil(t, spreads[0].Right)
	assert.Equal(t, "note-5", spreads[0].Right.Notes[0].ID)
}

func TestBuildSpreads_DraftOnEmptyBook(t *testing.T) {
	draft := domain.NewDraftNote(1, "")

	spreads := BuildSpreads(nil, &draft)

	require.Len(t, spreads, 1)
	require.Len(t, spreads[0].Left.Notes, 1)
	assert.Equal(t, domain.DraftNoteID, spreads[0].Left.Notes[0].ID)
}

func TestBuildSpreads_PageNumbersAreSequential(t *testing.T) {
	spreads := BuildSpreads(makeNotes(23), nil)

	require.Len(t, spreads, 3)
	want := 1
	for _, s := range spreads {
		assert.Equal(t, want, s.Left.Number)
		want++
		if s.Right != nil {
			assert.Equal(t, want, s.Right.Number)
			want++
		}
	}
	assert.Equal(t, 6, want)
}

func TestClampSpreadIndex(t *testing.T) {
	tests := []struct {
		name  string
		index int
		total int
		want  int
	}{
		{"in range", 1, 3, 1},
		{"past end after deletion", 2, 2, 1},
		{"negative", -4, 3, 0},
		{"no spreads", 5, 0, 0},
		{"single spread", 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampSpreadIndex(tt.index, tt.total))
		})
	}
}
