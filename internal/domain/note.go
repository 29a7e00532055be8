package domain

import "time"

// DraftNoteID is the placeholder identifier carried by an in-progress,
// unsaved note. It never reaches the store; saving a draft mints a real
// note with a fresh ID and timestamp.
const DraftNoteID = "__draft__"

// Note is a margin note attached to a book page.
//
// Storage order is not meaningful. Any consumer that needs a stable reading
// order must sort by (Page ascending, Timestamp ascending) - that is the
// contract the note paginator relies on.
type Note struct {
	ID        string `json:"id"`
	Page      int    `json:"page"` // PDF page the note refers to, >= 1
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // unix millis, creation or last edit
}

// NewNote builds a note with the current time as its timestamp.
func NewNote(id string, page int, content string) Note {
	return Note{
		ID:        id,
		Page:      page,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
	}
}

// NewDraftNote builds the transient entry shown while composing a new note.
func NewDraftNote(page int, content string) Note {
	return Note{
		ID:        DraftNoteID,
		Page:      page,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
	}
}

// IsDraft reports whether this note is the unsaved placeholder entry.
func (n Note) IsDraft() bool {
	return n.ID == DraftNoteID
}
