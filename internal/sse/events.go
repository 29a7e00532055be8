// Package sse implements Server-Sent Events for real-time library updates and event broadcasting.
package sse

import (
	"time"

	"github.com/shelfnote/shelfnote-server/internal/domain"
)

// ShelfNote uses SSE for server-to-client communication only. Every
// mutation flows through the request/response API; SSE just tells other
// open views that the library changed so they can refresh their state.

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventBookCreated represents a book creation event.
	EventBookCreated EventType = "book.created"
	// EventBookUpdated represents a book update event.
	EventBookUpdated EventType = "book.updated"
	// EventBookDeleted represents a book deletion event.
	EventBookDeleted EventType = "book.deleted"

	// EventNoteCreated represents a note creation event.
	EventNoteCreated EventType = "note.created"
	// EventNoteUpdated represents a note update event.
	EventNoteUpdated EventType = "note.updated"
	// EventNoteDeleted represents a note deletion event.
	EventNoteDeleted EventType = "note.deleted"

	// EventCanvasUpdated represents a canvas save event.
	EventCanvasUpdated EventType = "canvas.updated"

	// EventImportCompleted represents a watch-folder import finishing.
	EventImportCompleted EventType = "import.completed"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"` // Event-specific data as JSON object
	Type      EventType `json:"type"`
}

// BookEventData is the data payload for book events. The full record is
// included so clients can render the change without a follow-up fetch.
type BookEventData struct {
	Book *domain.Book `json:"book"`
}

// BookDeletedEventData is the data payload for book delete events.
type BookDeletedEventData struct {
	DeletedAt time.Time `json:"deleted_at"`
	BookID    string    `json:"book_id"`
}

// NoteEventData is the data payload for note events.
type NoteEventData struct {
	BookID string       `json:"book_id"`
	Note   *domain.Note `json:"note"`
}

// NoteDeletedEventData is the data payload for note delete events.
type NoteDeletedEventData struct {
	BookID string `json:"book_id"`
	NoteID string `json:"note_id"`
}

// CanvasEventData is the data payload for canvas save events.
type CanvasEventData struct {
	BookID    string    `json:"book_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ImportCompletedEventData is the data payload for watch-folder imports.
type ImportCompletedEventData struct {
	CompletedAt time.Time `json:"completed_at"`
	BookID      string    `json:"book_id"`
	FileName    string    `json:"file_name"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewBookCreatedEvent creates a book.created event.
func NewBookCreatedEvent(book *domain.Book) Event {
	return Event{
		Type:      EventBookCreated,
		Data:      BookEventData{Book: book},
		Timestamp: time.Now(),
	}
}

// NewBookUpdatedEvent creates a book.updated event.
func NewBookUpdatedEvent(book *domain.Book) Event {
	return Event{
		Type:      EventBookUpdated,
		Data:      BookEventData{Book: book},
		Timestamp: time.Now(),
	}
}

// NewBookDeletedEvent creates a book.deleted event.
func NewBookDeletedEvent(bookID string, deletedAt time.Time) Event {
	return Event{
		Type: EventBookDeleted,
		Data: BookDeletedEventData{
			BookID:    bookID,
			DeletedAt: deletedAt,
		},
		Timestamp: time.Now(),
	}
}

// NewNoteCreatedEvent creates a note.created event.
func NewNoteCreatedEvent(bookID string, note *domain.Note) Event {
	return Event{
		Type:      EventNoteCreated,
		Data:      NoteEventData{BookID: bookID, Note: note},
		Timestamp: time.Now(),
	}
}

// NewNoteUpdatedEvent creates a note.updated event.
func NewNoteUpdatedEvent(bookID string, note *domain.Note) Event {
	return Event{
		Type:      EventNoteUpdated,
		Data:      NoteEventData{BookID: bookID, Note: note},
		Timestamp: time.Now(),
	}
}

// NewNoteDeletedEvent creates a note.deleted event.
func NewNoteDeletedEvent(bookID, noteID string) Event {
	return Event{
		Type:      EventNoteDeleted,
		Data:      NoteDeletedEventData{BookID: bookID, NoteID: noteID},
		Timestamp: time.Now(),
	}
}

// NewCanvasUpdatedEvent creates a canvas.updated event.
func NewCanvasUpdatedEvent(bookID string, updatedAt time.Time) Event {
	return Event{
		Type:      EventCanvasUpdated,
		Data:      CanvasEventData{BookID: bookID, UpdatedAt: updatedAt},
		Timestamp: time.Now(),
	}
}

// NewImportCompletedEvent creates an import.completed event.
func NewImportCompletedEvent(bookID, fileName string) Event {
	return Event{
		Type: EventImportCompleted,
		Data: ImportCompletedEventData{
			BookID:      bookID,
			FileName:    fileName,
			CompletedAt: time.Now(),
		},
		Timestamp: time.Now(),
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Data:      HeartbeatEventData{ServerTime: time.Now()},
		Timestamp: time.Now(),
	}
}
