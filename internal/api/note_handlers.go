package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/service"
)

func (s *Server) registerNoteRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSpreads",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/spreads",
		Summary:     "Get note spreads",
		Description: "Returns a book's notes paginated into two-page spreads",
		Tags:        []string{"Notes"},
	}, s.handleGetSpreads)

	huma.Register(s.api, huma.Operation{
		OperationID: "addNote",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/{id}/notes",
		Summary:     "Add note",
		Description: "Creates a margin note on a book page",
		Tags:        []string{"Notes"},
	}, s.handleAddNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateNote",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}/notes/{noteID}",
		Summary:     "Update note",
		Description: "Rewrites a note's content and bumps its timestamp",
		Tags:        []string{"Notes"},
	}, s.handleUpdateNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteNote",
		Method:      http.MethodDelete,
		Path:        "/api/v1/books/{id}/notes/{noteID}",
		Summary:     "Delete note",
		Description: "Removes a note from a book",
		Tags:        []string{"Notes"},
	}, s.handleDeleteNote)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCanvas",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/canvas",
		Summary:     "Get canvas notes",
		Description: "Returns a book's free-form canvas blob",
		Tags:        []string{"Notes"},
	}, s.handleGetCanvas)

	huma.Register(s.api, huma.Operation{
		OperationID: "saveCanvas",
		Method:      http.MethodPut,
		Path:        "/api/v1/books/{id}/canvas",
		Summary:     "Save canvas notes",
		Description: "Replaces a book's free-form canvas blob",
		Tags:        []string{"Notes"},
	}, s.handleSaveCanvas)
}

// === DTOs ===

// GetSpreadsInput selects a book's spread view, optionally with a draft
// note shown at the front.
type GetSpreadsInput struct {
	ID        string `path:"id" doc:"Book ID"`
	Draft     string `query:"draft" doc:"In-progress note content, shown first without being saved"`
	DraftPage int    `query:"page" doc:"Page the draft note belongs to" default:"1"`
}

// SpreadsOutput wraps the spread view for Huma.
type SpreadsOutput struct {
	Body *service.SpreadsResult
}

// AddNoteRequest is the body for creating a note.
type AddNoteRequest struct {
	Page    int    `json:"page" minimum:"1" doc:"Book page the note refers to"`
	Content string `json:"content" minLength:"1" doc:"Note text"`
}

// AddNoteInput wraps a note creation for Huma.
type AddNoteInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body AddNoteRequest
}

// UpdateNoteInput wraps a note content rewrite for Huma.
type UpdateNoteInput struct {
	ID     string `path:"id" doc:"Book ID"`
	NoteID string `path:"noteID" doc:"Note ID"`
	Body   struct {
		Content string `json:"content" minLength:"1" doc:"New note text"`
	}
}

// DeleteNoteInput identifies a note to delete.
type DeleteNoteInput struct {
	ID     string `path:"id" doc:"Book ID"`
	NoteID string `path:"noteID" doc:"Note ID"`
}

// CanvasInput identifies a book's canvas.
type CanvasInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// CanvasOutput wraps the canvas blob for Huma.
type CanvasOutput struct {
	Body *domain.CanvasNotes
}

// SaveCanvasRequest is the body for replacing a canvas.
type SaveCanvasRequest struct {
	Text    string          `json:"text" doc:"Typed canvas text"`
	Strokes []domain.Stroke `json:"strokes" doc:"Drawn strokes"`
}

// SaveCanvasInput wraps a canvas replacement for Huma.
type SaveCanvasInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body SaveCanvasRequest
}

// === Handlers ===

func (s *Server) handleGetSpreads(ctx context.Context, input *GetSpreadsInput) (*SpreadsOutput, error) {
	var draft *domain.Note
	if input.Draft != "" {
		d := domain.NewDraftNote(input.DraftPage, input.Draft)
		draft = &d
	}

	result, err := s.services.Notes.Spreads(ctx, input.ID, draft)
	if err != nil {
		return nil, err
	}
	return &SpreadsOutput{Body: result}, nil
}

func (s *Server) handleAddNote(ctx context.Context, input *AddNoteInput) (*BookOutput, error) {
	book, err := s.services.Notes.AddNote(ctx, input.ID, input.Body.Page, input.Body.Content)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleUpdateNote(ctx context.Context, input *UpdateNoteInput) (*BookOutput, error) {
	book, err := s.services.Notes.UpdateNote(ctx, input.ID, input.NoteID, input.Body.Content)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleDeleteNote(ctx context.Context, input *DeleteNoteInput) (*BookOutput, error) {
	book, err := s.services.Notes.DeleteNote(ctx, input.ID, input.NoteID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: book}, nil
}

func (s *Server) handleGetCanvas(ctx context.Context, input *CanvasInput) (*CanvasOutput, error) {
	canvas, err := s.services.Notes.Canvas(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &CanvasOutput{Body: canvas}, nil
}

func (s *Server) handleSaveCanvas(ctx context.Context, input *SaveCanvasInput) (*CanvasOutput, error) {
	canvas, err := s.services.Notes.SaveCanvas(ctx, input.ID, input.Body.Text, input.Body.Strokes)
	if err != nil {
		return nil, err
	}
	return &CanvasOutput{Body: canvas}, nil
}
