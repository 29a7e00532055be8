package domain

import "time"

// CanvasNotes is the free-form scratch canvas kept alongside a book:
// one blob per book, holding typed text plus freehand strokes.
type CanvasNotes struct {
	BookID    string   `json:"book_id"`
	Text      string   `json:"text"`
	Strokes   []Stroke `json:"strokes"`
	UpdatedAt int64    `json:"updated_at"` // unix millis
}

// Stroke is a single freehand pen stroke on the canvas.
type Stroke struct {
	Color  string  `json:"color,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Points []Point `json:"points"`
}

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewCanvasNotes builds a canvas blob for a book, defaulting nil strokes
// to an empty list so the stored shape is always complete.
func NewCanvasNotes(bookID, text string, strokes []Stroke) *CanvasNotes {
	if strokes == nil {
		strokes = []Stroke{}
	}
	return &CanvasNotes{
		BookID:    bookID,
		Text:      text,
		Strokes:   strokes,
		UpdatedAt: time.Now().UnixMilli(),
	}
}
