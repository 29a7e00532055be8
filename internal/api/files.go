package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shelfnote/shelfnote-server/internal/http/response"
	"github.com/shelfnote/shelfnote-server/internal/service"
)

// maxUploadSize caps uploaded book files at 100MB.
const maxUploadSize = 100 << 20

// handleHealth reports server liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{"status": "ok"}, s.logger)
}

// handleCreateBook accepts a multipart book upload. The "file" part holds
// the PDF; title, author, cover_url and repeatable genres arrive as form
// fields. This stays outside huma because it streams raw multipart bytes.
func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		response.BadRequest(w, "invalid multipart form", s.logger)
		return
	}

	params := service.CreateBookParams{
		Title:    r.FormValue("title"),
		Author:   r.FormValue("author"),
		CoverURL: r.FormValue("cover_url"),
		Genres:   collectGenres(r.Form["genres"]),
	}

	file, _, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		data, readErr := io.ReadAll(io.LimitReader(file, maxUploadSize))
		if readErr != nil {
			response.BadRequest(w, "failed to read uploaded file", s.logger)
			return
		}
		params.FileData = data
	case errors.Is(err, http.ErrMissingFile):
		// A book can exist without a stored file (physical copies).
	default:
		response.BadRequest(w, "invalid file upload", s.logger)
		return
	}

	book, err := s.services.Books.CreateBook(r.Context(), params)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	s.logger.Info("book created", "book_id", book.ID, "title", book.Title)
	response.Created(w, book, s.logger)
}

// collectGenres flattens repeated genre fields, splitting comma-separated
// values so both field styles work.
func collectGenres(values []string) []string {
	var genres []string
	for _, v := range values {
		for _, g := range strings.Split(v, ",") {
			if g = strings.TrimSpace(g); g != "" {
				genres = append(genres, g)
			}
		}
	}
	return genres
}

// handleGetBookFile serves a book's stored PDF.
func (s *Server) handleGetBookFile(w http.ResponseWriter, r *http.Request) {
	path, err := s.services.Books.BookFilePath(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, path)
}

// handleGetBookCover serves a book's downloaded cover image.
func (s *Server) handleGetBookCover(w http.ResponseWriter, r *http.Request) {
	path, err := s.services.Books.CoverPath(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	http.ServeFile(w, r, path)
}
