// Package api provides the HTTP API server for the ShelfNote library.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shelfnote/shelfnote-server/internal/config"
	"github.com/shelfnote/shelfnote-server/internal/ratelimit"
	"github.com/shelfnote/shelfnote-server/internal/service"
	"github.com/shelfnote/shelfnote-server/internal/sse"
)

// Services holds the service layer dependencies for the API server.
type Services struct {
	Books  *service.BookService
	Notes  *service.NoteService
	Browse *service.BrowseService
	Search *service.SearchService
}

// Server is the HTTP API server.
type Server struct {
	services   Services
	sseHandler *sse.Handler
	router     *chi.Mux
	api        huma.API
	limiter    *ratelimit.KeyedRateLimiter
	logger     *slog.Logger
}

// NewServer creates a fully wired API server.
func NewServer(cfg *config.Config, services Services, sseHandler *sse.Handler, logger *slog.Logger) *Server {
	s := &Server{
		services:   services,
		sseHandler: sseHandler,
		router:     chi.NewRouter(),
		limiter:    ratelimit.New(mutationRPS, mutationBurst),
		logger:     logger,
	}

	s.setupMiddleware(cfg)

	humaConfig := huma.DefaultConfig(cfg.Server.Name, "1.0.0")
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)
	RegisterErrorHandler()
	s.api = humachi.New(s.router, humaConfig)

	s.registerBookRoutes()
	s.registerNoteRoutes()
	s.registerBrowseRoutes()
	s.registerSearchRoutes()
	s.registerRawRoutes()

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases server resources. It does not stop in-flight requests;
// that is the enclosing http.Server's job.
func (s *Server) Close() {
	s.limiter.Stop()
}

// setupMiddleware configures the middleware stack for all routes.
func (s *Server) setupMiddleware(cfg *config.Config) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	s.router.Use(s.rateLimitMutations)
}

// registerRawRoutes wires the endpoints that bypass huma: multipart upload,
// file serving, the SSE stream, and the health check. These deal in raw
// bytes or long-lived connections rather than JSON documents.
func (s *Server) registerRawRoutes() {
	s.router.Post("/api/v1/books", s.handleCreateBook)
	s.router.Get("/api/v1/books/{id}/file", s.handleGetBookFile)
	s.router.Get("/api/v1/books/{id}/cover", s.handleGetBookCover)
	s.router.Get("/api/v1/events", s.sseHandler.ServeHTTP)
	s.router.Get("/health", s.handleHealth)
}
