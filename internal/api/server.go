package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/dgallion1/docedit/internal/config"
	"github.com/dgallion1/docedit/internal/doctree"
	"github.com/dgallion1/docedit/internal/export"
	"github.com/dgallion1/docedit/internal/geometry"
	"github.com/dgallion1/docedit/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// SpellProvider returns a spell checker bound to a request context.
type SpellProvider func(ctx context.Context) doctree.SpellChecker

// Deps are the collaborators the server needs.
type Deps struct {
	Sessions *session.Store
	Gateway  *geometry.Gateway
	Stats    *export.Stats
	Spell    SpellProvider // nil disables spell checking
}

// Server is the HTTP API server for docedit.
type Server struct {
	router   chi.Router
	sessions *session.Store
	gateway  *geometry.Gateway
	stats    *export.Stats
	spell    SpellProvider
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(deps Deps, log *slog.Logger, cfg config.Config) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		sessions: deps.Sessions,
		gateway:  deps.Gateway,
		stats:    deps.Stats,
		spell:    deps.Spell,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.DoceditAPIKey, s.log))

		r.Post("/api/documents", s.handleImport)
		r.Get("/api/documents", s.handleListDocuments)
		r.Route("/api/documents/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetDocument)
			r.Delete("/", s.handleDeleteDocument)
			r.Post("/paragraphs", s.handleAddParagraph)
			r.Post("/figures", s.handleAddFigure)
			r.Delete("/blocks/{index}", s.handleRemoveBlock)
			r.Put("/styles/{name}", s.handleReplaceStyle)
			r.Post("/search", s.handleSearch)
			r.Post("/spelling", s.handleSpelling)
			r.Post("/line-width", s.handleLineWidth)
			r.Get("/export/{format}", s.handleExport)
		})
		r.Get("/api/stats/export", s.handleExportStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
