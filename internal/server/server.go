package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/liftlog/internal/catalog"
	"github.com/meltforce/liftlog/internal/engine"
	"github.com/meltforce/liftlog/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db      *storage.DB
	catalog *catalog.Catalog
	engine  *engine.Engine
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, cat *catalog.Catalog, eng *engine.Engine, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:      db,
		catalog: cat,
		engine:  eng,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Reads are open (tsnet handles access); mutations additionally take
	// the API key when one is configured.
	s.router.Get("/api/v1/session", s.handleGetSession)
	s.router.Get("/api/v1/programs", s.handleListPrograms)
	s.router.Get("/api/v1/programs/{id}", s.handleGetProgram)
	s.router.Get("/api/v1/records", s.handleQueryRecords)
	s.router.Get("/api/v1/records/{id}", s.handleGetRecord)
	s.router.Get("/api/v1/meals", s.handleQueryMeals)
	s.router.Get("/api/v1/weight", s.handleQueryWeight)
	s.router.Get("/api/v1/stats/volume", s.handleVolumeStats)

	s.router.Group(func(r chi.Router) {
		if s.apiKey != "" {
			r.Use(APIKeyAuth(s.apiKey))
		}

		r.Post("/api/v1/session/start", s.handleStartSession)
		r.Post("/api/v1/session/reset", s.handleResetSession)
		r.Post("/api/v1/session/sets", s.handleCompleteSet)
		r.Post("/api/v1/session/pause", s.handleTogglePause)
		r.Post("/api/v1/session/rest/skip", s.handleSkipRest)
		r.Post("/api/v1/session/rest/extend", s.handleExtendRest)
		r.Post("/api/v1/session/finish", s.handleFinishSession)

		r.Post("/api/v1/programs", s.handleCreateProgram)
		r.Post("/api/v1/programs/{id}/clone", s.handleCloneProgram)
		r.Delete("/api/v1/programs/{id}", s.handleDeleteProgram)

		r.Post("/api/v1/records", s.handleCreateRecord)
		r.Delete("/api/v1/records/{id}", s.handleDeleteRecord)
		r.Post("/api/v1/meals", s.handleCreateMeal)
		r.Delete("/api/v1/meals/{id}", s.handleDeleteMeal)
		r.Post("/api/v1/weight", s.handleCreateWeight)
		r.Delete("/api/v1/weight/{id}", s.handleDeleteWeight)
	})
}
