package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/mindmapd/internal/config"
	"github.com/dgallion1/mindmapd/internal/mindmap"
	"github.com/dgallion1/mindmapd/internal/provider"
	"github.com/dgallion1/mindmapd/internal/session"
)

// Server is the HTTP API server for mindmapd.
type Server struct {
	router   chi.Router
	sessions *session.Store
	svc      *mindmap.Service
	stats    *provider.Stats
	log      *slog.Logger
	cfg      config.Config

	// newProvider is swappable so tests can stub the LLM backend.
	newProvider func(r *http.Request, cfg provider.Config) (provider.Provider, error)
}

// NewServer creates and configures the HTTP server.
func NewServer(sessions *session.Store, svc *mindmap.Service, stats *provider.Stats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		sessions: sessions,
		svc:      svc,
		stats:    stats,
		log:      log,
		cfg:      cfg,
	}
	s.newProvider = func(r *http.Request, pc provider.Config) (provider.Provider, error) {
		return provider.New(r.Context(), pc)
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
		r.Use(AuthMiddleware(s.cfg.ServiceAPIKey, s.log))

		r.Post("/api/sessions", s.handleCreateSession)
		r.Get("/api/sessions/{sessionID}", s.handleGetSession)
		r.Put("/api/sessions/{sessionID}/config", s.handleUpdateConfig)
		r.Delete("/api/sessions/{sessionID}", s.handleDeleteSession)

		r.Post("/api/sessions/{sessionID}/mindmap", s.handleGenerate)
		r.Get("/api/sessions/{sessionID}/mindmap", s.handleGetMindmap)
		r.Post("/api/sessions/{sessionID}/nodes/{nodeID}/detail", s.handleNodeDetail)
		r.Post("/api/sessions/{sessionID}/nodes/{nodeID}/drilldown", s.handleDrillDown)
		r.Post("/api/sessions/{sessionID}/back", s.handleBack)
		r.Post("/api/sessions/{sessionID}/reset", s.handleReset)

		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
