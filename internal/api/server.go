// Package api exposes team generation, persistence, rendering and
// conversations over HTTP.
//
// Routes use the method and wildcard patterns of net/http.ServeMux.
// Conversation turns are also published to Server-Sent Event subscribers
// through a voice.Hub.
//
// IMPORTANT: This package may import any internal package except internal/cli.
package api

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrz1836/crewgen/internal/catalog"
	"github.com/mrz1836/crewgen/internal/clock"
	"github.com/mrz1836/crewgen/internal/config"
	"github.com/mrz1836/crewgen/internal/constants"
	"github.com/mrz1836/crewgen/internal/conversation"
	"github.com/mrz1836/crewgen/internal/domain"
	crewerrors "github.com/mrz1836/crewgen/internal/errors"
	"github.com/mrz1836/crewgen/internal/generation"
	"github.com/mrz1836/crewgen/internal/llm"
	"github.com/mrz1836/crewgen/internal/render"
	"github.com/mrz1836/crewgen/internal/voice"
)

// rootMessage is returned by GET /api/.
const rootMessage = "AI Agent Team Configuration API"

// Generator produces teams and personas.
// *generation.Orchestrator implements it.
type Generator interface {
	GenerateTeam(ctx context.Context, req domain.GenerationRequest, cred llm.Credential) (*domain.GeneratedTeam, error)
	GeneratePersona(ctx context.Context, req domain.PersonaRequest, cred llm.Credential) (domain.Persona, error)
}

// TeamStore persists teams. store.Store implements it.
type TeamStore interface {
	SaveTeam(ctx context.Context, team *domain.TeamConfiguration) error
	GetTeam(ctx context.Context, id string) (*domain.TeamConfiguration, error)
}

var _ Generator = (*generation.Orchestrator)(nil)

// Options holds the dependencies of a Server.
type Options struct {
	Config    *config.ServerConfig
	Generator Generator
	Store     TeamStore
	Catalog   *catalog.Catalog
	Sessions  *conversation.Manager
	Engine    voice.TurnProcessor
	Hub       *voice.Hub
	Clock     clock.Clock
	Logger    zerolog.Logger
}

// Server is the HTTP front end.
type Server struct {
	cfg       config.ServerConfig
	generator Generator
	store     TeamStore
	catalog   *catalog.Catalog
	renderer  *render.Renderer
	sessions  *conversation.Manager
	engine    voice.TurnProcessor
	hub       *voice.Hub
	clock     clock.Clock
	logger    zerolog.Logger
	handler   http.Handler
}

// New builds a Server and registers its routes.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, crewerrors.ErrConfigNil
	}
	if opts.Generator == nil || opts.Store == nil || opts.Engine == nil {
		return nil, crewerrors.Wrap(crewerrors.ErrEmptyValue, "api server needs a generator, a store and an engine")
	}

	s := &Server{
		cfg:       *opts.Config,
		generator: opts.Generator,
		store:     opts.Store,
		catalog:   opts.Catalog,
		sessions:  opts.Sessions,
		engine:    opts.Engine,
		hub:       opts.Hub,
		clock:     opts.Clock,
		logger:    opts.Logger.With().Str("component", "api").Logger(),
	}
	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	if s.clock == nil {
		s.clock = clock.RealClock{}
	}
	if s.sessions == nil {
		s.sessions = conversation.NewManager(s.clock)
	}
	if s.hub == nil {
		s.hub = voice.NewHub(opts.Logger)
	}
	if s.cfg.MaxBodyBytes <= 0 {
		s.cfg.MaxBodyBytes = constants.DefaultMaxBodyBytes
	}
	s.renderer = render.New(s.catalog)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/{$}", s.handleRoot)
	mux.HandleFunc("GET /api/tools", s.handleTools)
	mux.HandleFunc("POST /api/generate-persona", s.handleGeneratePersona)
	mux.HandleFunc("POST /api/generate-intelligent-team", s.handleGenerateTeam)
	mux.HandleFunc("POST /api/teams", s.handleSaveTeam)
	mux.HandleFunc("GET /api/teams/{id}", s.handleGetTeam)
	mux.HandleFunc("POST /api/generate-yaml", s.handleGenerateYAML)
	mux.HandleFunc("POST /api/conversations", s.handleCreateConversation)
	mux.HandleFunc("GET /api/conversations/{id}", s.handleGetConversation)
	mux.HandleFunc("DELETE /api/conversations/{id}", s.handleDeleteConversation)
	mux.HandleFunc("POST /api/conversations/{id}/turns", s.handleTurn)
	mux.HandleFunc("GET /api/conversations/{id}/events", s.handleEvents)

	var handler http.Handler = mux
	handler = bodyLimitMiddleware(s.cfg.MaxBodyBytes, handler)
	handler = corsMiddleware(s.cfg.CORSOrigins, handler)
	handler = requestLogMiddleware(s.logger, handler)
	s.handler = handler
	return s, nil
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// HTTPServer returns an *http.Server for the configured address.
func (s *Server) HTTPServer() *http.Server {
	readHeader := s.cfg.ReadHeaderTimeout
	if readHeader <= 0 {
		readHeader = constants.DefaultReadHeaderTimeout
	}
	addr := s.cfg.Addr
	if addr == "" {
		addr = constants.DefaultServerAddr
	}
	return &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: readHeader,
	}
}

// bodyLimitMiddleware limits request body size for POST, PUT, PATCH.
func bodyLimitMiddleware(maxBytes int64, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware sets CORS headers for the allowed origins. "*" allows any origin.
func corsMiddleware(origins []string, next http.Handler) http.Handler {
	anyOrigin := len(origins) == 0 || slices.Contains(origins, "*")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case anyOrigin:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(origins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// responseRecorder captures the status code and forwards Flush for event streams.
type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// requestLogMiddleware logs each request and puts the logger in the request context.
func requestLogMiddleware(logger zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req.WithContext(logger.WithContext(req.Context())))
		logger.Info().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Int("status", rec.status).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("request")
	})
}
