package server

import (
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/claude/trainplan/internal/intake"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	svc    *intake.Service
	users  UserStore
	log    *slog.Logger
	apiKey string
	router chi.Router

	// whois is set once tailscale is up; nil means dev identity.
	whois atomic.Pointer[WhoIser]
}

// New creates a new Server with all routes configured.
func New(svc *intake.Service, users UserStore, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		svc:    svc,
		users:  users,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTailscale switches request identity to tailnet WhoIs lookups.
func (s *Server) SetTailscale(lc WhoIser) {
	s.whois.Store(&lc)
}

// SetMCP mounts a streamable MCP handler at /mcp behind the API key.
func (s *Server) SetMCP(h http.Handler) {
	s.router.With(APIKeyAuth(s.apiKey)).Handle("/mcp", h)
}

func (s *Server) identity(next http.Handler) http.Handler {
	dev := DevIdentity(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if lc := s.whois.Load(); lc != nil {
			TailscaleIdentity(*lc, s.users, s.log)(next).ServeHTTP(w, r)
			return
		}
		dev.ServeHTTP(w, r)
	})
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(Metrics)
	s.router.Use(CORS)
	s.router.Use(s.identity)

	s.router.Handle("/metrics", promhttp.Handler())
	s.router.Get("/api/v1/me", s.handleMe)

	// Generation is the only write and needs the API key; reads rely on
	// tsnet for access control.
	s.router.Route("/api/v1/programs", func(r chi.Router) {
		r.With(APIKeyAuth(s.apiKey)).Post("/", s.handleCreateProgram)
		r.Get("/", s.handleListPrograms)
		r.Get("/{id}", s.handleGetProgram)
		r.Get("/{id}/export", s.handleExportProgram)
	})
	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/templates", s.handleTemplate)
	s.router.Get("/api/v1/rules", s.handleRules)

	s.router.Route("/api/v1/catalog", func(r chi.Router) {
		r.Get("/summary", s.handleCatalogSummary)
		r.Get("/exercises/{id}", s.handleExercise)
		r.Get("/exercises/{id}/alternatives", s.handleAlternatives)
		r.Get("/exercises/{id}/contraindications", s.handleContraindications)
		r.Get("/muscles", s.handleMuscles)
		r.Get("/equipment", s.handleEquipment)
		r.Get("/injuries", s.handleInjuries)
	})
}
