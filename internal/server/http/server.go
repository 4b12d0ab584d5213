// Package httpserver provides the HTTP REST API for the comic metadata service.
package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/helixir/comic-metadata-service/internal/domain"
)

// SearchService is the set of operations exposed over HTTP.
type SearchService interface {
	SearchIssues(ctx context.Context, q domain.SearchQuery) ([]domain.IssueCandidate, error)
	SearchEnhanced(ctx context.Context, q domain.SearchQuery) ([]domain.IssueCandidate, error)
	SearchVolumes(ctx context.Context, series string, year int) ([]domain.VolumeCandidate, error)
	GetIssueMetadata(ctx context.Context, issueID int) (*domain.IssueMetadata, error)
	GetVolumeIssues(ctx context.Context, volumeID int) ([]domain.IssueCandidate, error)
	RateLimitStatus() []domain.EndpointStatus
}

// Server is the HTTP REST API server.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	service    SearchService
	logger     zerolog.Logger
	config     Config
}

// Config holds HTTP server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// MetricsPath mounts the Prometheus handler when non-empty.
	MetricsPath string
}

// NewServer creates a new HTTP server.
func NewServer(cfg Config, service SearchService, logger zerolog.Logger) *Server {
	s := &Server{
		service: service,
		logger:  logger.With().Str("component", "http-server").Logger(),
		config:  cfg,
	}

	s.router = s.buildRouter()

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// buildRouter creates the chi router with all middleware and routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(correlationIDMiddleware)
	r.Use(requestLogger(s.logger))

	if s.config.MetricsPath != "" {
		r.Handle(s.config.MetricsPath, promhttp.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(jsonContentTypeMiddleware)

		r.Get("/healthz", s.healthHandler)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/issues/search", s.searchIssues)
			r.Get("/issues/search/enhanced", s.searchEnhanced)
			r.Get("/issues/{issueID}", s.getIssueMetadata)
			r.Get("/volumes/search", s.searchVolumes)
			r.Get("/volumes/{volumeID}/issues", s.getVolumeIssues)
			r.Get("/rate-limit", s.rateLimitStatus)
		})
	})

	return r
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("HTTP server starting")
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// healthHandler returns basic liveness status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Best-effort log; headers already sent.
		_ = err
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Error: message})
}
