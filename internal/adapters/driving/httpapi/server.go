// Package httpapi is the HTTP driving adapter: search, index management
// and health endpoints over the core services.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/LuisVera22/service-gcp/internal/core/ports/driven"
	"github.com/LuisVera22/service-gcp/internal/core/ports/driving"
	"github.com/LuisVera22/service-gcp/internal/logger"
)

// Pinger is a lightweight reachability check for external providers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	queryService driving.QueryService
	indexService driving.IndexService

	// Provider health checks (either may be nil)
	embedder Pinger
	source   Pinger
}

// Config holds server configuration.
type Config struct {
	Host    string
	Port    int
	Version string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server over the core services.
func NewServer(
	cfg Config,
	queryService driving.QueryService,
	indexService driving.IndexService,
	embedder driven.EmbeddingService,
	source driven.DocumentSource,
) *Server {
	s := &Server{
		router:       http.NewServeMux(),
		version:      cfg.Version,
		queryService: queryService,
		indexService: indexService,
	}
	if embedder != nil {
		s.embedder = embedder
	}
	if source != nil {
		s.source = source
	}

	s.routes()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// routes registers all endpoints.
func (s *Server) routes() {
	s.router.HandleFunc("POST /v1/search", s.handleSearch)
	s.router.HandleFunc("POST /v1/index/rebuild", s.handleRebuild)
	s.router.HandleFunc("GET /v1/index/status", s.handleIndexStatus)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /version", s.handleVersion)
}

// Start serves requests until the context is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("HTTP server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
