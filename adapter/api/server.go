// Package api provides the HTTP API for MasterTasker.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/BitBOY21/MasterTasker-calendar-task-manager/pkg/observability"
)

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Server is the HTTP API server.
type Server struct {
	mux    *http.ServeMux
	server *http.Server
	logger *slog.Logger
	health *observability.HealthRegistry

	tasks    *TaskHandler
	auth     *AuthHandler
	verifier tokenVerifier
}

// NewServer creates the API server and registers all routes.
func NewServer(
	cfg ServerConfig,
	tasks *TaskHandler,
	auth *AuthHandler,
	verifier tokenVerifier,
	health *observability.HealthRegistry,
	metrics observability.Metrics,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		health:   health,
		tasks:    tasks,
		auth:     auth,
		verifier: verifier,
	}
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      requestMiddleware(logger, metrics, s.mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// registerRoutes sets up the API routes.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Auth
	s.mux.HandleFunc("POST /api/v1/auth/register", s.auth.Register)
	s.mux.HandleFunc("POST /api/v1/auth/login", s.auth.Login)
	s.mux.HandleFunc("POST /api/v1/auth/refresh", s.auth.Refresh)
	s.mux.HandleFunc("POST /api/v1/auth/logout", s.authed(s.auth.Logout))

	// Tasks
	s.mux.HandleFunc("GET /api/v1/tasks", s.authed(s.tasks.List))
	s.mux.HandleFunc("POST /api/v1/tasks", s.authed(s.tasks.Create))
	s.mux.HandleFunc("PUT /api/v1/tasks/order", s.authed(s.tasks.Reorder))
	s.mux.HandleFunc("GET /api/v1/tasks/{taskID}", s.authed(s.tasks.Get))
	s.mux.HandleFunc("PATCH /api/v1/tasks/{taskID}", s.authed(s.tasks.Update))
	s.mux.HandleFunc("DELETE /api/v1/tasks/{taskID}", s.authed(s.tasks.Delete))
	s.mux.HandleFunc("POST /api/v1/tasks/{taskID}/breakdown", s.authed(s.tasks.Breakdown))
}

func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return authMiddleware(s.verifier, next)
}

// handleHealth reports the health of the server's dependencies.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	results := s.health.Check(r.Context())
	status := observability.Overall(results)

	code := http.StatusOK
	if status == observability.HealthStatusUnhealthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status":     status,
		"components": results,
		"time":       time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}
