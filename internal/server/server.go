// Package server exposes the element and history repositories and the
// composer over HTTP for scripting and editor integrations.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kmowens/promptdeck/internal/config"
	"github.com/kmowens/promptdeck/internal/service"
)

// Server provides the HTTP API over a shared Service
type Server struct {
	service *service.Service
	cfg     config.ServerConfig
	httpSrv *http.Server
}

// NewServer creates a new API server instance
func NewServer(svc *service.Service, cfg config.ServerConfig) *Server {
	return &Server{
		service: svc,
		cfg:     cfg,
	}
}

// Handler builds the full route tree. Exposed for tests.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Get("/api/docs", s.handleDocs)
	r.Get("/api/openapi.json", s.handleOpenAPISpec)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/elements", s.handleListElements)
		r.Post("/elements", s.handleCreateElement)
		r.Get("/elements/{id}", s.handleGetElement)
		r.Put("/elements/{id}", s.handleUpdateElement)
		r.Delete("/elements/{id}", s.handleDeleteElement)

		r.Post("/compose", s.handleCompose)

		r.Get("/history", s.handleListHistory)
		r.Post("/history", s.handleSaveHistory)
		r.Get("/history/export", s.handleExportHistory)
	})

	return r
}

// Start begins serving HTTP requests and blocks until the listener
// fails or Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Address, s.cfg.Port)

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("starting server", "addr", addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	slog.Info("shutting down server")
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
