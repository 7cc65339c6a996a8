// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api serves brew notes over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ManuGH/brewlog/internal/api/middleware"
	"github.com/ManuGH/brewlog/internal/domain/brewnote/manager"
	xglog "github.com/ManuGH/brewlog/internal/log"
)

// Config configures the API handler.
type Config struct {
	// RateLimit is requests per minute per client IP; 0 disables it.
	RateLimit int
	// TracingService names the otelhttp spans; empty disables tracing.
	TracingService string
	// MaxBodyBytes bounds request bodies; 0 means 1 MiB.
	MaxBodyBytes int64
}

// Server routes API requests to a manager.
type Server struct {
	mgr     *manager.Manager
	cfg     Config
	router  chi.Router
	logger  zerolog.Logger
	healthy func(ctx context.Context) error
}

// New builds the router. healthy, when non-nil, backs /healthz.
func New(mgr *manager.Manager, cfg Config, healthy func(ctx context.Context) error) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	s := &Server{
		mgr:     mgr,
		cfg:     cfg,
		logger:  xglog.WithComponent("api"),
		healthy: healthy,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	if s.cfg.TracingService != "" {
		r.Use(middleware.Tracing(s.cfg.TracingService))
	}
	r.Use(middleware.AccessLog)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/notes", func(r chi.Router) {
		r.Use(middleware.RateLimit(s.cfg.RateLimit))
		r.Get("/", s.handleListNotes)
		r.Post("/", s.handleCreateNote)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetNote)
			r.Patch("/", s.handleSetField)
			r.Delete("/", s.handleDeleteNote)
			r.Post("/recalculate-eff", s.handleRecalculateEff)
		})
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.healthy != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.healthy(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HTTPServer wraps h with the timeouts brewlog serves with.
func HTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// errStatus maps manager errors onto HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, manager.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, manager.ErrUnknownField),
		errors.Is(err, manager.ErrInvalidValue),
		errors.Is(err, manager.ErrRecipeUnknown):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
