// Package server exposes document extraction over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/joseph-ayodele/agm-extractor/internal/export"
	"github.com/joseph-ayodele/agm-extractor/internal/pipeline"
	"github.com/joseph-ayodele/agm-extractor/internal/repository"
)

type Config struct {
	MaxUploadBytes int64
	RequestTimeout time.Duration
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	HealthCheck(ctx context.Context, timeout time.Duration) error
}

type Server struct {
	cfg      Config
	proc     *pipeline.Processor
	exporter *export.Service
	runs     repository.RunRepository
	db       Pinger
	logger   *slog.Logger
}

// NewServer wires the HTTP handlers. runs and db may be nil when run history
// is disabled; the /v1/runs routes are then not mounted.
func NewServer(cfg Config, proc *pipeline.Processor, exporter *export.Service, runs repository.RunRepository, db Pinger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if exporter == nil {
		exporter = export.NewService(logger)
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 2 * time.Minute
	}
	return &Server{cfg: cfg, proc: proc, exporter: exporter, runs: runs, db: db, logger: logger}
}

// Routes returns the router with all routes configured.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.health)

	r.Route("/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(s.cfg.RequestTimeout))
		r.Post("/extract", s.extract)
		if s.runs != nil {
			r.Get("/runs", s.listRuns)
			r.Get("/runs/{id}", s.getRun)
		}
	})
	return r
}
