// Package server exposes the layout pipeline over HTTP.
//
// # Endpoints
//
//	POST /v1/layouts   scene (JSON or YAML) in, layout document out
//	POST /v1/renders   scene in, overview SVG or DOT out
//	GET  /healthz      build information
//	GET  /metrics      Prometheus exposition, when a handler is configured
//
// Layout parameters come from the query string and default to the server's
// [layout] config: strategy, edges_above_blocks, derive_elevation,
// level_unit, min_elevation and refresh. Renders also take format,
// show_lca and detailed.
//
// Errors are JSON objects carrying the error code, a message and the
// request ID:
//
//	{"error": {"code": "UNKNOWN_NODE", "message": "...", "request_id": "..."}}
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/edgebundle/pkg/pipeline"
)

// shutdownTimeout bounds graceful shutdown in [Server.ListenAndServe].
const shutdownTimeout = 10 * time.Second

// Options configures a [Server].
type Options struct {
	// Runner computes and caches layouts. Nil means an uncached runner.
	Runner *pipeline.Runner

	// Defaults are the layout options requests start from.
	Defaults pipeline.Options

	Config pipeline.ServerConfig

	// Metrics serves GET /metrics. Nil disables the endpoint.
	Metrics http.Handler

	// Logger receives request logs. Nil discards them.
	Logger *log.Logger
}

// Server is the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	cfg      pipeline.ServerConfig
	logger   *log.Logger
	router   chi.Router
}

// New builds the server and its routes. Options are not validated here;
// [pipeline.Config.Validate] covers them.
func New(opts Options) *Server {
	s := &Server{
		runner:   opts.Runner,
		defaults: opts.Defaults,
		cfg:      opts.Config,
		logger:   opts.Logger,
	}
	if s.logger == nil {
		s.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	s.defaults.SetDefaults()

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, r, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" is not allowed on "+r.URL.Path)
	})

	r.Get("/healthz", s.handleHealth)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		if s.cfg.MaxBodyBytes > 0 {
			r.Use(middleware.RequestSize(s.cfg.MaxBodyBytes))
		}
		if d, err := s.cfg.RequestTimeout(); err == nil && d > 0 {
			r.Use(withTimeout(d))
		}
		r.Post("/layouts", s.handleLayout)
		r.Post("/renders", s.handleRender)
	})

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	addr := s.cfg.Addr
	if addr == "" {
		addr = pipeline.DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
