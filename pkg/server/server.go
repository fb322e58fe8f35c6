// Package server exposes coordinate parsing, cytoband lookup, layout and
// rendering as an HTTP JSON API.
//
// # Routes
//
//	GET  /healthz
//	GET  /api/v1/builds
//	GET  /api/v1/coordinates?q=7:117120017-117308718[&strict=true]
//	GET  /api/v1/cytobands/{build}/{chrom}[?q=...]
//	POST /api/v1/layout
//	POST /api/v1/render?format=svg|json|png|pdf
//
// Errors are written as {"code": "...", "message": "..."} with the status
// derived from the error code.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/karyoview/pkg/pipeline"
)

// maxBodyBytes bounds request bodies of layout and render calls.
const maxBodyBytes = 1 << 20

// Options holds request defaults.
type Options struct {
	// Build is used when a request names none.
	Build string
	// ViewportWidth is used when a request names none.
	ViewportWidth int
	// ImageBase is where reference ideogram images are served.
	ImageBase string
}

// Server serves the HTTP API. Create it with [New].
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	opts   Options
	router chi.Router
}

// New returns a server backed by runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger, opts: opts}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/builds", s.handleBuilds)
		r.Get("/coordinates", s.handleCoordinates)
		r.Get("/cytobands/{build}/{chrom}", s.handleCytobands)
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Code: "NOT_FOUND", Message: "no route for " + r.URL.Path})
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, timeout time.Duration) error {
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

	s.logger.Info("shutting down", "timeout", timeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
