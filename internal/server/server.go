// Package server exposes stored graphs and layouts over HTTP.
//
// The API is a small JSON surface: upload an analyzed graph, compute
// and fetch its layout, and download rendered artifacts. Analysis
// itself stays in the CLI, close to the workspace and its language
// server; the server only works with graphs it is given.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/timsueberkrueb/lsp-graph-poc/pkg/pipeline"
	"github.com/timsueberkrueb/lsp-graph-poc/pkg/store"
)

// Config configures a server.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Store persists uploaded graphs. Required.
	Store store.Store

	// Runner computes layouts and artifacts. Required.
	Runner *pipeline.Runner

	// Logger defaults to a discarding logger.
	Logger *log.Logger

	// ShutdownTimeout bounds graceful shutdown. Defaults to 10s.
	ShutdownTimeout time.Duration
}

// Server is the lspgraph HTTP API.
type Server struct {
	store           store.Store
	runner          *pipeline.Runner
	logger          *log.Logger
	http            *http.Server
	shutdownTimeout time.Duration
}

// New creates a server with its routes registered.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		store:  cfg.Store,
		runner: cfg.Runner,
		logger: cfg.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/graphs", func(r chi.Router) {
		r.Get("/", s.handleListGraphs)
		r.Post("/", s.handleCreateGraph)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGraph)
			r.Delete("/", s.handleDeleteGraph)
			r.Post("/layout", s.handleComputeLayout)
			r.Get("/layout", s.handleGetLayout)
			r.Get("/svg", s.handleGetSVG)
		})
	})

	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.shutdownTimeout = cfg.ShutdownTimeout
	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.logger.Info("http server shutting down")
	return s.http.Shutdown(shutdownCtx)
}
