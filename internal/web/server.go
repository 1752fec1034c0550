// Package web serves the GridHub REST API and dashboard.
package web

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"github.com/gridhub-labs/gridhub/internal/ingest"
	"github.com/gridhub-labs/gridhub/internal/mcptools"
	"github.com/gridhub-labs/gridhub/internal/web/features/health"
	"github.com/gridhub-labs/gridhub/internal/web/router"
	"github.com/gridhub-labs/gridhub/pkg/core"
)

// Server is the main API server.
type Server struct {
	store     core.Store
	db        health.Pinger
	scheduler *ingest.Scheduler
	tools     *mcptools.Service
	port      int
	logger    *slog.Logger
}

// Config holds configuration for the API server.
type Config struct {
	Store     core.Store
	DB        health.Pinger
	Scheduler *ingest.Scheduler
	Tools     *mcptools.Service
	Port      int
	Logger    *slog.Logger
}

// NewServer creates a new API server instance.
func NewServer(cfg Config) *Server {
	return &Server{
		store:     cfg.Store,
		db:        cfg.DB,
		scheduler: cfg.Scheduler,
		tools:     cfg.Tools,
		port:      cfg.Port,
		logger:    cfg.Logger,
	}
}

// Handler builds the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
		cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"*"},
		}),
	)

	router.SetupRoutes(r, router.Deps{
		Store:     s.store,
		DB:        s.db,
		Scheduler: s.scheduler,
		Tools:     s.tools,
		Logger:    s.logger,
	})
	return r
}

// Serve starts the API server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting API server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
