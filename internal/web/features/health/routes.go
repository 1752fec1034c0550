// Package health exposes liveness and readiness probes.
package health

import (
	"context"
	"log/slog"

	"github.com/go-chi/chi/v5"
)

// Pinger checks connectivity to the backing database.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SetupRoutes registers the health endpoints.
func SetupRoutes(router chi.Router, db Pinger, logger *slog.Logger) {
	handlers := NewHandlers(db, logger)

	router.Get("/health", handlers.Health)
	router.Get("/health/ready", handlers.Ready)
	router.Get("/health/live", handlers.Live)
}
