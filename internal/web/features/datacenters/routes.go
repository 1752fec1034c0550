// Package datacenters exposes data center metadata and energy estimate
// endpoints.
package datacenters

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/gridhub-labs/gridhub/pkg/core"
)

// SetupRoutes registers the data center routes.
func SetupRoutes(router chi.Router, store core.Store, logger *slog.Logger) {
	handlers := NewHandlers(store, logger)

	router.Route("/data-centers", func(r chi.Router) {
		r.Get("/", handlers.List)
		r.Post("/", handlers.Upsert)
		r.Get("/by-region/{regionID}", handlers.ByRegion)
		r.Get("/{dcID}", handlers.Get)
		r.Get("/{dcID}/energy", handlers.Energy)
	})
}
