// Package grid exposes the grid monitoring endpoints: regions, real-time
// metrics, history, forecasts, and carbon intensity.
package grid

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/gridhub-labs/gridhub/pkg/core"
)

// SetupRoutes registers the grid monitoring routes.
func SetupRoutes(router chi.Router, store core.Store, logger *slog.Logger) {
	handlers := NewHandlers(store, logger)

	router.Route("/grid", func(r chi.Router) {
		r.Get("/regions", handlers.ListRegions)
		r.Get("/{regionID}/realtime", handlers.Realtime)
		r.Get("/{regionID}/history", handlers.History)
		r.Get("/{regionID}/forecast", handlers.Forecast)
		r.Get("/{regionID}/carbon", handlers.Carbon)
	})
}
