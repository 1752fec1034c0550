// Package aiimpact exposes AI compute impact KPIs per grid region.
package aiimpact

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/gridhub-labs/gridhub/pkg/core"
)

// SetupRoutes registers the AI impact routes.
func SetupRoutes(router chi.Router, store core.Store, logger *slog.Logger) {
	handlers := NewHandlers(store, logger)

	router.Route("/ai-impact", func(r chi.Router) {
		r.Get("/summary/all-regions", handlers.Summary)
		r.Get("/{regionID}", handlers.Impact)
		r.Get("/{regionID}/corridor", handlers.Corridor)
		r.Get("/{regionID}/history", handlers.History)
	})
}
