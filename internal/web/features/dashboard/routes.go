// Package dashboard renders a lightweight grid status page.
package dashboard

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/gridhub-labs/gridhub/pkg/core"
)

// SetupRoutes registers the dashboard route.
func SetupRoutes(router chi.Router, store core.Store, logger *slog.Logger) {
	handlers := NewHandlers(store, logger)

	router.Get("/ui", handlers.Dashboard)
}
