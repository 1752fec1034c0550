// Package ingestctl exposes manual ingestion triggers and scheduler
// controls.
package ingestctl

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/gridhub-labs/gridhub/internal/ingest"
	"github.com/gridhub-labs/gridhub/pkg/core"
)

// SetupRoutes registers the ingestion control routes.
func SetupRoutes(router chi.Router, store core.Store, sched *ingest.Scheduler, logger *slog.Logger) {
	handlers := NewHandlers(store, sched, logger)

	router.Route("/ingest", func(r chi.Router) {
		r.Post("/trigger/eia", handlers.TriggerEIA)
		r.Post("/trigger/iso/{isoName}", handlers.TriggerISO)
		r.Post("/trigger/all", handlers.TriggerAll)
		r.Get("/status", handlers.Status)
		r.Get("/logs", handlers.Logs)
		r.Post("/scheduler/start", handlers.StartScheduler)
		r.Post("/scheduler/stop", handlers.StopScheduler)
	})
}
