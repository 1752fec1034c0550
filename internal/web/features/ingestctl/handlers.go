package ingestctl

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gridhub-labs/gridhub/internal/ingest"
	"github.com/gridhub-labs/gridhub/internal/web/features/common"
	"github.com/gridhub-labs/gridhub/pkg/core"
)

// triggerTimeout bounds background collection runs kicked off over HTTP.
const triggerTimeout = 2 * time.Minute

// Handlers provides HTTP handlers for the ingestion control feature.
type Handlers struct {
	store  core.Store
	sched  *ingest.Scheduler
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store core.Store, sched *ingest.Scheduler, logger *slog.Logger) *Handlers {
	return &Handlers{store: store, sched: sched, logger: logger}
}

// TriggerEIA kicks off an EIA collection run in the background.
func (h *Handlers) TriggerEIA(w http.ResponseWriter, _ *http.Request) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), triggerTimeout)
		defer cancel()
		if err := h.sched.TriggerEIA(ctx); err != nil {
			h.logger.Error("manual EIA collection failed", "error", err)
		}
	}()

	common.JSON(w, http.StatusOK, map[string]any{
		"status":    "triggered",
		"source":    "EIA",
		"timestamp": time.Now().UTC(),
	})
}

// TriggerISO kicks off one ISO collector in the background.
func (h *Handlers) TriggerISO(w http.ResponseWriter, r *http.Request) {
	name := strings.ToUpper(chi.URLParam(r, "isoName"))

	known := false
	for _, n := range h.sched.ISONames() {
		if n == name {
			known = true
			break
		}
	}
	if !known {
		common.JSON(w, http.StatusOK, map[string]any{
			"status":  "error",
			"message": fmt.Sprintf("Unknown ISO: %s. Available: %v", name, h.sched.ISONames()),
		})
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), triggerTimeout)
		defer cancel()
		if err := h.sched.TriggerISO(ctx, name); err != nil {
			h.logger.Error("manual ISO collection failed", "iso", name, "error", err)
		}
	}()

	common.JSON(w, http.StatusOK, map[string]any{
		"status":    "triggered",
		"source":    name,
		"timestamp": time.Now().UTC(),
	})
}

// TriggerAll runs every collector once in the background.
func (h *Handlers) TriggerAll(w http.ResponseWriter, _ *http.Request) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), triggerTimeout)
		defer cancel()
		if err := h.sched.RunOnce(ctx); err != nil {
			h.logger.Error("manual collection run failed", "error", err)
		}
	}()

	sources := append([]string{"EIA"}, h.sched.ISONames()...)
	common.JSON(w, http.StatusOK, map[string]any{
		"status":    "triggered",
		"sources":   sources,
		"timestamp": time.Now().UTC(),
	})
}

// Status reports whether the scheduler is running.
func (h *Handlers) Status(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]any{
		"scheduler_running": h.sched.Running(),
		"timestamp":         time.Now().UTC(),
	})
}

// Logs returns the most recent ingestion job records.
func (h *Handlers) Logs(w http.ResponseWriter, r *http.Request) {
	limit := common.IntQuery(r, "limit", 20, 1, 100)

	logs, err := h.store.RecentIngestions(r.Context(), limit)
	if err != nil {
		common.StoreError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"jobs": logs})
}

// StartScheduler starts the cron scheduler.
func (h *Handlers) StartScheduler(w http.ResponseWriter, _ *http.Request) {
	if err := h.sched.Start(); err != nil {
		common.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"status":    "started",
		"timestamp": time.Now().UTC(),
	})
}

// StopScheduler stops the cron scheduler.
func (h *Handlers) StopScheduler(w http.ResponseWriter, _ *http.Request) {
	h.sched.Stop()
	common.JSON(w, http.StatusOK, map[string]any{
		"status":    "stopped",
		"timestamp": time.Now().UTC(),
	})
}
