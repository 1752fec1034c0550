package health

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gridhub-labs/gridhub/internal/version"
	"github.com/gridhub-labs/gridhub/internal/web/features/common"
)

// Handlers provides HTTP handlers for the health feature.
type Handlers struct {
	db     Pinger
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db Pinger, logger *slog.Logger) *Handlers {
	return &Handlers{db: db, logger: logger}
}

// Health reports overall service status and database connectivity.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	dbConnected := true
	if err := h.db.Ping(r.Context()); err != nil {
		h.logger.Warn("database ping failed", "error", err)
		dbConnected = false
	}

	status := "healthy"
	if !dbConnected {
		status = "degraded"
	}

	common.JSON(w, http.StatusOK, map[string]any{
		"status":             status,
		"version":            version.Version,
		"timestamp":          time.Now().UTC(),
		"database_connected": dbConnected,
	})
}

// Ready is the readiness probe: the service is ready once the database
// answers.
func (h *Handlers) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		common.JSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	common.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// Live is the liveness probe.
func (h *Handlers) Live(w http.ResponseWriter, _ *http.Request) {
	common.JSON(w, http.StatusOK, map[string]string{"status": "alive"})
}
