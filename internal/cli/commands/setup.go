// Package commands implements the GridHub CLI subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gridhub-labs/gridhub/internal/cli/config"
	"github.com/gridhub-labs/gridhub/internal/ingest"
	"github.com/gridhub-labs/gridhub/internal/store"
)

// openStore opens the SQLite database, creating parent directories as
// needed.
func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." && dir != "" && cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return store.Open(cfg.DBPath)
}

// buildScheduler wires the collectors into a scheduler from config.
func buildScheduler(cfg *config.Config, st *store.SQLiteStore, logger *slog.Logger) *ingest.Scheduler {
	eia := ingest.NewEIACollector(cfg.EIABaseURL, cfg.EIAAPIKey, logger)
	ercot := ingest.NewERCOTCollector(cfg.ERCOTBaseURL, logger)

	return ingest.NewScheduler(st, eia, []ingest.Collector{ercot}, ingest.SchedulerConfig{
		ISOIntervalMinutes: cfg.ISOIntervalMinutes,
		BatchHour:          cfg.BatchHour,
	}, logger)
}
