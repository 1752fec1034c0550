// Package ingest collects grid data from public sources (EIA, ISO
// feeds), normalizes it into grid metrics, and schedules periodic
// collection.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/gridhub-labs/gridhub/pkg/core"
)

// Collector fetches raw data from one source and normalizes it into
// grid metrics rows.
type Collector interface {
	Name() string
	JobType() string
	Collect(ctx context.Context) ([]core.GridMetrics, error)
}

// Run executes one collection job, recording its lifecycle in the
// ingestion log. The returned log carries the final status; the error
// is the collection or load failure, if any.
func Run(ctx context.Context, st core.Store, c Collector, logger *slog.Logger) (core.IngestionLog, error) {
	job := core.IngestionLog{
		ID:        uuid.New().String(),
		Source:    c.Name(),
		JobType:   c.JobType(),
		StartedAt: time.Now().UTC(),
		Status:    core.IngestionRunning,
	}
	if err := st.RecordIngestion(ctx, job); err != nil {
		return job, fmt.Errorf("failed to record job start: %w", err)
	}

	logger.Info("collection started", "source", c.Name(), "job_type", c.JobType())

	metrics, err := c.Collect(ctx)
	count := 0
	if err == nil {
		for _, m := range metrics {
			if upsertErr := st.UpsertMetrics(ctx, m); upsertErr != nil {
				err = upsertErr
				break
			}
			count++
		}
	}

	now := time.Now().UTC()
	job.CompletedAt = &now
	job.RecordsProcessed = count
	if err != nil {
		job.Status = core.IngestionFailed
		job.Error = err.Error()
		logger.Error("collection failed", "source", c.Name(), "error", err)
	} else {
		job.Status = core.IngestionSuccess
		logger.Info("collection finished", "source", c.Name(), "records", count)
	}

	if recordErr := st.RecordIngestion(ctx, job); recordErr != nil && err == nil {
		err = fmt.Errorf("failed to record job completion: %w", recordErr)
	}
	return job, err
}

// flexFloat unmarshals a JSON value that may arrive as a number, a
// numeric string, or null. Both EIA and the ISO feeds are inconsistent
// about this.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = 0
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid numeric string %q: %w", s, err)
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}
