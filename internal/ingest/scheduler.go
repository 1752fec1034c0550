package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/gridhub-labs/gridhub/internal/impact"
	"github.com/gridhub-labs/gridhub/pkg/core"
)

// SchedulerConfig controls the collection cadence.
type SchedulerConfig struct {
	// ISOIntervalMinutes is the cadence of the real-time ISO feeds.
	ISOIntervalMinutes int
	// BatchHour is the UTC hour of the daily estimate refresh.
	BatchHour int
}

// Scheduler runs the collectors on their cadences: EIA hourly, ISO
// feeds every few minutes, and a daily batch refresh of data center
// energy estimates. It can be stopped and restarted through the
// ingestion control endpoints.
type Scheduler struct {
	cron   *cron.Cron
	store  core.Store
	eia    *EIACollector
	iso    []Collector
	cfg    SchedulerConfig
	logger *slog.Logger

	mu         sync.Mutex
	registered bool
	running    bool
}

func NewScheduler(st core.Store, eia *EIACollector, iso []Collector, cfg SchedulerConfig, logger *slog.Logger) *Scheduler {
	if cfg.ISOIntervalMinutes <= 0 {
		cfg.ISOIntervalMinutes = 5
	}
	return &Scheduler{
		cron:   cron.New(),
		store:  st,
		eia:    eia,
		iso:    iso,
		cfg:    cfg,
		logger: logger,
	}
}

// Start registers the jobs (first call only) and starts the cron loop.
// Safe to call on an already running scheduler.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	if !s.registered {
		if _, err := s.cron.AddFunc("@hourly", func() { s.TriggerEIA(context.Background()) }); err != nil {
			return fmt.Errorf("failed to schedule EIA job: %w", err)
		}
		isoSpec := fmt.Sprintf("@every %dm", s.cfg.ISOIntervalMinutes)
		if _, err := s.cron.AddFunc(isoSpec, func() { s.runISO(context.Background()) }); err != nil {
			return fmt.Errorf("failed to schedule ISO job: %w", err)
		}
		batchSpec := fmt.Sprintf("0 %d * * *", s.cfg.BatchHour)
		if _, err := s.cron.AddFunc(batchSpec, func() { s.runBatch(context.Background()) }); err != nil {
			return fmt.Errorf("failed to schedule batch job: %w", err)
		}
		s.registered = true
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("ingestion scheduler started",
		"iso_interval_minutes", s.cfg.ISOIntervalMinutes, "batch_hour", s.cfg.BatchHour)
	return nil
}

// Stop halts the cron loop and waits for in-flight jobs to drain.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("ingestion scheduler stopped")
}

// Running reports whether the cron loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// RunOnce executes every collector a single time, for manual triggers
// and the ingest CLI command.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	if err := s.TriggerEIA(ctx); err != nil {
		return err
	}
	return s.runISO(ctx)
}

// TriggerEIA runs the EIA collection immediately.
func (s *Scheduler) TriggerEIA(ctx context.Context) error {
	if err := EnsureRegions(ctx, s.store); err != nil {
		s.logger.Error("failed to ensure regions", "error", err)
		return err
	}
	_, err := Run(ctx, s.store, s.eia, s.logger)
	return err
}

// TriggerISO runs one ISO collector by name (case-insensitive).
func (s *Scheduler) TriggerISO(ctx context.Context, name string) error {
	for _, c := range s.iso {
		if strings.EqualFold(c.Name(), name) {
			_, err := Run(ctx, s.store, c, s.logger)
			return err
		}
	}
	return fmt.Errorf("unknown ISO: %s (available: %s)", name, strings.Join(s.ISONames(), ", "))
}

// ISONames lists the registered ISO collectors.
func (s *Scheduler) ISONames() []string {
	names := make([]string, 0, len(s.iso))
	for _, c := range s.iso {
		names = append(names, c.Name())
	}
	return names
}

func (s *Scheduler) runISO(ctx context.Context) error {
	var lastErr error
	for _, c := range s.iso {
		if _, err := Run(ctx, s.store, c, s.logger); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (s *Scheduler) runBatch(ctx context.Context) error {
	_, err := RefreshEstimates(ctx, s.store, s.logger)
	return err
}

// RefreshEstimates recomputes energy estimates for every data center
// from each region's latest carbon intensity, recording the run in the
// ingestion log. Returns the number of estimates written.
func RefreshEstimates(ctx context.Context, st core.Store, logger *slog.Logger) (int, error) {
	job := core.IngestionLog{
		ID:        uuid.New().String(),
		Source:    "estimator",
		JobType:   "batch",
		StartedAt: time.Now().UTC(),
		Status:    core.IngestionRunning,
	}
	if err := st.RecordIngestion(ctx, job); err != nil {
		return 0, fmt.Errorf("failed to record job start: %w", err)
	}

	count, err := refreshEstimates(ctx, st)

	now := time.Now().UTC()
	job.CompletedAt = &now
	job.RecordsProcessed = count
	if err != nil {
		job.Status = core.IngestionFailed
		job.Error = err.Error()
		logger.Error("estimate refresh failed", "error", err)
	} else {
		job.Status = core.IngestionSuccess
		logger.Info("estimate refresh finished", "estimates", count)
	}
	if recordErr := st.RecordIngestion(ctx, job); recordErr != nil && err == nil {
		err = recordErr
	}
	return count, err
}

func refreshEstimates(ctx context.Context, st core.Store) (int, error) {
	latest, err := st.LatestMetricsAll(ctx)
	if err != nil {
		return 0, err
	}
	intensityByRegion := make(map[string]float64, len(latest))
	for _, m := range latest {
		intensityByRegion[m.RegionID] = m.CarbonIntensityKgPerMWh
	}

	dcs, err := st.ListDataCenters(ctx, core.DataCenterFilter{})
	if err != nil {
		return 0, err
	}

	ts := time.Now().UTC().Truncate(time.Hour)
	count := 0
	for _, dc := range dcs {
		intensity, ok := intensityByRegion[dc.RegionID]
		if !ok {
			intensity = impact.FallbackCarbonIntensity
		}
		if err := st.UpsertEstimate(ctx, impact.Estimate(dc, intensity, ts)); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
