package core

import (
	"context"
	"time"
)

// Store is the persistence boundary for GridHub. The sqlite
// implementation lives in internal/store.
type Store interface {
	// Regions.
	UpsertRegion(ctx context.Context, r GridRegion) error
	GetRegion(ctx context.Context, id string) (GridRegion, error)
	ListRegions(ctx context.Context) ([]GridRegion, error)

	// Grid metrics. UpsertMetrics keeps previously stored non-zero load
	// and generation figures when the incoming row carries zeros, so
	// partial feeds from different collectors merge instead of clobber.
	UpsertMetrics(ctx context.Context, m GridMetrics) error
	LatestMetrics(ctx context.Context, regionID string) (GridMetrics, error)
	LatestMetricsAll(ctx context.Context) ([]GridMetrics, error)
	MetricsRange(ctx context.Context, regionID string, from, to time.Time) ([]GridMetrics, error)

	// Data centers.
	UpsertDataCenter(ctx context.Context, dc DataCenter) error
	GetDataCenter(ctx context.Context, id string) (DataCenter, error)
	ListDataCenters(ctx context.Context, f DataCenterFilter) ([]DataCenter, error)
	CountDataCenters(ctx context.Context, f DataCenterFilter) (int, error)

	// Energy estimates.
	UpsertEstimate(ctx context.Context, e EnergyEstimate) error
	LatestEstimate(ctx context.Context, dataCenterID string) (EnergyEstimate, error)
	EstimatesRange(ctx context.Context, dataCenterID string, from, to time.Time) ([]EnergyEstimate, error)

	// Ingestion logs.
	RecordIngestion(ctx context.Context, l IngestionLog) error
	RecentIngestions(ctx context.Context, limit int) ([]IngestionLog, error)

	Close() error
}
