package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridhub-labs/gridhub/pkg/core"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedRegion(t *testing.T, s *SQLiteStore, id string) {
	t.Helper()
	err := s.UpsertRegion(context.Background(), core.GridRegion{
		ID:             id,
		Name:           id + " Region",
		Timezone:       "America/Chicago",
		CoverageStates: []string{"TX"},
		Type:           core.RegionTypeISO,
	})
	require.NoError(t, err)
}

func TestMigrationVersion(t *testing.T) {
	s := newTestStore(t)
	v, err := s.MigrationVersion()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, v, int64(1))
}

func TestRegionRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	region := core.GridRegion{
		ID:             "ERCOT",
		Name:           "Electric Reliability Council of Texas",
		Timezone:       "America/Chicago",
		Latitude:       31.0,
		Longitude:      -97.5,
		CoverageStates: []string{"TX"},
		Type:           core.RegionTypeISO,
	}
	require.NoError(t, s.UpsertRegion(ctx, region))

	got, err := s.GetRegion(ctx, "ERCOT")
	require.NoError(t, err)
	assert.Equal(t, region.Name, got.Name)
	assert.Equal(t, []string{"TX"}, got.CoverageStates)
	assert.Equal(t, core.RegionTypeISO, got.Type)

	// Upsert again with new metadata, same ID.
	region.Name = "ERCOT ISO"
	require.NoError(t, s.UpsertRegion(ctx, region))

	regions, err := s.ListRegions(ctx)
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, "ERCOT ISO", regions[0].Name)
}

func TestGetRegionNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetRegion(context.Background(), "NOPE")
	assert.True(t, core.IsNotFound(err))
}

func TestUpsertMetricsMergesPartialRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedRegion(t, s, "ERCOT")

	ts := time.Date(2026, 8, 25, 14, 0, 0, 0, time.UTC)

	// Demand feed lands first, no generation data.
	require.NoError(t, s.UpsertMetrics(ctx, core.GridMetrics{
		Timestamp: ts,
		RegionID:  "ERCOT",
		LoadMW:    52000,
		Source:    "eia",
	}))

	// Fuel mix feed lands later with zero load.
	require.NoError(t, s.UpsertMetrics(ctx, core.GridMetrics{
		Timestamp:               ts,
		RegionID:                "ERCOT",
		TotalGenerationMW:       54000,
		Generation:              core.GenerationMix{NaturalGasMW: 30000, WindMW: 24000},
		RenewableFractionPct:    44.4,
		CarbonIntensityKgPerMWh: 232.6,
		Source:                  "eia",
	}))

	got, err := s.LatestMetrics(ctx, "ERCOT")
	require.NoError(t, err)
	assert.InDelta(t, 52000, got.LoadMW, 0.001)
	assert.InDelta(t, 54000, got.TotalGenerationMW, 0.001)
	assert.InDelta(t, 30000, got.Generation.NaturalGasMW, 0.001)
	assert.InDelta(t, 44.4, got.RenewableFractionPct, 0.001)

	// A later zero-generation row must not wipe the stored mix.
	require.NoError(t, s.UpsertMetrics(ctx, core.GridMetrics{
		Timestamp:        ts,
		RegionID:         "ERCOT",
		NetInterchangeMW: -1200,
		Source:           "eia",
	}))

	got, err = s.LatestMetrics(ctx, "ERCOT")
	require.NoError(t, err)
	assert.InDelta(t, 52000, got.LoadMW, 0.001)
	assert.InDelta(t, 54000, got.TotalGenerationMW, 0.001)
	assert.InDelta(t, -1200, got.NetInterchangeMW, 0.001)
}

func TestMetricsRangeAndLatestAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedRegion(t, s, "ERCOT")
	seedRegion(t, s, "CAISO")

	base := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		require.NoError(t, s.UpsertMetrics(ctx, core.GridMetrics{
			Timestamp: base.Add(time.Duration(i) * time.Hour),
			RegionID:  "ERCOT",
			LoadMW:    50000 + float64(i)*100,
			Source:    "eia",
		}))
	}
	require.NoError(t, s.UpsertMetrics(ctx, core.GridMetrics{
		Timestamp: base,
		RegionID:  "CAISO",
		LoadMW:    28000,
		Source:    "eia",
	}))

	window, err := s.MetricsRange(ctx, "ERCOT", base.Add(1*time.Hour), base.Add(3*time.Hour))
	require.NoError(t, err)
	require.Len(t, window, 3)
	assert.True(t, window[0].Timestamp.Before(window[2].Timestamp))

	latest, err := s.LatestMetricsAll(ctx)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	byRegion := map[string]core.GridMetrics{}
	for _, m := range latest {
		byRegion[m.RegionID] = m
	}
	assert.InDelta(t, 50500, byRegion["ERCOT"].LoadMW, 0.001)
	assert.InDelta(t, 28000, byRegion["CAISO"].LoadMW, 0.001)
}

func TestDataCenterFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedRegion(t, s, "ERCOT")
	seedRegion(t, s, "PJM")

	dcs := []core.DataCenter{
		{ID: "dc-austin-01", Name: "Austin Campus", Operator: "Meta", RegionID: "ERCOT", MaxCapacityMW: 150, AIFocused: true},
		{ID: "dc-dallas-01", Name: "Dallas Hub", Operator: "Equinix", RegionID: "ERCOT", MaxCapacityMW: 40},
		{ID: "dc-ashburn-01", Name: "Ashburn Core", Operator: "AWS", RegionID: "PJM", MaxCapacityMW: 200, AIFocused: true},
	}
	for _, dc := range dcs {
		require.NoError(t, s.UpsertDataCenter(ctx, dc))
	}

	got, err := s.ListDataCenters(ctx, core.DataCenterFilter{RegionID: "ERCOT"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.ListDataCenters(ctx, core.DataCenterFilter{AIOnly: true})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.ListDataCenters(ctx, core.DataCenterFilter{Operator: "meta"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "dc-austin-01", got[0].ID)

	got, err = s.ListDataCenters(ctx, core.DataCenterFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "dc-dallas-01", got[0].ID)

	n, err := s.CountDataCenters(ctx, core.DataCenterFilter{RegionID: "ERCOT", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Unset PUE defaults to 1.5 on the way in.
	dc, err := s.GetDataCenter(ctx, "dc-dallas-01")
	require.NoError(t, err)
	assert.InDelta(t, core.DefaultPUE, dc.AvgPUE, 0.001)
}

func TestEstimateRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedRegion(t, s, "ERCOT")
	require.NoError(t, s.UpsertDataCenter(ctx, core.DataCenter{
		ID: "dc-austin-01", Name: "Austin Campus", RegionID: "ERCOT", MaxCapacityMW: 150,
	}))

	ts := time.Date(2026, 8, 25, 14, 0, 0, 0, time.UTC)
	e := core.EnergyEstimate{
		Timestamp:     ts,
		DataCenterID:  "dc-austin-01",
		LoadMW:        90,
		ITLoadMW:      60,
		CoolingLoadMW: 30,
		PUE:           1.5,
		Method:        "capacity_utilization",
	}
	require.NoError(t, s.UpsertEstimate(ctx, e))

	// Replacement on the same key.
	e.LoadMW = 95
	require.NoError(t, s.UpsertEstimate(ctx, e))

	got, err := s.LatestEstimate(ctx, "dc-austin-01")
	require.NoError(t, err)
	assert.InDelta(t, 95, got.LoadMW, 0.001)
	assert.Equal(t, "capacity_utilization", got.Method)

	_, err = s.LatestEstimate(ctx, "dc-missing")
	assert.True(t, core.IsNotFound(err))

	e.Timestamp = ts.Add(-2 * time.Hour)
	e.LoadMW = 80
	require.NoError(t, s.UpsertEstimate(ctx, e))

	window, err := s.EstimatesRange(ctx, "dc-austin-01", ts.Add(-time.Hour), ts)
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.InDelta(t, 95, window[0].LoadMW, 0.001)

	window, err = s.EstimatesRange(ctx, "dc-austin-01", ts.Add(-3*time.Hour), ts)
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.True(t, window[0].Timestamp.After(window[1].Timestamp))
}

func TestIngestionLogLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	started := time.Date(2026, 8, 25, 2, 0, 0, 0, time.UTC)
	l := core.IngestionLog{
		ID:        "job-1",
		Source:    "eia",
		JobType:   "demand",
		StartedAt: started,
		Status:    core.IngestionRunning,
	}
	require.NoError(t, s.RecordIngestion(ctx, l))

	done := started.Add(30 * time.Second)
	l.CompletedAt = &done
	l.Status = core.IngestionSuccess
	l.RecordsProcessed = 168
	require.NoError(t, s.RecordIngestion(ctx, l))

	logs, err := s.RecentIngestions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, core.IngestionSuccess, logs[0].Status)
	assert.Equal(t, 168, logs[0].RecordsProcessed)
	require.NotNil(t, logs[0].CompletedAt)
}
