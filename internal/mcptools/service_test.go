package mcptools

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridhub-labs/gridhub/internal/store"
	"github.com/gridhub-labs/gridhub/pkg/core"
)

var testTime = time.Date(2026, 8, 25, 14, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *store.SQLiteStore) {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	svc := NewService(s, slog.New(slog.NewTextHandler(&strings.Builder{}, nil)))
	svc.now = func() time.Time { return testTime }
	return svc, s
}

func seedFixtures(t *testing.T, s *store.SQLiteStore) {
	t.Helper()
	ctx := context.Background()

	regions := []core.GridRegion{
		{ID: "ERCOT", Name: "Electric Reliability Council of Texas", Timezone: "US/Central", CoverageStates: []string{"TX"}, Type: core.RegionTypeISO},
		{ID: "CAISO", Name: "California ISO", Timezone: "US/Pacific", CoverageStates: []string{"CA"}, Type: core.RegionTypeISO},
	}
	for _, r := range regions {
		require.NoError(t, s.UpsertRegion(ctx, r))
	}

	lmp := 42.0
	metrics := []core.GridMetrics{
		{
			Timestamp: testTime, RegionID: "ERCOT",
			LoadMW: 52000, TotalGenerationMW: 54000,
			Generation:              core.GenerationMix{NaturalGasMW: 30000, WindMW: 24000},
			RenewableFractionPct:    44.4,
			CarbonIntensityKgPerMWh: 232.6,
			LMPEnergyPriceUSDPerMWh: &lmp,
			Source:                  "EIA",
		},
		{
			Timestamp: testTime, RegionID: "CAISO",
			LoadMW: 28000, TotalGenerationMW: 29000,
			Generation:              core.GenerationMix{SolarMW: 15000, NaturalGasMW: 14000},
			RenewableFractionPct:    51.7,
			CarbonIntensityKgPerMWh: 221.2,
			Source:                  "EIA",
		},
	}
	for _, m := range metrics {
		require.NoError(t, s.UpsertMetrics(ctx, m))
	}

	require.NoError(t, s.UpsertDataCenter(ctx, core.DataCenter{
		ID: "dc-austin-01", Name: "Austin Campus", Operator: "Meta",
		RegionID: "ERCOT", MaxCapacityMW: 150, AvgPUE: 1.5,
		RenewablePPAMW: 60, AIFocused: true,
	}))
}

func TestCallGridRealtime(t *testing.T) {
	svc, s := newTestService(t)
	seedFixtures(t, s)

	out, err := svc.Call(context.Background(), "get_grid_realtime", map[string]any{"region_id": "ERCOT"})
	require.NoError(t, err)

	result := out.(realtimeResult)
	assert.Equal(t, "ERCOT", result.RegionID)
	assert.InDelta(t, 52000, result.LoadMW, 0.001)
	assert.InDelta(t, 24000, result.GenerationByFuel.WindMW, 0.001)
	assert.InDelta(t, 232.6, result.CarbonIntensityKgPerMWh, 0.001)
}

func TestCallGridRealtimeNoData(t *testing.T) {
	svc, s := newTestService(t)
	seedFixtures(t, s)

	_, err := svc.Call(context.Background(), "get_grid_realtime", map[string]any{"region_id": "PJM"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data for region PJM")
}

func TestCallGridCarbon(t *testing.T) {
	svc, s := newTestService(t)
	seedFixtures(t, s)

	out, err := svc.Call(context.Background(), "get_grid_carbon", map[string]any{"region_id": "ERCOT"})
	require.NoError(t, err)

	result := out.(carbonResult)
	assert.InDelta(t, 232.6, result.CarbonIntensityKgPerMWh, 0.001)
	assert.Contains(t, result.Recommendation, "Good")
}

func TestCallGridForecast(t *testing.T) {
	svc, s := newTestService(t)
	seedFixtures(t, s)

	out, err := svc.Call(context.Background(), "get_grid_forecast", map[string]any{
		"region_id": "ERCOT", "horizon_hours": float64(24),
	})
	require.NoError(t, err)

	result := out.(forecastResult)
	assert.Equal(t, 24, result.ForecastHorizonHours)
	assert.InDelta(t, 52000, result.AvgForecastLoadMW, 0.1)
	assert.Equal(t, "stable", result.Trend)
}

func TestCallGridForecastClampsHorizon(t *testing.T) {
	svc, s := newTestService(t)
	seedFixtures(t, s)

	out, err := svc.Call(context.Background(), "get_grid_forecast", map[string]any{
		"region_id": "ERCOT", "horizon_hours": float64(999),
	})
	require.NoError(t, err)
	assert.Equal(t, 168, out.(forecastResult).ForecastHorizonHours)
}

func TestCallListRegions(t *testing.T) {
	svc, s := newTestService(t)
	seedFixtures(t, s)

	out, err := svc.Call(context.Background(), "list_grid_regions", nil)
	require.NoError(t, err)

	regions := out.(map[string]any)["regions"].([]regionSummary)
	require.Len(t, regions, 2)
	assert.Equal(t, "CAISO", regions[0].RegionID)
}

func TestCallDataCenters(t *testing.T) {
	svc, s := newTestService(t)
	seedFixtures(t, s)

	out, err := svc.Call(context.Background(), "get_data_centers", map[string]any{
		"region_id": "ERCOT", "ai_only": true,
	})
	require.NoError(t, err)

	result := out.(map[string]any)
	assert.Equal(t, 1, result["count"])
}

func TestCallDataCenterEnergy(t *testing.T) {
	svc, s := newTestService(t)
	seedFixtures(t, s)

	out, err := svc.Call(context.Background(), "get_data_center_energy", map[string]any{"dc_id": "dc-austin-01"})
	require.NoError(t, err)

	result := out.(dataCenterEnergyResult)
	assert.InDelta(t, 90, result.EstimatedLoadMW, 0.001)
	assert.InDelta(t, 60, result.EstimatedITLoadMW, 0.001)
	assert.InDelta(t, 30, result.EstimatedCoolingLoadMW, 0.001)
	assert.InDelta(t, 232.6, result.CarbonIntensityKgPerMWh, 0.001)
}

func TestCallAIImpact(t *testing.T) {
	svc, s := newTestService(t)
	seedFixtures(t, s)

	out, err := svc.Call(context.Background(), "get_ai_impact", map[string]any{"region_id": "ERCOT"})
	require.NoError(t, err)

	result := out.(aiImpactResult)
	assert.Equal(t, 1, result.AIDataCenterCount)
	assert.InDelta(t, 150, result.TotalAICapacityMW, 0.001)
	assert.InDelta(t, 90, result.EstimatedAILoadMW, 0.001)
	assert.InDelta(t, 0.17, result.AIShareOfGridPct, 0.01)
}

func TestCallBestRegion(t *testing.T) {
	svc, s := newTestService(t)
	seedFixtures(t, s)

	out, err := svc.Call(context.Background(), "get_best_region_for_compute", nil)
	require.NoError(t, err)

	result := out.(bestRegionResult)
	assert.Equal(t, "carbon", result.OptimizeFor)
	assert.Equal(t, "CAISO", result.Recommendation)
	assert.Contains(t, result.Reason, "Lowest carbon intensity")
	require.Len(t, result.Rankings, 2)
	assert.Equal(t, "CAISO", result.Rankings[0].RegionID)

	out, err = svc.Call(context.Background(), "get_best_region_for_compute", map[string]any{"optimize_for": "cost"})
	require.NoError(t, err)
	// ERCOT has an LMP of 42, CAISO falls back to 50: cheaper wins.
	assert.Equal(t, "ERCOT", out.(bestRegionResult).Recommendation)
}

func TestCallUnknownTool(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Call(context.Background(), "bogus", nil)
	assert.ErrorContains(t, err, "unknown tool")
}

func TestToolDefs(t *testing.T) {
	svc, _ := newTestService(t)
	defs := svc.ToolDefs()
	require.Len(t, defs, 8)

	names := make(map[string]bool, len(defs))
	for _, d := range defs {
		names[d.Name] = true
	}
	for _, want := range []string{
		"get_grid_realtime", "get_grid_carbon", "get_grid_forecast",
		"list_grid_regions", "get_data_centers", "get_data_center_energy",
		"get_ai_impact", "get_best_region_for_compute",
	} {
		assert.True(t, names[want], want)
	}
}

func TestHandlerEncodesResult(t *testing.T) {
	svc, s := newTestService(t)
	seedFixtures(t, s)

	req := mcp.CallToolRequest{}
	req.Params.Name = "get_grid_carbon"
	req.Params.Arguments = map[string]any{"region_id": "ERCOT"}

	res, err := svc.handler("get_grid_carbon")(context.Background(), req)
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := res.Content[0].(mcp.TextContent).Text
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &decoded))
	assert.Equal(t, "ERCOT", decoded["region_id"])
}

func TestHandlerToolError(t *testing.T) {
	svc, s := newTestService(t)
	seedFixtures(t, s)

	req := mcp.CallToolRequest{}
	req.Params.Name = "get_grid_realtime"
	req.Params.Arguments = map[string]any{"region_id": "PJM"}

	res, err := svc.handler("get_grid_realtime")(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestInfo(t *testing.T) {
	info := Info()
	assert.Equal(t, "gridhub", info.Name)
	assert.Equal(t, "2024-11-05", info.ProtocolVersion)
	assert.False(t, info.Capabilities.Tools.ListChanged)
}

func TestNewMCPServer(t *testing.T) {
	svc, _ := newTestService(t)
	assert.NotNil(t, svc.NewMCPServer())
}
