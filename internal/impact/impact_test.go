package impact

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/gridhub-labs/gridhub/pkg/core"
)

var testTime = time.Date(2026, 8, 25, 14, 0, 0, 0, time.UTC)

func TestWeightedPUE(t *testing.T) {
	dcs := []core.DataCenter{
		{MaxCapacityMW: 100, AvgPUE: 1.2},
		{MaxCapacityMW: 300, AvgPUE: 1.6},
	}
	assert.InDelta(t, 1.5, WeightedPUE(dcs), 0.001)
	assert.InDelta(t, core.DefaultPUE, WeightedPUE(nil), 0.001)
}

func TestEstimate(t *testing.T) {
	dc := core.DataCenter{
		ID:             "dc-austin-01",
		MaxCapacityMW:  150,
		AvgPUE:         1.5,
		RenewablePPAMW: 120,
	}
	e := Estimate(dc, 380, testTime)

	assert.InDelta(t, 90, e.LoadMW, 0.001)
	assert.InDelta(t, 60, e.ITLoadMW, 0.001)
	assert.InDelta(t, 30, e.CoolingLoadMW, 0.001)
	assert.InDelta(t, 380, e.CarbonIntensityKgPerMWh, 0.001)
	// 120 MW PPA covers more than the 90 MW load, capped at 100.
	assert.InDelta(t, 100, e.RenewableUsagePct, 0.001)
	assert.Equal(t, "capacity_utilization", e.Method)
}

func TestEstimateDefaultsPUE(t *testing.T) {
	e := Estimate(core.DataCenter{ID: "dc-x", MaxCapacityMW: 100}, 400, testTime)
	assert.InDelta(t, core.DefaultPUE, e.PUE, 0.001)
}

func TestCompute(t *testing.T) {
	grid := core.GridMetrics{
		RegionID:                "ERCOT",
		LoadMW:                  50000,
		TotalGenerationMW:       52000,
		CarbonIntensityKgPerMWh: 420,
	}
	dcs := []core.DataCenter{
		{MaxCapacityMW: 200, AvgPUE: 1.5, RenewablePPAMW: 30, AIFocused: true},
		{MaxCapacityMW: 300, AvgPUE: 1.5, RenewablePPAMW: 60, AIFocused: true},
	}

	got := Compute(grid, dcs, testTime)

	// 500 MW capacity at 60% utilization.
	assert.InDelta(t, 300, got.PeakAILoadMW, 0.001)
	assert.InDelta(t, 0.6, got.AIShareOfLoadPct, 0.001)
	assert.InDelta(t, 30, got.RenewableCoverageForAIPct, 0.001)
	assert.InDelta(t, 45, got.LoadFlexPotentialMW, 0.001)
	assert.InDelta(t, 100, got.TotalCoolingOverheadMW, 0.001)
	assert.InDelta(t, 2000, got.GridMarginMW, 0.001)
	assert.InDelta(t, (50000+300)/(52000+5000.0), got.GridStressIndicator, 0.0001)
	assert.InDelta(t, 420, got.AvgCarbonIntensity, 0.001)
}

func TestComputeNoGeneration(t *testing.T) {
	got := Compute(core.GridMetrics{RegionID: "NYISO"}, nil, testTime)
	assert.InDelta(t, 0.5, got.GridStressIndicator, 0.001)
	assert.Zero(t, got.AIShareOfLoadPct)
	assert.Zero(t, got.RenewableCoverageForAIPct)
}

func TestComputeStressCapped(t *testing.T) {
	grid := core.GridMetrics{RegionID: "ERCOT", LoadMW: 90000, TotalGenerationMW: 10000}
	got := Compute(grid, nil, testTime)
	assert.InDelta(t, 1.0, got.GridStressIndicator, 0.001)
}

func TestCorridor(t *testing.T) {
	dcs := []core.DataCenter{
		{MaxCapacityMW: 400, AvgPUE: 1.25, AIFocused: true},
	}
	got := Corridor("ERCOT", dcs, testTime)

	assert.Equal(t, 1, got.AIDataCenterCount)
	assert.InDelta(t, 260, got.TotalAILoadMW, 0.001)
	assert.InDelta(t, 260*(1-1/1.25), got.TotalAICoolingMW, 0.001)
	assert.InDelta(t, GPUUtilization, got.GPUUtilizationProxy, 0.001)
}
