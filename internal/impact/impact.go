// Package impact derives AI-compute KPIs and data center energy
// estimates from grid metrics and facility metadata.
package impact

import (
	"math"
	"time"

	"github.com/gridhub-labs/gridhub/pkg/core"
)

// Modeling assumptions. Facility telemetry is not public, so load is
// estimated from nameplate capacity.
const (
	// Utilization is the assumed share of nameplate capacity drawn by a
	// typical facility.
	Utilization = 0.6
	// GPUUtilization is the proxy used for dense AI compute corridors.
	GPUUtilization = 0.65
	// FlexShare is the share of AI load assumed shiftable in time.
	FlexShare = 0.15
	// ReserveMW is the headroom added to generation when computing the
	// stress indicator.
	ReserveMW = 5000
	// FallbackCarbonIntensity is used when a region has no metrics yet.
	FallbackCarbonIntensity = 400
)

// WeightedPUE returns the capacity-weighted average PUE of the given
// data centers, or the default PUE when total capacity is zero.
func WeightedPUE(dcs []core.DataCenter) float64 {
	var capacity, weighted float64
	for _, dc := range dcs {
		capacity += dc.MaxCapacityMW
		weighted += dc.AvgPUE * dc.MaxCapacityMW
	}
	if capacity <= 0 {
		return core.DefaultPUE
	}
	return weighted / capacity
}

// Estimate produces an energy estimate for one data center assuming
// steady-state utilization of its nameplate capacity.
func Estimate(dc core.DataCenter, carbonIntensity float64, ts time.Time) core.EnergyEstimate {
	pue := dc.AvgPUE
	if pue <= 0 {
		pue = core.DefaultPUE
	}

	load := dc.MaxCapacityMW * Utilization
	itLoad := load / pue

	var renewablePct float64
	if load > 0 {
		renewablePct = math.Min(100, dc.RenewablePPAMW/load*100)
	}

	return core.EnergyEstimate{
		Timestamp:               ts,
		DataCenterID:            dc.ID,
		LoadMW:                  load,
		ITLoadMW:                itLoad,
		CoolingLoadMW:           load - itLoad,
		PUE:                     pue,
		RenewableUsagePct:       renewablePct,
		CarbonIntensityKgPerMWh: carbonIntensity,
		Method:                  "capacity_utilization",
	}
}

// Compute aggregates AI-compute KPIs for a region from its latest grid
// metrics and its AI-focused data centers.
func Compute(grid core.GridMetrics, aiDCs []core.DataCenter, ts time.Time) core.AIImpact {
	var totalCapacity, totalPPA float64
	for _, dc := range aiDCs {
		totalCapacity += dc.MaxCapacityMW
		totalPPA += dc.RenewablePPAMW
	}
	avgPUE := WeightedPUE(aiDCs)

	aiLoad := totalCapacity * Utilization
	itLoad := aiLoad / avgPUE
	cooling := aiLoad - itLoad

	var renewableCoverage float64
	if aiLoad > 0 {
		renewableCoverage = math.Min(100, totalPPA/aiLoad*100)
	}

	var aiShare float64
	if grid.LoadMW > 0 {
		aiShare = aiLoad / grid.LoadMW * 100
	}

	stress := 0.5
	if grid.TotalGenerationMW > 0 {
		stress = math.Min(1.0, (grid.LoadMW+aiLoad)/(grid.TotalGenerationMW+ReserveMW))
	}

	return core.AIImpact{
		Timestamp:                 ts,
		RegionID:                  grid.RegionID,
		AIShareOfLoadPct:          aiShare,
		RenewableCoverageForAIPct: renewableCoverage,
		AvgCarbonIntensity:        grid.CarbonIntensityKgPerMWh,
		PeakAILoadMW:              aiLoad,
		LoadFlexPotentialMW:       aiLoad * FlexShare,
		EffectivePUE:              avgPUE,
		TotalCoolingOverheadMW:    cooling,
		GridMarginMW:              grid.TotalGenerationMW - grid.LoadMW,
		GridStressIndicator:       stress,
	}
}

// Corridor aggregates the AI compute corridor for a region using the
// GPU utilization proxy.
func Corridor(regionID string, aiDCs []core.DataCenter, ts time.Time) core.CorridorMetrics {
	var totalCapacity float64
	for _, dc := range aiDCs {
		totalCapacity += dc.MaxCapacityMW
	}
	avgPUE := WeightedPUE(aiDCs)

	load := totalCapacity * GPUUtilization
	cooling := load * (1 - 1/avgPUE)

	return core.CorridorMetrics{
		Timestamp:           ts,
		RegionID:            regionID,
		AIDataCenterCount:   len(aiDCs),
		TotalAILoadMW:       load,
		TotalAICoolingMW:    cooling,
		AvgPUE:              avgPUE,
		GPUUtilizationProxy: GPUUtilization,
	}
}
