package core

import "time"

// RegionType classifies a grid region.
type RegionType string

const (
	RegionTypeISO   RegionType = "ISO"
	RegionTypeBA    RegionType = "BA"
	RegionTypeState RegionType = "STATE"
)

// GridRegion is a balancing authority, ISO/RTO, or state-level grid region.
type GridRegion struct {
	ID             string     `json:"region_id"`
	Name           string     `json:"region_name"`
	Timezone       string     `json:"timezone"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	CoverageStates []string   `json:"coverage_states"`
	Type           RegionType `json:"region_type"`
	CreatedAt      time.Time  `json:"-"`
	UpdatedAt      time.Time  `json:"-"`
}

// GenerationMix breaks total generation down by fuel type, in megawatts.
type GenerationMix struct {
	NaturalGasMW float64 `json:"natural_gas_mw"`
	CoalMW       float64 `json:"coal_mw"`
	NuclearMW    float64 `json:"nuclear_mw"`
	WindMW       float64 `json:"wind_mw"`
	SolarMW      float64 `json:"solar_mw"`
	HydroMW      float64 `json:"hydro_mw"`
	OtherMW      float64 `json:"other_mw"`
}

// TotalMW returns the sum of generation across all fuel types.
func (g GenerationMix) TotalMW() float64 {
	return g.NaturalGasMW + g.CoalMW + g.NuclearMW + g.WindMW + g.SolarMW + g.HydroMW + g.OtherMW
}

// RenewableMW returns generation from wind, solar, and hydro.
func (g GenerationMix) RenewableMW() float64 {
	return g.WindMW + g.SolarMW + g.HydroMW
}

// GridMetrics is one hourly observation of grid state for a region.
// (RegionID, Timestamp) is unique.
type GridMetrics struct {
	Timestamp               time.Time     `json:"timestamp_utc"`
	RegionID                string        `json:"region_id"`
	LoadMW                  float64       `json:"load_mw"`
	ForecastLoadMW          *float64      `json:"forecast_load_mw,omitempty"`
	TotalGenerationMW       float64       `json:"total_generation_mw"`
	Generation              GenerationMix `json:"generation_by_fuel"`
	NetInterchangeMW        float64       `json:"net_interchange_mw"`
	RenewableFractionPct    float64       `json:"renewable_fraction_pct"`
	CarbonIntensityKgPerMWh float64       `json:"carbon_intensity_kg_per_mwh"`
	LMPEnergyPriceUSDPerMWh *float64      `json:"lmp_energy_price_usd_mwh,omitempty"`
	Source                  string        `json:"source,omitempty"`
}

// DataCenter is a physical data center facility attached to a grid region.
type DataCenter struct {
	ID                    string    `json:"dc_id"`
	Name                  string    `json:"name"`
	Operator              string    `json:"operator"`
	RegionID              string    `json:"region_id"`
	Latitude              float64   `json:"latitude"`
	Longitude             float64   `json:"longitude"`
	MaxCapacityMW         float64   `json:"max_capacity_mw"`
	AvgPUE                float64   `json:"avg_pue"`
	CoolingType           string    `json:"cooling_type,omitempty"`
	PrimaryGridConnection string    `json:"primary_grid_connection"`
	RenewablePPAMW        float64   `json:"renewable_ppa_mw"`
	CommissionedYear      int       `json:"commissioned_year,omitempty"`
	AIFocused             bool      `json:"is_ai_focused"`
	CreatedAt             time.Time `json:"-"`
	UpdatedAt             time.Time `json:"-"`
}

// DefaultPUE is assumed for facilities that do not report one.
const DefaultPUE = 1.5

// EnergyEstimate is a point-in-time energy consumption estimate for a
// data center. (DataCenterID, Timestamp) is unique.
type EnergyEstimate struct {
	Timestamp               time.Time `json:"timestamp_utc"`
	DataCenterID            string    `json:"dc_id"`
	LoadMW                  float64   `json:"estimated_load_mw"`
	ITLoadMW                float64   `json:"estimated_it_load_mw"`
	CoolingLoadMW           float64   `json:"estimated_cooling_load_mw"`
	PUE                     float64   `json:"pue"`
	RenewableUsagePct       float64   `json:"renewable_usage_pct"`
	CarbonIntensityKgPerMWh float64   `json:"carbon_intensity_kg_per_mwh"`
	Method                  string    `json:"estimation_method,omitempty"`
}

// IngestionStatus is the lifecycle state of an ingestion job.
type IngestionStatus string

const (
	IngestionRunning IngestionStatus = "running"
	IngestionSuccess IngestionStatus = "success"
	IngestionFailed  IngestionStatus = "failed"
)

// IngestionLog records one execution of a data collector.
type IngestionLog struct {
	ID               string          `json:"job_id"`
	Source           string          `json:"source"`
	JobType          string          `json:"job_type"`
	StartedAt        time.Time       `json:"started_at"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	Status           IngestionStatus `json:"status"`
	RecordsProcessed int             `json:"records_processed"`
	Error            string          `json:"error,omitempty"`
}

// AIImpact aggregates AI-compute KPIs against a region's grid state.
type AIImpact struct {
	Timestamp                 time.Time `json:"timestamp_utc"`
	RegionID                  string    `json:"region_id"`
	AIShareOfLoadPct          float64   `json:"ai_share_of_load_pct"`
	RenewableCoverageForAIPct float64   `json:"renewable_coverage_for_ai_pct"`
	AvgCarbonIntensity        float64   `json:"avg_carbon_intensity_kg_per_mwh"`
	PeakAILoadMW              float64   `json:"peak_ai_load_mw"`
	LoadFlexPotentialMW       float64   `json:"load_flex_potential_mw"`
	EffectivePUE              float64   `json:"effective_pue"`
	TotalCoolingOverheadMW    float64   `json:"total_cooling_overhead_mw"`
	GridMarginMW              float64   `json:"grid_margin_mw"`
	GridStressIndicator       float64   `json:"grid_stress_indicator"`
}

// CorridorMetrics aggregates the AI compute corridor for a region.
type CorridorMetrics struct {
	Timestamp           time.Time `json:"timestamp_utc"`
	RegionID            string    `json:"region_id"`
	AIDataCenterCount   int       `json:"ai_data_centers_count"`
	TotalAILoadMW       float64   `json:"total_ai_load_mw"`
	TotalAICoolingMW    float64   `json:"total_ai_cooling_mw"`
	AvgPUE              float64   `json:"avg_pue_ai"`
	GPUUtilizationProxy float64   `json:"gpu_utilization_proxy"`
}

// DataCenterFilter narrows ListDataCenters results. Zero values mean
// "no constraint"; Operator matches as a case-insensitive substring.
type DataCenterFilter struct {
	RegionID string
	Operator string
	AIOnly   bool
	Limit    int
	Offset   int
}
