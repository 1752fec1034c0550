// Package mcptools exposes grid and data center queries as Model
// Context Protocol tools, both over stdio and through the REST bridge.
package mcptools

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/gridhub-labs/gridhub/internal/carbon"
	"github.com/gridhub-labs/gridhub/internal/impact"
	"github.com/gridhub-labs/gridhub/pkg/core"
)

// regionIDs are the region values accepted by the region-scoped tools.
var regionIDs = []string{"ERCOT", "CAISO", "PJM", "NYISO", "MISO", "SPP", "ISONE"}

// Service implements the tool semantics against the store. The MCP
// handlers and the REST bridge both dispatch through Call.
type Service struct {
	store  core.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewService(st core.Store, logger *slog.Logger) *Service {
	return &Service{store: st, logger: logger, now: time.Now}
}

// Call executes the named tool with the given arguments. Unknown tool
// names and missing data both surface as errors; the transports decide
// how to encode them.
func (s *Service) Call(ctx context.Context, name string, args map[string]any) (any, error) {
	switch name {
	case "get_grid_realtime":
		return s.gridRealtime(ctx, stringArg(args, "region_id"))
	case "get_grid_carbon":
		return s.gridCarbon(ctx, stringArg(args, "region_id"))
	case "get_grid_forecast":
		return s.gridForecast(ctx, stringArg(args, "region_id"), intArg(args, "horizon_hours", 48))
	case "list_grid_regions":
		return s.listRegions(ctx)
	case "get_data_centers":
		return s.dataCenters(ctx, core.DataCenterFilter{
			RegionID: stringArg(args, "region_id"),
			Operator: stringArg(args, "operator"),
			AIOnly:   boolArg(args, "ai_only"),
			Limit:    50,
		})
	case "get_data_center_energy":
		return s.dataCenterEnergy(ctx, stringArg(args, "dc_id"))
	case "get_ai_impact":
		return s.aiImpact(ctx, stringArg(args, "region_id"))
	case "get_best_region_for_compute":
		optimizeFor := stringArg(args, "optimize_for")
		if optimizeFor == "" {
			optimizeFor = "carbon"
		}
		return s.bestRegion(ctx, optimizeFor)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

type realtimeResult struct {
	RegionID                string             `json:"region_id"`
	Timestamp               time.Time          `json:"timestamp"`
	LoadMW                  float64            `json:"load_mw"`
	TotalGenerationMW       float64            `json:"total_generation_mw"`
	GenerationByFuel        core.GenerationMix `json:"generation_by_fuel"`
	RenewableFractionPct    float64            `json:"renewable_fraction_pct"`
	CarbonIntensityKgPerMWh float64            `json:"carbon_intensity_kg_per_mwh"`
	NetInterchangeMW        float64            `json:"net_interchange_mw"`
}

func (s *Service) gridRealtime(ctx context.Context, regionID string) (any, error) {
	m, err := s.store.LatestMetrics(ctx, regionID)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, fmt.Errorf("no data for region %s", regionID)
		}
		return nil, err
	}
	return realtimeResult{
		RegionID:                regionID,
		Timestamp:               m.Timestamp,
		LoadMW:                  m.LoadMW,
		TotalGenerationMW:       m.TotalGenerationMW,
		GenerationByFuel:        m.Generation,
		RenewableFractionPct:    m.RenewableFractionPct,
		CarbonIntensityKgPerMWh: m.CarbonIntensityKgPerMWh,
		NetInterchangeMW:        m.NetInterchangeMW,
	}, nil
}

type carbonResult struct {
	RegionID                string    `json:"region_id"`
	Timestamp               time.Time `json:"timestamp"`
	CarbonIntensityKgPerMWh float64   `json:"carbon_intensity_kg_per_mwh"`
	RenewableFractionPct    float64   `json:"renewable_fraction_pct"`
	Recommendation          string    `json:"recommendation"`
}

func (s *Service) gridCarbon(ctx context.Context, regionID string) (any, error) {
	m, err := s.store.LatestMetrics(ctx, regionID)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, fmt.Errorf("no data for region %s", regionID)
		}
		return nil, err
	}
	return carbonResult{
		RegionID:                regionID,
		Timestamp:               m.Timestamp,
		CarbonIntensityKgPerMWh: m.CarbonIntensityKgPerMWh,
		RenewableFractionPct:    m.RenewableFractionPct,
		Recommendation:          carbon.Recommendation(m.CarbonIntensityKgPerMWh),
	}, nil
}

type forecastResult struct {
	RegionID                   string  `json:"region_id"`
	ForecastHorizonHours       int     `json:"forecast_horizon_hours"`
	AvgForecastLoadMW          float64 `json:"avg_forecast_load_mw"`
	AvgForecastCarbonIntensity float64 `json:"avg_forecast_carbon_intensity"`
	Trend                      string  `json:"trend"`
	Confidence                 string  `json:"confidence"`
}

// gridForecast projects flat averages of the trailing 24 hours over the
// requested horizon.
func (s *Service) gridForecast(ctx context.Context, regionID string, horizonHours int) (any, error) {
	if horizonHours < 1 {
		horizonHours = 1
	}
	if horizonHours > 168 {
		horizonHours = 168
	}

	now := s.now().UTC()
	recent, err := s.store.MetricsRange(ctx, regionID, now.Add(-24*time.Hour), now)
	if err != nil {
		return nil, err
	}
	if len(recent) == 0 {
		return nil, fmt.Errorf("no data for region %s", regionID)
	}

	var sumLoad, sumCarbon float64
	for _, m := range recent {
		sumLoad += m.LoadMW
		sumCarbon += m.CarbonIntensityKgPerMWh
	}
	n := float64(len(recent))

	return forecastResult{
		RegionID:                   regionID,
		ForecastHorizonHours:       horizonHours,
		AvgForecastLoadMW:          round1(sumLoad / n),
		AvgForecastCarbonIntensity: round1(sumCarbon / n),
		Trend:                      "stable",
		Confidence:                 "medium",
	}, nil
}

type regionSummary struct {
	RegionID string   `json:"region_id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	States   []string `json:"states"`
}

func (s *Service) listRegions(ctx context.Context) (any, error) {
	regions, err := s.store.ListRegions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]regionSummary, 0, len(regions))
	for _, r := range regions {
		out = append(out, regionSummary{
			RegionID: r.ID,
			Name:     r.Name,
			Type:     string(r.Type),
			States:   r.CoverageStates,
		})
	}
	return map[string]any{"regions": out}, nil
}

type dataCenterSummary struct {
	ID            string  `json:"dc_id"`
	Name          string  `json:"name"`
	Operator      string  `json:"operator"`
	RegionID      string  `json:"region_id"`
	MaxCapacityMW float64 `json:"max_capacity_mw"`
	AvgPUE        float64 `json:"avg_pue"`
	AIFocused     bool    `json:"is_ai_focused"`
}

func (s *Service) dataCenters(ctx context.Context, f core.DataCenterFilter) (any, error) {
	dcs, err := s.store.ListDataCenters(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dataCenterSummary, 0, len(dcs))
	for _, dc := range dcs {
		out = append(out, dataCenterSummary{
			ID:            dc.ID,
			Name:          dc.Name,
			Operator:      dc.Operator,
			RegionID:      dc.RegionID,
			MaxCapacityMW: dc.MaxCapacityMW,
			AvgPUE:        dc.AvgPUE,
			AIFocused:     dc.AIFocused,
		})
	}
	return map[string]any{"count": len(out), "data_centers": out}, nil
}

type dataCenterEnergyResult struct {
	ID                         string  `json:"dc_id"`
	Name                       string  `json:"name"`
	EstimatedLoadMW            float64 `json:"estimated_load_mw"`
	EstimatedITLoadMW          float64 `json:"estimated_it_load_mw"`
	EstimatedCoolingLoadMW     float64 `json:"estimated_cooling_load_mw"`
	PUE                        float64 `json:"pue"`
	CarbonIntensityKgPerMWh    float64 `json:"carbon_intensity_kg_per_mwh"`
	EstimatedHourlyEmissionsKg float64 `json:"estimated_hourly_emissions_kg"`
}

func (s *Service) dataCenterEnergy(ctx context.Context, dcID string) (any, error) {
	dc, err := s.store.GetDataCenter(ctx, dcID)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, fmt.Errorf("data center %s not found", dcID)
		}
		return nil, err
	}

	intensity := float64(impact.FallbackCarbonIntensity)
	if m, err := s.store.LatestMetrics(ctx, dc.RegionID); err == nil {
		intensity = m.CarbonIntensityKgPerMWh
	}

	e := impact.Estimate(dc, intensity, s.now().UTC())
	return dataCenterEnergyResult{
		ID:                         dcID,
		Name:                       dc.Name,
		EstimatedLoadMW:            round1(e.LoadMW),
		EstimatedITLoadMW:          round1(e.ITLoadMW),
		EstimatedCoolingLoadMW:     round1(e.CoolingLoadMW),
		PUE:                        e.PUE,
		CarbonIntensityKgPerMWh:    intensity,
		EstimatedHourlyEmissionsKg: round0(carbon.EstimateEmissions(e.LoadMW, intensity, 1)),
	}, nil
}

type aiImpactResult struct {
	RegionID            string    `json:"region_id"`
	Timestamp           time.Time `json:"timestamp"`
	AIDataCenterCount   int       `json:"ai_data_centers_count"`
	TotalAICapacityMW   float64   `json:"total_ai_capacity_mw"`
	EstimatedAILoadMW   float64   `json:"estimated_ai_load_mw"`
	AIShareOfGridPct    float64   `json:"ai_share_of_grid_pct"`
	GridCarbonIntensity float64   `json:"grid_carbon_intensity"`
	GridRenewablePct    float64   `json:"grid_renewable_pct"`
}

func (s *Service) aiImpact(ctx context.Context, regionID string) (any, error) {
	grid, err := s.store.LatestMetrics(ctx, regionID)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, fmt.Errorf("no grid data for region %s", regionID)
		}
		return nil, err
	}

	aiDCs, err := s.store.ListDataCenters(ctx, core.DataCenterFilter{RegionID: regionID, AIOnly: true})
	if err != nil {
		return nil, err
	}

	var totalCapacity float64
	for _, dc := range aiDCs {
		totalCapacity += dc.MaxCapacityMW
	}
	aiLoad := totalCapacity * impact.Utilization

	var aiShare float64
	if grid.LoadMW > 0 {
		aiShare = aiLoad / grid.LoadMW * 100
	}

	return aiImpactResult{
		RegionID:            regionID,
		Timestamp:           s.now().UTC(),
		AIDataCenterCount:   len(aiDCs),
		TotalAICapacityMW:   round1(totalCapacity),
		EstimatedAILoadMW:   round1(aiLoad),
		AIShareOfGridPct:    round2(aiShare),
		GridCarbonIntensity: grid.CarbonIntensityKgPerMWh,
		GridRenewablePct:    grid.RenewableFractionPct,
	}, nil
}

type regionScore struct {
	RegionID        string  `json:"region_id"`
	RegionName      string  `json:"region_name"`
	CarbonIntensity float64 `json:"carbon_intensity"`
	RenewablePct    float64 `json:"renewable_pct"`
	Score           float64 `json:"score"`
}

type bestRegionResult struct {
	OptimizeFor    string        `json:"optimize_for"`
	Recommendation string        `json:"recommendation,omitempty"`
	Reason         string        `json:"reason"`
	Rankings       []regionScore `json:"rankings"`
}

// bestRegion ranks regions by the chosen criterion: lowest carbon
// intensity, lowest energy price (50 $/MWh assumed when unpriced), or
// highest generation margin.
func (s *Service) bestRegion(ctx context.Context, optimizeFor string) (any, error) {
	regions, err := s.store.ListRegions(ctx)
	if err != nil {
		return nil, err
	}

	var scores []regionScore
	for _, region := range regions {
		m, err := s.store.LatestMetrics(ctx, region.ID)
		if err != nil {
			if core.IsNotFound(err) {
				continue
			}
			return nil, err
		}

		var score float64
		switch optimizeFor {
		case "cost":
			price := 50.0
			if m.LMPEnergyPriceUSDPerMWh != nil {
				price = *m.LMPEnergyPriceUSDPerMWh
			}
			score = -price
		case "reliability":
			if m.TotalGenerationMW > 0 {
				score = (m.TotalGenerationMW - m.LoadMW) / m.TotalGenerationMW
			}
		default: // carbon
			score = -m.CarbonIntensityKgPerMWh
		}

		scores = append(scores, regionScore{
			RegionID:        region.ID,
			RegionName:      region.Name,
			CarbonIntensity: m.CarbonIntensityKgPerMWh,
			RenewablePct:    m.RenewableFractionPct,
			Score:           score,
		})
	}

	sort.Slice(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })

	result := bestRegionResult{
		OptimizeFor: optimizeFor,
		Reason:      "Best available option",
		Rankings:    scores,
	}
	if len(scores) > 5 {
		result.Rankings = scores[:5]
	}
	if len(scores) > 0 {
		result.Recommendation = scores[0].RegionID
		if optimizeFor == "carbon" {
			result.Reason = fmt.Sprintf("Lowest carbon intensity at %.0f kg CO2/MWh", scores[0].CarbonIntensity)
		}
	}
	return result, nil
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func boolArg(args map[string]any, key string) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return false
}

func intArg(args map[string]any, key string, def int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return def
	}
}

func round0(v float64) float64 { return float64(int64(v + 0.5)) }
func round1(v float64) float64 { return float64(int64(v*10+0.5)) / 10 }
func round2(v float64) float64 { return float64(int64(v*100+0.5)) / 100 }
