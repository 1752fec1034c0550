package aiimpact

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gridhub-labs/gridhub/internal/impact"
	"github.com/gridhub-labs/gridhub/internal/web/features/common"
	"github.com/gridhub-labs/gridhub/pkg/core"
)

// Handlers provides HTTP handlers for the AI impact feature.
type Handlers struct {
	store  core.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store core.Store, logger *slog.Logger) *Handlers {
	return &Handlers{store: store, logger: logger, now: time.Now}
}

// regionSummary is one row of the all-regions summary.
type regionSummary struct {
	RegionID             string   `json:"region_id"`
	RegionName           string   `json:"region_name"`
	AIDataCenters        int      `json:"ai_data_centers"`
	TotalAICapacityMW    float64  `json:"total_ai_capacity_mw"`
	CurrentLoadMW        *float64 `json:"current_load_mw"`
	CarbonIntensity      *float64 `json:"carbon_intensity"`
	RenewableFractionPct *float64 `json:"renewable_fraction_pct"`
}

// Impact returns the current AI impact KPIs for a region.
func (h *Handlers) Impact(w http.ResponseWriter, r *http.Request) {
	regionID := chi.URLParam(r, "regionID")

	if _, err := h.store.GetRegion(r.Context(), regionID); err != nil {
		common.StoreError(w, err)
		return
	}

	grid, err := h.store.LatestMetrics(r.Context(), regionID)
	if core.IsNotFound(err) {
		common.Error(w, http.StatusNotFound, fmt.Sprintf("No grid metrics available for region %s", regionID))
		return
	}
	if err != nil {
		common.StoreError(w, err)
		return
	}

	aiDCs, err := h.store.ListDataCenters(r.Context(), core.DataCenterFilter{RegionID: regionID, AIOnly: true})
	if err != nil {
		common.StoreError(w, err)
		return
	}

	common.JSON(w, http.StatusOK, roundImpact(impact.Compute(grid, aiDCs, h.now().UTC())))
}

// Corridor returns compute corridor metrics for the AI data centers in a
// region.
func (h *Handlers) Corridor(w http.ResponseWriter, r *http.Request) {
	regionID := chi.URLParam(r, "regionID")

	aiDCs, err := h.store.ListDataCenters(r.Context(), core.DataCenterFilter{RegionID: regionID, AIOnly: true})
	if err != nil {
		common.StoreError(w, err)
		return
	}
	if len(aiDCs) == 0 {
		common.Error(w, http.StatusNotFound, fmt.Sprintf("No AI data centers found in region %s", regionID))
		return
	}

	c := impact.Corridor(regionID, aiDCs, h.now().UTC())
	c.TotalAILoadMW = round1(c.TotalAILoadMW)
	c.TotalAICoolingMW = round1(c.TotalAICoolingMW)
	c.AvgPUE = round2(c.AvgPUE)
	common.JSON(w, http.StatusOK, c)
}

// History derives AI impact KPIs from each grid observation in the
// window, newest first. The facility fleet is assumed constant over the
// window, so the per-hour variation comes from the grid side.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	regionID := chi.URLParam(r, "regionID")
	hours := common.IntQuery(r, "hours", 24, 1, 168)

	now := h.now().UTC()
	rows, err := h.store.MetricsRange(r.Context(), regionID, now.Add(-time.Duration(hours)*time.Hour), now)
	if err != nil {
		common.StoreError(w, err)
		return
	}
	if len(rows) == 0 {
		common.JSON(w, http.StatusOK, []core.AIImpact{})
		return
	}

	aiDCs, err := h.store.ListDataCenters(r.Context(), core.DataCenterFilter{RegionID: regionID, AIOnly: true})
	if err != nil {
		common.StoreError(w, err)
		return
	}

	var totalCapacity, totalPPA float64
	for _, dc := range aiDCs {
		totalCapacity += dc.MaxCapacityMW
		totalPPA += dc.RenewablePPAMW
	}
	avgPUE := impact.WeightedPUE(aiDCs)
	aiLoad := totalCapacity * impact.Utilization
	cooling := aiLoad * (1 - 1/avgPUE)

	var renewableCoverage float64
	if aiLoad > 0 {
		renewableCoverage = math.Min(100, totalPPA/aiLoad*100)
	}

	out := make([]core.AIImpact, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		gm := rows[i]

		var aiShare float64
		if gm.LoadMW > 0 {
			aiShare = aiLoad / gm.LoadMW * 100
		}
		// Historical stress uses observed load only; the AI fleet is
		// already part of it.
		stress := 0.5
		if gm.TotalGenerationMW > 0 {
			stress = math.Min(1.0, gm.LoadMW/(gm.TotalGenerationMW+impact.ReserveMW))
		}

		out = append(out, roundImpact(core.AIImpact{
			Timestamp:                 gm.Timestamp,
			RegionID:                  regionID,
			AIShareOfLoadPct:          aiShare,
			RenewableCoverageForAIPct: renewableCoverage,
			AvgCarbonIntensity:        gm.CarbonIntensityKgPerMWh,
			PeakAILoadMW:              aiLoad,
			LoadFlexPotentialMW:       aiLoad * impact.FlexShare,
			EffectivePUE:              avgPUE,
			TotalCoolingOverheadMW:    cooling,
			GridMarginMW:              gm.TotalGenerationMW - gm.LoadMW,
			GridStressIndicator:       stress,
		}))
	}

	common.JSON(w, http.StatusOK, out)
}

// Summary returns a compact AI footprint summary across every region.
func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	regions, err := h.store.ListRegions(r.Context())
	if err != nil {
		common.StoreError(w, err)
		return
	}

	summaries := make([]regionSummary, 0, len(regions))
	for _, region := range regions {
		row := regionSummary{RegionID: region.ID, RegionName: region.Name}

		aiDCs, err := h.store.ListDataCenters(r.Context(), core.DataCenterFilter{RegionID: region.ID, AIOnly: true})
		if err != nil {
			common.StoreError(w, err)
			return
		}
		row.AIDataCenters = len(aiDCs)
		for _, dc := range aiDCs {
			row.TotalAICapacityMW += dc.MaxCapacityMW
		}
		row.TotalAICapacityMW = round1(row.TotalAICapacityMW)

		if m, err := h.store.LatestMetrics(r.Context(), region.ID); err == nil {
			load, carbon, renewable := m.LoadMW, m.CarbonIntensityKgPerMWh, m.RenewableFractionPct
			row.CurrentLoadMW = &load
			row.CarbonIntensity = &carbon
			row.RenewableFractionPct = &renewable
		} else if !core.IsNotFound(err) {
			common.StoreError(w, err)
			return
		}

		summaries = append(summaries, row)
	}

	common.JSON(w, http.StatusOK, map[string]any{
		"timestamp_utc": h.now().UTC(),
		"regions":       summaries,
	})
}

func roundImpact(a core.AIImpact) core.AIImpact {
	a.AIShareOfLoadPct = round2(a.AIShareOfLoadPct)
	a.RenewableCoverageForAIPct = round2(a.RenewableCoverageForAIPct)
	a.PeakAILoadMW = round1(a.PeakAILoadMW)
	a.LoadFlexPotentialMW = round1(a.LoadFlexPotentialMW)
	a.EffectivePUE = round2(a.EffectivePUE)
	a.TotalCoolingOverheadMW = round1(a.TotalCoolingOverheadMW)
	a.GridMarginMW = round1(a.GridMarginMW)
	a.GridStressIndicator = round3(a.GridStressIndicator)
	return a
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
