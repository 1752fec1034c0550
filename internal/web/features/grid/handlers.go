package grid

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gridhub-labs/gridhub/internal/web/features/common"
	"github.com/gridhub-labs/gridhub/pkg/core"
)

// Handlers provides HTTP handlers for the grid feature.
type Handlers struct {
	store  core.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store core.Store, logger *slog.Logger) *Handlers {
	return &Handlers{store: store, logger: logger, now: time.Now}
}

// realtimeResponse pairs a region with its most recent metrics.
type realtimeResponse struct {
	Region  core.GridRegion  `json:"region"`
	Metrics core.GridMetrics `json:"metrics"`
}

// forecastPoint is one hour of the load and carbon forecast.
type forecastPoint struct {
	Timestamp               time.Time `json:"timestamp"`
	ForecastLoadMW          float64   `json:"forecast_load_mw"`
	ForecastCarbonIntensity float64   `json:"forecast_carbon_intensity"`
	ForecastLMPPrice        float64   `json:"forecast_lmp_price"`
}

// forecastResponse is the full forecast for a region.
type forecastResponse struct {
	Timestamp            time.Time       `json:"timestamp_utc"`
	RegionID             string          `json:"region_id"`
	ForecastHorizonHours int             `json:"forecast_horizon_hours"`
	Forecasts            []forecastPoint `json:"forecasts"`
}

// ListRegions returns all known grid regions.
func (h *Handlers) ListRegions(w http.ResponseWriter, r *http.Request) {
	regions, err := h.store.ListRegions(r.Context())
	if err != nil {
		common.StoreError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, regions)
}

// Realtime returns the most recent metrics for a region.
func (h *Handlers) Realtime(w http.ResponseWriter, r *http.Request) {
	regionID := chi.URLParam(r, "regionID")

	region, err := h.store.GetRegion(r.Context(), regionID)
	if err != nil {
		common.StoreError(w, err)
		return
	}

	metrics, err := h.store.LatestMetrics(r.Context(), regionID)
	if core.IsNotFound(err) {
		common.Error(w, http.StatusNotFound, fmt.Sprintf("No metrics available for region %s", regionID))
		return
	}
	if err != nil {
		common.StoreError(w, err)
		return
	}

	common.JSON(w, http.StatusOK, realtimeResponse{Region: region, Metrics: metrics})
}

// History returns up to a week of hourly metrics, newest first.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	regionID := chi.URLParam(r, "regionID")
	hours := common.IntQuery(r, "hours", 24, 1, 168)

	if _, err := h.store.GetRegion(r.Context(), regionID); err != nil {
		common.StoreError(w, err)
		return
	}

	now := h.now().UTC()
	rows, err := h.store.MetricsRange(r.Context(), regionID, now.Add(-time.Duration(hours)*time.Hour), now)
	if err != nil {
		common.StoreError(w, err)
		return
	}

	// MetricsRange is oldest-first; history reads newest-first.
	out := make([]core.GridMetrics, len(rows))
	for i, m := range rows {
		out[len(rows)-1-i] = m
	}
	common.JSON(w, http.StatusOK, out)
}

// Forecast produces a persistence forecast from the last 24 hours of
// observations, shaped by a diurnal factor peaking at 2 PM.
func (h *Handlers) Forecast(w http.ResponseWriter, r *http.Request) {
	regionID := chi.URLParam(r, "regionID")
	horizon := common.IntQuery(r, "horizon_hours", 48, 1, 168)

	if _, err := h.store.GetRegion(r.Context(), regionID); err != nil {
		common.StoreError(w, err)
		return
	}

	now := h.now().UTC()
	recent, err := h.store.MetricsRange(r.Context(), regionID, now.Add(-24*time.Hour), now)
	if err != nil {
		common.StoreError(w, err)
		return
	}
	if len(recent) == 0 {
		common.Error(w, http.StatusNotFound, fmt.Sprintf("Insufficient data for forecast in region %s", regionID))
		return
	}

	var sumLoad, sumCarbon, sumPrice float64
	for _, m := range recent {
		sumLoad += m.LoadMW
		sumCarbon += m.CarbonIntensityKgPerMWh
		if m.LMPEnergyPriceUSDPerMWh != nil {
			sumPrice += *m.LMPEnergyPriceUSDPerMWh
		}
	}
	n := float64(len(recent))
	avgLoad, avgCarbon, avgPrice := sumLoad/n, sumCarbon/n, sumPrice/n

	base := now.Truncate(time.Hour)
	points := make([]forecastPoint, 0, horizon)
	for i := 1; i <= horizon; i++ {
		ts := base.Add(time.Duration(i) * time.Hour)
		factor := 1.0 + 0.1*(math.Abs(float64(ts.Hour())-14)/12)
		points = append(points, forecastPoint{
			Timestamp:               ts,
			ForecastLoadMW:          round1(avgLoad * factor),
			ForecastCarbonIntensity: round1(avgCarbon),
			ForecastLMPPrice:        round2(avgPrice * factor),
		})
	}

	common.JSON(w, http.StatusOK, forecastResponse{
		Timestamp:            now,
		RegionID:             regionID,
		ForecastHorizonHours: horizon,
		Forecasts:            points,
	})
}

// Carbon returns the current carbon intensity for a region, trimmed down
// for carbon-aware schedulers.
func (h *Handlers) Carbon(w http.ResponseWriter, r *http.Request) {
	regionID := chi.URLParam(r, "regionID")

	metrics, err := h.store.LatestMetrics(r.Context(), regionID)
	if core.IsNotFound(err) {
		common.Error(w, http.StatusNotFound, fmt.Sprintf("No data for region %s", regionID))
		return
	}
	if err != nil {
		common.StoreError(w, err)
		return
	}

	common.JSON(w, http.StatusOK, map[string]any{
		"region_id":                   regionID,
		"timestamp_utc":               metrics.Timestamp,
		"carbon_intensity_kg_per_mwh": metrics.CarbonIntensityKgPerMWh,
		"renewable_fraction_pct":      metrics.RenewableFractionPct,
	})
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
