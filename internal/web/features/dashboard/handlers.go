package dashboard

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/gridhub-labs/gridhub/internal/web/features/common"
	"github.com/gridhub-labs/gridhub/pkg/core"
)

// Handlers provides HTTP handlers for the dashboard feature.
type Handlers struct {
	store  core.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store core.Store, logger *slog.Logger) *Handlers {
	return &Handlers{store: store, logger: logger, now: time.Now}
}

// Dashboard renders load history and the current fuel mix for one region.
// Query params:
//   - region_id (optional; defaults to the first region)
//   - hours (optional; default 24, max 168)
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	regionID := r.URL.Query().Get("region_id")
	hours := common.IntQuery(r, "hours", 24, 1, 168)

	if regionID == "" {
		regions, err := h.store.ListRegions(r.Context())
		if err != nil {
			common.StoreError(w, err)
			return
		}
		if len(regions) == 0 {
			common.Error(w, http.StatusNotFound, "no regions available, run an ingestion first")
			return
		}
		regionID = regions[0].ID
	}

	region, err := h.store.GetRegion(r.Context(), regionID)
	if err != nil {
		common.StoreError(w, err)
		return
	}

	now := h.now().UTC()
	history, err := h.store.MetricsRange(r.Context(), regionID, now.Add(-time.Duration(hours)*time.Hour), now)
	if err != nil {
		common.StoreError(w, err)
		return
	}

	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("GridHub - %s", region.Name)
	page.AddCharts(h.loadChart(region, history))

	if latest, err := h.store.LatestMetrics(r.Context(), regionID); err == nil {
		page.AddCharts(h.fuelMixChart(region, latest))
	}

	if all, err := h.store.LatestMetricsAll(r.Context()); err == nil && len(all) > 0 {
		page.AddCharts(h.carbonRankingChart(all))
	}

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		common.Error(w, http.StatusInternalServerError, fmt.Sprintf("failed to render dashboard: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (h *Handlers) loadChart(region core.GridRegion, history []core.GridMetrics) *charts.Line {
	x := make([]string, 0, len(history))
	load := make([]opts.LineData, 0, len(history))
	gen := make([]opts.LineData, 0, len(history))
	carbon := make([]opts.LineData, 0, len(history))
	for _, m := range history {
		x = append(x, m.Timestamp.Format("01-02 15:04"))
		load = append(load, opts.LineData{Value: m.LoadMW})
		gen = append(gen, opts.LineData{Value: m.TotalGenerationMW})
		carbon = append(carbon, opts.LineData{Value: m.CarbonIntensityKgPerMWh})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s load and generation", region.Name),
			Subtitle: fmt.Sprintf("region=%s points=%d", region.ID, len(history)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	line.SetXAxis(x).
		AddSeries("Load (MW)", load).
		AddSeries("Generation (MW)", gen).
		AddSeries("Carbon (kg/MWh)", carbon)
	return line
}

func (h *Handlers) fuelMixChart(region core.GridRegion, m core.GridMetrics) *charts.Pie {
	mix := m.Generation
	data := []opts.PieData{
		{Name: "Natural Gas", Value: mix.NaturalGasMW},
		{Name: "Coal", Value: mix.CoalMW},
		{Name: "Nuclear", Value: mix.NuclearMW},
		{Name: "Wind", Value: mix.WindMW},
		{Name: "Solar", Value: mix.SolarMW},
		{Name: "Hydro", Value: mix.HydroMW},
		{Name: "Other", Value: mix.OtherMW},
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "600px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s fuel mix", region.ID),
			Subtitle: m.Timestamp.Format(time.RFC3339),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	pie.AddSeries("fuel mix", data)
	return pie
}

func (h *Handlers) carbonRankingChart(all []core.GridMetrics) *charts.Bar {
	sort.Slice(all, func(i, j int) bool {
		return all[i].CarbonIntensityKgPerMWh < all[j].CarbonIntensityKgPerMWh
	})

	x := make([]string, 0, len(all))
	data := make([]opts.BarData, 0, len(all))
	for _, m := range all {
		x = append(x, m.RegionID)
		data = append(data, opts.BarData{Value: m.CarbonIntensityKgPerMWh})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "600px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "carbon intensity by region",
			Subtitle: "kg CO2 per MWh, cleanest first",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).AddSeries("kg CO2/MWh", data)
	return bar
}
