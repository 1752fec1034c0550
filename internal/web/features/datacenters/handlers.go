package datacenters

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gridhub-labs/gridhub/internal/impact"
	"github.com/gridhub-labs/gridhub/internal/web/features/common"
	"github.com/gridhub-labs/gridhub/pkg/core"
)

// Handlers provides HTTP handlers for the data centers feature.
type Handlers struct {
	store  core.Store
	logger *slog.Logger
	now    func() time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store core.Store, logger *slog.Logger) *Handlers {
	return &Handlers{store: store, logger: logger, now: time.Now}
}

// coordinates is the nested lat/lon pair used on the wire.
type coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// dataCenterView is the wire representation of a data center.
type dataCenterView struct {
	ID                    string      `json:"dc_id"`
	Name                  string      `json:"name"`
	Operator              string      `json:"operator"`
	RegionID              string      `json:"region_id"`
	Coordinates           coordinates `json:"coordinates"`
	MaxCapacityMW         float64     `json:"max_capacity_mw"`
	AvgPUE                float64     `json:"avg_pue"`
	CoolingType           string      `json:"cooling_type,omitempty"`
	PrimaryGridConnection string      `json:"primary_grid_connection"`
	RenewablePPAMW        float64     `json:"renewable_ppa_mw"`
	CommissionedYear      int         `json:"commissioned_year,omitempty"`
	AIFocused             bool        `json:"is_ai_focused"`
}

type listResponse struct {
	TotalCount  int              `json:"total_count"`
	DataCenters []dataCenterView `json:"data_centers"`
}

type energyResponse struct {
	DataCenter      dataCenterView        `json:"data_center"`
	CurrentEstimate core.EnergyEstimate   `json:"current_estimate"`
	Historical      []core.EnergyEstimate `json:"historical,omitempty"`
}

func toView(dc core.DataCenter) dataCenterView {
	return dataCenterView{
		ID:                    dc.ID,
		Name:                  dc.Name,
		Operator:              dc.Operator,
		RegionID:              dc.RegionID,
		Coordinates:           coordinates{Lat: dc.Latitude, Lon: dc.Longitude},
		MaxCapacityMW:         dc.MaxCapacityMW,
		AvgPUE:                dc.AvgPUE,
		CoolingType:           dc.CoolingType,
		PrimaryGridConnection: dc.PrimaryGridConnection,
		RenewablePPAMW:        dc.RenewablePPAMW,
		CommissionedYear:      dc.CommissionedYear,
		AIFocused:             dc.AIFocused,
	}
}

func (v dataCenterView) toDomain() core.DataCenter {
	return core.DataCenter{
		ID:                    v.ID,
		Name:                  v.Name,
		Operator:              v.Operator,
		RegionID:              v.RegionID,
		Latitude:              v.Coordinates.Lat,
		Longitude:             v.Coordinates.Lon,
		MaxCapacityMW:         v.MaxCapacityMW,
		AvgPUE:                v.AvgPUE,
		CoolingType:           v.CoolingType,
		PrimaryGridConnection: v.PrimaryGridConnection,
		RenewablePPAMW:        v.RenewablePPAMW,
		CommissionedYear:      v.CommissionedYear,
		AIFocused:             v.AIFocused,
	}
}

func toViews(dcs []core.DataCenter) []dataCenterView {
	out := make([]dataCenterView, 0, len(dcs))
	for _, dc := range dcs {
		out = append(out, toView(dc))
	}
	return out
}

// List returns data centers with optional filters and pagination.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	filter := core.DataCenterFilter{
		RegionID: r.URL.Query().Get("region_id"),
		Operator: r.URL.Query().Get("operator"),
		AIOnly:   r.URL.Query().Get("ai_only") == "true",
		Limit:    common.IntQuery(r, "limit", 100, 1, 500),
		Offset:   common.IntQuery(r, "offset", 0, 0, 1<<30),
	}

	total, err := h.store.CountDataCenters(r.Context(), filter)
	if err != nil {
		common.StoreError(w, err)
		return
	}

	dcs, err := h.store.ListDataCenters(r.Context(), filter)
	if err != nil {
		common.StoreError(w, err)
		return
	}

	common.JSON(w, http.StatusOK, listResponse{
		TotalCount:  total,
		DataCenters: toViews(dcs),
	})
}

// Get returns one data center by ID.
func (h *Handlers) Get(w http.ResponseWriter, r *http.Request) {
	dcID := chi.URLParam(r, "dcID")

	dc, err := h.store.GetDataCenter(r.Context(), dcID)
	if core.IsNotFound(err) {
		common.Error(w, http.StatusNotFound, fmt.Sprintf("Data center %s not found", dcID))
		return
	}
	if err != nil {
		common.StoreError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, toView(dc))
}

// Upsert creates or updates a data center record.
func (h *Handlers) Upsert(w http.ResponseWriter, r *http.Request) {
	var view dataCenterView
	if err := common.Decode(r, &view); err != nil {
		common.Error(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if view.ID == "" {
		common.Error(w, http.StatusBadRequest, "dc_id is required")
		return
	}

	if err := h.store.UpsertDataCenter(r.Context(), view.toDomain()); err != nil {
		common.StoreError(w, err)
		return
	}

	dc, err := h.store.GetDataCenter(r.Context(), view.ID)
	if err != nil {
		common.StoreError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, toView(dc))
}

// Energy returns stored energy estimates for a data center, or a
// synthesized estimate from nameplate capacity when none exist yet.
func (h *Handlers) Energy(w http.ResponseWriter, r *http.Request) {
	dcID := chi.URLParam(r, "dcID")
	hours := common.IntQuery(r, "hours", 24, 1, 168)

	dc, err := h.store.GetDataCenter(r.Context(), dcID)
	if core.IsNotFound(err) {
		common.Error(w, http.StatusNotFound, fmt.Sprintf("Data center %s not found", dcID))
		return
	}
	if err != nil {
		common.StoreError(w, err)
		return
	}

	now := h.now().UTC()
	estimates, err := h.store.EstimatesRange(r.Context(), dcID, now.Add(-time.Duration(hours)*time.Hour), now)
	if err != nil {
		common.StoreError(w, err)
		return
	}

	resp := energyResponse{DataCenter: toView(dc)}
	if len(estimates) == 0 {
		carbon := float64(impact.FallbackCarbonIntensity)
		if m, err := h.store.LatestMetrics(r.Context(), dc.RegionID); err == nil {
			carbon = m.CarbonIntensityKgPerMWh
		}
		resp.CurrentEstimate = impact.Estimate(dc, carbon, now)
	} else {
		resp.CurrentEstimate = estimates[0]
		resp.Historical = estimates[1:]
	}

	common.JSON(w, http.StatusOK, resp)
}

// ByRegion returns all data centers attached to a grid region.
func (h *Handlers) ByRegion(w http.ResponseWriter, r *http.Request) {
	regionID := chi.URLParam(r, "regionID")

	dcs, err := h.store.ListDataCenters(r.Context(), core.DataCenterFilter{RegionID: regionID})
	if err != nil {
		common.StoreError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, toViews(dcs))
}
