package datacenters

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridhub-labs/gridhub/internal/store"
	"github.com/gridhub-labs/gridhub/pkg/core"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T) (chi.Router, *store.SQLiteStore) {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.UpsertRegion(context.Background(), core.GridRegion{
		ID: "ERCOT", Name: "ERCOT", Timezone: "America/Chicago", Type: core.RegionTypeISO,
	}))

	r := chi.NewRouter()
	SetupRoutes(r, s, testLogger())
	return r, s
}

func seedDC(t *testing.T, s *store.SQLiteStore, id, operator string, aiFocused bool) {
	t.Helper()
	require.NoError(t, s.UpsertDataCenter(context.Background(), core.DataCenter{
		ID: id, Name: id, Operator: operator, RegionID: "ERCOT",
		Latitude: 30.3, Longitude: -97.7,
		MaxCapacityMW: 150, AvgPUE: 1.4, RenewablePPAMW: 60,
		PrimaryGridConnection: "ERCOT", AIFocused: aiFocused,
	}))
}

func TestListWithFilters(t *testing.T) {
	r, s := newTestRouter(t)
	seedDC(t, s, "dc-austin-01", "Meta", true)
	seedDC(t, s, "dc-austin-02", "Google", false)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/data-centers?ai_only=true", nil))

	require.Equal(t, 200, rec.Code)
	var body listResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 1, body.TotalCount)
	require.Len(t, body.DataCenters, 1)
	assert.Equal(t, "dc-austin-01", body.DataCenters[0].ID)
	assert.InDelta(t, 30.3, body.DataCenters[0].Coordinates.Lat, 0.001)
}

func TestListPagination(t *testing.T) {
	r, s := newTestRouter(t)
	seedDC(t, s, "dc-a", "Meta", false)
	seedDC(t, s, "dc-b", "Meta", false)
	seedDC(t, s, "dc-c", "Meta", false)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/data-centers?limit=2&offset=2", nil))

	require.Equal(t, 200, rec.Code)
	var body listResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 3, body.TotalCount)
	assert.Len(t, body.DataCenters, 1)
}

func TestGet(t *testing.T) {
	r, s := newTestRouter(t)
	seedDC(t, s, "dc-austin-01", "Meta", true)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/data-centers/dc-austin-01", nil))
	require.Equal(t, 200, rec.Code)

	var view dataCenterView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, "Meta", view.Operator)
	assert.True(t, view.AIFocused)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/data-centers/dc-missing", nil))
	assert.Equal(t, 404, rec.Code)
}

func TestUpsert(t *testing.T) {
	r, _ := newTestRouter(t)

	payload := `{
		"dc_id": "dc-new-01",
		"name": "New Campus",
		"operator": "Oracle",
		"region_id": "ERCOT",
		"coordinates": {"lat": 32.8, "lon": -96.8},
		"max_capacity_mw": 90,
		"avg_pue": 1.3,
		"primary_grid_connection": "ERCOT",
		"renewable_ppa_mw": 20,
		"is_ai_focused": true
	}`

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/data-centers", strings.NewReader(payload)))
	require.Equal(t, 200, rec.Code)

	var view dataCenterView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	assert.Equal(t, "dc-new-01", view.ID)
	assert.InDelta(t, 32.8, view.Coordinates.Lat, 0.001)

	// Updating the same record keeps the endpoint idempotent.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/data-centers", strings.NewReader(payload)))
	assert.Equal(t, 200, rec.Code)
}

func TestUpsertValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/data-centers", strings.NewReader(`{"name":"anon"}`)))
	assert.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "dc_id is required")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/data-centers", strings.NewReader(`not json`)))
	assert.Equal(t, 400, rec.Code)
}

func TestEnergySynthesizedWhenEmpty(t *testing.T) {
	r, s := newTestRouter(t)
	seedDC(t, s, "dc-austin-01", "Meta", true)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/data-centers/dc-austin-01/energy", nil))

	require.Equal(t, 200, rec.Code)
	var body energyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	// 150 MW capacity at 60% utilization.
	assert.InDelta(t, 90, body.CurrentEstimate.LoadMW, 0.001)
	assert.InDelta(t, 400, body.CurrentEstimate.CarbonIntensityKgPerMWh, 0.001)
	assert.Empty(t, body.Historical)
}

func TestEnergyFromStoredEstimates(t *testing.T) {
	r, s := newTestRouter(t)
	seedDC(t, s, "dc-austin-01", "Meta", true)

	now := time.Now().UTC().Truncate(time.Hour)
	for i, load := range []float64{85, 90} {
		require.NoError(t, s.UpsertEstimate(context.Background(), core.EnergyEstimate{
			Timestamp:    now.Add(-time.Duration(1-i) * time.Hour),
			DataCenterID: "dc-austin-01",
			LoadMW:       load,
			PUE:          1.4,
		}))
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/data-centers/dc-austin-01/energy?hours=6", nil))

	require.Equal(t, 200, rec.Code)
	var body energyResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.InDelta(t, 90, body.CurrentEstimate.LoadMW, 0.001)
	require.Len(t, body.Historical, 1)
	assert.InDelta(t, 85, body.Historical[0].LoadMW, 0.001)
}

func TestByRegion(t *testing.T) {
	r, s := newTestRouter(t)
	seedDC(t, s, "dc-austin-01", "Meta", true)
	seedDC(t, s, "dc-austin-02", "Google", false)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/data-centers/by-region/ERCOT", nil))

	require.Equal(t, 200, rec.Code)
	var views []dataCenterView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&views))
	assert.Len(t, views, 2)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/data-centers/by-region/CAISO", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "[]")
}
