package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestERCOTCollect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/SystemWideDemand.json":
			fmt.Fprint(w, `{"SystemWideDemand": {"Demand": "61234.5"}}`)
		case "/FuelMix.json":
			fmt.Fprint(w, `{"FuelMix": [
				{"FuelType": "Natural Gas", "GenMW": 30000},
				{"FuelType": "Wind", "GenMW": 18000},
				{"FuelType": "Solar", "GenMW": 9000},
				{"FuelType": "Nuclear", "GenMW": 5000},
				{"FuelType": "Power Storage", "GenMW": 400}
			]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := NewERCOTCollector(srv.URL, testLogger())
	metrics, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, metrics, 1)

	m := metrics[0]
	assert.Equal(t, "ERCOT", m.RegionID)
	assert.Equal(t, "ERCOT", m.Source)
	assert.Equal(t, 0, m.Timestamp.Minute())
	assert.InDelta(t, 61234.5, m.LoadMW, 0.001)
	assert.InDelta(t, 62400, m.TotalGenerationMW, 0.001)
	assert.InDelta(t, 30000, m.Generation.NaturalGasMW, 0.001)
	assert.InDelta(t, 18000, m.Generation.WindMW, 0.001)
	assert.InDelta(t, 9000, m.Generation.SolarMW, 0.001)
	assert.InDelta(t, 400, m.Generation.OtherMW, 0.001)
	assert.InDelta(t, 27000.0/62400*100, m.RenewableFractionPct, 0.01)
}

func TestERCOTCollectBothFeedsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewERCOTCollector(srv.URL, testLogger())
	metrics, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, metrics)
}

func TestERCOTCollectDemandOnly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/SystemWideDemand.json" {
			fmt.Fprint(w, `{"SystemWideDemand": {"Demand": 59000}}`)
			return
		}
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewERCOTCollector(srv.URL, testLogger())
	c.now = func() time.Time { return time.Date(2026, 8, 25, 14, 37, 0, 0, time.UTC) }

	metrics, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, metrics, 1)
	assert.Equal(t, time.Date(2026, 8, 25, 14, 0, 0, 0, time.UTC), metrics[0].Timestamp)
	assert.InDelta(t, 59000, metrics[0].LoadMW, 0.001)
	assert.Zero(t, metrics[0].TotalGenerationMW)
}
