package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gridhub-labs/gridhub/internal/carbon"
	"github.com/gridhub-labs/gridhub/pkg/core"
)

// DefaultERCOTBaseURL is ERCOT's public read API.
const DefaultERCOTBaseURL = "https://www.ercot.com/api/1/services/read"

// ERCOTCollector pulls the system-wide demand and fuel mix feeds from
// ERCOT's public API. These refresh faster than EIA's hourly series,
// so the row is stamped to the top of the current hour and merged with
// whatever EIA already wrote for it.
type ERCOTCollector struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
	now     func() time.Time
}

func NewERCOTCollector(baseURL string, logger *slog.Logger) *ERCOTCollector {
	if baseURL == "" {
		baseURL = DefaultERCOTBaseURL
	}
	return &ERCOTCollector{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
		now:     time.Now,
	}
}

func (c *ERCOTCollector) Name() string    { return "ERCOT" }
func (c *ERCOTCollector) JobType() string { return "realtime" }

type ercotDemandFeed struct {
	SystemWideDemand struct {
		Demand flexFloat `json:"Demand"`
	} `json:"SystemWideDemand"`
}

type ercotFuelMixFeed struct {
	FuelMix []struct {
		FuelType string    `json:"FuelType"`
		GenMW    flexFloat `json:"GenMW"`
	} `json:"FuelMix"`
}

// Collect fetches both feeds. Either may fail independently; a row is
// only produced when at least one carried data.
func (c *ERCOTCollector) Collect(ctx context.Context) ([]core.GridMetrics, error) {
	m := core.GridMetrics{
		Timestamp: c.now().UTC().Truncate(time.Hour),
		RegionID:  "ERCOT",
		Source:    "ERCOT",
	}

	var demand ercotDemandFeed
	if err := c.fetchJSON(ctx, "/SystemWideDemand.json", &demand); err != nil {
		c.logger.Warn("demand feed failed", "error", err)
	} else {
		m.LoadMW = float64(demand.SystemWideDemand.Demand)
	}

	var fuelMix ercotFuelMixFeed
	if err := c.fetchJSON(ctx, "/FuelMix.json", &fuelMix); err != nil {
		c.logger.Warn("fuel mix feed failed", "error", err)
	} else {
		for _, fuel := range fuelMix.FuelMix {
			mw := float64(fuel.GenMW)
			addERCOTFuel(&m.Generation, fuel.FuelType, mw)
			m.TotalGenerationMW += mw
		}
	}

	if m.LoadMW <= 0 && m.TotalGenerationMW <= 0 {
		return nil, nil
	}

	m.RenewableFractionPct = carbon.RenewableFraction(m.Generation)
	m.CarbonIntensityKgPerMWh = carbon.Intensity(m.Generation)
	return []core.GridMetrics{m}, nil
}

func (c *ERCOTCollector) fetchJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// addERCOTFuel classifies ERCOT's free-form fuel labels ("Natural Gas",
// "Wind", "Power Storage", ...) by substring.
func addERCOTFuel(mix *core.GenerationMix, fuelType string, mw float64) {
	upper := strings.ToUpper(fuelType)
	switch {
	case strings.Contains(upper, "GAS"):
		mix.NaturalGasMW += mw
	case strings.Contains(upper, "COAL"):
		mix.CoalMW += mw
	case strings.Contains(upper, "NUCLEAR"):
		mix.NuclearMW += mw
	case strings.Contains(upper, "WIND"):
		mix.WindMW += mw
	case strings.Contains(upper, "SOLAR"):
		mix.SolarMW += mw
	case strings.Contains(upper, "HYDRO"):
		mix.HydroMW += mw
	default:
		mix.OtherMW += mw
	}
}
