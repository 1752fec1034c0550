package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gridhub-labs/gridhub/internal/carbon"
	"github.com/gridhub-labs/gridhub/pkg/core"
)

// regionInfo carries the canonical metadata for an ISO/RTO region. BA
// codes that only alias into a region leave everything but RegionID
// empty.
type regionInfo struct {
	RegionID string
	Name     string
	Timezone string
	Lat, Lon float64
	States   []string
}

// baRegionMap maps EIA balancing authority codes to regions. The seven
// primary ISO/RTO codes carry full metadata; the rest are member
// utilities that report under their own codes in the fuel-type series.
var baRegionMap = map[string]regionInfo{
	"ERCO": {RegionID: "ERCOT", Name: "Electric Reliability Council of Texas", Timezone: "US/Central", Lat: 31.0, Lon: -99.0, States: []string{"TX"}},
	"CISO": {RegionID: "CAISO", Name: "California ISO", Timezone: "US/Pacific", Lat: 37.0, Lon: -120.0, States: []string{"CA"}},
	"PJM":  {RegionID: "PJM", Name: "PJM Interconnection", Timezone: "US/Eastern", Lat: 40.0, Lon: -77.0, States: []string{"PA", "NJ", "MD", "DE", "VA", "WV", "OH", "DC"}},
	"NYIS": {RegionID: "NYISO", Name: "New York ISO", Timezone: "US/Eastern", Lat: 42.0, Lon: -75.0, States: []string{"NY"}},
	"ISNE": {RegionID: "ISONE", Name: "ISO New England", Timezone: "US/Eastern", Lat: 42.0, Lon: -71.0, States: []string{"MA", "CT", "RI", "NH", "VT", "ME"}},
	"MISO": {RegionID: "MISO", Name: "Midcontinent ISO", Timezone: "US/Central", Lat: 41.0, Lon: -89.0, States: []string{"IL", "IN", "MI", "MN", "WI", "IA", "MO", "AR", "LA", "MS"}},
	"SWPP": {RegionID: "SPP", Name: "Southwest Power Pool", Timezone: "US/Central", Lat: 35.0, Lon: -98.0, States: []string{"OK", "KS", "NE", "SD", "ND"}},

	"ERCOT": {RegionID: "ERCOT"},

	"BANC": {RegionID: "CAISO"}, "LDWP": {RegionID: "CAISO"}, "TIDC": {RegionID: "CAISO"},
	"IID": {RegionID: "CAISO"}, "WALC": {RegionID: "CAISO"}, "AZPS": {RegionID: "CAISO"},

	"AEP": {RegionID: "PJM"}, "AP": {RegionID: "PJM"}, "ATSI": {RegionID: "PJM"},
	"BC": {RegionID: "PJM"}, "CE": {RegionID: "PJM"}, "DAY": {RegionID: "PJM"},
	"DEOK": {RegionID: "PJM"}, "DOM": {RegionID: "PJM"}, "DPL": {RegionID: "PJM"},
	"DUK": {RegionID: "PJM"}, "EKPC": {RegionID: "PJM"}, "JC": {RegionID: "PJM"},
	"ME": {RegionID: "PJM"}, "PE": {RegionID: "PJM"}, "PEP": {RegionID: "PJM"},
	"PL": {RegionID: "PJM"}, "PN": {RegionID: "PJM"}, "PS": {RegionID: "PJM"},
	"RECO": {RegionID: "PJM"}, "UGI": {RegionID: "PJM"},

	"NYISO": {RegionID: "NYISO"},
	"ISONE": {RegionID: "ISONE"},

	"AMIL": {RegionID: "MISO"}, "AMMO": {RegionID: "MISO"}, "BREC": {RegionID: "MISO"},
	"CIN": {RegionID: "MISO"}, "CLEC": {RegionID: "MISO"}, "CWEP": {RegionID: "MISO"},
	"CWLP": {RegionID: "MISO"}, "DECO": {RegionID: "MISO"}, "EAI": {RegionID: "MISO"},
	"EES": {RegionID: "MISO"}, "EMBA": {RegionID: "MISO"}, "GRE": {RegionID: "MISO"},
	"HE": {RegionID: "MISO"}, "LAFA": {RegionID: "MISO"}, "LAGN": {RegionID: "MISO"},
	"LEPA": {RegionID: "MISO"}, "LGEE": {RegionID: "MISO"}, "MEC": {RegionID: "MISO"},
	"MGE": {RegionID: "MISO"}, "MIUP": {RegionID: "MISO"}, "MP": {RegionID: "MISO"},
	"MPW": {RegionID: "MISO"}, "NIPS": {RegionID: "MISO"}, "NSP": {RegionID: "MISO"},
	"OVEC": {RegionID: "MISO"}, "SIGE": {RegionID: "MISO"}, "SIPC": {RegionID: "MISO"},
	"SMMP": {RegionID: "MISO"}, "SMP": {RegionID: "MISO"}, "UPPC": {RegionID: "MISO"},
	"WEC": {RegionID: "MISO"}, "WPS": {RegionID: "MISO"}, "ALTE": {RegionID: "MISO"},

	"CSWS": {RegionID: "SPP"}, "EDE": {RegionID: "SPP"}, "GRDA": {RegionID: "SPP"},
	"INDN": {RegionID: "SPP"}, "KACY": {RegionID: "SPP"}, "KCPL": {RegionID: "SPP"},
	"LES": {RegionID: "SPP"}, "MPS": {RegionID: "SPP"}, "NPPD": {RegionID: "SPP"},
	"OKGE": {RegionID: "SPP"}, "OPPD": {RegionID: "SPP"}, "SECI": {RegionID: "SPP"},
	"SPRM": {RegionID: "SPP"}, "SPS": {RegionID: "SPP"}, "WAUE": {RegionID: "SPP"},
	"WFEC": {RegionID: "SPP"}, "WR": {RegionID: "SPP"},
}

// fuelTypeMap maps EIA fuel codes to mix buckets. Battery and pumped
// storage land in "other" alongside oil and unknowns.
var fuelTypeMap = map[string]string{
	"NG":  "natural_gas",
	"GAS": "natural_gas",
	"COL": "coal",
	"NUC": "nuclear",
	"WND": "wind",
	"SUN": "solar",
	"SOL": "solar",
	"WAT": "hydro",
	"HYD": "hydro",
	"OTH": "other",
	"OIL": "other",
	"PET": "other",
	"UNK": "other",
	"BAT": "other",
	"PS":  "other",
}

// Regions returns the canonical ISO/RTO regions tracked via EIA,
// ordered by ID.
func Regions() []core.GridRegion {
	var regions []core.GridRegion
	for _, info := range baRegionMap {
		if info.Name == "" {
			continue
		}
		regions = append(regions, core.GridRegion{
			ID:             info.RegionID,
			Name:           info.Name,
			Timezone:       info.Timezone,
			Latitude:       info.Lat,
			Longitude:      info.Lon,
			CoverageStates: info.States,
			Type:           core.RegionTypeISO,
		})
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].ID < regions[j].ID })
	return regions
}

// EnsureRegions upserts the canonical regions so metrics rows always
// have a parent.
func EnsureRegions(ctx context.Context, st core.Store) error {
	for _, r := range Regions() {
		if err := st.UpsertRegion(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// EIACollector pulls hourly demand, generation-by-fuel, and
// interchange series from the EIA v2 API.
//
// API docs: https://www.eia.gov/opendata/documentation.php
type EIACollector struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
	now     func() time.Time
}

// NewEIACollector returns a collector against the given EIA API base
// URL (typically https://api.eia.gov/v2).
func NewEIACollector(baseURL, apiKey string, logger *slog.Logger) *EIACollector {
	return &EIACollector{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
		now:     time.Now,
	}
}

func (c *EIACollector) Name() string    { return "EIA" }
func (c *EIACollector) JobType() string { return "hourly" }

type eiaRecord struct {
	Period         string    `json:"period"`
	Respondent     string    `json:"respondent"`
	RespondentName string    `json:"respondent-name"`
	FuelType       string    `json:"fueltype"`
	Value          flexFloat `json:"value"`
	kind           string
}

type eiaResponse struct {
	Response struct {
		Data []eiaRecord `json:"data"`
	} `json:"response"`
}

// Collect fetches the last 24 hours of demand, generation, and
// interchange data and folds them into per-region hourly rows. A
// failing series is logged and skipped so the others still land.
func (c *EIACollector) Collect(ctx context.Context) ([]core.GridMetrics, error) {
	var raw []eiaRecord

	series := []struct {
		kind   string
		path   string
		facets string
	}{
		{"demand", "/electricity/rto/region-data/data/", "&facets[type][]=D"},
		{"generation", "/electricity/rto/fuel-type-data/data/", ""},
		{"interchange", "/electricity/rto/interchange-data/data/", ""},
	}

	var lastErr error
	for _, s := range series {
		records, err := c.fetchSeries(ctx, s.path, s.facets)
		if err != nil {
			c.logger.Error("series fetch failed", "series", s.kind, "error", err)
			lastErr = err
			continue
		}
		c.logger.Info("series fetched", "series", s.kind, "records", len(records))
		for i := range records {
			records[i].kind = s.kind
		}
		raw = append(raw, records...)
	}

	if len(raw) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return c.transform(raw), nil
}

// fetchSeries builds the query string by hand: the EIA API expects
// literal brackets in facet and sort parameter names.
func (c *EIACollector) fetchSeries(ctx context.Context, path, facets string) ([]eiaRecord, error) {
	end := c.now().UTC()
	start := end.Add(-24 * time.Hour)

	url := fmt.Sprintf(
		"%s%s?api_key=%s&frequency=hourly&data[0]=value%s&start=%s&end=%s&sort[0][column]=period&sort[0][direction]=desc&length=5000",
		c.baseURL, path, c.apiKey, facets,
		start.Format("2006-01-02T15"), end.Format("2006-01-02T15"),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var body eiaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return body.Response.Data, nil
}

type metricsKey struct {
	regionID string
	ts       time.Time
}

func (c *EIACollector) transform(raw []eiaRecord) []core.GridMetrics {
	grouped := make(map[metricsKey]*core.GridMetrics)

	for _, rec := range raw {
		ba := rec.Respondent
		if ba == "" {
			ba, _, _ = strings.Cut(rec.RespondentName, "-")
		}
		info, ok := baRegionMap[ba]
		if !ok {
			continue
		}

		ts, err := parsePeriod(rec.Period)
		if err != nil {
			c.logger.Warn("skipping record with bad period", "period", rec.Period, "error", err)
			continue
		}

		key := metricsKey{regionID: info.RegionID, ts: ts}
		m, ok := grouped[key]
		if !ok {
			m = &core.GridMetrics{Timestamp: ts, RegionID: info.RegionID, Source: "EIA"}
			grouped[key] = m
		}

		value := float64(rec.Value)
		switch rec.kind {
		case "demand":
			if value > 0 {
				m.LoadMW = value
			}
		case "generation":
			addFuel(&m.Generation, rec.FuelType, value)
			m.TotalGenerationMW += value
		case "interchange":
			m.NetInterchangeMW = value
		}
	}

	out := make([]core.GridMetrics, 0, len(grouped))
	for _, m := range grouped {
		m.RenewableFractionPct = carbon.RenewableFraction(m.Generation)
		m.CarbonIntensityKgPerMWh = carbon.Intensity(m.Generation)
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RegionID != out[j].RegionID {
			return out[i].RegionID < out[j].RegionID
		}
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func addFuel(mix *core.GenerationMix, code string, mw float64) {
	switch fuelTypeMap[code] {
	case "natural_gas":
		mix.NaturalGasMW += mw
	case "coal":
		mix.CoalMW += mw
	case "nuclear":
		mix.NuclearMW += mw
	case "wind":
		mix.WindMW += mw
	case "solar":
		mix.SolarMW += mw
	case "hydro":
		mix.HydroMW += mw
	default:
		mix.OtherMW += mw
	}
}

// parsePeriod handles the EIA hour format ("2025-11-28T22") and full
// ISO timestamps, with or without zone.
func parsePeriod(period string) (time.Time, error) {
	if period == "" {
		return time.Time{}, fmt.Errorf("empty period")
	}
	for _, layout := range []string{"2006-01-02T15", time.RFC3339, "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, period); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized period format %q", period)
}
