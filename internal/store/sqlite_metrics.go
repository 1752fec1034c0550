package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gridhub-labs/gridhub/pkg/core"
)

const metricsColumns = `timestamp_utc, region_id, load_mw, forecast_load_mw, total_generation_mw,
	natural_gas_mw, coal_mw, nuclear_mw, wind_mw, solar_mw, hydro_mw, other_mw,
	net_interchange_mw, renewable_fraction_pct, carbon_intensity_kg_per_mwh,
	lmp_energy_price_usd_mwh, source`

// UpsertMetrics inserts or merges one hourly observation. Collectors
// deliver partial rows (demand-only, mix-only, interchange-only), so on
// conflict each field group is only overwritten when the incoming row
// actually carries data for it: load when non-zero, the fuel mix and
// its derived figures when total generation is non-zero, interchange
// when non-zero, and the nullable fields when present.
func (s *SQLiteStore) UpsertMetrics(ctx context.Context, m core.GridMetrics) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO grid_metrics (`+metricsColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(region_id, timestamp_utc) DO UPDATE SET
		     load_mw = CASE WHEN excluded.load_mw > 0 THEN excluded.load_mw ELSE grid_metrics.load_mw END,
		     forecast_load_mw = COALESCE(excluded.forecast_load_mw, grid_metrics.forecast_load_mw),
		     total_generation_mw = CASE WHEN excluded.total_generation_mw > 0 THEN excluded.total_generation_mw ELSE grid_metrics.total_generation_mw END,
		     natural_gas_mw = CASE WHEN excluded.total_generation_mw > 0 THEN excluded.natural_gas_mw ELSE grid_metrics.natural_gas_mw END,
		     coal_mw = CASE WHEN excluded.total_generation_mw > 0 THEN excluded.coal_mw ELSE grid_metrics.coal_mw END,
		     nuclear_mw = CASE WHEN excluded.total_generation_mw > 0 THEN excluded.nuclear_mw ELSE grid_metrics.nuclear_mw END,
		     wind_mw = CASE WHEN excluded.total_generation_mw > 0 THEN excluded.wind_mw ELSE grid_metrics.wind_mw END,
		     solar_mw = CASE WHEN excluded.total_generation_mw > 0 THEN excluded.solar_mw ELSE grid_metrics.solar_mw END,
		     hydro_mw = CASE WHEN excluded.total_generation_mw > 0 THEN excluded.hydro_mw ELSE grid_metrics.hydro_mw END,
		     other_mw = CASE WHEN excluded.total_generation_mw > 0 THEN excluded.other_mw ELSE grid_metrics.other_mw END,
		     renewable_fraction_pct = CASE WHEN excluded.total_generation_mw > 0 THEN excluded.renewable_fraction_pct ELSE grid_metrics.renewable_fraction_pct END,
		     carbon_intensity_kg_per_mwh = CASE WHEN excluded.total_generation_mw > 0 THEN excluded.carbon_intensity_kg_per_mwh ELSE grid_metrics.carbon_intensity_kg_per_mwh END,
		     net_interchange_mw = CASE WHEN excluded.net_interchange_mw != 0 THEN excluded.net_interchange_mw ELSE grid_metrics.net_interchange_mw END,
		     lmp_energy_price_usd_mwh = COALESCE(excluded.lmp_energy_price_usd_mwh, grid_metrics.lmp_energy_price_usd_mwh),
		     source = excluded.source`,
		m.Timestamp.UTC(), m.RegionID, m.LoadMW, m.ForecastLoadMW, m.TotalGenerationMW,
		m.Generation.NaturalGasMW, m.Generation.CoalMW, m.Generation.NuclearMW,
		m.Generation.WindMW, m.Generation.SolarMW, m.Generation.HydroMW, m.Generation.OtherMW,
		m.NetInterchangeMW, m.RenewableFractionPct, m.CarbonIntensityKgPerMWh,
		m.LMPEnergyPriceUSDPerMWh, m.Source,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert metrics for %s: %w", m.RegionID, err)
	}
	return nil
}

// LatestMetrics returns the most recent observation for a region.
func (s *SQLiteStore) LatestMetrics(ctx context.Context, regionID string) (core.GridMetrics, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+metricsColumns+` FROM grid_metrics
		 WHERE region_id = ? ORDER BY timestamp_utc DESC LIMIT 1`, regionID)

	m, err := scanMetrics(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.GridMetrics{}, &core.NotFoundError{Kind: "metrics for region", ID: regionID}
	}
	if err != nil {
		return core.GridMetrics{}, fmt.Errorf("failed to get latest metrics for %s: %w", regionID, err)
	}
	return m, nil
}

// LatestMetricsAll returns the most recent observation per region.
func (s *SQLiteStore) LatestMetricsAll(ctx context.Context) ([]core.GridMetrics, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+metricsColumns+` FROM grid_metrics
		 WHERE (region_id, timestamp_utc) IN (
		     SELECT region_id, MAX(timestamp_utc) FROM grid_metrics GROUP BY region_id
		 )
		 ORDER BY region_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest metrics: %w", err)
	}
	defer rows.Close()
	return collectMetrics(rows)
}

// MetricsRange returns observations for a region within [from, to],
// oldest first.
func (s *SQLiteStore) MetricsRange(ctx context.Context, regionID string, from, to time.Time) ([]core.GridMetrics, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+metricsColumns+` FROM grid_metrics
		 WHERE region_id = ? AND timestamp_utc >= ? AND timestamp_utc <= ?
		 ORDER BY timestamp_utc`, regionID, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics range for %s: %w", regionID, err)
	}
	defer rows.Close()
	return collectMetrics(rows)
}

func collectMetrics(rows *sql.Rows) ([]core.GridMetrics, error) {
	var out []core.GridMetrics
	for rows.Next() {
		m, err := scanMetrics(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan metrics: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMetrics(row rowScanner) (core.GridMetrics, error) {
	var m core.GridMetrics
	var forecast, lmp sql.NullFloat64
	err := row.Scan(
		&m.Timestamp, &m.RegionID, &m.LoadMW, &forecast, &m.TotalGenerationMW,
		&m.Generation.NaturalGasMW, &m.Generation.CoalMW, &m.Generation.NuclearMW,
		&m.Generation.WindMW, &m.Generation.SolarMW, &m.Generation.HydroMW, &m.Generation.OtherMW,
		&m.NetInterchangeMW, &m.RenewableFractionPct, &m.CarbonIntensityKgPerMWh,
		&lmp, &m.Source,
	)
	if err != nil {
		return core.GridMetrics{}, err
	}
	if forecast.Valid {
		m.ForecastLoadMW = &forecast.Float64
	}
	if lmp.Valid {
		m.LMPEnergyPriceUSDPerMWh = &lmp.Float64
	}
	m.Timestamp = m.Timestamp.UTC()
	return m, nil
}
