package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gridhub-labs/gridhub/pkg/core"
)

const estimateColumns = `timestamp_utc, dc_id, estimated_load_mw, estimated_it_load_mw,
	estimated_cooling_load_mw, pue, renewable_usage_pct, carbon_intensity_kg_per_mwh,
	estimation_method`

// UpsertEstimate inserts an energy estimate or replaces the one sharing
// its (data center, timestamp) key.
func (s *SQLiteStore) UpsertEstimate(ctx context.Context, e core.EnergyEstimate) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO data_center_energy_estimates (`+estimateColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(dc_id, timestamp_utc) DO UPDATE SET
		     estimated_load_mw = excluded.estimated_load_mw,
		     estimated_it_load_mw = excluded.estimated_it_load_mw,
		     estimated_cooling_load_mw = excluded.estimated_cooling_load_mw,
		     pue = excluded.pue,
		     renewable_usage_pct = excluded.renewable_usage_pct,
		     carbon_intensity_kg_per_mwh = excluded.carbon_intensity_kg_per_mwh,
		     estimation_method = excluded.estimation_method`,
		e.Timestamp.UTC(), e.DataCenterID, e.LoadMW, e.ITLoadMW,
		e.CoolingLoadMW, e.PUE, e.RenewableUsagePct, e.CarbonIntensityKgPerMWh,
		e.Method,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert estimate for %s: %w", e.DataCenterID, err)
	}
	return nil
}

// EstimatesRange returns estimates for a data center within [from, to],
// newest first.
func (s *SQLiteStore) EstimatesRange(ctx context.Context, dataCenterID string, from, to time.Time) ([]core.EnergyEstimate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+estimateColumns+` FROM data_center_energy_estimates
		 WHERE dc_id = ? AND timestamp_utc >= ? AND timestamp_utc <= ?
		 ORDER BY timestamp_utc DESC`, dataCenterID, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to get estimates for %s: %w", dataCenterID, err)
	}
	defer rows.Close()

	var out []core.EnergyEstimate
	for rows.Next() {
		var e core.EnergyEstimate
		if err := rows.Scan(
			&e.Timestamp, &e.DataCenterID, &e.LoadMW, &e.ITLoadMW,
			&e.CoolingLoadMW, &e.PUE, &e.RenewableUsagePct, &e.CarbonIntensityKgPerMWh,
			&e.Method,
		); err != nil {
			return nil, fmt.Errorf("failed to scan estimate: %w", err)
		}
		e.Timestamp = e.Timestamp.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// LatestEstimate returns the most recent estimate for a data center.
func (s *SQLiteStore) LatestEstimate(ctx context.Context, dataCenterID string) (core.EnergyEstimate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+estimateColumns+` FROM data_center_energy_estimates
		 WHERE dc_id = ? ORDER BY timestamp_utc DESC LIMIT 1`, dataCenterID)

	var e core.EnergyEstimate
	err := row.Scan(
		&e.Timestamp, &e.DataCenterID, &e.LoadMW, &e.ITLoadMW,
		&e.CoolingLoadMW, &e.PUE, &e.RenewableUsagePct, &e.CarbonIntensityKgPerMWh,
		&e.Method,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return core.EnergyEstimate{}, &core.NotFoundError{Kind: "estimate for data center", ID: dataCenterID}
	}
	if err != nil {
		return core.EnergyEstimate{}, fmt.Errorf("failed to get latest estimate for %s: %w", dataCenterID, err)
	}
	e.Timestamp = e.Timestamp.UTC()
	return e, nil
}
