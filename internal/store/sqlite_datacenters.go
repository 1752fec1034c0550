package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gridhub-labs/gridhub/pkg/core"
)

const dataCenterColumns = `id, name, operator, region_id, latitude, longitude, max_capacity_mw,
	avg_pue, cooling_type, primary_grid_connection, renewable_ppa_mw, commissioned_year,
	is_ai_focused, created_at, updated_at`

// UpsertDataCenter inserts a data center or updates it in place.
func (s *SQLiteStore) UpsertDataCenter(ctx context.Context, dc core.DataCenter) error {
	if dc.AvgPUE <= 0 {
		dc.AvgPUE = core.DefaultPUE
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO data_centers (`+dataCenterColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     name = excluded.name,
		     operator = excluded.operator,
		     region_id = excluded.region_id,
		     latitude = excluded.latitude,
		     longitude = excluded.longitude,
		     max_capacity_mw = excluded.max_capacity_mw,
		     avg_pue = excluded.avg_pue,
		     cooling_type = excluded.cooling_type,
		     primary_grid_connection = excluded.primary_grid_connection,
		     renewable_ppa_mw = excluded.renewable_ppa_mw,
		     commissioned_year = excluded.commissioned_year,
		     is_ai_focused = excluded.is_ai_focused,
		     updated_at = excluded.updated_at`,
		dc.ID, dc.Name, dc.Operator, dc.RegionID, dc.Latitude, dc.Longitude, dc.MaxCapacityMW,
		dc.AvgPUE, dc.CoolingType, dc.PrimaryGridConnection, dc.RenewablePPAMW, dc.CommissionedYear,
		dc.AIFocused, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert data center %s: %w", dc.ID, err)
	}
	return nil
}

// GetDataCenter retrieves a data center by ID.
func (s *SQLiteStore) GetDataCenter(ctx context.Context, id string) (core.DataCenter, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+dataCenterColumns+` FROM data_centers WHERE id = ?`, id)

	dc, err := scanDataCenter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DataCenter{}, &core.NotFoundError{Kind: "data center", ID: id}
	}
	if err != nil {
		return core.DataCenter{}, fmt.Errorf("failed to get data center %s: %w", id, err)
	}
	return dc, nil
}

// ListDataCenters retrieves data centers matching the filter, ordered
// by ID, honoring Limit and Offset.
func (s *SQLiteStore) ListDataCenters(ctx context.Context, f core.DataCenterFilter) ([]core.DataCenter, error) {
	where, args := dataCenterWhere(f)

	query := `SELECT ` + dataCenterColumns + ` FROM data_centers` + where + ` ORDER BY id`
	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list data centers: %w", err)
	}
	defer rows.Close()

	var dcs []core.DataCenter
	for rows.Next() {
		dc, err := scanDataCenter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan data center: %w", err)
		}
		dcs = append(dcs, dc)
	}
	return dcs, rows.Err()
}

// CountDataCenters returns the number of data centers matching the
// filter, ignoring Limit and Offset.
func (s *SQLiteStore) CountDataCenters(ctx context.Context, f core.DataCenterFilter) (int, error) {
	where, args := dataCenterWhere(f)

	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM data_centers`+where, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count data centers: %w", err)
	}
	return n, nil
}

func dataCenterWhere(f core.DataCenterFilter) (string, []any) {
	var conds []string
	var args []any
	if f.RegionID != "" {
		conds = append(conds, "region_id = ?")
		args = append(args, f.RegionID)
	}
	if f.Operator != "" {
		conds = append(conds, "LOWER(operator) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Operator)+"%")
	}
	if f.AIOnly {
		conds = append(conds, "is_ai_focused = 1")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanDataCenter(row rowScanner) (core.DataCenter, error) {
	var dc core.DataCenter
	err := row.Scan(
		&dc.ID, &dc.Name, &dc.Operator, &dc.RegionID, &dc.Latitude, &dc.Longitude, &dc.MaxCapacityMW,
		&dc.AvgPUE, &dc.CoolingType, &dc.PrimaryGridConnection, &dc.RenewablePPAMW, &dc.CommissionedYear,
		&dc.AIFocused, &dc.CreatedAt, &dc.UpdatedAt,
	)
	return dc, err
}
