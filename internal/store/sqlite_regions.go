package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gridhub-labs/gridhub/pkg/core"
)

// UpsertRegion inserts a grid region or updates its metadata in place.
func (s *SQLiteStore) UpsertRegion(ctx context.Context, r core.GridRegion) error {
	states, err := json.Marshal(r.CoverageStates)
	if err != nil {
		return fmt.Errorf("failed to encode coverage states: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO grid_regions (id, name, timezone, latitude, longitude, coverage_states, region_type, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     name = excluded.name,
		     timezone = excluded.timezone,
		     latitude = excluded.latitude,
		     longitude = excluded.longitude,
		     coverage_states = excluded.coverage_states,
		     region_type = excluded.region_type,
		     updated_at = excluded.updated_at`,
		r.ID, r.Name, r.Timezone, r.Latitude, r.Longitude, string(states), string(r.Type), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert region %s: %w", r.ID, err)
	}
	return nil
}

// GetRegion retrieves a region by ID.
func (s *SQLiteStore) GetRegion(ctx context.Context, id string) (core.GridRegion, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, timezone, latitude, longitude, coverage_states, region_type, created_at, updated_at
		 FROM grid_regions WHERE id = ?`, id)

	r, err := scanRegion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.GridRegion{}, &core.NotFoundError{Kind: "region", ID: id}
	}
	if err != nil {
		return core.GridRegion{}, fmt.Errorf("failed to get region %s: %w", id, err)
	}
	return r, nil
}

// ListRegions retrieves all regions ordered by ID.
func (s *SQLiteStore) ListRegions(ctx context.Context) ([]core.GridRegion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, timezone, latitude, longitude, coverage_states, region_type, created_at, updated_at
		 FROM grid_regions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list regions: %w", err)
	}
	defer rows.Close()

	var regions []core.GridRegion
	for rows.Next() {
		r, err := scanRegion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan region: %w", err)
		}
		regions = append(regions, r)
	}
	return regions, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRegion(row rowScanner) (core.GridRegion, error) {
	var r core.GridRegion
	var states, regionType string
	if err := row.Scan(&r.ID, &r.Name, &r.Timezone, &r.Latitude, &r.Longitude, &states, &regionType, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return core.GridRegion{}, err
	}
	r.Type = core.RegionType(regionType)
	if err := json.Unmarshal([]byte(states), &r.CoverageStates); err != nil {
		return core.GridRegion{}, fmt.Errorf("failed to decode coverage states: %w", err)
	}
	return r, nil
}
