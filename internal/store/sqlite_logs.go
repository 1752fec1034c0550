package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gridhub-labs/gridhub/pkg/core"
)

// RecordIngestion inserts or updates one ingestion job record. A job
// writes itself once as running and again on completion.
func (s *SQLiteStore) RecordIngestion(ctx context.Context, l core.IngestionLog) error {
	if l.ID == "" {
		l.ID = generateID()
	}

	var errMsg *string
	if l.Error != "" {
		errMsg = &l.Error
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ingestion_logs (id, source, job_type, started_at, completed_at, status, records_processed, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     completed_at = excluded.completed_at,
		     status = excluded.status,
		     records_processed = excluded.records_processed,
		     error = excluded.error`,
		l.ID, l.Source, l.JobType, l.StartedAt.UTC(), l.CompletedAt, string(l.Status), l.RecordsProcessed, errMsg,
	)
	if err != nil {
		return fmt.Errorf("failed to record ingestion %s: %w", l.ID, err)
	}
	return nil
}

// RecentIngestions returns the most recent job records, newest first.
func (s *SQLiteStore) RecentIngestions(ctx context.Context, limit int) ([]core.IngestionLog, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, job_type, started_at, completed_at, status, records_processed, error
		 FROM ingestion_logs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingestion logs: %w", err)
	}
	defer rows.Close()

	var logs []core.IngestionLog
	for rows.Next() {
		var l core.IngestionLog
		var completedAt sql.NullTime
		var errMsg sql.NullString
		var status string
		if err := rows.Scan(&l.ID, &l.Source, &l.JobType, &l.StartedAt, &completedAt, &status, &l.RecordsProcessed, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan ingestion log: %w", err)
		}
		l.Status = core.IngestionStatus(status)
		if completedAt.Valid {
			t := completedAt.Time.UTC()
			l.CompletedAt = &t
		}
		if errMsg.Valid {
			l.Error = errMsg.String
		}
		l.StartedAt = l.StartedAt.UTC()
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
