package journal

import (
	"context"
	"fmt"
	"time"
)

// Stats returns a count of artifacts grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT status, COUNT(1) FROM artifacts GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("journal stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Summarize aggregates journal state for status output.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{}
	for status, count := range stats {
		summary.Total += count
		switch status {
		case StatusPending:
			summary.Pending += count
		case StatusUploading:
			summary.Uploading += count
		case StatusUploaded:
			summary.Uploaded += count
		case StatusFailed:
			summary.Failed += count
		case StatusAbsent:
			summary.Absent += count
		}
	}

	placeholders, args := unsettledFilter()
	row := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT COALESCE(SUM(size_bytes), 0) FROM artifacts WHERE status IN (`+placeholders+`)`,
		args...,
	)
	if err := row.Scan(&summary.UnsettledBytes); err != nil {
		return Summary{}, fmt.Errorf("sum unsettled bytes: %w", err)
	}
	return summary, nil
}

// PruneSettled removes uploaded and absent rows last touched before the
// cutoff. Unsettled rows are never pruned regardless of age.
func (s *Store) PruneSettled(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`DELETE FROM artifacts WHERE status IN (?, ?) AND updated_at < ?`,
		StatusUploaded,
		StatusAbsent,
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("prune settled artifacts: %w", err)
	}
	return res.RowsAffected()
}
