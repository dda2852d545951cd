package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Add records a freshly captured artifact as pending upload.
func (s *Store) Add(ctx context.Context, path, dayKey string, sizeBytes int64) (*Artifact, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("artifact path is empty")
	}
	if strings.TrimSpace(dayKey) == "" {
		return nil, errors.New("artifact day key is empty")
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO artifacts (path, day_key, size_bytes, status, attempts, created_at, updated_at)
         VALUES (?, ?, ?, ?, 0, ?, ?)`,
		path,
		dayKey,
		sizeBytes,
		StatusPending,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert artifact: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID fetches an artifact by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Artifact, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+artifactColumns+` FROM artifacts WHERE id = ?`, id)
	artifact, err := scanArtifact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get artifact: %w", err)
	}
	return artifact, nil
}

// Unsettled returns artifacts still owed an upload outcome, oldest first.
// The daemon rebuilds its upload backlog from this after a restart.
func (s *Store) Unsettled(ctx context.Context) ([]*Artifact, error) {
	placeholders, args := unsettledFilter()
	query := `SELECT ` + artifactColumns + ` FROM artifacts WHERE status IN (` + placeholders + `) ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query unsettled artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []*Artifact
	for rows.Next() {
		artifact, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, artifact)
	}
	return artifacts, rows.Err()
}

// ProtectedPaths returns the set of local paths rotation must not delete.
func (s *Store) ProtectedPaths(ctx context.Context) (map[string]struct{}, error) {
	placeholders, args := unsettledFilter()
	query := `SELECT path FROM artifacts WHERE status IN (` + placeholders + `)`
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query protected paths: %w", err)
	}
	defer rows.Close()

	paths := make(map[string]struct{})
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		paths[path] = struct{}{}
	}
	return paths, rows.Err()
}

// UnsettledByDay groups the upload backlog by capture day, oldest day first.
func (s *Store) UnsettledByDay(ctx context.Context) ([]DayBacklog, error) {
	placeholders, args := unsettledFilter()
	query := `SELECT day_key, COUNT(1), COALESCE(SUM(size_bytes), 0)
        FROM artifacts WHERE status IN (` + placeholders + `)
        GROUP BY day_key ORDER BY MIN(created_at)`
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query backlog by day: %w", err)
	}
	defer rows.Close()

	var backlog []DayBacklog
	for rows.Next() {
		var entry DayBacklog
		if err := rows.Scan(&entry.DayKey, &entry.Count, &entry.Bytes); err != nil {
			return nil, err
		}
		backlog = append(backlog, entry)
	}
	return backlog, rows.Err()
}
