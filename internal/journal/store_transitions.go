package journal

import (
	"context"
	"fmt"
	"time"
)

// MarkUploading stamps an artifact as handed to the provider under a batch.
func (s *Store) MarkUploading(ctx context.Context, id int64, batchID string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE artifacts SET status = ?, batch_id = ?, attempts = attempts + 1, updated_at = ? WHERE id = ?`,
		StatusUploading,
		nullableString(batchID),
		now,
		id,
	); err != nil {
		return fmt.Errorf("mark uploading: %w", err)
	}
	return nil
}

// MarkUploaded settles an artifact whose remote copy is confirmed and whose
// local file has been removed.
func (s *Store) MarkUploaded(ctx context.Context, id int64) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE artifacts SET status = ?, error_message = NULL, uploaded_at = ?, updated_at = ? WHERE id = ?`,
		StatusUploaded,
		now,
		now,
		id,
	); err != nil {
		return fmt.Errorf("mark uploaded: %w", err)
	}
	return nil
}

// MarkFailed records a failed upload attempt. The artifact stays protected
// from rotation and is retried on the next batch.
func (s *Store) MarkFailed(ctx context.Context, id int64, message string) error {
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE artifacts SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		StatusFailed,
		nullableString(message),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	); err != nil {
		return fmt.Errorf("mark failed: %w", err)
	}
	return nil
}

// MarkAbsent settles an artifact whose local file vanished before upload.
// Nothing is owed for it anymore; the remote side never sees the file.
func (s *Store) MarkAbsent(ctx context.Context, id int64) error {
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE artifacts SET status = ?, error_message = NULL, updated_at = ? WHERE id = ?`,
		StatusAbsent,
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	); err != nil {
		return fmt.Errorf("mark absent: %w", err)
	}
	return nil
}

// Requeue returns an artifact to pending with a reason, keeping it protected.
// Used when the remote copy succeeded but the local delete failed: the file is
// uploaded again later rather than deleted without a confirmed round trip.
func (s *Store) Requeue(ctx context.Context, id int64, reason string) error {
	if err := s.execWithoutResultRetry(
		ctx,
		`UPDATE artifacts SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		StatusPending,
		nullableString(reason),
		time.Now().UTC().Format(time.RFC3339Nano),
		id,
	); err != nil {
		return fmt.Errorf("requeue artifact: %w", err)
	}
	return nil
}

// RecoverInFlight returns artifacts stuck in uploading back to pending. A row
// can only be uploading while a batch is running, so any found at open time
// belong to an interrupted run.
func (s *Store) RecoverInFlight(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE artifacts SET status = ?, error_message = 'upload interrupted by restart', updated_at = ? WHERE status = ?`,
		StatusPending,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusUploading,
	)
	if err != nil {
		return 0, fmt.Errorf("recover in-flight artifacts: %w", err)
	}
	return res.RowsAffected()
}
