package journal

import (
	"database/sql"
	"errors"
	"time"
)

const artifactColumns = "id, path, day_key, size_bytes, status, attempts, batch_id, error_message, created_at, updated_at, uploaded_at"

func scanArtifact(scanner interface{ Scan(dest ...any) error }) (*Artifact, error) {
	var (
		id           int64
		path         string
		dayKey       string
		sizeBytes    int64
		statusStr    string
		attempts     int
		batchID      sql.NullString
		errorMessage sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
		uploadedRaw  sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&path,
		&dayKey,
		&sizeBytes,
		&statusStr,
		&attempts,
		&batchID,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
		&uploadedRaw,
	); err != nil {
		return nil, err
	}

	artifact := &Artifact{
		ID:           id,
		Path:         path,
		DayKey:       dayKey,
		SizeBytes:    sizeBytes,
		Status:       Status(statusStr),
		Attempts:     attempts,
		BatchID:      batchID.String,
		ErrorMessage: errorMessage.String,
	}

	if created, err := parseTimeString(createdRaw.String); err == nil {
		artifact.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		artifact.UpdatedAt = updated
	}
	if uploadedRaw.Valid {
		if uploaded, err := parseTimeString(uploadedRaw.String); err == nil {
			artifact.UploadedAt = &uploaded
		}
	}
	return artifact, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}

func unsettledFilter() (string, []any) {
	args := make([]any, len(unsettledStatuses))
	for i, status := range unsettledStatuses {
		args[i] = status
	}
	return makePlaceholders(len(unsettledStatuses)), args
}
