// Package uploader drains the capture backlog to a remote storage provider in
// batches, settling each artifact in the journal as it goes.
//
// The uploader owns the in-memory pending list. It is rebuilt from unsettled
// journal rows at startup and mutated only from the daemon loop, so no locking
// is needed. Every outcome is independent per artifact: one failure never
// blocks the rest of the batch, and failed artifacts stay protected from
// rotation until a later batch settles them.
package uploader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"screenguard/internal/config"
	"screenguard/internal/daykey"
	"screenguard/internal/journal"
	"screenguard/internal/logging"
	"screenguard/internal/remote"
)

// BatchResult summarizes one flush pass.
type BatchResult struct {
	BatchID  string
	Uploaded int
	Absent   int
	Failed   int
	Deferred int
}

// Uploader moves pending artifacts to the configured provider oldest first.
type Uploader struct {
	batchSize int
	store     *journal.Store
	provider  remote.Provider
	logger    *slog.Logger

	session remote.Session
	folders *remote.FolderCache
	pending []*journal.Artifact
}

// New builds an uploader and reloads the unsettled backlog from the journal.
// Call after the journal's in-flight recovery so interrupted uploads are
// already back in pending.
func New(ctx context.Context, cfg *config.Config, store *journal.Store, provider remote.Provider, logger *slog.Logger) (*Uploader, error) {
	u := &Uploader{
		batchSize: cfg.UploadBatchSize,
		store:     store,
		provider:  provider,
		logger:    logging.NewComponentLogger(logger, "uploader"),
	}

	backlog, err := store.Unsettled(ctx)
	if err != nil {
		return nil, fmt.Errorf("reload upload backlog: %w", err)
	}
	u.pending = backlog
	if len(backlog) > 0 {
		u.logger.Info("reloaded upload backlog",
			logging.Int("count", len(backlog)),
			logging.String(logging.FieldProvider, provider.Name()),
		)
	}
	return u, nil
}

// Track appends a freshly journaled artifact to the pending list.
func (u *Uploader) Track(artifact *journal.Artifact) {
	if artifact == nil {
		return
	}
	u.pending = append(u.pending, artifact)
}

// PendingCount reports the size of the upload backlog.
func (u *Uploader) PendingCount() int {
	return len(u.pending)
}

// ShouldFlush reports whether the backlog has reached the batch threshold.
func (u *Uploader) ShouldFlush() bool {
	return len(u.pending) >= u.batchSize
}

// Connected reports whether a provider session has been established.
func (u *Uploader) Connected() bool {
	return u.session != nil
}

// ProtectedPaths returns the local paths rotation must not delete: everything
// still owed a confirmed upload.
func (u *Uploader) ProtectedPaths() map[string]struct{} {
	paths := make(map[string]struct{}, len(u.pending))
	for _, artifact := range u.pending {
		paths[artifact.Path] = struct{}{}
	}
	return paths
}

// Flush uploads the entire backlog oldest first, connecting to the provider
// if needed. Login failures leave the backlog untouched and are returned so
// callers can surface them; they are never fatal.
func (u *Uploader) Flush(ctx context.Context) (BatchResult, error) {
	if len(u.pending) == 0 {
		return BatchResult{}, nil
	}
	if err := u.ensureSession(ctx); err != nil {
		logging.ErrorWithContext(u.logger, "provider login failed", "auth_failed",
			logging.String(logging.FieldProvider, u.provider.Name()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "verify credentials; uploads retry on the next batch"),
		)
		return BatchResult{}, err
	}
	return u.flush(ctx), nil
}

// FlushIfConnected drains the backlog only when a session already exists.
// Used at shutdown, where a fresh login would stall the exit path.
func (u *Uploader) FlushIfConnected(ctx context.Context) BatchResult {
	if len(u.pending) == 0 {
		return BatchResult{}
	}
	if u.session == nil {
		u.logger.Info("skipping final flush, provider session was never established",
			logging.Int("kept", len(u.pending)),
		)
		return BatchResult{}
	}
	return u.flush(ctx)
}

func (u *Uploader) ensureSession(ctx context.Context) error {
	if u.session != nil {
		return nil
	}
	session, err := u.provider.Connect(ctx)
	if err != nil {
		return err
	}
	u.session = session
	u.folders = remote.NewFolderCache(session)
	return nil
}

func (u *Uploader) flush(ctx context.Context) BatchResult {
	result := BatchResult{BatchID: uuid.NewString()}
	u.logger.Debug("starting upload batch",
		logging.String(logging.FieldBatchID, result.BatchID),
		logging.Int("count", len(u.pending)),
		logging.String(logging.FieldProvider, u.provider.Name()),
	)

	kept := make([]*journal.Artifact, 0, len(u.pending))
	for i, artifact := range u.pending {
		if ctx.Err() != nil {
			kept = append(kept, u.pending[i:]...)
			result.Deferred = len(u.pending) - i
			break
		}
		if u.uploadOne(ctx, &result, artifact) {
			continue
		}
		kept = append(kept, artifact)
	}
	u.pending = kept

	u.logger.Info("upload batch complete",
		logging.String(logging.FieldBatchID, result.BatchID),
		logging.Int("uploaded", result.Uploaded),
		logging.Int("absent", result.Absent),
		logging.Int("failed", result.Failed),
		logging.Int("deferred", result.Deferred),
	)
	return result
}

// uploadOne settles a single artifact and reports whether it left the backlog.
func (u *Uploader) uploadOne(ctx context.Context, result *BatchResult, artifact *journal.Artifact) bool {
	if _, err := os.Stat(artifact.Path); err != nil {
		if os.IsNotExist(err) {
			u.journalWarn("mark absent", u.store.MarkAbsent(ctx, artifact.ID))
			artifact.Status = journal.StatusAbsent
			result.Absent++
			logging.WarnWithContext(u.logger, "screenshot vanished before upload", "upload_source_missing",
				logging.String(logging.FieldArtifact, artifact.Path),
				logging.String(logging.FieldImpact, "settled without a remote copy"),
				logging.String(logging.FieldErrorHint, "something outside the daemon removed the file"),
			)
			return true
		}
		u.markFailed(ctx, result, artifact, fmt.Errorf("stat local file: %w", err))
		return false
	}

	// The remote folder is re-derived from the file itself at upload time, so
	// renamed or hand-copied artifacts land under their true capture day. The
	// journaled key only covers the race where the file vanishes mid-batch.
	dayKey, err := daykey.Resolve(artifact.Path)
	if err != nil {
		dayKey = artifact.DayKey
	}
	folder, err := u.folders.Ensure(ctx, dayKey)
	if err != nil {
		u.markFailed(ctx, result, artifact, err)
		logging.ErrorWithContext(u.logger, "day folder creation failed", "folder_create_failed",
			logging.String(logging.FieldDayKey, dayKey),
			logging.Error(err),
		)
		return false
	}

	u.journalWarn("mark uploading", u.store.MarkUploading(ctx, artifact.ID, result.BatchID))
	artifact.Status = journal.StatusUploading

	if err := u.session.Upload(ctx, folder, artifact.Path, filepath.Base(artifact.Path)); err != nil {
		u.markFailed(ctx, result, artifact, err)
		logging.ErrorWithContext(u.logger, "screenshot upload failed", "upload_failed",
			logging.String(logging.FieldArtifact, artifact.Path),
			logging.String(logging.FieldBatchID, result.BatchID),
			logging.Error(err),
		)
		return false
	}

	if err := os.Remove(artifact.Path); err != nil && !os.IsNotExist(err) {
		reason := fmt.Sprintf("local delete failed: %v", err)
		u.journalWarn("requeue", u.store.Requeue(ctx, artifact.ID, reason))
		artifact.Status = journal.StatusPending
		artifact.ErrorMessage = reason
		result.Failed++
		logging.WarnWithContext(u.logger, "local delete failed after upload", "deletion_failed",
			logging.String(logging.FieldArtifact, artifact.Path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "file stays on disk and will be uploaded again"),
			logging.String(logging.FieldErrorHint, "check screenshot folder permissions"),
		)
		return false
	}

	u.journalWarn("mark uploaded", u.store.MarkUploaded(ctx, artifact.ID))
	artifact.Status = journal.StatusUploaded
	result.Uploaded++
	u.logger.Info("uploaded screenshot",
		logging.String(logging.FieldArtifact, artifact.Path),
		logging.String(logging.FieldDayKey, dayKey),
		logging.String(logging.FieldBatchID, result.BatchID),
	)
	return true
}

func (u *Uploader) markFailed(ctx context.Context, result *BatchResult, artifact *journal.Artifact, cause error) {
	u.journalWarn("mark failed", u.store.MarkFailed(ctx, artifact.ID, cause.Error()))
	artifact.Status = journal.StatusFailed
	artifact.ErrorMessage = cause.Error()
	result.Failed++
}

// journalWarn reports journal write problems without interrupting the batch.
// The in-memory list stays authoritative for the rest of the run.
func (u *Uploader) journalWarn(op string, err error) {
	if err == nil {
		return
	}
	logging.WarnWithContext(u.logger, "journal update failed", "journal_write_failed",
		logging.String("op", op),
		logging.Error(err),
		logging.String(logging.FieldImpact, "durable state may lag until the next successful write"),
	)
}
