// Package retention keeps the local screenshot tree under its configured
// size ceiling by deleting the oldest files first.
//
// Rotation never touches protected paths; artifacts awaiting upload stay on
// disk no matter how far the tree is over the ceiling. That degraded state is
// accepted and logged rather than "fixed" by deleting unuploaded captures.
package retention

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"screenguard/internal/logging"
)

// Result summarizes one rotation pass.
type Result struct {
	StartBytes   int64
	EndBytes     int64
	Deleted      int
	DeletedBytes int64
	Failed       int
}

// Rotator deletes the oldest files under root when the tree outgrows the
// byte ceiling. A ceiling of zero or below disables rotation entirely.
type Rotator struct {
	root    string
	ceiling int64
	logger  *slog.Logger
}

// New returns a Rotator for the given tree. The logger may be nil.
func New(root string, ceiling int64, logger *slog.Logger) *Rotator {
	return &Rotator{
		root:    root,
		ceiling: ceiling,
		logger:  logging.NewComponentLogger(logger, "retention"),
	}
}

type candidate struct {
	path    string
	size    int64
	modTime time.Time
}

// Rotate walks the tree once and, if it exceeds the ceiling, deletes
// unprotected files oldest-first until the running total fits. Deletion
// failures are logged and skipped; the artifact simply survives until a
// later pass. Protected paths are never deleted.
func (r *Rotator) Rotate(protected map[string]struct{}) (Result, error) {
	if r.ceiling <= 0 {
		return Result{}, nil
	}

	candidates, total, err := r.collect()
	if err != nil {
		return Result{}, err
	}

	result := Result{StartBytes: total, EndBytes: total}
	if total <= r.ceiling {
		return result, nil
	}

	r.logger.Info("folder size exceeds limit, starting rotation",
		logging.Int64("tree_bytes", total),
		logging.Int64("limit_bytes", r.ceiling),
	)

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].modTime.Equal(candidates[j].modTime) {
			return candidates[i].path < candidates[j].path
		}
		return candidates[i].modTime.Before(candidates[j].modTime)
	})

	for _, cand := range candidates {
		if total <= r.ceiling {
			break
		}
		if _, ok := protected[cand.path]; ok {
			continue
		}
		if err := os.Remove(cand.path); err != nil {
			result.Failed++
			logging.WarnWithContext(r.logger, "rotation delete failed; file remains", "delete_failed",
				logging.String(logging.FieldArtifact, cand.path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check screenshot folder permissions"),
				logging.String(logging.FieldImpact, "tree stays over the size limit until a later pass"),
			)
			continue
		}
		total -= cand.size
		result.Deleted++
		result.DeletedBytes += cand.size
		r.logger.Info("deleted old screenshot",
			logging.String(logging.FieldArtifact, cand.path),
			logging.Int64("freed_bytes", cand.size),
			logging.String(logging.FieldEventType, "rotation_delete"),
		)
	}

	result.EndBytes = total
	if total > r.ceiling {
		logging.WarnWithContext(r.logger, "rotation exhausted deletable files", "rotation_exhausted",
			logging.Int64("tree_bytes", total),
			logging.Int64("limit_bytes", r.ceiling),
			logging.String(logging.FieldImpact, "protected artifacts keep the tree over the size limit"),
			logging.String(logging.FieldErrorHint, "check remote uploads; pending artifacts are never rotated away"),
		)
	} else {
		r.logger.Info("rotation complete",
			logging.Int64("tree_bytes", total),
			logging.Int("deleted", result.Deleted),
		)
	}
	return result, nil
}

// collect gathers every regular file under root with its size and mtime.
// Files that vanish mid-walk are skipped.
func (r *Rotator) collect() ([]candidate, int64, error) {
	var (
		candidates []candidate
		total      int64
	)
	err := filepath.WalkDir(r.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		candidates = append(candidates, candidate{path: path, size: info.Size(), modTime: info.ModTime()})
		total += info.Size()
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return candidates, total, nil
}
