package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"screenguard/internal/capture"
	"screenguard/internal/config"
	"screenguard/internal/journal"
	"screenguard/internal/logging"
	"screenguard/internal/retention"
	"screenguard/internal/uploader"
)

// Daemon owns the capture loop and enforces single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *journal.Store
	grabber  *capture.Grabber
	uploader *uploader.Uploader
	rotator  *retention.Rotator

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *journal.Store, grabber *capture.Grabber, up *uploader.Uploader, rotator *retention.Rotator, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || grabber == nil || up == nil || rotator == nil {
		return nil, errors.New("daemon requires config, journal store, grabber, uploader, and rotator")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		grabber:  grabber,
		uploader: up,
		rotator:  rotator,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock, runs startup maintenance, and launches
// the capture loop. Errors here are setup failures and abort the daemon;
// anything after Start returns is logged and retried instead.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another screenguard instance is already running")
	}

	if err := checkWritable(d.cfg.ScreenshotFolder); err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("screenshot folder preflight: %w", err)
	}

	recovered, err := d.store.RecoverInFlight(ctx)
	if err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("recover interrupted uploads: %w", err)
	}
	if recovered > 0 {
		d.logger.Info("recovered interrupted uploads", logging.Int64("count", recovered))
	}
	if pruned, err := d.store.PruneSettled(ctx, time.Now().Add(-d.cfg.SettledRetention())); err != nil {
		logging.WarnWithContext(d.logger, "journal pruning failed", "journal_prune_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "settled rows accumulate until the next successful prune"),
		)
	} else if pruned > 0 {
		d.logger.Debug("pruned settled journal rows", logging.Int64("count", pruned))
	}

	if d.cfg.EnableMega {
		if ready, reason := d.cfg.RemoteReady(); !ready {
			logging.WarnWithContext(d.logger, "upload backend not fully configured", "remote_not_ready",
				logging.String(logging.FieldProvider, d.cfg.Upload.Provider),
				logging.String(logging.FieldImpact, reason),
				logging.String(logging.FieldErrorHint, "edit the config file and restart"),
			)
		}
	} else {
		d.logger.Info("uploads disabled, captures accumulate locally until rotation")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.done = make(chan struct{})
	d.running.Store(true)

	d.logger.Info("screenguard daemon started",
		logging.Duration("interval", d.cfg.Interval()),
		logging.String("folder", d.cfg.ScreenshotFolder),
		logging.Int64("max_folder_bytes", d.cfg.MaxFolderBytes()),
		logging.Int("batch_size", d.cfg.UploadBatchSize),
		logging.Bool("uploads_enabled", d.cfg.EnableMega),
		logging.String("lock", d.lockPath),
	)

	go d.run(runCtx)
	return nil
}

// Stop halts the capture loop, drains the backlog over an existing session,
// and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	<-d.done

	// The run context is gone by now; the final flush gets an unbounded one
	// so confirmed-upload bookkeeping is never cut short mid-file.
	result := d.uploader.FlushIfConnected(context.Background())
	if result.Uploaded > 0 || result.Failed > 0 {
		d.logger.Info("final flush complete",
			logging.Int("uploaded", result.Uploaded),
			logging.Int("failed", result.Failed),
		)
	}

	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("screenguard daemon stopped")
}

// Close stops the daemon and releases the journal.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Running reports whether the capture loop is active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

func (d *Daemon) run(ctx context.Context) {
	defer close(d.done)

	// The first pass fires immediately; the ticker paces the rest.
	d.tick(ctx)

	ticker := time.NewTicker(d.cfg.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

// tick runs one capture/rotate/upload pass. A panic anywhere in the pass is
// logged and the loop keeps its schedule.
func (d *Daemon) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logging.ErrorWithContext(d.logger, "capture tick panicked", "unexpected_error",
				logging.Any("panic", r),
				logging.String("stack", string(debug.Stack())),
				logging.String(logging.FieldErrorHint, "file a bug with the surrounding log lines"),
			)
		}
	}()

	shot, err := d.grabber.Take(time.Now())
	if err != nil {
		logging.ErrorWithContext(d.logger, "screenshot capture failed", "capture_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check display availability and folder permissions"),
		)
	} else {
		artifact, err := d.store.Add(ctx, shot.Path, shot.DayKey, shot.SizeBytes)
		if err != nil {
			logging.WarnWithContext(d.logger, "journal insert failed", "journal_write_failed",
				logging.String(logging.FieldArtifact, shot.Path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "screenshot is not protected from rotation and will not be uploaded"),
			)
		} else {
			d.uploader.Track(artifact)
		}
	}

	if _, err := d.rotator.Rotate(d.uploader.ProtectedPaths()); err != nil {
		logging.WarnWithContext(d.logger, "size rotation failed", "rotation_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "screenshot folder may exceed its size ceiling"),
		)
	}

	if d.cfg.EnableMega && d.uploader.ShouldFlush() {
		// Login failures are already logged by the uploader and retried on
		// the next threshold crossing.
		_, _ = d.uploader.Flush(ctx)
	}
}
