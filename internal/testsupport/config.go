package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"screenguard/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config whose paths all live in per-test temp
// directories. Uploads stay disabled so nothing reaches a real backend.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.ScreenshotFolder = filepath.Join(base, "shots")
	cfg.Journal.Path = filepath.Join(base, "state", "journal.db")
	cfg.LogFile = filepath.Join(base, "logs", "screenguard.log")

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := os.MkdirAll(cfg.ScreenshotFolder, 0o755); err != nil {
		t.Fatalf("create screenshot folder: %v", err)
	}
	return &cfg
}

// WithInterval sets the capture cadence in seconds.
func WithInterval(seconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.IntervalSeconds = seconds
	}
}

// WithBatchSize sets the upload threshold.
func WithBatchSize(size int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.UploadBatchSize = size
	}
}
