package daemonrun

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"screenguard/internal/capture"
	"screenguard/internal/config"
	"screenguard/internal/daemon"
	"screenguard/internal/journal"
	"screenguard/internal/logging"
	"screenguard/internal/remote"
	"screenguard/internal/remote/megacloud"
	"screenguard/internal/remote/s3store"
	"screenguard/internal/retention"
	"screenguard/internal/uploader"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
}

// Run wires the capture pipeline together and blocks until a signal arrives.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("prepare directories: %w", err)
	}

	level := cfg.Logging.Level
	if strings.TrimSpace(opts.LogLevel) != "" {
		level = opts.LogLevel
	}
	logger, err := logging.New(logging.Options{
		Level:      level,
		Format:     cfg.Logging.Format,
		Console:    os.Stdout,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	pidPath := cfg.PIDPath()
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		logger.Error("open artifact journal", logging.Error(err))
		return err
	}
	defer store.Close()

	provider, err := NewProvider(cfg, logger)
	if err != nil {
		return err
	}

	up, err := uploader.New(signalCtx, cfg, store, provider, logger)
	if err != nil {
		return fmt.Errorf("prepare uploader: %w", err)
	}

	grabber := capture.New(cfg, logger, capture.System())
	rotator := retention.New(cfg.ScreenshotFolder, cfg.MaxFolderBytes(), logger)

	d, err := daemon.New(cfg, store, grabber, up, rotator, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}

	if err := d.Start(signalCtx); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	<-signalCtx.Done()
	logger.Info("screenguard daemon shutting down")
	d.Stop()
	return nil
}

// NewProvider selects the upload backend named by the configuration.
func NewProvider(cfg *config.Config, logger *slog.Logger) (remote.Provider, error) {
	switch cfg.Upload.Provider {
	case config.ProviderMega:
		return megacloud.New(cfg, logger), nil
	case config.ProviderS3:
		return s3store.New(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown upload provider %q", cfg.Upload.Provider)
	}
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
