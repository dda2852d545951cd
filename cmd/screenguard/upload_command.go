package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"screenguard/internal/daemonrun"
	"screenguard/internal/journal"
	"screenguard/internal/logging"
	"screenguard/internal/uploader"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "upload",
		Short: "Upload the pending backlog now and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if ready, reason := cfg.RemoteReady(); !ready {
				return fmt.Errorf("upload backend not configured: %s", reason)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			lock := flock.New(cfg.LockPath())
			ok, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire lock: %w", err)
			}
			if !ok {
				return errors.New("the screenguard daemon is running; it flushes the backlog on its own schedule")
			}
			defer func() { _ = lock.Unlock() }()

			// Log to stderr so command output stays parseable.
			logger, err := logging.New(logging.Options{
				Level:   cfg.Logging.Level,
				Format:  cfg.Logging.Format,
				Console: os.Stderr,
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			store, err := journal.Open(cfg.Journal.Path)
			if err != nil {
				return fmt.Errorf("open artifact journal: %w", err)
			}
			defer store.Close()

			if _, err := store.RecoverInFlight(cmd.Context()); err != nil {
				return fmt.Errorf("recover interrupted uploads: %w", err)
			}

			provider, err := daemonrun.NewProvider(cfg, logger)
			if err != nil {
				return err
			}
			up, err := uploader.New(cmd.Context(), cfg, store, provider, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if up.PendingCount() == 0 {
				fmt.Fprintln(out, "Nothing to upload")
				return nil
			}

			fmt.Fprintf(out, "Uploading %d screenshot(s) via %s\n", up.PendingCount(), provider.Name())
			result, err := up.Flush(cmd.Context())
			if err != nil {
				return fmt.Errorf("flush backlog: %w", err)
			}
			fmt.Fprintf(out, "Uploaded %d, settled %d missing, %d failed\n", result.Uploaded, result.Absent, result.Failed)
			if result.Failed > 0 {
				return fmt.Errorf("%d upload(s) failed; the journal keeps them for retry", result.Failed)
			}
			return nil
		},
	}
}
