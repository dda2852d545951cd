package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"screenguard/internal/config"
	"screenguard/internal/daemonrun"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the capture daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			// First run: write a starter config and stop so credentials can
			// be filled in before anything is captured or uploaded.
			if !ctx.configFound {
				if err := config.CreateSample(ctx.configPath); err != nil {
					return fmt.Errorf("create starter config: %w", err)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Wrote starter configuration to %s\n", ctx.configPath)
				fmt.Fprintln(out, "Review the capture folder and upload credentials, then start screenguard again.")
				return nil
			}

			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{LogLevel: logLevel})
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")
	return cmd
}
