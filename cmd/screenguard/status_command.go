package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"screenguard/internal/config"
	"screenguard/internal/fileutil"
	"screenguard/internal/journal"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show capture backlog, folder usage, and upload readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return renderStatus(cmd.Context(), cmd.OutOrStdout(), cfg, ctx.configPath, ctx.configFound)
		},
	}
}

func renderStatus(ctx context.Context, out io.Writer, cfg *config.Config, configPath string, configFound bool) error {
	colorize := shouldColorize(out)

	fmt.Fprintln(out, renderSectionHeader("Configuration", colorize))
	if configFound {
		fmt.Fprintln(out, renderStatusLine("Config file", statusOK, configPath, colorize))
	} else {
		fmt.Fprintln(out, renderStatusLine("Config file", statusWarn, fmt.Sprintf("%s missing, defaults in use", configPath), colorize))
	}
	fmt.Fprintln(out, renderValueLine("Interval", cfg.Interval().String()))
	fmt.Fprintln(out, renderValueLine("Format", cfg.Capture.Format))

	fmt.Fprintln(out)
	fmt.Fprintln(out, renderSectionHeader("Screenshot folder", colorize))
	fmt.Fprintln(out, renderValueLine("Path", cfg.ScreenshotFolder))
	renderDiskUsage(out, cfg, colorize)

	fmt.Fprintln(out)
	fmt.Fprintln(out, renderSectionHeader("Upload", colorize))
	fmt.Fprintln(out, renderValueLine("Provider", cfg.Upload.Provider))
	fmt.Fprintln(out, renderValueLine("Automatic", yesNo(cfg.EnableMega)))
	if ready, reason := cfg.RemoteReady(); ready {
		fmt.Fprintln(out, renderStatusLine("Credentials", statusOK, "", colorize))
	} else {
		fmt.Fprintln(out, renderStatusLine("Credentials", statusWarn, reason, colorize))
	}
	fmt.Fprintln(out, renderValueLine("Remote root", cfg.RemoteRoot()))

	fmt.Fprintln(out)
	fmt.Fprintln(out, renderSectionHeader("Backlog", colorize))
	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		return fmt.Errorf("open artifact journal: %w", err)
	}
	defer store.Close()
	fmt.Fprintln(out, renderValueLine("Journal", store.Path()))

	summary, err := store.Summarize(ctx)
	if err != nil {
		return fmt.Errorf("summarize journal: %w", err)
	}
	fmt.Fprintln(out, renderValueLine("Unsettled", fmt.Sprintf("%d screenshots (%s)",
		summary.Unsettled(), humanize.IBytes(uint64(summary.UnsettledBytes)))))
	for _, status := range journal.AllStatuses() {
		count := summary.Count(status)
		if count == 0 {
			continue
		}
		if status == journal.StatusFailed {
			fmt.Fprintln(out, renderStatusLine(statusLabel(status), statusWarn, fmt.Sprintf("%d waiting for retry", count), colorize))
			continue
		}
		fmt.Fprintln(out, renderValueLine(statusLabel(status), fmt.Sprintf("%d", count)))
	}

	days, err := store.UnsettledByDay(ctx)
	if err != nil {
		return fmt.Errorf("group backlog by day: %w", err)
	}
	if len(days) > 0 {
		rows := make([][]string, 0, len(days))
		for _, day := range days {
			rows = append(rows, []string{day.DayKey, fmt.Sprintf("%d", day.Count), humanize.IBytes(uint64(day.Bytes))})
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, renderTable([]string{"DAY", "SCREENSHOTS", "SIZE"}, rows, 1, 2))
	}
	return nil
}

func statusLabel(status journal.Status) string {
	name := string(status)
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func renderDiskUsage(out io.Writer, cfg *config.Config, colorize bool) {
	usage, err := fileutil.TreeSize(cfg.ScreenshotFolder)
	if err != nil {
		fmt.Fprintln(out, renderStatusLine("Disk usage", statusError, err.Error(), colorize))
		return
	}
	ceiling := cfg.MaxFolderBytes()
	switch {
	case ceiling <= 0:
		fmt.Fprintln(out, renderValueLine("Disk usage", fmt.Sprintf("%s (rotation disabled)", humanize.IBytes(uint64(usage)))))
	case usage > ceiling:
		fmt.Fprintln(out, renderStatusLine("Disk usage", statusWarn,
			fmt.Sprintf("%s of %s, over the rotation ceiling", humanize.IBytes(uint64(usage)), humanize.IBytes(uint64(ceiling))), colorize))
	default:
		fmt.Fprintln(out, renderStatusLine("Disk usage", statusOK,
			fmt.Sprintf("%s of %s", humanize.IBytes(uint64(usage)), humanize.IBytes(uint64(ceiling))), colorize))
	}
}
