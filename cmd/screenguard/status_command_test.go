package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"screenguard/internal/journal"
)

func TestStatusRendersBacklog(t *testing.T) {
	base := t.TempDir()
	configPath, cfg := writeTestConfig(t, base)

	shot := filepath.Join(cfg.ScreenshotFolder, "21-11-2025", "screenshot_20251121_220005.png")
	if err := os.MkdirAll(filepath.Dir(shot), 0o755); err != nil {
		t.Fatalf("create day folder: %v", err)
	}
	if err := os.WriteFile(shot, make([]byte, 2048), 0o644); err != nil {
		t.Fatalf("write screenshot: %v", err)
	}

	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	if _, err := store.Add(context.Background(), shot, "21-11-2025", 2048); err != nil {
		t.Fatalf("journal screenshot: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close journal: %v", err)
	}

	out, _, err := runCLI(t, []string{"status"}, configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Screenshot folder ==")
	requireContains(t, out, "Disk usage")
	requireContains(t, out, "Journal:")
	requireContains(t, out, cfg.Journal.Path)
	requireContains(t, out, "Unsettled:")
	requireContains(t, out, "1 screenshots")
	requireContains(t, out, "Pending:")
	requireContains(t, out, "21-11-2025")
}

func TestStatusWithMissingConfigUsesDefaults(t *testing.T) {
	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))

	out, _, err := runCLI(t, []string{"status"}, filepath.Join(base, "config.toml"))
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "defaults in use")
}
