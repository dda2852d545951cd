package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"screenguard/internal/config"
)

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeTestConfig writes a config file whose paths all live under base. Extra
// lines are inserted as top-level keys.
func writeTestConfig(t *testing.T, base string, extra ...string) (string, *config.Config) {
	t.Helper()

	cfg := config.Default()
	cfg.ScreenshotFolder = filepath.Join(base, "shots")
	cfg.Journal.Path = filepath.Join(base, "state", "journal.db")
	cfg.LogFile = filepath.Join(base, "logs", "screenguard.log")

	lines := []string{
		fmt.Sprintf("screenshot_folder = %q", cfg.ScreenshotFolder),
		fmt.Sprintf("log_file = %q", cfg.LogFile),
	}
	lines = append(lines, extra...)
	lines = append(lines, "", "[journal]", fmt.Sprintf("path = %q", cfg.Journal.Path))

	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path, &cfg
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
