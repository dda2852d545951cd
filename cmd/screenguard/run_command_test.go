package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunBootstrapsMissingConfig(t *testing.T) {
	base := t.TempDir()
	// Default paths expand under the home directory; keep them in the sandbox.
	t.Setenv("HOME", filepath.Join(base, "home"))
	missing := filepath.Join(base, "config.toml")

	out, _, err := runCLI(t, []string{"run"}, missing)
	if err != nil {
		t.Fatalf("run bootstrap: %v", err)
	}
	requireContains(t, out, "Wrote starter configuration")
	if _, err := os.Stat(missing); err != nil {
		t.Fatalf("expected starter config at %s: %v", missing, err)
	}
}
