package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDirCreatesNestedPath(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b", "c")

	if err := EnsureDir(nested); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(nested)
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsDir() {
		t.Fatalf("expected directory at %s", nested)
	}

	// Idempotent on an existing directory.
	if err := EnsureDir(nested); err != nil {
		t.Fatal(err)
	}
}

func TestTreeSizeSumsNestedFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "21-11-2025"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "top.bin"), make([]byte, 100), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "21-11-2025", "nested.bin"), make([]byte, 250), 0o644); err != nil {
		t.Fatal(err)
	}

	total, err := TreeSize(dir)
	if err != nil {
		t.Fatal(err)
	}
	if total != 350 {
		t.Fatalf("TreeSize = %d, want 350", total)
	}
}

func TestTreeSizeEmptyTree(t *testing.T) {
	total, err := TreeSize(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 {
		t.Fatalf("TreeSize = %d, want 0", total)
	}
}

