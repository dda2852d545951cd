package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteScreenshot places size bytes of filler at root/dayKey/name and returns
// the full path.
func WriteScreenshot(t testing.TB, root, dayKey, name string, size int) string {
	t.Helper()

	dir := filepath.Join(root, dayKey)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create day folder: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, size), 0o644); err != nil {
		t.Fatalf("write screenshot %s: %v", name, err)
	}
	return path
}
