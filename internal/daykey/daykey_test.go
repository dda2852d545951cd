package daykey_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"screenguard/internal/daykey"
)

func TestFromFilenameParsesDateToken(t *testing.T) {
	key, ok := daykey.FromFilename("screenshot_20251121_220005.png")
	if !ok {
		t.Fatal("expected parseable filename")
	}
	if key != "21-11-2025" {
		t.Fatalf("key = %q, want 21-11-2025", key)
	}
}

func TestFromFilenameIgnoresDirectory(t *testing.T) {
	key, ok := daykey.FromFilename("/data/shots/21-11-2025/screenshot_20260101_000000.jpeg")
	if !ok {
		t.Fatal("expected parseable filename")
	}
	if key != "01-01-2026" {
		t.Fatalf("key = %q, want 01-01-2026", key)
	}
}

func TestFromFilenameRejectsBadTokens(t *testing.T) {
	cases := []string{
		"screenshot.png",               // no date token
		"screenshot_notadate_0005.png", // non-numeric token
		"screenshot_20251301_0005.png", // month 13
		"screenshot_2025112_0005.png",  // short token
		"my_shot_20251121_220005.png",  // date not in second position
	}
	for _, name := range cases {
		if key, ok := daykey.FromFilename(name); ok {
			t.Errorf("FromFilename(%q) = %q, expected failure", name, key)
		}
	}
}

func TestResolveFallsBackToModTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unparseable.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2025, time.March, 7, 15, 4, 5, 0, time.Local)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	key, err := daykey.Resolve(path)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if key != "07-03-2025" {
		t.Fatalf("key = %q, want 07-03-2025", key)
	}
}

func TestResolvePrefersFilenameOverModTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "screenshot_20251121_220005.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	mtime := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.Local)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatal(err)
	}

	key, err := daykey.Resolve(path)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if key != "21-11-2025" {
		t.Fatalf("key = %q, want 21-11-2025", key)
	}
}

func TestResolveFailsForMissingUnparseableFile(t *testing.T) {
	if _, err := daykey.Resolve(filepath.Join(t.TempDir(), "gone.png")); err == nil {
		t.Fatal("expected error for missing unparseable file")
	}
}

func TestFormat(t *testing.T) {
	ts := time.Date(2025, time.November, 21, 22, 0, 5, 0, time.Local)
	if got := daykey.Format(ts); got != "21-11-2025" {
		t.Fatalf("Format = %q, want 21-11-2025", got)
	}
}
