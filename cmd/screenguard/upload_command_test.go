package main

import (
	"os"
	"testing"

	"github.com/gofrs/flock"
)

func TestUploadRequiresCredentials(t *testing.T) {
	configPath, _ := writeTestConfig(t, t.TempDir())

	_, _, err := runCLI(t, []string{"upload"}, configPath)
	if err == nil {
		t.Fatal("expected upload to fail without credentials")
	}
	requireContains(t, err.Error(), "not configured")
}

func TestUploadWithEmptyBacklog(t *testing.T) {
	configPath, _ := writeTestConfig(t, t.TempDir(),
		`mega_email = "ops@example.com"`,
		`mega_password = "hunter2"`,
	)

	out, _, err := runCLI(t, []string{"upload"}, configPath)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	requireContains(t, out, "Nothing to upload")
}

func TestUploadRefusesWhileDaemonHoldsLock(t *testing.T) {
	configPath, cfg := writeTestConfig(t, t.TempDir(),
		`mega_email = "ops@example.com"`,
		`mega_password = "hunter2"`,
	)

	if err := os.MkdirAll(cfg.StateDir(), 0o755); err != nil {
		t.Fatalf("create state dir: %v", err)
	}
	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil || !ok {
		t.Fatalf("acquire lock: ok=%v err=%v", ok, err)
	}
	defer func() { _ = lock.Unlock() }()

	_, _, err = runCLI(t, []string{"upload"}, configPath)
	if err == nil {
		t.Fatal("expected upload to refuse while the daemon lock is held")
	}
	requireContains(t, err.Error(), "daemon is running")
}
