package testsupport

import (
	"context"
	"testing"

	"screenguard/internal/config"
	"screenguard/internal/journal"
)

// MustOpenJournal opens the configured journal for tests and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// AddPending journals a pending artifact for tests.
func AddPending(t testing.TB, store *journal.Store, path, dayKey string, size int64) *journal.Artifact {
	t.Helper()

	artifact, err := store.Add(context.Background(), path, dayKey, size)
	if err != nil {
		t.Fatalf("store.Add: %v", err)
	}
	return artifact
}
