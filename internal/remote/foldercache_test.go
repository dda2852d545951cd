package remote_test

import (
	"context"
	"errors"
	"testing"

	"screenguard/internal/remote"
)

type recordingFolder struct {
	path string
}

func (f recordingFolder) Path() string { return f.path }

type recordingSession struct {
	calls map[string]int
	fail  map[string]error
}

func newRecordingSession() *recordingSession {
	return &recordingSession{
		calls: make(map[string]int),
		fail:  make(map[string]error),
	}
}

func (s *recordingSession) EnsureFolder(_ context.Context, dayKey string) (remote.Folder, error) {
	s.calls[dayKey]++
	if err := s.fail[dayKey]; err != nil {
		return nil, err
	}
	return recordingFolder{path: "user/" + dayKey}, nil
}

func (s *recordingSession) Upload(context.Context, remote.Folder, string, string) error {
	return nil
}

func TestEnsureCreatesEachDayFolderOnce(t *testing.T) {
	session := newRecordingSession()
	cache := remote.NewFolderCache(session)

	ctx := context.Background()
	first, err := cache.Ensure(ctx, "21-11-2025")
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	second, err := cache.Ensure(ctx, "21-11-2025")
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if first != second {
		t.Fatal("expected cached handle on second lookup")
	}
	if session.calls["21-11-2025"] != 1 {
		t.Fatalf("expected exactly 1 remote call, got %d", session.calls["21-11-2025"])
	}

	if _, err := cache.Ensure(ctx, "22-11-2025"); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if session.calls["22-11-2025"] != 1 {
		t.Fatalf("expected 1 remote call for second day, got %d", session.calls["22-11-2025"])
	}
	if cache.Len() != 2 {
		t.Fatalf("expected 2 cached folders, got %d", cache.Len())
	}
}

func TestEnsureDoesNotCacheFailures(t *testing.T) {
	session := newRecordingSession()
	session.fail["21-11-2025"] = errors.New("quota exceeded")
	cache := remote.NewFolderCache(session)

	ctx := context.Background()
	if _, err := cache.Ensure(ctx, "21-11-2025"); err == nil {
		t.Fatal("expected folder creation error")
	}

	delete(session.fail, "21-11-2025")
	folder, err := cache.Ensure(ctx, "21-11-2025")
	if err != nil {
		t.Fatalf("Ensure retry failed: %v", err)
	}
	if folder.Path() != "user/21-11-2025" {
		t.Fatalf("unexpected folder path %q", folder.Path())
	}
	if session.calls["21-11-2025"] != 2 {
		t.Fatalf("expected failed lookup to be retried, got %d calls", session.calls["21-11-2025"])
	}
}
