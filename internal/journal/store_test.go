package journal_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"screenguard/internal/journal"
)

func newStore(t *testing.T) *journal.Store {
	t.Helper()
	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestOpenAppliesMigrations(t *testing.T) {
	store := newStore(t)

	ctx := context.Background()
	artifact, err := store.Add(ctx, "/shots/21-11-2025/screenshot_20251121_220005.png", "21-11-2025", 2048)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if artifact.ID == 0 {
		t.Fatal("expected artifact ID to be assigned")
	}
	if artifact.Status != journal.StatusPending {
		t.Fatalf("expected pending status, got %s", artifact.Status)
	}
	if artifact.DayKey != "21-11-2025" {
		t.Fatalf("unexpected day key %q", artifact.DayKey)
	}
	if artifact.SizeBytes != 2048 {
		t.Fatalf("unexpected size %d", artifact.SizeBytes)
	}

	fetched, err := store.GetByID(ctx, artifact.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil || fetched.Path != artifact.Path {
		t.Fatalf("unexpected fetched artifact: %#v", fetched)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	first, err := journal.Open(path)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	if _, err := first.Add(context.Background(), "/shots/a.png", "01-01-2026", 1); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := journal.Open(path)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer second.Close()
	if second.Path() != path {
		t.Fatalf("expected store path %q, got %q", path, second.Path())
	}

	unsettled, err := second.Unsettled(context.Background())
	if err != nil {
		t.Fatalf("Unsettled failed: %v", err)
	}
	if len(unsettled) != 1 {
		t.Fatalf("expected 1 unsettled artifact after reopen, got %d", len(unsettled))
	}
}

func TestAddRejectsEmptyFields(t *testing.T) {
	store := newStore(t)

	ctx := context.Background()
	if _, err := store.Add(ctx, "", "21-11-2025", 10); err == nil {
		t.Fatal("expected error for empty path")
	}
	if _, err := store.Add(ctx, "/shots/x.png", "  ", 10); err == nil {
		t.Fatal("expected error for empty day key")
	}
}

func TestUnsettledOrdersOldestFirst(t *testing.T) {
	store := newStore(t)

	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		artifact, err := store.Add(ctx, fmt.Sprintf("/shots/screenshot_%d.png", i), "21-11-2025", 10)
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		ids = append(ids, artifact.ID)
	}

	unsettled, err := store.Unsettled(ctx)
	if err != nil {
		t.Fatalf("Unsettled failed: %v", err)
	}
	if len(unsettled) != 3 {
		t.Fatalf("expected 3 unsettled artifacts, got %d", len(unsettled))
	}
	for i, artifact := range unsettled {
		if artifact.ID != ids[i] {
			t.Fatalf("position %d: expected id %d, got %d", i, ids[i], artifact.ID)
		}
	}
}

func TestTransitionsDriveLifecycle(t *testing.T) {
	store := newStore(t)

	ctx := context.Background()
	artifact, err := store.Add(ctx, "/shots/screenshot_a.png", "21-11-2025", 100)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := store.MarkUploading(ctx, artifact.ID, "batch-1"); err != nil {
		t.Fatalf("MarkUploading failed: %v", err)
	}
	current, err := store.GetByID(ctx, artifact.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if current.Status != journal.StatusUploading {
		t.Fatalf("expected uploading, got %s", current.Status)
	}
	if current.Attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", current.Attempts)
	}
	if current.BatchID != "batch-1" {
		t.Fatalf("expected batch id recorded, got %q", current.BatchID)
	}

	if err := store.MarkFailed(ctx, artifact.ID, "upload refused"); err != nil {
		t.Fatalf("MarkFailed failed: %v", err)
	}
	current, err = store.GetByID(ctx, artifact.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if current.Status != journal.StatusFailed {
		t.Fatalf("expected failed, got %s", current.Status)
	}
	if current.ErrorMessage != "upload refused" {
		t.Fatalf("expected error message recorded, got %q", current.ErrorMessage)
	}
	if current.IsSettled() {
		t.Fatal("failed artifacts must stay unsettled")
	}

	if err := store.MarkUploading(ctx, artifact.ID, "batch-2"); err != nil {
		t.Fatalf("MarkUploading failed: %v", err)
	}
	if err := store.MarkUploaded(ctx, artifact.ID); err != nil {
		t.Fatalf("MarkUploaded failed: %v", err)
	}
	current, err = store.GetByID(ctx, artifact.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if current.Status != journal.StatusUploaded {
		t.Fatalf("expected uploaded, got %s", current.Status)
	}
	if current.Attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", current.Attempts)
	}
	if current.UploadedAt == nil {
		t.Fatal("expected uploaded_at to be set")
	}
	if current.ErrorMessage != "" {
		t.Fatalf("expected error message cleared, got %q", current.ErrorMessage)
	}
	if !current.IsSettled() {
		t.Fatal("uploaded artifacts must be settled")
	}
}

func TestMarkAbsentSettlesWithoutUpload(t *testing.T) {
	store := newStore(t)

	ctx := context.Background()
	artifact, err := store.Add(ctx, "/shots/screenshot_gone.png", "21-11-2025", 100)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.MarkAbsent(ctx, artifact.ID); err != nil {
		t.Fatalf("MarkAbsent failed: %v", err)
	}

	current, err := store.GetByID(ctx, artifact.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if current.Status != journal.StatusAbsent {
		t.Fatalf("expected absent, got %s", current.Status)
	}
	if current.UploadedAt != nil {
		t.Fatal("absent artifacts must not carry an upload timestamp")
	}
	if !current.IsSettled() {
		t.Fatal("absent artifacts must be settled")
	}
}

func TestRequeueKeepsArtifactProtected(t *testing.T) {
	store := newStore(t)

	ctx := context.Background()
	artifact, err := store.Add(ctx, "/shots/screenshot_b.png", "21-11-2025", 100)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.MarkUploading(ctx, artifact.ID, "batch-1"); err != nil {
		t.Fatalf("MarkUploading failed: %v", err)
	}
	if err := store.Requeue(ctx, artifact.ID, "local delete failed"); err != nil {
		t.Fatalf("Requeue failed: %v", err)
	}

	current, err := store.GetByID(ctx, artifact.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if current.Status != journal.StatusPending {
		t.Fatalf("expected pending, got %s", current.Status)
	}
	if current.ErrorMessage != "local delete failed" {
		t.Fatalf("expected reason recorded, got %q", current.ErrorMessage)
	}
	if current.Attempts != 1 {
		t.Fatalf("expected attempts preserved, got %d", current.Attempts)
	}

	protected, err := store.ProtectedPaths(ctx)
	if err != nil {
		t.Fatalf("ProtectedPaths failed: %v", err)
	}
	if _, ok := protected[artifact.Path]; !ok {
		t.Fatal("requeued artifact must remain protected")
	}
}

func TestRecoverInFlight(t *testing.T) {
	store := newStore(t)

	ctx := context.Background()
	var inflight []int64
	for i := 0; i < 2; i++ {
		artifact, err := store.Add(ctx, fmt.Sprintf("/shots/screenshot_inflight_%d.png", i), "21-11-2025", 10)
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		if err := store.MarkUploading(ctx, artifact.ID, "batch-crash"); err != nil {
			t.Fatalf("MarkUploading failed: %v", err)
		}
		inflight = append(inflight, artifact.ID)
	}
	settled, err := store.Add(ctx, "/shots/screenshot_done.png", "21-11-2025", 10)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.MarkUploading(ctx, settled.ID, "batch-crash"); err != nil {
		t.Fatalf("MarkUploading failed: %v", err)
	}
	if err := store.MarkUploaded(ctx, settled.ID); err != nil {
		t.Fatalf("MarkUploaded failed: %v", err)
	}

	count, err := store.RecoverInFlight(ctx)
	if err != nil {
		t.Fatalf("RecoverInFlight failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 recovered artifacts, got %d", count)
	}
	for _, id := range inflight {
		current, err := store.GetByID(ctx, id)
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if current.Status != journal.StatusPending {
			t.Fatalf("expected pending after recovery, got %s", current.Status)
		}
	}
	done, err := store.GetByID(ctx, settled.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if done.Status != journal.StatusUploaded {
		t.Fatalf("uploaded artifact must not be recovered, got %s", done.Status)
	}
}

func TestProtectedPathsExcludesSettled(t *testing.T) {
	store := newStore(t)

	ctx := context.Background()
	pending, err := store.Add(ctx, "/shots/pending.png", "21-11-2025", 10)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	uploaded, err := store.Add(ctx, "/shots/uploaded.png", "21-11-2025", 10)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.MarkUploading(ctx, uploaded.ID, "batch-1"); err != nil {
		t.Fatalf("MarkUploading failed: %v", err)
	}
	if err := store.MarkUploaded(ctx, uploaded.ID); err != nil {
		t.Fatalf("MarkUploaded failed: %v", err)
	}
	absent, err := store.Add(ctx, "/shots/absent.png", "21-11-2025", 10)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.MarkAbsent(ctx, absent.ID); err != nil {
		t.Fatalf("MarkAbsent failed: %v", err)
	}

	protected, err := store.ProtectedPaths(ctx)
	if err != nil {
		t.Fatalf("ProtectedPaths failed: %v", err)
	}
	if len(protected) != 1 {
		t.Fatalf("expected exactly 1 protected path, got %d", len(protected))
	}
	if _, ok := protected[pending.Path]; !ok {
		t.Fatal("pending artifact must be protected")
	}
}

func TestSummarizeCountsAndBytes(t *testing.T) {
	store := newStore(t)

	ctx := context.Background()
	a, err := store.Add(ctx, "/shots/a.png", "20-11-2025", 100)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := store.Add(ctx, "/shots/b.png", "21-11-2025", 200); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	c, err := store.Add(ctx, "/shots/c.png", "21-11-2025", 400)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.MarkFailed(ctx, a.ID, "boom"); err != nil {
		t.Fatalf("MarkFailed failed: %v", err)
	}
	if err := store.MarkUploading(ctx, c.ID, "batch-1"); err != nil {
		t.Fatalf("MarkUploading failed: %v", err)
	}
	if err := store.MarkUploaded(ctx, c.ID); err != nil {
		t.Fatalf("MarkUploaded failed: %v", err)
	}

	summary, err := store.Summarize(ctx)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.Total != 3 {
		t.Fatalf("expected total 3, got %d", summary.Total)
	}
	if summary.Pending != 1 || summary.Failed != 1 || summary.Uploaded != 1 {
		t.Fatalf("unexpected summary: %#v", summary)
	}
	if summary.Unsettled() != 2 {
		t.Fatalf("expected 2 unsettled, got %d", summary.Unsettled())
	}
	if summary.UnsettledBytes != 300 {
		t.Fatalf("expected 300 unsettled bytes, got %d", summary.UnsettledBytes)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats[journal.StatusPending] != 1 || stats[journal.StatusFailed] != 1 || stats[journal.StatusUploaded] != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}

	var counted int
	for _, status := range journal.AllStatuses() {
		if got := summary.Count(status); got != stats[status] {
			t.Fatalf("Count(%s): expected %d, got %d", status, stats[status], got)
		}
		counted += summary.Count(status)
	}
	if counted != summary.Total {
		t.Fatalf("expected status counts to sum to total %d, got %d", summary.Total, counted)
	}
}

func TestUnsettledByDayGroupsBacklog(t *testing.T) {
	store := newStore(t)

	ctx := context.Background()
	if _, err := store.Add(ctx, "/shots/old1.png", "20-11-2025", 100); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := store.Add(ctx, "/shots/old2.png", "20-11-2025", 150); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, err := store.Add(ctx, "/shots/new1.png", "21-11-2025", 50); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	backlog, err := store.UnsettledByDay(ctx)
	if err != nil {
		t.Fatalf("UnsettledByDay failed: %v", err)
	}
	if len(backlog) != 2 {
		t.Fatalf("expected 2 day groups, got %d", len(backlog))
	}
	if backlog[0].DayKey != "20-11-2025" || backlog[0].Count != 2 || backlog[0].Bytes != 250 {
		t.Fatalf("unexpected first group: %#v", backlog[0])
	}
	if backlog[1].DayKey != "21-11-2025" || backlog[1].Count != 1 || backlog[1].Bytes != 50 {
		t.Fatalf("unexpected second group: %#v", backlog[1])
	}
}

func TestPruneSettledKeepsUnsettled(t *testing.T) {
	store := newStore(t)

	ctx := context.Background()
	keep, err := store.Add(ctx, "/shots/keep.png", "21-11-2025", 10)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	gone, err := store.Add(ctx, "/shots/gone.png", "21-11-2025", 10)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := store.MarkUploading(ctx, gone.ID, "batch-1"); err != nil {
		t.Fatalf("MarkUploading failed: %v", err)
	}
	if err := store.MarkUploaded(ctx, gone.ID); err != nil {
		t.Fatalf("MarkUploaded failed: %v", err)
	}

	pruned, err := store.PruneSettled(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("PruneSettled failed: %v", err)
	}
	if pruned != 1 {
		t.Fatalf("expected 1 pruned row, got %d", pruned)
	}

	remaining, err := store.GetByID(ctx, keep.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if remaining == nil || remaining.Status != journal.StatusPending {
		t.Fatalf("unsettled artifact must survive pruning: %#v", remaining)
	}
	removed, err := store.GetByID(ctx, gone.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if removed != nil {
		t.Fatalf("settled artifact should be pruned, got %#v", removed)
	}
}

func TestParseStatus(t *testing.T) {
	cases := []struct {
		input string
		want  journal.Status
		ok    bool
	}{
		{"pending", journal.StatusPending, true},
		{" UPLOADED ", journal.StatusUploaded, true},
		{"absent", journal.StatusAbsent, true},
		{"bogus", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := journal.ParseStatus(tc.input)
		if ok != tc.ok {
			t.Fatalf("ParseStatus(%q): expected ok=%v, got %v", tc.input, tc.ok, ok)
		}
		if ok && got != tc.want {
			t.Fatalf("ParseStatus(%q): expected %s, got %s", tc.input, tc.want, got)
		}
	}
}
