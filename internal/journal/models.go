package journal

import (
	"strings"
	"time"
)

// Status represents the upload lifecycle of a captured artifact.
type Status string

const (
	// StatusPending marks artifacts captured to disk and waiting for upload.
	StatusPending Status = "pending"
	// StatusUploading marks artifacts handed to a provider session.
	StatusUploading Status = "uploading"
	// StatusUploaded marks artifacts with a confirmed remote copy. The local
	// file is deleted as part of this transition.
	StatusUploaded Status = "uploaded"
	// StatusFailed marks artifacts whose last upload attempt failed. They stay
	// protected from rotation and are retried on the next batch.
	StatusFailed Status = "failed"
	// StatusAbsent marks artifacts whose local file vanished before upload.
	StatusAbsent Status = "absent"
)

var allStatuses = []Status{
	StatusPending,
	StatusUploading,
	StatusUploaded,
	StatusFailed,
	StatusAbsent,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// unsettledStatuses lists states still owed an upload outcome. Artifacts in
// these states make up the protected set rotation must not touch.
var unsettledStatuses = []Status{StatusPending, StatusUploading, StatusFailed}

// Artifact represents one captured screenshot persisted in SQLite.
type Artifact struct {
	ID           int64
	Path         string
	DayKey       string
	SizeBytes    int64
	Status       Status
	Attempts     int
	BatchID      string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UploadedAt   *time.Time
}

// Summary aggregates journal counts per lifecycle state.
type Summary struct {
	Total          int
	Pending        int
	Uploading      int
	Uploaded       int
	Failed         int
	Absent         int
	UnsettledBytes int64
}

// Unsettled returns the number of artifacts still owed an upload outcome.
func (s Summary) Unsettled() int {
	return s.Pending + s.Uploading + s.Failed
}

// Count returns the number of artifacts in the given lifecycle state.
func (s Summary) Count(status Status) int {
	switch status {
	case StatusPending:
		return s.Pending
	case StatusUploading:
		return s.Uploading
	case StatusUploaded:
		return s.Uploaded
	case StatusFailed:
		return s.Failed
	case StatusAbsent:
		return s.Absent
	default:
		return 0
	}
}

// DayBacklog describes unsettled artifacts grouped by capture day.
type DayBacklog struct {
	DayKey string
	Count  int
	Bytes  int64
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsSettled reports whether the artifact has reached a terminal state.
func (a Artifact) IsSettled() bool {
	return IsSettledStatus(a.Status)
}

// IsSettledStatus reports whether a status is terminal. Settled artifacts are
// no longer protected from rotation and are eventually pruned.
func IsSettledStatus(status Status) bool {
	return status == StatusUploaded || status == StatusAbsent
}
