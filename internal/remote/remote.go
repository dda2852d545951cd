// Package remote defines the storage provider abstraction the uploader drives
// and the per-day folder cache shared by all backends.
//
// A Provider performs the login handshake and hands back a Session. Sessions
// ensure one remote folder per capture day and copy local files into it.
// Backends wrap their failures in the sentinel errors below so callers can
// classify login, folder, and transfer problems without knowing the provider.
package remote

import (
	"context"
	"errors"
)

var (
	// ErrAuthFailed marks login or handshake failures. Never fatal; the
	// uploader retries on the next batch.
	ErrAuthFailed = errors.New("remote authentication failed")
	// ErrFolderCreate marks day-folder creation failures.
	ErrFolderCreate = errors.New("remote folder creation failed")
	// ErrUpload marks file transfer failures.
	ErrUpload = errors.New("remote upload failed")
)

// Folder identifies a remote directory to upload into.
type Folder interface {
	// Path returns the provider-side location for logging.
	Path() string
}

// Session is an authenticated connection to a storage backend.
type Session interface {
	// EnsureFolder creates or finds the remote folder chain for a capture day
	// and returns a handle for uploads into it.
	EnsureFolder(ctx context.Context, dayKey string) (Folder, error)
	// Upload copies a local file into the folder under the given name.
	Upload(ctx context.Context, folder Folder, localPath, name string) error
}

// Provider authenticates sessions against a storage backend.
type Provider interface {
	// Name identifies the backend in logs and status output.
	Name() string
	// Connect performs the login handshake and returns a live session.
	Connect(ctx context.Context) (Session, error)
}
