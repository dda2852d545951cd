package remote

import "context"

// FolderCache memoizes EnsureFolder per day key so each day folder is created
// at most once per session. Failed lookups are not cached; the next batch
// retries them. The cache is owned by the upload loop and is not safe for
// concurrent use.
type FolderCache struct {
	session Session
	folders map[string]Folder
}

// NewFolderCache wraps a freshly connected session. Build a new cache whenever
// the session is re-established; handles do not outlive their session.
func NewFolderCache(session Session) *FolderCache {
	return &FolderCache{
		session: session,
		folders: make(map[string]Folder),
	}
}

// Ensure returns the folder handle for a capture day, creating it remotely on
// first use.
func (c *FolderCache) Ensure(ctx context.Context, dayKey string) (Folder, error) {
	if folder, ok := c.folders[dayKey]; ok {
		return folder, nil
	}
	folder, err := c.session.EnsureFolder(ctx, dayKey)
	if err != nil {
		return nil, err
	}
	c.folders[dayKey] = folder
	return folder, nil
}

// Len reports how many day folders have been resolved this session.
func (c *FolderCache) Len() int {
	return len(c.folders)
}
