// Package megacloud implements the remote.Provider interface on top of the
// MEGA cloud storage API.
//
// Day folders live under a root folder named after the local account, created
// on demand: <root>/<DD-MM-YYYY>/<artifact>. The MEGA client library exposes
// no request contexts, so calls run to completion; the daemon tolerates that
// by never holding locks across uploads.
package megacloud

import (
	"context"
	"fmt"
	"log/slog"

	mega "github.com/t3rm1n4l/go-mega"

	"screenguard/internal/config"
	"screenguard/internal/logging"
	"screenguard/internal/remote"
)

// Provider logs into MEGA with the configured account credentials.
type Provider struct {
	email    string
	password string
	root     string
	logger   *slog.Logger
}

// New builds a MEGA provider from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Provider {
	return &Provider{
		email:    cfg.MegaEmail,
		password: cfg.MegaPassword,
		root:     cfg.RemoteRoot(),
		logger:   logging.NewComponentLogger(logger, "megacloud"),
	}
}

// Name identifies the backend in logs and status output.
func (p *Provider) Name() string {
	return config.ProviderMega
}

// Connect performs the MEGA login handshake.
func (p *Provider) Connect(ctx context.Context) (remote.Session, error) {
	client := mega.New()
	if err := client.Login(p.email, p.password); err != nil {
		return nil, fmt.Errorf("%w: mega login: %w", remote.ErrAuthFailed, err)
	}
	p.logger.Info("mega session established", logging.String("account", p.email))
	return &session{client: client, root: p.root}, nil
}

type session struct {
	client *mega.Mega
	root   string
}

type folder struct {
	node *mega.Node
	path string
}

func (f *folder) Path() string {
	return f.path
}

// EnsureFolder resolves <root>/<dayKey>, creating both levels as needed.
func (s *session) EnsureFolder(_ context.Context, dayKey string) (remote.Folder, error) {
	parent, err := s.ensureChild(s.client.FS.GetRoot(), s.root)
	if err != nil {
		return nil, err
	}
	node, err := s.ensureChild(parent, dayKey)
	if err != nil {
		return nil, err
	}
	return &folder{node: node, path: s.root + "/" + dayKey}, nil
}

// ensureChild finds a directory under parent or creates it. Lookup misses are
// indistinguishable from transient faults in the MEGA API, so either way the
// create is attempted and its error is the one reported.
func (s *session) ensureChild(parent *mega.Node, name string) (*mega.Node, error) {
	nodes, err := s.client.FS.PathLookup(parent, []string{name})
	if err == nil && len(nodes) > 0 {
		return nodes[len(nodes)-1], nil
	}
	node, err := s.client.CreateDir(name, parent)
	if err != nil {
		return nil, fmt.Errorf("%w: create %q: %w", remote.ErrFolderCreate, name, err)
	}
	return node, nil
}

// Upload copies a local file into the day folder.
func (s *session) Upload(_ context.Context, target remote.Folder, localPath, name string) error {
	handle, ok := target.(*folder)
	if !ok {
		return fmt.Errorf("%w: foreign folder handle %T", remote.ErrUpload, target)
	}
	if _, err := s.client.UploadFile(localPath, handle.node, name, nil); err != nil {
		return fmt.Errorf("%w: %s: %w", remote.ErrUpload, name, err)
	}
	return nil
}
