package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"screenguard/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Capture contains configuration for the screenshot source.
type Capture struct {
	FilePrefix  string `toml:"file_prefix"`
	Format      string `toml:"format"`
	JPEGQuality int    `toml:"jpeg_quality"`
	Display     int    `toml:"display"`
}

// Upload contains configuration for the remote upload target.
type Upload struct {
	Provider   string `toml:"provider"`
	RemoteRoot string `toml:"remote_root"`
}

// S3 contains configuration for the S3-compatible upload backend.
type S3 struct {
	Bucket          string `toml:"bucket"`
	Region          string `toml:"region"`
	Endpoint        string `toml:"endpoint"`
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Journal contains configuration for the artifact journal database.
type Journal struct {
	Path                 string `toml:"path"`
	SettledRetentionDays int    `toml:"settled_retention_days"`
}

// Config encapsulates all configuration values for ScreenGuard.
//
// The top-level keys drive the core capture/rotate/upload loop and are the
// ones most installs touch. Sections cover the subsystems:
//   - Capture: file naming and image encoding
//   - Upload: backend selection and remote root folder
//   - S3: S3-compatible backend credentials and addressing
//   - Logging: log level, format, and file rotation
//   - Journal: artifact lifecycle database location
type Config struct {
	IntervalSeconds  int    `toml:"interval_seconds"`
	ScreenshotFolder string `toml:"screenshot_folder"`
	EnableMega       bool   `toml:"enable_mega"`
	MegaEmail        string `toml:"mega_email"`
	MegaPassword     string `toml:"mega_password"`
	UploadBatchSize  int    `toml:"upload_batch_size"`
	MaxFolderSizeMB  int    `toml:"max_folder_size_mb"`
	LogFile          string `toml:"log_file"`

	Capture Capture `toml:"capture"`
	Upload  Upload  `toml:"upload"`
	S3      S3      `toml:"s3"`
	Logging Logging `toml:"logging"`
	Journal Journal `toml:"journal"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/screenguard/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a config file was actually found; callers that require one use it
// to drive first-run bootstrapping.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("screenguard.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the daemon writes into: the
// screenshot tree, the journal parent, and the log file parent.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ScreenshotFolder}
	if strings.TrimSpace(c.Journal.Path) != "" {
		dirs = append(dirs, filepath.Dir(c.Journal.Path))
	}
	if strings.TrimSpace(c.LogFile) != "" {
		dirs = append(dirs, filepath.Dir(c.LogFile))
	}
	for _, dir := range dirs {
		if err := fileutil.EnsureDir(dir); err != nil {
			return err
		}
	}
	return nil
}

// Interval returns the capture cadence as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// SettledRetention returns how long settled journal rows are kept before
// maintenance prunes them.
func (c *Config) SettledRetention() time.Duration {
	return time.Duration(c.Journal.SettledRetentionDays) * 24 * time.Hour
}

// MaxFolderBytes returns the rotation ceiling in bytes. Zero disables rotation.
func (c *Config) MaxFolderBytes() int64 {
	if c.MaxFolderSizeMB <= 0 {
		return 0
	}
	return int64(c.MaxFolderSizeMB) * 1024 * 1024
}

// StateDir returns the directory holding run state (journal, lock, pid).
func (c *Config) StateDir() string {
	return filepath.Dir(c.Journal.Path)
}

// LockPath returns the single-instance lock location.
func (c *Config) LockPath() string {
	return filepath.Join(c.StateDir(), "screenguard.lock")
}

// PIDPath returns the location of the daemon pid file.
func (c *Config) PIDPath() string {
	return filepath.Join(c.StateDir(), "screenguard.pid")
}

// RemoteRoot returns the top-level remote folder name. It prefers the
// configured override and falls back to the local account name so each
// machine's captures land in its own folder.
func (c *Config) RemoteRoot() string {
	if root := strings.TrimSpace(c.Upload.RemoteRoot); root != "" {
		return root
	}
	return localUsername()
}

// RemoteReady reports whether the configured upload backend has the settings
// it needs to open a session. The reason is suitable for operator logs; a
// not-ready backend is retried, not fatal, so captures keep accumulating.
func (c *Config) RemoteReady() (bool, string) {
	switch c.Upload.Provider {
	case ProviderMega:
		if c.MegaEmail == "" || c.MegaPassword == "" {
			return false, "mega_email or mega_password is missing; uploads will be skipped until both are set"
		}
	case ProviderS3:
		if c.S3.Bucket == "" {
			return false, "s3.bucket is missing; uploads will be skipped until it is set"
		}
	}
	return true, ""
}

func localUsername() string {
	if current, err := user.Current(); err == nil {
		name := current.Username
		// Windows reports DOMAIN\name; keep only the account part.
		if idx := strings.LastIndexByte(name, '\\'); idx >= 0 {
			name = name[idx+1:]
		}
		if name = strings.TrimSpace(name); name != "" {
			return name
		}
	}
	if name := strings.TrimSpace(os.Getenv("USER")); name != "" {
		return name
	}
	return "screenguard"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
