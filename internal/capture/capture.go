// Package capture grabs display screenshots and writes them into per-day
// folders using timestamped filenames.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kbinani/screenshot"

	"screenguard/internal/config"
	"screenguard/internal/daykey"
	"screenguard/internal/fileutil"
	"screenguard/internal/logging"
)

// ErrCaptureFailed marks failures of the display source itself, as opposed to
// filesystem problems while writing the artifact. One failed grab skips that
// tick and nothing else.
var ErrCaptureFailed = errors.New("screen capture failed")

// stampLayout names artifacts so the capture day can be recovered from the
// filename alone, independent of file metadata.
const stampLayout = "20060102_150405"

// Screen abstracts the display source so tests can substitute synthetic
// frames for real hardware.
type Screen interface {
	NumDisplays() int
	DisplayBounds(index int) image.Rectangle
	CaptureRect(rect image.Rectangle) (*image.RGBA, error)
}

type systemScreen struct{}

func (systemScreen) NumDisplays() int {
	return screenshot.NumActiveDisplays()
}

func (systemScreen) DisplayBounds(index int) image.Rectangle {
	return screenshot.GetDisplayBounds(index)
}

func (systemScreen) CaptureRect(rect image.Rectangle) (*image.RGBA, error) {
	return screenshot.CaptureRect(rect)
}

// System returns the Screen backed by the machine's real displays.
func System() Screen {
	return systemScreen{}
}

// Shot describes one captured artifact written to disk.
type Shot struct {
	Path      string
	DayKey    string
	SizeBytes int64
	Taken     time.Time
}

// Grabber captures a configured display into the screenshot folder.
type Grabber struct {
	screen  Screen
	root    string
	prefix  string
	format  string
	quality int
	display int
	logger  *slog.Logger
}

// New builds a Grabber from configuration. Pass System() for real displays.
func New(cfg *config.Config, logger *slog.Logger, screen Screen) *Grabber {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Grabber{
		screen:  screen,
		root:    cfg.ScreenshotFolder,
		prefix:  cfg.Capture.FilePrefix,
		format:  cfg.Capture.Format,
		quality: cfg.Capture.JPEGQuality,
		display: cfg.Capture.Display,
		logger:  logging.NewComponentLogger(logger, "capture"),
	}
}

// Take captures the configured display and writes it under the day folder for
// now. The file lands in place only after a fully encoded temp file is
// renamed, so partially written images never carry the final name.
func (g *Grabber) Take(now time.Time) (*Shot, error) {
	count := g.screen.NumDisplays()
	if count == 0 {
		return nil, fmt.Errorf("%w: no active displays", ErrCaptureFailed)
	}
	if g.display < 0 || g.display >= count {
		return nil, fmt.Errorf("%w: display %d out of range (have %d)", ErrCaptureFailed, g.display, count)
	}

	img, err := g.screen.CaptureRect(g.screen.DisplayBounds(g.display))
	if err != nil {
		return nil, fmt.Errorf("%w: display %d: %w", ErrCaptureFailed, g.display, err)
	}

	day := daykey.Format(now)
	dayDir := filepath.Join(g.root, day)
	if err := fileutil.EnsureDir(dayDir); err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%s_%s.%s", g.prefix, now.Format(stampLayout), extensionFor(g.format))
	path := filepath.Join(dayDir, name)
	size, err := g.writeImage(path, img)
	if err != nil {
		return nil, err
	}

	g.logger.Debug("captured screenshot",
		logging.String(logging.FieldArtifact, path),
		logging.String(logging.FieldDayKey, day),
		logging.Int64("size_bytes", size),
	)
	return &Shot{Path: path, DayKey: day, SizeBytes: size, Taken: now}, nil
}

func (g *Grabber) writeImage(path string, img *image.RGBA) (int64, error) {
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("create screenshot file: %w", err)
	}

	var encodeErr error
	switch g.format {
	case "jpeg":
		encodeErr = jpeg.Encode(file, img, &jpeg.Options{Quality: g.quality})
	default:
		encodeErr = png.Encode(file, img)
	}
	closeErr := file.Close()
	if encodeErr != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("encode screenshot: %w", encodeErr)
	}
	if closeErr != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("close screenshot file: %w", closeErr)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return 0, fmt.Errorf("place screenshot: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat screenshot: %w", err)
	}
	return info.Size(), nil
}

func extensionFor(format string) string {
	if format == "jpeg" {
		return "jpg"
	}
	return "png"
}
