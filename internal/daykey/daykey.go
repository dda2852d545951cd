// Package daykey derives the DD-MM-YYYY day folder key that groups
// screenshot artifacts locally and remotely.
package daykey

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Layout is the day key layout: day, month, then year.
const Layout = "02-01-2006"

// stampLayout matches the date token embedded in artifact filenames.
const stampLayout = "20060102"

// Format returns the day key for the given instant in its own location.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// FromFilename derives the day key from a <prefix>_<YYYYMMDD>_<suffix>
// filename. The second underscore-separated token of the stem must be a
// valid calendar date; otherwise ok is false.
func FromFilename(name string) (string, bool) {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	parts := strings.Split(stem, "_")
	if len(parts) < 2 {
		return "", false
	}
	stamp, err := time.Parse(stampLayout, parts[1])
	if err != nil {
		return "", false
	}
	return stamp.Format(Layout), true
}

// Resolve returns the day key for the artifact at path. Filenames that carry
// a parseable date token win; everything else falls back to the file's
// modification time. Resolution fails only when the name is unparseable and
// the file cannot be stat'ed.
func Resolve(path string) (string, error) {
	if key, ok := FromFilename(path); ok {
		return key, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("resolve day key for %q: %w", path, err)
	}
	return Format(info.ModTime()), nil
}
