package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNoMatch is returned when no file matches the requested pattern.
var ErrNoMatch = errors.New("no matching files")

// LatestMatch returns the most recently modified file in dir matching the
// glob pattern. The monitor uses it to pick the active optimizer log when no
// path was given explicitly.
func LatestMatch(dir, pattern string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return "", fmt.Errorf("glob %s: %w", pattern, err)
	}

	var (
		newest    string
		newestMod time.Time
	)
	for _, path := range matches {
		fi, err := os.Stat(path)
		if err != nil || fi.IsDir() {
			continue
		}
		if newest == "" || fi.ModTime().After(newestMod) {
			newest = path
			newestMod = fi.ModTime()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("%w: %s in %s", ErrNoMatch, pattern, dir)
	}
	return newest, nil
}
