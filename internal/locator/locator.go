// Package locator finds the platform-specific tailwind executable below a project root.
package locator

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// Dir is the directory, relative to the root, holding the downloaded binaries.
const Dir = ".tailwind"

var (
	ErrBinaryDirNotFound = errors.New("tailwind binary directory not found")
	ErrBinaryNotFound    = errors.New("no tailwind binary for this platform")
)

// PatternFor returns the file name pattern of the executable for goos.
// Linux and the BSD family share the linux build.
func PatternFor(goos string) string {
	switch goos {
	case "windows":
		return "tailwindcss-windows-*.exe"
	case "darwin":
		return "tailwindcss-macos-*"
	default:
		return "tailwindcss-linux-*"
	}
}

// Locate returns the absolute path of the executable for the running platform.
func Locate(root string) (string, error) {
	return LocateFor(root, runtime.GOOS, nil)
}

// LocateFor returns the absolute path of the executable for goos under
// <root>/.tailwind. When several files match, the first in lexical order wins
// and the others are reported on log.
func LocateFor(root, goos string, log *slog.Logger) (string, error) {
	if log == nil {
		log = slog.Default()
	}
	dir, err := filepath.Abs(filepath.Join(root, Dir))
	if err != nil {
		return "", err
	}
	fi, err := os.Stat(dir)
	if err != nil || !fi.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrBinaryDirNotFound, dir)
	}
	candidates, err := Candidates(dir, goos)
	if err != nil {
		return "", err
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: no file matching %q in %s", ErrBinaryNotFound, PatternFor(goos), dir)
	}
	if len(candidates) > 1 {
		log.Warn("Multiple tailwind binaries found, using the first in lexical order",
			"dir", dir, "selected", candidates[0], "candidates", candidates)
	}
	return filepath.Join(dir, candidates[0]), nil
}

// Candidates lists the regular files in dir matching the goos pattern, sorted.
func Candidates(dir, goos string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	pattern := PatternFor(goos)
	var out []string
	for _, e := range entries {
		if !e.Type().IsRegular() && e.Type()&fs.ModeSymlink == 0 {
			continue
		}
		ok, err := doublestar.Match(pattern, e.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, e.Name())
		}
	}
	slices.Sort(out)
	return out, nil
}
