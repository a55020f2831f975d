package target

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Plan is the finalized set of targets for one watcher run. It is never
// modified after Resolve returns.
type Plan struct {
	root        string
	projectFile string
	targets     []WatchTarget
}

func (p Plan) Root() string { return p.root }

// ProjectFile is the project file that was used for auto-detection, if any.
func (p Plan) ProjectFile() string { return p.projectFile }

// Targets returns a copy of the ordered target list.
func (p Plan) Targets() []WatchTarget { return append([]WatchTarget(nil), p.targets...) }

func (p Plan) Len() int { return len(p.targets) }

// Resolve turns opts into a Plan. The static inputs come first, in order; when
// auto-detection is enabled the entries declared in the project file follow in
// document order. A missing or unreadable project file and malformed entries
// are logged and skipped. opts is not modified.
func Resolve(opts Options, log *slog.Logger) (Plan, error) {
	if log == nil {
		log = slog.Default()
	}
	root, err := ResolveRoot(opts.RootDirectory)
	if err != nil {
		return Plan{}, err
	}
	plan := Plan{root: root, targets: append([]WatchTarget(nil), opts.Inputs...)}
	if !opts.AutoDetect {
		return plan, nil
	}

	path, err := FindProjectFile(root)
	if err != nil {
		if errors.Is(err, ErrNoProjectFile) {
			log.Warn("Auto-detection enabled but no project file found", "root", root, "pattern", ProjectFilePattern)
		} else {
			log.Warn("Failed to search for project file", "root", root, "error", err)
		}
		return plan, nil
	}
	found, bad, err := ParseProjectFile(path)
	if err != nil {
		log.Warn("Failed to parse project file", "file", path, "error", err)
		return plan, nil
	}
	for _, e := range bad {
		log.Error("Skipping project file entry", "file", path, "index", e.Index, "line", e.Line, "error", e.Err)
	}
	plan.projectFile = path
	plan.targets = append(plan.targets, found...)
	log.Info("Auto-detected watch targets", "file", path, "count", len(found))
	return plan, nil
}

// ResolveRoot returns dir as an absolute path, defaulting to the working directory.
func ResolveRoot(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve root directory %q: %w", dir, err)
	}
	return abs, nil
}
