// Package target holds watch targets and resolves the final, ordered list of
// targets for a watcher run, optionally discovering extra targets from the
// project file in the root directory.
package target

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// OutputDir is the directory, relative to the root, that receives inferred outputs.
const OutputDir = "wwwroot"

var ErrInputNotFound = errors.New("input file not found")

// WatchTarget is one input stylesheet and the file it compiles to.
// An empty Output is inferred from the root directory, see EffectiveOutput.
type WatchTarget struct {
	Input  string `json:"input" mapstructure:"input"`
	Output string `json:"output,omitempty" mapstructure:"output"`
}

// EffectiveOutput returns Output verbatim when set, otherwise
// <root>/wwwroot/<basename(Input)>.
func (t WatchTarget) EffectiveOutput(root string) string {
	if t.Output != "" {
		return t.Output
	}
	return filepath.Join(root, OutputDir, filepath.Base(t.Input))
}

// InputPath returns Input resolved against root when it is relative.
func (t WatchTarget) InputPath(root string) string {
	if filepath.IsAbs(t.Input) {
		return t.Input
	}
	return filepath.Join(root, t.Input)
}

// Validate checks that the input file exists under root.
func (t WatchTarget) Validate(root string) error {
	if t.Input == "" {
		return fmt.Errorf("%w: empty input path", ErrInputNotFound)
	}
	fi, err := os.Stat(t.InputPath(root))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrInputNotFound, t.Input)
		}
		return err
	}
	if fi.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInputNotFound, t.Input)
	}
	return nil
}

func (t WatchTarget) String() string {
	if t.Output == "" {
		return t.Input
	}
	return t.Input + " -> " + t.Output
}

// Options is the watcher configuration as supplied by the embedding application.
type Options struct {
	AutoDetect    bool          `json:"auto_detect"`
	RootDirectory string        `json:"root_directory"` // empty means the current working directory
	Inputs        []WatchTarget `json:"inputs"`
}
