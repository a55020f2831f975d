// Package build runs a one-shot minified tailwind compile for a single input.
package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/loykin/twwatch/internal/locator"
	"github.com/loykin/twwatch/internal/process"
	"github.com/loykin/twwatch/internal/target"
)

var ErrNoInput = errors.New("input file is required")

// Task describes one build-time compile.
type Task struct {
	InputFile        string
	CLIPath          string // empty: located under ProjectDirectory/.tailwind
	OutputDirectory  string // empty: <ProjectDirectory>/wwwroot
	ProjectDirectory string // empty: current working directory
	InPlace          bool   // overwrite the input with the compiled result

	goos string
}

// Paths resolves the project directory, input and output the task will use.
func (t Task) Paths() (project, input, output string, err error) {
	if t.InputFile == "" {
		return "", "", "", ErrNoInput
	}
	project, err = target.ResolveRoot(t.ProjectDirectory)
	if err != nil {
		return "", "", "", err
	}
	input = t.InputFile
	if !filepath.IsAbs(input) {
		input = filepath.Join(project, input)
	}
	if t.InPlace {
		return project, input, input, nil
	}
	dir := t.OutputDirectory
	switch {
	case dir == "":
		dir = filepath.Join(project, target.OutputDir)
	case !filepath.IsAbs(dir):
		dir = filepath.Join(project, dir)
	}
	return project, input, filepath.Join(dir, filepath.Base(input)), nil
}

// Execute runs `<cli> --input <in> --output <out> --minify` and waits for it.
// Stdout lines are logged at info; a non-zero exit returns an error carrying
// the CLI's stderr text.
func (t Task) Execute(ctx context.Context, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	project, input, output, err := t.Paths()
	if err != nil {
		return err
	}
	if _, err := os.Stat(input); err != nil {
		return fmt.Errorf("%w: %s", target.ErrInputNotFound, input)
	}

	cli := t.CLIPath
	if cli == "" {
		goos := t.goos
		if goos == "" {
			goos = runtime.GOOS
		}
		cli, err = locator.LocateFor(project, goos, log)
		if err != nil {
			return err
		}
	}
	if !t.InPlace {
		if err := os.MkdirAll(filepath.Dir(output), 0o750); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	log.Info("Compiling tailwind stylesheet",
		slog.String("input", input), slog.String("output", output), slog.Bool("in_place", t.InPlace))
	res, err := process.Run(ctx, process.Spec{
		Name:    input,
		Path:    cli,
		Args:    process.MinifyArgs(input, output),
		WorkDir: project,
	})
	for line := range process.Lines(strings.NewReader(res.Stdout)) {
		log.Info(line, slog.String("input", input))
	}
	if err != nil {
		log.Error("Tailwind build failed",
			slog.String("input", input), slog.Int("exit_code", res.ExitCode), slog.Any("error", err))
		return err
	}
	return nil
}
