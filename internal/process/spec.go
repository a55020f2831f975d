package process

import (
	"context"
	"os/exec"
)

// CLI flags understood by the tailwind standalone binary.
const (
	FlagInput  = "--input"
	FlagOutput = "--output"
	FlagWatch  = "--watch"
	FlagMinify = "--minify"
)

// Spec describes one invocation of an external executable.
type Spec struct {
	Name    string   `json:"name"`     // identifier used in logs, usually the input path
	Path    string   `json:"path"`     // executable path
	Args    []string `json:"args"`     // arguments, without the executable
	WorkDir string   `json:"work_dir"` // optional working dir
	Env     []string `json:"env"`      // full environment; empty inherits the parent's
}

// WatchArgs returns the argument list for a persistent watch invocation.
func WatchArgs(input, output string) []string {
	return []string{FlagInput, input, FlagOutput, output, FlagWatch}
}

// MinifyArgs returns the argument list for a one-shot minify invocation.
func MinifyArgs(input, output string) []string {
	return []string{FlagInput, input, FlagOutput, output, FlagMinify}
}

// BuildCommand constructs an *exec.Cmd for the spec. The executable is never
// wrapped in a shell; arguments are passed verbatim.
func (s *Spec) BuildCommand() *exec.Cmd {
	// #nosec G204
	cmd := exec.Command(s.Path, s.Args...)
	s.apply(cmd)
	return cmd
}

// BuildCommandContext is BuildCommand bound to ctx; the process is killed when ctx ends.
func (s *Spec) BuildCommandContext(ctx context.Context) *exec.Cmd {
	// #nosec G204
	cmd := exec.CommandContext(ctx, s.Path, s.Args...)
	s.apply(cmd)
	return cmd
}

func (s *Spec) apply(cmd *exec.Cmd) {
	if s.WorkDir != "" {
		cmd.Dir = s.WorkDir
	}
	if len(s.Env) > 0 {
		cmd.Env = append([]string(nil), s.Env...)
	}
}
