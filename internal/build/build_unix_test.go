//go:build !windows

package build

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loykin/twwatch/internal/locator"
)

// fakeCLI copies --input to --output and reports the invocation.
const fakeCLI = `#!/bin/sh
in="$2"; out="$4"
echo "minify=$5"
echo ""
cp "$in" "$out.tmp" && mv "$out.tmp" "$out"
echo "Done in 12ms" 1>&2
`

const failingCLI = `#!/bin/sh
echo "CssSyntaxError: Unknown word" 1>&2
exit 1
`

func writeFile(t *testing.T, path, data string, mode os.FileMode) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), mode))
}

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestExecute_WritesOutput(t *testing.T) {
	project := t.TempDir()
	cli := filepath.Join(t.TempDir(), "tailwindcss")
	writeFile(t, cli, fakeCLI, 0o755)
	writeFile(t, filepath.Join(project, "app.css"), "body{}", 0o644)
	log, buf := newTestLogger()

	err := Task{InputFile: "app.css", CLIPath: cli, ProjectDirectory: project}.Execute(context.Background(), log)
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(project, "wwwroot", "app.css"))
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(b))
	assert.Contains(t, buf.String(), "minify=--minify")
}

func TestExecute_LocatesCLI(t *testing.T) {
	project := t.TempDir()
	writeFile(t, filepath.Join(project, locator.Dir, "tailwindcss-linux-x64"), fakeCLI, 0o755)
	writeFile(t, filepath.Join(project, "app.css"), "h1{}", 0o644)

	task := Task{InputFile: "app.css", ProjectDirectory: project, OutputDirectory: "dist", goos: "linux"}
	require.NoError(t, task.Execute(context.Background(), nil))
	_, err := os.Stat(filepath.Join(project, "dist", "app.css"))
	require.NoError(t, err)
}

func TestExecute_LocateFails(t *testing.T) {
	project := t.TempDir()
	writeFile(t, filepath.Join(project, "app.css"), "h1{}", 0o644)
	err := Task{InputFile: "app.css", ProjectDirectory: project}.Execute(context.Background(), nil)
	require.ErrorIs(t, err, locator.ErrBinaryDirNotFound)
}

func TestExecute_FailureCarriesStderr(t *testing.T) {
	project := t.TempDir()
	cli := filepath.Join(t.TempDir(), "tailwindcss")
	writeFile(t, cli, failingCLI, 0o755)
	writeFile(t, filepath.Join(project, "app.css"), "h1{", 0o644)
	log, buf := newTestLogger()

	err := Task{InputFile: "app.css", CLIPath: cli, ProjectDirectory: project, InPlace: true}.Execute(context.Background(), log)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CssSyntaxError: Unknown word")
	assert.Contains(t, buf.String(), "Tailwind build failed")
	assert.Contains(t, buf.String(), "exit_code=1")
}
