package build

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loykin/twwatch/internal/target"
)

func TestPaths_DefaultOutputDirectory(t *testing.T) {
	project := t.TempDir()
	p, in, out, err := Task{InputFile: "Styles/app.css", ProjectDirectory: project}.Paths()
	require.NoError(t, err)
	assert.Equal(t, project, p)
	assert.Equal(t, filepath.Join(project, "Styles", "app.css"), in)
	assert.Equal(t, filepath.Join(project, "wwwroot", "app.css"), out)
}

func TestPaths_ExplicitOutputDirectory(t *testing.T) {
	project := t.TempDir()
	_, _, out, err := Task{InputFile: "app.css", ProjectDirectory: project, OutputDirectory: "dist/css"}.Paths()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(project, "dist", "css", "app.css"), out)

	abs := filepath.Join(t.TempDir(), "out")
	_, _, out, err = Task{InputFile: "app.css", ProjectDirectory: project, OutputDirectory: abs}.Paths()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(abs, "app.css"), out)
}

func TestPaths_InPlace(t *testing.T) {
	project := t.TempDir()
	_, in, out, err := Task{InputFile: "app.css", ProjectDirectory: project, OutputDirectory: "ignored", InPlace: true}.Paths()
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestPaths_RequiresInput(t *testing.T) {
	_, _, _, err := Task{}.Paths()
	require.ErrorIs(t, err, ErrNoInput)
}

func TestExecute_MissingInput(t *testing.T) {
	err := Task{InputFile: "nope.css", ProjectDirectory: t.TempDir(), CLIPath: "/bin/true"}.Execute(context.Background(), nil)
	require.ErrorIs(t, err, target.ErrInputNotFound)
}
