package target

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func staticInputs() []WatchTarget {
	return []WatchTarget{{Input: "one.css"}, {Input: "two.css", Output: "dist/two.css"}}
}

func TestResolve_AutoDetectDisabled(t *testing.T) {
	root := t.TempDir()
	// a project file must be ignored when auto-detection is off
	require.NoError(t, os.WriteFile(filepath.Join(root, "App.csproj"), []byte(sampleProject), 0o644))
	log, _ := newTestLogger()

	plan, err := Resolve(Options{RootDirectory: root, Inputs: staticInputs()}, log)
	require.NoError(t, err)
	assert.Equal(t, staticInputs(), plan.Targets())
	assert.Equal(t, root, plan.Root())
	assert.Empty(t, plan.ProjectFile())
}

func TestResolve_AutoDetectAppendsInDocumentOrder(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "App.csproj"), []byte(sampleProject), 0o644))
	log, _ := newTestLogger()
	opts := Options{AutoDetect: true, RootDirectory: root, Inputs: staticInputs()}

	plan, err := Resolve(opts, log)
	require.NoError(t, err)
	got := plan.Targets()
	require.Len(t, got, len(opts.Inputs)+2)
	assert.Equal(t, staticInputs(), got[:2])
	assert.Equal(t, WatchTarget{Input: "Styles/site.css", Output: "wwwroot/css/site.css"}, got[2])
	assert.Equal(t, WatchTarget{Input: "Styles/admin.css"}, got[3])
	assert.Equal(t, filepath.Join(root, "wwwroot", "admin.css"), got[3].EffectiveOutput(plan.Root()))
	assert.Equal(t, filepath.Join(root, "App.csproj"), plan.ProjectFile())

	// the options passed in are left untouched
	assert.Len(t, opts.Inputs, 2)
}

func TestResolve_BadEntryDoesNotAffectSiblings(t *testing.T) {
	root := t.TempDir()
	doc := `<Project><ItemGroup>
<TailwindCss Include="a.css" />
<TailwindCss Output="nowhere.css" />
<TailwindCss Include="b.css" />
</ItemGroup></Project>`
	require.NoError(t, os.WriteFile(filepath.Join(root, "App.csproj"), []byte(doc), 0o644))
	log, buf := newTestLogger()

	plan, err := Resolve(Options{AutoDetect: true, RootDirectory: root, Inputs: staticInputs()}, log)
	require.NoError(t, err)
	want := append(staticInputs(), WatchTarget{Input: "a.css"}, WatchTarget{Input: "b.css"})
	assert.Equal(t, want, plan.Targets())
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "Skipping project file entry")
}

func TestResolve_MissingProjectFileWarns(t *testing.T) {
	root := t.TempDir()
	log, buf := newTestLogger()

	plan, err := Resolve(Options{AutoDetect: true, RootDirectory: root, Inputs: staticInputs()}, log)
	require.NoError(t, err)
	assert.Equal(t, staticInputs(), plan.Targets())
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "no project file found")
}

func TestResolve_MalformedProjectFileWarns(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "App.csproj"), []byte("<Project><ItemGroup>"), 0o644))
	log, buf := newTestLogger()

	plan, err := Resolve(Options{AutoDetect: true, RootDirectory: root}, log)
	require.NoError(t, err)
	assert.Zero(t, plan.Len())
	assert.Contains(t, buf.String(), "Failed to parse project file")
}

func TestResolve_DefaultsToWorkingDirectory(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	plan, err := Resolve(Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, wd, plan.Root())
}

func TestPlan_TargetsIsACopy(t *testing.T) {
	plan, err := Resolve(Options{RootDirectory: t.TempDir(), Inputs: staticInputs()}, nil)
	require.NoError(t, err)
	got := plan.Targets()
	got[0].Input = "mutated.css"
	assert.Equal(t, "one.css", plan.Targets()[0].Input)
}
