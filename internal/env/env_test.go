package env

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_Precedence(t *testing.T) {
	t.Setenv("TWWATCH_TEST_BASE", "os")
	t.Setenv("TWWATCH_TEST_OVERRIDE", "os")
	e := New()
	e.FromOS()
	e.Set("TWWATCH_TEST_OVERRIDE", "global")
	e.Set("TWWATCH_TEST_GLOBAL", "g")

	out := e.Merge([]string{"TWWATCH_TEST_GLOBAL=proc", "=ignored"})
	assert.Contains(t, out, "TWWATCH_TEST_BASE=os")
	assert.Contains(t, out, "TWWATCH_TEST_OVERRIDE=global")
	assert.Contains(t, out, "TWWATCH_TEST_GLOBAL=proc")
	assert.True(t, slices.IsSorted(out))
	for _, kv := range out {
		assert.NotEqual(t, '=', rune(kv[0]))
	}
}

func TestMerge_Isolated(t *testing.T) {
	t.Setenv("TWWATCH_TEST_LEAK", "1")
	e := New()
	e.Isolate()
	e.SetPairs([]string{"NODE_ENV=development", "broken", "=x"})
	assert.Equal(t, []string{"NODE_ENV=development"}, e.Merge(nil))
}

func TestMerge_Expansion(t *testing.T) {
	e := New()
	e.Isolate()
	e.Set("ROOT", "/proj")
	e.Set("OUT", "${ROOT}/wwwroot")
	assert.Equal(t, []string{"OUT=/proj/wwwroot", "ROOT=/proj"}, e.Merge(nil))
}

func TestLoadFiles_LaterOverrides(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.env")
	b := filepath.Join(dir, "b.env")
	require.NoError(t, os.WriteFile(a, []byte("# comment\nA=1\nSHARED=a\n"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("export SHARED=\"b\"\nB=2\n"), 0o600))

	e := New()
	e.Isolate()
	require.NoError(t, e.LoadFiles(a, b))
	assert.Equal(t, []string{"A=1", "B=2", "SHARED=b"}, e.Merge(nil))
}

func TestLoadFiles_Missing(t *testing.T) {
	e := New()
	err := e.LoadFiles(filepath.Join(t.TempDir(), "nope.env"))
	assert.Error(t, err)
}
