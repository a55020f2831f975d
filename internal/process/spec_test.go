package process

import (
	"context"
	"reflect"
	"testing"
)

func TestWatchArgs(t *testing.T) {
	got := WatchArgs("Styles/app.css", "/proj/wwwroot/app.css")
	want := []string{"--input", "Styles/app.css", "--output", "/proj/wwwroot/app.css", "--watch"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected argv: %#v", got)
	}
}

func TestMinifyArgs(t *testing.T) {
	got := MinifyArgs("a.css", "out/a.css")
	want := []string{"--input", "a.css", "--output", "out/a.css", "--minify"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected argv: %#v", got)
	}
}

// The executable must be passed through verbatim, never wrapped in a shell.
func TestBuildCommand_NoShellWrapping(t *testing.T) {
	s := Spec{Name: "x", Path: "/opt/tw/tailwindcss-linux-x64", Args: []string{"--input", "a b.css"}}
	cmd := s.BuildCommand()
	if cmd.Path != "/opt/tw/tailwindcss-linux-x64" {
		t.Fatalf("unexpected path %q", cmd.Path)
	}
	if len(cmd.Args) != 3 || cmd.Args[2] != "a b.css" {
		t.Fatalf("unexpected argv: %#v", cmd.Args)
	}
}

func TestBuildCommand_AppliesWorkDirAndEnv(t *testing.T) {
	s := Spec{Path: "/bin/true", WorkDir: "/tmp", Env: []string{"FOO=bar"}}
	cmd := s.BuildCommandContext(context.Background())
	if cmd.Dir != "/tmp" {
		t.Fatalf("workdir not applied: %q", cmd.Dir)
	}
	if len(cmd.Env) != 1 || cmd.Env[0] != "FOO=bar" {
		t.Fatalf("env not applied: %#v", cmd.Env)
	}
	// mutating the spec afterwards must not leak into the command
	s.Env[0] = "FOO=baz"
	if cmd.Env[0] != "FOO=bar" {
		t.Fatalf("env shares backing array with spec")
	}
}

func TestBuildCommand_EmptyEnvInherits(t *testing.T) {
	s := Spec{Path: "/bin/true"}
	if cmd := s.BuildCommand(); cmd.Env != nil {
		t.Fatalf("expected nil env, got %#v", cmd.Env)
	}
}
