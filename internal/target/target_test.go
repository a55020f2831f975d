package target

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEffectiveOutput_Inferred(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "proj")
	cases := []string{"Styles/app.css", "app.css", filepath.Join(root, "deep", "nested", "site.css")}
	for _, in := range cases {
		got := WatchTarget{Input: in}.EffectiveOutput(root)
		want := filepath.Join(root, "wwwroot", filepath.Base(in))
		if got != want {
			t.Fatalf("EffectiveOutput(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEffectiveOutput_Explicit(t *testing.T) {
	tg := WatchTarget{Input: "Styles/app.css", Output: "custom/out.css"}
	if got := tg.EffectiveOutput("/proj"); got != "custom/out.css" {
		t.Fatalf("explicit output changed: %q", got)
	}
}

func TestInputPath(t *testing.T) {
	root := t.TempDir()
	if got, want := (WatchTarget{Input: "a.css"}).InputPath(root), filepath.Join(root, "a.css"); got != want {
		t.Fatalf("relative input: got %q want %q", got, want)
	}
	abs := filepath.Join(root, "b.css")
	if got := (WatchTarget{Input: abs}).InputPath("/elsewhere"); got != abs {
		t.Fatalf("absolute input: got %q want %q", got, abs)
	}
}

func TestValidate(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "app.css"), []byte("@tailwind base;"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(root, "dir.css"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := (WatchTarget{Input: "app.css"}).Validate(root); err != nil {
		t.Fatalf("existing input: %v", err)
	}
	for _, in := range []string{"", "missing.css", "dir.css"} {
		err := WatchTarget{Input: in}.Validate(root)
		if !errors.Is(err, ErrInputNotFound) {
			t.Fatalf("input %q: expected ErrInputNotFound, got %v", in, err)
		}
	}
}

func TestString(t *testing.T) {
	if got := (WatchTarget{Input: "a.css"}).String(); got != "a.css" {
		t.Fatalf("got %q", got)
	}
	if got := (WatchTarget{Input: "a.css", Output: "b.css"}).String(); got != "a.css -> b.css" {
		t.Fatalf("got %q", got)
	}
}
