package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FuzzLoadInputs feeds random-ish fields into a tiny TOML and ensures
// the loader does not panic and rejects empty inputs.
func FuzzLoadInputs(f *testing.F) {
	f.Add("Styles/app.css", "wwwroot/app.css", true)
	f.Add("", "", false)
	f.Add("  ", "x.css", true)

	f.Fuzz(func(t *testing.T, input, output string, autoDetect bool) {
		clean := func(s string) string {
			return strings.NewReplacer("\"", "", "\\", "", "\n", "", "\r", "").Replace(s)
		}
		input, output = clean(input), clean(output)

		var b strings.Builder
		if autoDetect {
			b.WriteString("auto_detect = true\n")
		}
		b.WriteString("[[inputs]]\ninput = \"" + input + "\"\n")
		if output != "" {
			b.WriteString("output = \"" + output + "\"\n")
		}
		p := filepath.Join(t.TempDir(), "fuzz.toml")
		if err := os.WriteFile(p, []byte(b.String()), 0o644); err != nil {
			t.Skip()
		}
		fc, err := Load(p)
		if strings.TrimSpace(input) == "" {
			if err == nil {
				t.Fatalf("expected error for empty input")
			}
			return
		}
		if err == nil && len(fc.Inputs) != 1 {
			t.Fatalf("expected 1 input, got %d", len(fc.Inputs))
		}
	})
}
