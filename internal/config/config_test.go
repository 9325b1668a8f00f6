package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"glean/internal/diag"
	"glean/internal/textcontent"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find: ok=%v err=%v", ok, err)
	}
	if path != filepath.Join(root, FileName) {
		t.Fatalf("Find = %q", path)
	}
}

func TestDiscoverDefaults(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" || cfg.Root() != "" {
		t.Fatalf("defaults carry a path: %q", cfg.Path)
	}
	if cfg.Output.Format != "pretty" || cfg.Check.MinLiteralWords != 2 {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	writeFile(t, path, `
[check]
domains = ["comments", "docs"]
rules = ["typo", "repeated-word"]

[rules.typo]
severity = "error"

[rules.repeated-word]
enabled = false

[typos]
words = { colour = "color" }

[output]
format = "short"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Root() != dir {
		t.Fatalf("Root = %q", cfg.Root())
	}
	// не заданные в файле ключи остаются по умолчанию
	if cfg.Output.Color != "auto" || len(cfg.Check.Extensions) == 0 {
		t.Fatalf("defaults lost: %+v", cfg.Output)
	}
	domains, err := cfg.Domains()
	if err != nil || len(domains) != 2 || domains[0] != textcontent.Comments || domains[1] != textcontent.Documentation {
		t.Fatalf("Domains = %v, %v", domains, err)
	}
	s, err := cfg.CheckSettings()
	if err != nil {
		t.Fatal(err)
	}
	if s.Severity["typo"] != diag.SevError {
		t.Fatalf("severity = %v", s.Severity)
	}
	if len(s.Disabled) != 1 || s.Disabled[0] != "repeated-word" {
		t.Fatalf("disabled = %v", s.Disabled)
	}
	if s.Typos["colour"] != "color" {
		t.Fatalf("typos = %v", s.Typos)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		unknown bool
	}{
		{"syntax", "[check\n", false},
		{"unknown key", "[check]\nlanguage = \"en\"\n", true},
		{"bad domain", "[check]\ndomains = [\"poetry\"]\n", false},
		{"bad rule", "[rules.grammar]\nseverity = \"error\"\n", false},
		{"bad severity", "[rules.typo]\nseverity = \"fatal\"\n", false},
		{"bad format", "[output]\nformat = \"xml\"\n", false},
		{"empty extensions", "[check]\nextensions = []\n", false},
		{"extension without dot", "[check]\nextensions = [\"md\"]\n", false},
		{"bad glob", "[check]\nexclude = [\"[\"]\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			writeFile(t, path, tt.content)
			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load accepted %q", tt.content)
			}
			if got := errors.Is(err, ErrUnknownKey); got != tt.unknown {
				t.Fatalf("errors.Is(ErrUnknownKey) = %v: %v", got, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := Default()
	off := false
	cfg.Rules["article"] = RuleConfig{Enabled: &off}
	cfg.Typos.Words["teh"] = ""
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save: %v", err)
	}
	if r := loaded.Rules["article"]; r.Enabled == nil || *r.Enabled {
		t.Fatalf("rules lost: %+v", loaded.Rules)
	}
	if v, ok := loaded.Typos.Words["teh"]; !ok || v != "" {
		t.Fatalf("typos lost: %+v", loaded.Typos.Words)
	}
}
