package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"glean/internal/config"
	"glean/internal/diag"
	"glean/internal/source"
)

// project creates a directory with glean.toml and the given files.
func project(t *testing.T, files map[string]string) (dir, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	cfgPath = filepath.Join(dir, config.FileName)
	if err := config.Default().Save(cfgPath); err != nil {
		t.Fatal(err)
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir, cfgPath
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestCheckCommand(t *testing.T) {
	dir, cfg := project(t, map[string]string{"a.txt": "the teh cat\n"})

	out, _, err := run(t, "--config", cfg, "--color", "off", "check", "--ui", "off", "--format", "short", dir)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "PRS3002") || !strings.Contains(out, "a.txt:1:5") {
		t.Fatalf("short output:\n%s", out)
	}

	_, _, err = run(t, "--config", cfg, "check", "--ui", "off", "--format", "short", "--warnings-as-errors", dir)
	var ee exitError
	if !errors.As(err, &ee) || ee.code != 1 {
		t.Fatalf("--warnings-as-errors: err = %v", err)
	}

	out, _, err = run(t, "--config", cfg, "check", "--ui", "off", "--format", "json", "--rules", "repeated-word", dir)
	if err != nil {
		t.Fatal(err)
	}
	var payload struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("json output %q: %v", out, err)
	}
	if payload.Count != 0 {
		t.Fatalf("repeated-word only should find nothing, got %d", payload.Count)
	}
}

func TestCheckCommandRejectsBadFlags(t *testing.T) {
	dir, cfg := project(t, nil)
	cases := [][]string{
		{"check", "--no-warnings", "--warnings-as-errors", dir},
		{"check", "--ui", "maybe", dir},
		{"check", "--rules", "nope", dir},
		{"check", "--format", "xml", dir},
		{"check", "--domains", "poetry", dir},
	}
	for _, args := range cases {
		if _, _, err := run(t, append([]string{"--config", cfg}, args...)...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestFixCommand(t *testing.T) {
	dir, cfg := project(t, map[string]string{"a.txt": "a teh and  b\n"})
	path := filepath.Join(dir, "a.txt")

	out, _, err := run(t, "--config", cfg, "fix", "--all", "--dry-run", dir)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !strings.Contains(out, "would apply") {
		t.Fatalf("dry run output:\n%s", out)
	}
	if data, _ := os.ReadFile(path); string(data) != "a teh and  b\n" {
		t.Fatalf("dry run changed file: %q", data)
	}

	if _, _, err := run(t, "--config", cfg, "fix", "--all", dir); err != nil {
		t.Fatalf("fix: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a the and b\n" {
		t.Fatalf("fixed file = %q", data)
	}

	out, _, err = run(t, "--config", cfg, "fix", "--all", dir)
	if err != nil || !strings.Contains(out, "no applicable fixes") {
		t.Fatalf("second fix: %v\n%s", err, out)
	}
	if _, _, err := run(t, "--config", cfg, "fix", "--code", "nope", dir); err == nil {
		t.Fatal("unknown --code should fail")
	}
}

func TestExtractCommand(t *testing.T) {
	dir, cfg := project(t, map[string]string{"a.txt": "first\n\nsecond\n"})
	out, _, err := run(t, "--config", cfg, "--color", "off", "extract", "--format", "json", filepath.Join(dir, "a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	var contents []struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(out), &contents); err != nil {
		t.Fatalf("json %q: %v", out, err)
	}
	var texts []string
	for _, c := range contents {
		texts = append(texts, c.Text)
	}
	if !slices.Equal(texts, []string{"first", "second"}) {
		t.Fatalf("texts = %v", texts)
	}
}

func TestInitCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj")
	out, _, err := run(t, "init", dir)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, config.FileName)
	if !strings.Contains(out, path) {
		t.Fatalf("output %q", out)
	}
	if _, err := config.Load(path); err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if _, _, err := run(t, "init", dir); err == nil {
		t.Fatal("second init should fail")
	}
	if _, _, err := run(t, "init", "--force", dir); err != nil {
		t.Fatalf("--force: %v", err)
	}
}

func TestVersionCommandJSON(t *testing.T) {
	out, _, err := run(t, "version", "--format", "json")
	if err != nil {
		t.Fatal(err)
	}
	var p versionPayload
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatal(err)
	}
	if p.Tool != "glean" || p.Version == "" || p.Go == "" {
		t.Fatalf("payload = %+v", p)
	}
}

func TestHelpers(t *testing.T) {
	if got := splitList(" a, ,b,c "); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("splitList = %v", got)
	}
	if got := normalizeExtensions([]string{"MD", ".txt"}); !slices.Equal(got, []string{".md", ".txt"}) {
		t.Errorf("normalizeExtensions = %v", got)
	}
	for in, want := range map[string]uiMode{"": uiModeAuto, " ON ": uiModeOn, "off": uiModeOff} {
		if got, err := readUIMode(in); err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if shouldUseTUI(uiModeOff, "pretty") || !shouldUseTUI(uiModeOn, "json") {
		t.Error("explicit ui modes ignored")
	}
}

func TestAdjustSeverities(t *testing.T) {
	build := func() *diag.Bag {
		b := diag.NewBag(8)
		b.Add(diag.New(diag.SevWarning, diag.ProseTypo, source.Span{}, "w"))
		b.Add(diag.New(diag.SevInfo, diag.ProseDoubleSpace, source.Span{}, "i"))
		b.Add(diag.New(diag.SevError, diag.IOLoadFileError, source.Span{}, "e"))
		return b
	}
	b := build()
	adjustSeverities(b, true, false)
	if b.Len() != 1 || b.Items()[0].Severity != diag.SevError {
		t.Fatalf("--no-warnings left %+v", b.Items())
	}
	b = build()
	adjustSeverities(b, false, true)
	if b.Count(diag.SevError) != 2 || b.Count(diag.SevInfo) != 1 {
		t.Fatalf("--warnings-as-errors: %+v", b.Items())
	}
}
