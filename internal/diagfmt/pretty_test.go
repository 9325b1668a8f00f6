package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"glean/internal/diag"
	"glean/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("// the the cat\n")
	fileID := fs.AddVirtual("/home/user/project/src/fetch.go", content)
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevWarning,
		diag.ProseRepeatedWord,
		source.Span{File: fileID, Start: 6, End: 10},
		"word \"the\" is repeated",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/fetch.go"},
		{"Relative path", PathModeRelative, "src/fetch.go:1:7"},
		{"Basename only", PathModeBasename, "fetch.go:1:7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode}); err != nil {
				t.Fatal(err)
			}
			output := buf.String()
			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "WARNING") || !strings.Contains(output, "PRS3001") {
				t.Errorf("Expected severity and code in output, got:\n%s", output)
			}
		})
	}
}

// TestPathModeAuto проверяет авто-режим выбора пути
func TestPathModeAuto(t *testing.T) {
	fs := source.NewFileSet()
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{"Short path - as is", "notes.md", "notes.md:1:"},
		{"Long absolute path - basename", "/very/long/absolute/path/to/some/nested/directory/file.md", "file.md:1:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileID := fs.AddVirtual(tt.path, []byte("a apple\n"))
			bag := diag.NewBag(10)
			bag.Add(diag.New(diag.SevWarning, diag.ProseArticle, source.Span{File: fileID, Start: 0, End: 1}, "use \"an\""))

			var buf bytes.Buffer
			if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeAuto}); err != nil {
				t.Fatal(err)
			}
			if !strings.HasPrefix(buf.String(), tt.expected) {
				t.Errorf("Expected output to start with %q, got:\n%s", tt.expected, buf.String())
			}
		})
	}
}

func TestPrettyCaret(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.md", []byte("intro\n\tsee teh docs\n"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.ProseTypo, source.Span{File: fileID, Start: 11, End: 14}, "typo"))

	var buf bytes.Buffer
	if err := Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, Context: 1}); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		"a.md:2:6: ERROR PRS3002: typo",
		"  |",
		"1 | intro",
		"2 |     see teh docs",
		"  |         ^~~",
		"",
	}, "\n")
	if buf.String() != want {
		t.Fatalf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("// see the the cat\n")
	fileID := fs.AddVirtual("fetch.go", content)

	bag := diag.NewBag(4)
	primary := source.Span{File: fileID, Start: 10, End: 14}
	d := diag.New(diag.SevWarning, diag.ProseRepeatedWord, primary, "word \"the\" is repeated")
	d = d.WithNote(source.Span{File: fileID, Start: 7, End: 10}, "first occurrence")
	d = d.WithFix("remove \" the\"", diag.FixEdit{Span: primary, NewText: "", OldText: " the"})
	bag.Add(d)

	var buf bytes.Buffer
	opts := PrettyOpts{
		PathMode:    PathModeBasename,
		ShowNotes:   true,
		ShowFixes:   true,
		ShowPreview: true,
	}
	if err := Pretty(&buf, bag, fs, opts); err != nil {
		t.Fatal(err)
	}
	output := buf.String()

	if !strings.Contains(output, "note: fetch.go:1:8: first occurrence") {
		t.Fatalf("expected note with location, got:\n%s", output)
	}
	if !strings.Contains(output, "fix #1: remove \" the\"") {
		t.Fatalf("expected fix entry, got:\n%s", output)
	}
	if !strings.Contains(output, "edit fetch.go:1:11 apply=\"\"") {
		t.Fatalf("expected fix edit, got:\n%s", output)
	}
	if !strings.Contains(output, "preview:") ||
		!strings.Contains(output, "- // see the the cat") ||
		!strings.Contains(output, "+ // see the cat") {
		t.Fatalf("expected preview, got:\n%s", output)
	}
}

func TestPrettyColor(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.txt", []byte("x  y\n"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevInfo, diag.ProseDoubleSpace, source.Span{File: fileID, Start: 1, End: 3}, "spaces"))

	var plain, colored bytes.Buffer
	if err := Pretty(&plain, bag, fs, PrettyOpts{}); err != nil {
		t.Fatal(err)
	}
	if err := Pretty(&colored, bag, fs, PrettyOpts{Color: true}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("plain output has escapes: %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("colored output has no escapes: %q", colored.String())
	}
}

func TestShort(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.txt", []byte("teh end\n"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevWarning, diag.ProseTypo, source.Span{File: fileID, Start: 0, End: 3}, "typo"))

	var buf bytes.Buffer
	if err := Short(&buf, bag, fs, false); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "warning PRS3002 a.txt:1:1 typo\n" {
		t.Fatalf("Short = %q", got)
	}
}
