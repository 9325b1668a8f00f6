package lexer_test

import (
	"testing"

	"glean/internal/lexer"
	"glean/internal/source"
)

func spanTexts(fs *source.FileSet, spans []source.Span) []string {
	out := make([]string, 0, len(spans))
	for _, sp := range spans {
		out = append(out, string(fs.ReadSpan(sp)))
	}
	return out
}

func TestEscapesAndInterpolations(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		escapes []string
		interps []string
	}{
		{"plain", `"a\tb\"c\x41\u{1F600}é"`, []string{`\t`, `\"`, `\x41`, `\u{1F600}`}, nil},
		{"format", `f"{{x}} is {a.b} and {f(1, {2})}\n"`, []string{`{{`, `}}`, `\n`}, []string{`{a.b}`, `{f(1, {2})}`}},
		{"escape inside interpolation", `f"{s["\n"]}"`, nil, []string{`{s[`}},
		{"raw", "`no \\n escapes`", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := source.NewFileSet()
			id := fs.AddVirtual("lit.go", []byte(tt.input))
			frags := lexer.Scan(fs.Get(id), lexer.Options{})
			if len(frags) == 0 {
				t.Fatal("no fragments")
			}
			f := frags[0]
			gotEsc := spanTexts(fs, lexer.Escapes(f))
			if len(gotEsc) != len(tt.escapes) {
				t.Fatalf("escapes = %q, want %q", gotEsc, tt.escapes)
			}
			for i := range gotEsc {
				if gotEsc[i] != tt.escapes[i] {
					t.Errorf("escape %d = %q, want %q", i, gotEsc[i], tt.escapes[i])
				}
			}
			gotInt := spanTexts(fs, lexer.Interpolations(f))
			if len(gotInt) != len(tt.interps) {
				t.Fatalf("interpolations = %q, want %q", gotInt, tt.interps)
			}
			for i := range gotInt {
				if gotInt[i] != tt.interps[i] {
					t.Errorf("interpolation %d = %q, want %q", i, gotInt[i], tt.interps[i])
				}
			}
		})
	}
}
