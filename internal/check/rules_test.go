package check

import (
	"context"
	"testing"

	"glean/internal/source"
	"glean/internal/textcontent"
)

func plain(t *testing.T, text string) *textcontent.Content {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.txt", []byte(text))
	c, err := textcontent.FromFile(textcontent.PlainText, fs, id)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	return c
}

type want struct {
	start, end int
	repl       string
}

func runRule(t *testing.T, r Rule, text string, expected []want) {
	t.Helper()
	got := r.Check(context.Background(), plain(t, text))
	if len(got) != len(expected) {
		t.Fatalf("%s(%q): got %d findings %+v, want %d", r.ID(), text, len(got), got, len(expected))
	}
	for i, f := range got {
		w := expected[i]
		if f.Start != w.start || f.End != w.end {
			t.Errorf("%s(%q)[%d]: range [%d,%d), want [%d,%d)", r.ID(), text, i, f.Start, f.End, w.start, w.end)
		}
		if f.Replacement == nil || *f.Replacement != w.repl {
			t.Errorf("%s(%q)[%d]: replacement %v, want %q", r.ID(), text, i, f.Replacement, w.repl)
		}
		if f.Code != r.Code() {
			t.Errorf("%s(%q)[%d]: code %v, want %v", r.ID(), text, i, f.Code, r.Code())
		}
	}
}

func TestWords(t *testing.T) {
	got := Words("don't stop-me now -- ok'")
	want := []string{"don't", "stop-me", "now", "ok"}
	if len(got) != len(want) {
		t.Fatalf("Words: got %+v", got)
	}
	for i, w := range got {
		if w.Text != want[i] {
			t.Errorf("word %d = %q, want %q", i, w.Text, want[i])
		}
	}
	if got[1].Start != 6 || got[1].End != 13 {
		t.Errorf("stop-me at [%d,%d)", got[1].Start, got[1].End)
	}
}

func TestRepeatedWord(t *testing.T) {
	tests := []struct {
		text string
		want []want
	}{
		{"the the cat", []want{{3, 7, ""}}},
		{"The the cat", []want{{3, 7, ""}}},
		{"is\nis", []want{{2, 5, ""}}},
		{"the, the", nil},
		{"1 1", nil},
		{"a b a b", nil},
		{"café café", []want{{5, 11, ""}}},
	}
	for _, tt := range tests {
		runRule(t, RepeatedWord{}, tt.text, tt.want)
	}
}

func TestRepeatedWordNormalises(t *testing.T) {
	// NFC и NFD формы одного слова
	runRule(t, RepeatedWord{}, "caf\u00e9 cafe\u0301", []want{{5, 12, ""}})
}

func TestTypo(t *testing.T) {
	rule := NewTypo(map[string]string{"colour": "color", "teh": ""})
	runRule(t, rule, "Recieve the colour", []want{{0, 7, "Receive"}, {12, 18, "color"}})
	runRule(t, rule, "teh end", nil)
	runRule(t, NewTypo(nil), "TEH end", []want{{0, 3, "THE"}})
	if _, ok := NewTypo(nil).Dictionary()["teh"]; !ok {
		t.Fatalf("default dictionary misses teh")
	}
}

func TestDoubleSpace(t *testing.T) {
	tests := []struct {
		text string
		want []want
	}{
		{"one  two", []want{{3, 5, " "}}},
		{"one \t two   three", []want{{3, 6, " "}, {9, 12, " "}}},
		{"  leading", nil},
		{"trailing  ", nil},
		{"line  \nnext", nil},
		{"single space", nil},
	}
	for _, tt := range tests {
		runRule(t, DoubleSpace{}, tt.text, tt.want)
	}
}

func TestDoubleSpaceIgnoresExcludedSeam(t *testing.T) {
	c := plain(t, "one <x> two")
	c, err := c.ExcludeRange(4, 7)
	if err != nil {
		t.Fatal(err)
	}
	if c.String() != "one  two" {
		t.Fatalf("content = %q", c.String())
	}
	if got := (DoubleSpace{}).Check(context.Background(), c); len(got) != 0 {
		t.Fatalf("seam reported: %+v", got)
	}
}

func TestArticle(t *testing.T) {
	tests := []struct {
		text string
		want []want
	}{
		{"a apple", []want{{0, 1, "an"}}},
		{"an banana", []want{{0, 2, "a"}}},
		{"A owl", []want{{0, 1, "An"}}},
		{"An cat", []want{{0, 2, "A"}}},
		{"a user and an hour", nil},
		{"an uninteresting day", nil},
		{"a university", nil},
		{"an URL", nil},
		{"a 8", nil},
		{"a, apple", nil},
		{"an honest a honest", []want{{10, 11, "an"}}},
	}
	for _, tt := range tests {
		runRule(t, Article{}, tt.text, tt.want)
	}
}
