package textcontent

import (
	"errors"
	"testing"

	"glean/internal/source"
)

func newSource(t *testing.T, text string) (*source.FileSet, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.txt", []byte(text))
	return fs, id
}

func mustSpan(t *testing.T, fs *source.FileSet, id source.FileID, start, end uint32) *Content {
	t.Helper()
	c, err := FromSpan(PlainText, fs, source.Span{File: id, Start: start, End: end})
	if err != nil {
		t.Fatalf("FromSpan(%d, %d): %v", start, end, err)
	}
	return c
}

func must(t *testing.T) func(*Content, error) *Content {
	return func(c *Content, err error) *Content {
		t.Helper()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return c
	}
}

func hasUnknown(t *testing.T, c *Content, start, end int) bool {
	t.Helper()
	got, err := c.HasUnknownFragmentsIn(start, end)
	if err != nil {
		t.Fatalf("HasUnknownFragmentsIn(%d, %d): %v", start, end, err)
	}
	return got
}

func fileOffset(t *testing.T, c *Content, off int, lean bool) uint32 {
	t.Helper()
	got, err := c.TextOffsetToFileLean(off, lean)
	if err != nil {
		t.Fatalf("TextOffsetToFileLean(%d, %v): %v", off, lean, err)
	}
	return got
}

func TestFromSpan(t *testing.T) {
	fs, id := newSource(t, "hello world")
	c := mustSpan(t, fs, id, 6, 11)
	if c.String() != "world" {
		t.Fatalf("String() = %q, want %q", c.String(), "world")
	}
	if c.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", c.Len())
	}
	if got := fileOffset(t, c, 0, false); got != 6 {
		t.Errorf("offset 0 -> %d, want 6", got)
	}
	if got := fileOffset(t, c, 5, false); got != 11 {
		t.Errorf("offset 5 -> %d, want 11", got)
	}

	empty := mustSpan(t, fs, id, 3, 3)
	if empty.Len() != 0 || empty.NumTokens() != 0 {
		t.Fatalf("empty span content: len=%d tokens=%d", empty.Len(), empty.NumTokens())
	}
	if got := fileOffset(t, empty, 0, true); got != 3 {
		t.Errorf("empty content offset 0 -> %d, want 3", got)
	}
}

func TestFromSpanErrors(t *testing.T) {
	fs, id := newSource(t, "abc")
	tests := []struct {
		name string
		sp   source.Span
		want error
	}{
		{"past end", source.Span{File: id, Start: 1, End: 4}, ErrOutOfRange},
		{"reversed", source.Span{File: id, Start: 2, End: 1}, ErrInvalidArgument},
		{"unknown file", source.Span{File: id + 7, Start: 0, End: 1}, ErrInvalidArgument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromSpan(PlainText, fs, tt.sp)
			if !errors.Is(err, tt.want) {
				t.Fatalf("FromSpan(%s) error = %v, want %v", tt.sp, err, tt.want)
			}
		})
	}
	if _, err := FromSpan(PlainText, nil, source.Span{File: id}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("nil reader error = %v", err)
	}
}

func TestExcludeRangeOffsets(t *testing.T) {
	fs, id := newSource(t, "aaabbbccc")
	c := must(t)(mustSpan(t, fs, id, 0, 9).ExcludeRange(3, 6))

	if c.String() != "aaaccc" {
		t.Fatalf("String() = %q, want %q", c.String(), "aaaccc")
	}
	if got := fileOffset(t, c, 0, false); got != 0 {
		t.Errorf("offset 0 -> %d, want 0", got)
	}
	if got := fileOffset(t, c, 6, false); got != 9 {
		t.Errorf("offset 6 -> %d, want 9", got)
	}
	if got := fileOffset(t, c, 3, false); got != 3 {
		t.Errorf("offset 3 leaning back -> %d, want 3", got)
	}
	if got := fileOffset(t, c, 3, true); got != 6 {
		t.Errorf("offset 3 leaning forward -> %d, want 6", got)
	}
	if got, err := c.TextOffsetToFile(4); err != nil || got != 7 {
		t.Errorf("TextOffsetToFile(4) = %d, %v; want 7", got, err)
	}

	want := []Token{
		TextToken(source.Span{File: id, Start: 0, End: 3}),
		GapToken(source.Span{File: id, Start: 3, End: 6}, false),
		TextToken(source.Span{File: id, Start: 6, End: 9}),
	}
	assertTokens(t, c, want)
}

func TestJoinUnknownMiddleFragment(t *testing.T) {
	fs, id := newSource(t, "aaabbbccc")
	middle := must(t)(mustSpan(t, fs, id, 3, 6).MarkUnknown(0, 3))
	c := must(t)(Join(mustSpan(t, fs, id, 0, 3), middle, mustSpan(t, fs, id, 6, 9)))

	if c.String() != "aaaccc" {
		t.Fatalf("String() = %q, want %q", c.String(), "aaaccc")
	}
	if hasUnknown(t, c, 0, 2) {
		t.Errorf("unknown reported in [0, 2)")
	}
	if !hasUnknown(t, c, 0, 4) {
		t.Errorf("no unknown reported in [0, 4)")
	}
	if !hasUnknown(t, c, 3, 3) {
		t.Errorf("no unknown reported at 3")
	}
	if got := fileOffset(t, c, 3, false); got != 3 {
		t.Errorf("offset 3 leaning back -> %d, want 3", got)
	}
	if got := fileOffset(t, c, 3, true); got != 6 {
		t.Errorf("offset 3 leaning forward -> %d, want 6", got)
	}
}

func TestJoinConcatenatesText(t *testing.T) {
	fs, id := newSource(t, "one, two; three.")
	tests := []struct {
		name  string
		parts func(t *testing.T) []*Content
	}{
		{"plain", func(t *testing.T) []*Content {
			return []*Content{mustSpan(t, fs, id, 0, 4), mustSpan(t, fs, id, 4, 9), mustSpan(t, fs, id, 9, 16)}
		}},
		{"with gaps", func(t *testing.T) []*Content {
			return []*Content{
				must(t)(mustSpan(t, fs, id, 0, 4).ExcludeRange(3, 4)),
				must(t)(mustSpan(t, fs, id, 4, 9).MarkUnknown(0, 1)),
				mustSpan(t, fs, id, 10, 16),
			}
		}},
		{"empty middle", func(t *testing.T) []*Content {
			return []*Content{mustSpan(t, fs, id, 0, 3), mustSpan(t, fs, id, 3, 3), mustSpan(t, fs, id, 5, 8)}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := tt.parts(t)
			joined := must(t)(Join(parts...))
			want := parts[0].String() + parts[1].String() + parts[2].String()
			if joined.String() != want {
				t.Fatalf("String() = %q, want %q", joined.String(), want)
			}
			if joined.Len() != len(want) {
				t.Fatalf("Len() = %d, want %d", joined.Len(), len(want))
			}
		})
	}
}

func TestJoinWithUnknownSeam(t *testing.T) {
	fs, id := newSource(t, "aaabbbccc")
	left := must(t)(mustSpan(t, fs, id, 0, 3).MarkUnknown(3, 3))
	right := mustSpan(t, fs, id, 6, 9)
	c := must(t)(Join(left, right))

	if c.String() != "aaaccc" {
		t.Fatalf("String() = %q", c.String())
	}
	if hasUnknown(t, c, 0, 2) {
		t.Errorf("unknown reported in [0, 2]")
	}
	for _, r := range [][2]int{{0, 4}, {3, 5}, {3, 3}, {2, 3}} {
		if !hasUnknown(t, c, r[0], r[1]) {
			t.Errorf("no unknown reported in [%d, %d]", r[0], r[1])
		}
	}
	if hasUnknown(t, c, 4, 6) {
		t.Errorf("unknown reported in [4, 6]")
	}
}

func TestMarkUnknownAtStart(t *testing.T) {
	fs, id := newSource(t, " abc")
	base := mustSpan(t, fs, id, 0, 4)
	marked := must(t)(base.MarkUnknown(0, 0))

	check := func(name string, c *Content) {
		t.Helper()
		if !hasUnknown(t, c, 0, 0) {
			t.Errorf("%s: no unknown at [0, 0]", name)
		}
		if !hasUnknown(t, c, 0, 1) {
			t.Errorf("%s: no unknown at [0, 1]", name)
		}
		if hasUnknown(t, c, 1, 2) {
			t.Errorf("%s: unknown reported in [1, 2]", name)
		}
	}
	check("marked", marked)
	check("marked+trimmed", must(t)(marked.ExcludeRange(0, 1)))
}

func TestMarkUnknownZeroWidthPlacement(t *testing.T) {
	fs, id := newSource(t, "abcdef")
	c := must(t)(mustSpan(t, fs, id, 0, 6).ExcludeRange(2, 4))
	// маркер на границе 2 встаёт перед существующим промежутком и сливается с ним
	marked := must(t)(c.MarkUnknown(2, 2))
	assertTokens(t, marked, []Token{
		TextToken(source.Span{File: id, Start: 0, End: 2}),
		GapToken(source.Span{File: id, Start: 2, End: 4}, true),
		TextToken(source.Span{File: id, Start: 4, End: 6}),
	})

	end := must(t)(mustSpan(t, fs, id, 1, 3).MarkUnknown(2, 2))
	assertTokens(t, end, []Token{
		TextToken(source.Span{File: id, Start: 1, End: 3}),
		GapToken(source.Span{File: id, Start: 3, End: 3}, true),
	})

	empty := must(t)(mustSpan(t, fs, id, 5, 5).MarkUnknown(0, 0))
	assertTokens(t, empty, []Token{GapToken(source.Span{File: id, Start: 5, End: 5}, true)})
}

func TestMarkUnknownRemovesText(t *testing.T) {
	fs, id := newSource(t, "one two three")
	c := must(t)(mustSpan(t, fs, id, 0, 13).MarkUnknown(4, 7))
	if c.String() != "one  three" {
		t.Fatalf("String() = %q", c.String())
	}
	if got := c.UnknownOffsets(); got != "one | three" {
		t.Fatalf("UnknownOffsets() = %q", got)
	}
	if !hasUnknown(t, c, 0, 4) || hasUnknown(t, c, 5, 10) {
		t.Fatalf("unknown marker misplaced: %v", c.Tokens())
	}
}

func TestJoinWithWhitespace(t *testing.T) {
	fs, id := newSource(t, "abbbc")
	first := mustSpan(t, fs, id, 0, 1)
	second := must(t)(mustSpan(t, fs, id, 4, 5).MarkUnknown(1, 1))
	joined := JoinWithWhitespace(first, second)
	if joined == nil {
		t.Fatal("JoinWithWhitespace returned nil")
	}
	if got := joined.UnknownOffsets(); got != "a c|" {
		t.Fatalf("UnknownOffsets() = %q, want %q", got, "a c|")
	}
	for off, want := range []uint32{0, 1, 4, 5} {
		if got := fileOffset(t, joined, off, false); got != want {
			t.Errorf("offset %d -> %d, want %d", off, got, want)
		}
	}
	if got := fileOffset(t, joined, 1, true); got != 1 {
		t.Errorf("offset 1 leaning forward -> %d, want 1", got)
	}

	tests := []struct {
		name       string
		start, end int
		unknown    bool
		want       string
	}{
		{"mark last", 2, 3, true, "a |"},
		{"exclude last", 2, 3, false, "a |"},
		{"mark separator", 1, 2, true, "a|c|"},
		{"exclude separator", 1, 2, false, "ac|"},
		{"mark first", 0, 1, true, "| c|"},
		{"exclude first", 0, 1, false, "c|"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				got *Content
				err error
			)
			if tt.unknown {
				got, err = joined.MarkUnknown(tt.start, tt.end)
			} else {
				got, err = joined.ExcludeRange(tt.start, tt.end)
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s := got.UnknownOffsets(); s != tt.want {
				t.Fatalf("UnknownOffsets() = %q, want %q", s, tt.want)
			}
		})
	}
}

func TestExcludeLeadingDropsSeparator(t *testing.T) {
	fs, id := newSource(t, "ab  c")
	joined := JoinWithWhitespace(mustSpan(t, fs, id, 0, 2), mustSpan(t, fs, id, 4, 5))
	if joined.String() != "ab c" {
		t.Fatalf("String() = %q", joined.String())
	}

	ranges := []Exclusion{{Start: 0, End: 1}, {Start: 1, End: 2, MarkUnknown: true}}
	batch := must(t)(joined.ExcludeRanges(ranges))
	seq := must(t)(must(t)(joined.MarkUnknown(1, 2)).ExcludeRange(0, 1))
	if !batch.Equal(seq) {
		t.Fatalf("batch %v != sequential %v", batch.Tokens(), seq.Tokens())
	}
	if got := batch.UnknownOffsets(); got != "|c" {
		t.Fatalf("UnknownOffsets() = %q, want %q", got, "|c")
	}

	// без цепочки до разделителя он остаётся
	kept := must(t)(joined.ExcludeRange(0, 1))
	if kept.String() != "b c" {
		t.Fatalf("String() = %q, want %q", kept.String(), "b c")
	}
	// на конце разделитель не трогаем: иначе сдвинулись бы смещения левее исключения
	tail := must(t)(joined.ExcludeRange(3, 4))
	if tail.String() != "ab " {
		t.Fatalf("String() = %q, want %q", tail.String(), "ab ")
	}
}

func TestJoinWithWhitespaceSkipsExistingSpace(t *testing.T) {
	fs, id := newSource(t, "foo bar")
	left := mustSpan(t, fs, id, 0, 4)
	right := mustSpan(t, fs, id, 4, 7)
	joined := JoinWithWhitespace(left, right)
	if joined.String() != "foo bar" {
		t.Fatalf("String() = %q", joined.String())
	}
	// соседние отрезки сливаются в один
	if joined.NumTokens() != 1 {
		t.Fatalf("tokens = %v", joined.Tokens())
	}
	if JoinWithWhitespace() != nil {
		t.Fatal("JoinWithWhitespace() of nothing should be nil")
	}
	other, _ := FromSpan(Comments, fs, source.Span{File: id, Start: 0, End: 1})
	if JoinWithWhitespace(left, other) != nil {
		t.Fatal("JoinWithWhitespace across domains should be nil")
	}
}

func TestJoinErrors(t *testing.T) {
	fs, id := newSource(t, "abc")
	a := mustSpan(t, fs, id, 0, 1)
	if _, err := Join(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Join() error = %v", err)
	}
	b, _ := FromSpan(Literals, fs, source.Span{File: id, Start: 1, End: 2})
	if _, err := Join(a, b); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Join across domains error = %v", err)
	}
	otherFS, otherID := newSource(t, "abc")
	c := mustSpan(t, otherFS, otherID, 0, 1)
	if _, err := Join(a, c); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Join across readers error = %v", err)
	}
	joined := must(t)(Join(a, mustSpan(t, fs, id, 1, 3)))
	assertTokens(t, joined, []Token{TextToken(source.Span{File: id, Start: 0, End: 3})})
}

func TestIntersectsRangeExhaustive(t *testing.T) {
	fs, id := newSource(t, "aaabbbccc")
	c := must(t)(Join(mustSpan(t, fs, id, 0, 3), mustSpan(t, fs, id, 6, 9)))
	first := source.Span{File: id, Start: 0, End: 3}
	second := source.Span{File: id, Start: 6, End: 9}
	for i := uint32(0); i <= 9; i++ {
		for j := i; j <= 9; j++ {
			r := source.Span{File: id, Start: i, End: j}
			want := r.Intersects(first) || r.Intersects(second)
			if got := c.IntersectsRange(r); got != want {
				t.Errorf("IntersectsRange(%d, %d) = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestRangeErrors(t *testing.T) {
	fs, id := newSource(t, "abcdef")
	c := mustSpan(t, fs, id, 0, 6)
	if _, err := c.ExcludeRange(4, 2); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("reversed range error = %v", err)
	}
	if _, err := c.ExcludeRange(2, 7); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("past-end range error = %v", err)
	}
	if _, err := c.MarkUnknown(-1, 2); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("negative range error = %v", err)
	}
	if _, err := c.TextOffsetToFile(7); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("TextOffsetToFile(7) error = %v", err)
	}
	if _, err := c.HasUnknownFragmentsIn(0, 9); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("HasUnknownFragmentsIn(0, 9) error = %v", err)
	}
	overlapping := []Exclusion{{Start: 0, End: 3}, {Start: 2, End: 4}}
	if _, err := c.ExcludeRanges(overlapping); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("overlapping ranges error = %v", err)
	}
	unsorted := []Exclusion{{Start: 4, End: 5}, {Start: 0, End: 1}}
	if _, err := c.ExcludeRanges(unsorted); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("unsorted ranges error = %v", err)
	}
	touching := []Exclusion{{Start: 0, End: 2}, {Start: 2, End: 4, MarkUnknown: true}}
	got := must(t)(c.ExcludeRanges(touching))
	if got.String() != "ef" {
		t.Errorf("touching ranges String() = %q", got.String())
	}
}

func TestExcludeRangeZeroWidthIsNoop(t *testing.T) {
	fs, id := newSource(t, "abcdef")
	c := mustSpan(t, fs, id, 0, 6)
	got := must(t)(c.ExcludeRange(3, 3))
	if !got.Equal(c) {
		t.Fatalf("zero-width exclude changed content: %v", got.Tokens())
	}
}

func TestExcludeRangeLeavesReceiver(t *testing.T) {
	fs, id := newSource(t, "the quick brown fox")
	c := mustSpan(t, fs, id, 0, 19)
	once := must(t)(c.ExcludeRange(4, 10))
	twice := must(t)(must(t)(c.ExcludeRange(4, 10)).ExcludeRange(4, 4))
	if !once.Equal(twice) {
		t.Fatalf("repeat exclude differs: %v vs %v", once.Tokens(), twice.Tokens())
	}
	if c.String() != "the quick brown fox" {
		t.Fatalf("receiver modified: %q", c.String())
	}
}

func TestFileRange(t *testing.T) {
	fs, id := newSource(t, "aaabbbccc")
	c := must(t)(mustSpan(t, fs, id, 0, 9).ExcludeRange(3, 6))
	got, err := c.FileRange(3, 5)
	if err != nil {
		t.Fatal(err)
	}
	if want := (source.Span{File: id, Start: 6, End: 8}); got != want {
		t.Errorf("FileRange(3, 5) = %s, want %s", got, want)
	}
	got, err = c.FileRange(1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if want := (source.Span{File: id, Start: 1, End: 3}); got != want {
		t.Errorf("FileRange(1, 3) = %s, want %s", got, want)
	}
	got, err = c.FileRange(2, 4)
	if err != nil {
		t.Fatal(err)
	}
	if want := (source.Span{File: id, Start: 2, End: 7}); got != want {
		t.Errorf("FileRange(2, 4) = %s, want %s", got, want)
	}
}

func TestTrimWhitespace(t *testing.T) {
	fs, id := newSource(t, "   padded text \t")
	c := must(t)(mustSpan(t, fs, id, 0, 16).TrimWhitespace())
	if c.String() != "padded text" {
		t.Fatalf("String() = %q", c.String())
	}
	// назад от 0 курсор остаётся перед срезанными пробелами
	if got := fileOffset(t, c, 0, false); got != 0 {
		t.Errorf("offset 0 leaning back -> %d, want 0", got)
	}
	if got := fileOffset(t, c, 0, true); got != 3 {
		t.Errorf("offset 0 leaning forward -> %d, want 3", got)
	}
	got, err := c.FileRange(0, c.Len())
	if err != nil {
		t.Fatal(err)
	}
	if want := (source.Span{File: id, Start: 3, End: 14}); got != want {
		t.Errorf("FileRange(0, %d) = %s, want %s", c.Len(), got, want)
	}

	blank := must(t)(mustSpan(t, fs, id, 0, 3).TrimWhitespace())
	if blank.Len() != 0 {
		t.Fatalf("blank content Len() = %d", blank.Len())
	}
}

func assertTokens(t *testing.T, c *Content, want []Token) {
	t.Helper()
	got := c.Tokens()
	if len(got) != len(want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("token %d = %v, want %v (all: %v)", i, got[i], want[i], got)
		}
	}
}

func TestIsContiguous(t *testing.T) {
	fs, id := newSource(t, "aaabbbccc")
	c := must(t)(mustSpan(t, fs, id, 0, 9).ExcludeRange(3, 6))
	tests := []struct {
		start, end int
		want       bool
	}{
		{0, 3, true},
		{1, 2, true},
		{2, 4, false},
		{3, 6, true},
		{4, 4, true},
		{0, 6, false},
	}
	for _, tt := range tests {
		if got := c.IsContiguous(tt.start, tt.end); got != tt.want {
			t.Errorf("IsContiguous(%d, %d) = %v, want %v", tt.start, tt.end, got, tt.want)
		}
	}
	joined := JoinWithWhitespace(mustSpan(t, fs, id, 0, 1), mustSpan(t, fs, id, 8, 9))
	if joined.IsContiguous(0, 2) || !joined.IsContiguous(2, 3) {
		t.Fatalf("separator must break contiguity: %v", joined.Tokens())
	}
}
