package source

import "fmt"

// Span is the byte range [Start, End) of one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) String() string { return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End) }

func (s Span) Len() uint32 { return s.End - s.Start }
func (s Span) Empty() bool { return s.Start == s.End }
func (s Span) Valid() bool { return s.Start <= s.End }

func (s Span) sameFile(o Span) bool { return s.File == o.File }

// Contains reports whether off is one of the span's bytes.
func (s Span) Contains(off uint32) bool { return off >= s.Start && off < s.End }

// ContainsSpan reports whether o lies inside s. An empty o at s.End counts.
func (s Span) ContainsSpan(o Span) bool {
	return s.sameFile(o) && s.Start <= o.Start && o.End <= s.End
}

// Intersects reports a shared byte. Touching spans and empty spans never
// intersect anything.
func (s Span) Intersects(o Span) bool {
	return s.sameFile(o) && max(s.Start, o.Start) < min(s.End, o.End)
}

// Adjacent reports whether o begins where s ends.
func (s Span) Adjacent(o Span) bool { return s.sameFile(o) && s.End == o.Start }

// Cover is the smallest span holding both. Spans of another file are ignored.
func (s Span) Cover(o Span) Span {
	if s.sameFile(o) {
		s.Start, s.End = min(s.Start, o.Start), max(s.End, o.End)
	}
	return s
}

// Sub is the part [from, to) measured from s.Start.
func (s Span) Sub(from, to uint32) Span {
	return Span{File: s.File, Start: s.Start + from, End: s.Start + to}
}

// ZeroideToStart is the empty span at s.Start.
func (s Span) ZeroideToStart() Span { return Span{File: s.File, Start: s.Start, End: s.Start} }

// ZeroideToEnd is the empty span at s.End.
func (s Span) ZeroideToEnd() Span { return Span{File: s.File, Start: s.End, End: s.End} }
