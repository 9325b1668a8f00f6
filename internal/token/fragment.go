package token

import (
	"fmt"

	"glean/internal/source"
)

// FragmentKind classifies a lexed fragment.
type FragmentKind uint8

const (
	Invalid FragmentKind = iota
	LineComment
	DocLine
	BlockComment
	DocBlock
	StringLit
	FStringLit
	RawStringLit
)

var fragmentKindNames = [...]string{
	Invalid:      "Invalid",
	LineComment:  "LineComment",
	DocLine:      "DocLine",
	BlockComment: "BlockComment",
	DocBlock:     "DocBlock",
	StringLit:    "StringLit",
	FStringLit:   "FStringLit",
	RawStringLit: "RawStringLit",
}

func (k FragmentKind) String() string {
	if int(k) < len(fragmentKindNames) {
		return fragmentKindNames[k]
	}
	return fmt.Sprintf("FragmentKind(%d)", k)
}

// Fragment is one comment or string literal with its delimiters.
type Fragment struct {
	Kind FragmentKind
	Span source.Span
	Text string
	// Unterminated is set when the closing delimiter is missing; Span then runs
	// to the end of the line (strings) or the file (block comments).
	Unterminated bool
}

// IsComment reports whether the fragment is any kind of comment.
func (f Fragment) IsComment() bool {
	switch f.Kind {
	case LineComment, DocLine, BlockComment, DocBlock:
		return true
	default:
		return false
	}
}

// IsDoc reports whether the fragment is a documentation comment.
func (f Fragment) IsDoc() bool { return f.Kind == DocLine || f.Kind == DocBlock }

// IsLiteral reports whether the fragment is a string literal of any flavour.
func (f Fragment) IsLiteral() bool {
	switch f.Kind {
	case StringLit, FStringLit, RawStringLit:
		return true
	default:
		return false
	}
}

// IsLine reports whether the fragment ends at a line break.
func (f Fragment) IsLine() bool { return f.Kind == LineComment || f.Kind == DocLine }

// OpenLen returns the length of the opening delimiter.
func (f Fragment) OpenLen() uint32 {
	switch f.Kind {
	case LineComment, BlockComment, FStringLit:
		return 2
	case DocLine, DocBlock:
		return 3
	case StringLit, RawStringLit:
		return 1
	default:
		return 0
	}
}

// CloseLen returns the length of the closing delimiter, zero when the fragment
// is unterminated or has none.
func (f Fragment) CloseLen() uint32 {
	if f.Unterminated {
		return 0
	}
	switch f.Kind {
	case BlockComment, DocBlock:
		return 2
	case StringLit, FStringLit, RawStringLit:
		return 1
	default:
		return 0
	}
}

// Body returns the span between the delimiters.
func (f Fragment) Body() source.Span {
	start := f.Span.Start + min(f.OpenLen(), f.Span.Len())
	end := max(start, f.Span.End-min(f.CloseLen(), f.Span.End-start))
	return source.Span{File: f.Span.File, Start: start, End: end}
}
