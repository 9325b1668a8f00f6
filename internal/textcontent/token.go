package textcontent

import (
	"fmt"

	"glean/internal/source"
)

// Kind discriminates the Token variants.
type Kind uint8

const (
	// KindText is a run of visible characters backed by Span.
	KindText Kind = iota + 1
	// KindGap is invisible source material; Span is its anchor.
	KindGap
	// KindSeparator is one synthetic whitespace character standing for Span.
	KindSeparator
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindGap:
		return "gap"
	case KindSeparator:
		return "separator"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// separatorChar is the visible character of a KindSeparator token.
const separatorChar = ' '

// Token is one element of a Content token stream.
type Token struct {
	Kind    Kind
	Span    source.Span
	Unknown bool // только для KindGap
}

// TextToken returns a visible token backed by sp.
func TextToken(sp source.Span) Token {
	return Token{Kind: KindText, Span: sp}
}

// GapToken returns an invisible token anchored at sp.
func GapToken(sp source.Span, unknown bool) Token {
	return Token{Kind: KindGap, Span: sp, Unknown: unknown}
}

// Len returns the number of visible characters the token contributes.
func (t Token) Len() int {
	switch t.Kind {
	case KindText:
		return int(t.Span.Len())
	case KindSeparator:
		return 1
	default:
		return 0
	}
}

// Visible reports whether the token contributes characters to the view.
func (t Token) Visible() bool {
	return t.Kind == KindText || t.Kind == KindSeparator
}

// SourceLen returns the length of the source material the token stands for.
func (t Token) SourceLen() int {
	return int(t.Span.Len())
}

// charEnd returns the zero-width file position right after visible character k of the token.
func (t Token) charEnd(k int) source.Span {
	if t.Kind == KindSeparator {
		return t.Span.ZeroideToEnd()
	}
	off := t.Span.Start + u32(k+1)
	return source.Span{File: t.Span.File, Start: off, End: off}
}

// slice returns the part of a visible token covering visible characters [from, to).
func (t Token) slice(from, to int) source.Span {
	if t.Kind == KindSeparator {
		return t.Span
	}
	return t.Span.Sub(u32(from), u32(to))
}

func (t Token) String() string {
	switch t.Kind {
	case KindGap:
		if t.Unknown {
			return fmt.Sprintf("gap?%s", t.Span)
		}
		return fmt.Sprintf("gap%s", t.Span)
	case KindSeparator:
		return fmt.Sprintf("sep%s", t.Span)
	default:
		return fmt.Sprintf("text%s", t.Span)
	}
}

// builder accumulates tokens in normalised form.
type builder struct {
	out []Token
}

func newBuilder(capacity int) *builder {
	return &builder{out: make([]Token, 0, capacity)}
}

func (b *builder) push(t Token) {
	switch t.Kind {
	case KindText:
		if t.Span.Empty() {
			return
		}
	case KindGap:
		if t.Span.Empty() && !t.Unknown {
			return
		}
	}
	if n := len(b.out); n > 0 {
		last := &b.out[n-1]
		if last.Kind == t.Kind && t.Kind != KindSeparator && last.Span.Adjacent(t.Span) {
			last.Span.End = t.Span.End
			last.Unknown = last.Unknown || t.Unknown
			return
		}
	}
	b.out = append(b.out, t)
}

func (b *builder) pushAll(tokens []Token) {
	for _, t := range tokens {
		b.push(t)
	}
}
