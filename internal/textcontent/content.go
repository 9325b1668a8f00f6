package textcontent

import (
	"slices"
	"strings"
	"sync"

	"glean/internal/source"
)

// Reader resolves file spans to bytes. *source.FileSet implements it.
// Implementations must be comparable: Join uses == to check that every
// operand reads from the same source.
type Reader interface {
	SourceLen(id source.FileID) (uint32, bool)
	ReadSpan(sp source.Span) []byte
}

// Content is an immutable, normalised view of analyzable text.
type Content struct {
	domain Domain
	reader Reader
	tokens []Token
	// ends[i]: видимое смещение конца tokens[i]; len(ends) == len(tokens)
	ends []int
	// origin: позиция для пустого содержимого
	origin source.Span

	textOnce sync.Once
	text     string
}

func newContent(domain Domain, reader Reader, origin source.Span, tokens []Token) *Content {
	c := &Content{
		domain: domain,
		reader: reader,
		tokens: tokens,
		ends:   make([]int, len(tokens)),
		origin: origin.ZeroideToStart(),
	}
	pos := 0
	for i, t := range tokens {
		pos += t.Len()
		c.ends[i] = pos
	}
	return c
}

// FromSpan builds a Content whose visible text is exactly the bytes of sp.
func FromSpan(domain Domain, reader Reader, sp source.Span) (*Content, error) {
	if reader == nil {
		return nil, invalidArgf("nil reader")
	}
	if !sp.Valid() {
		return nil, invalidArgf("span %s has start after end", sp)
	}
	size, ok := reader.SourceLen(sp.File)
	if !ok {
		return nil, invalidArgf("unknown file %d", sp.File)
	}
	if sp.End > size {
		return nil, outOfRangef("span %s exceeds source length %d", sp, size)
	}
	b := newBuilder(1)
	b.push(TextToken(sp))
	return newContent(domain, reader, sp, b.out), nil
}

// FromFile builds a Content covering a whole file.
func FromFile(domain Domain, reader Reader, id source.FileID) (*Content, error) {
	if reader == nil {
		return nil, invalidArgf("nil reader")
	}
	size, ok := reader.SourceLen(id)
	if !ok {
		return nil, invalidArgf("unknown file %d", id)
	}
	return FromSpan(domain, reader, source.Span{File: id, Start: 0, End: size})
}

// FromTokens normalises an arbitrary token sequence. Text token spans must be
// readable through reader.
func FromTokens(domain Domain, reader Reader, tokens []Token) (*Content, error) {
	if reader == nil {
		return nil, invalidArgf("nil reader")
	}
	b := newBuilder(len(tokens))
	for _, t := range tokens {
		if !t.Span.Valid() {
			return nil, invalidArgf("token %s has start after end", t)
		}
		switch t.Kind {
		case KindText, KindGap, KindSeparator:
		default:
			return nil, invalidArgf("token kind %d", t.Kind)
		}
		if t.Kind == KindText {
			size, ok := reader.SourceLen(t.Span.File)
			if !ok {
				return nil, invalidArgf("unknown file %d", t.Span.File)
			}
			if t.Span.End > size {
				return nil, outOfRangef("token %s exceeds source length %d", t, size)
			}
		}
		b.push(t)
	}
	var origin source.Span
	if len(tokens) > 0 {
		origin = tokens[0].Span
	}
	return newContent(domain, reader, origin, b.out), nil
}

func (c *Content) Domain() Domain { return c.domain }

func (c *Content) Reader() Reader { return c.reader }

// Len returns the number of visible characters (bytes of the rendered text).
func (c *Content) Len() int {
	if len(c.ends) == 0 {
		return 0
	}
	return c.ends[len(c.ends)-1]
}

// Tokens returns a copy of the normalised token stream.
func (c *Content) Tokens() []Token {
	return slices.Clone(c.tokens)
}

// NumTokens returns the length of the token stream without copying it.
func (c *Content) NumTokens() int { return len(c.tokens) }

// String renders the visible text. The result is computed once and cached.
func (c *Content) String() string {
	c.textOnce.Do(func() {
		var sb strings.Builder
		sb.Grow(c.Len())
		for _, t := range c.tokens {
			switch t.Kind {
			case KindText:
				sb.Write(c.reader.ReadSpan(t.Span))
			case KindSeparator:
				sb.WriteByte(separatorChar)
			}
		}
		c.text = sb.String()
	})
	return c.text
}

// Equal reports whether both values have the same domain and token stream.
func (c *Content) Equal(other *Content) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.domain == other.domain && slices.Equal(c.tokens, other.tokens)
}

// Origin returns the zero-width position used to anchor an empty Content.
func (c *Content) Origin() source.Span {
	if len(c.tokens) > 0 {
		return c.tokens[0].Span.ZeroideToStart()
	}
	return c.origin
}

// start returns the visible offset where tokens[i] begins.
func (c *Content) start(i int) int {
	if i == 0 {
		return 0
	}
	return c.ends[i-1]
}

func (c *Content) checkOffset(off int) error {
	if off < 0 || off > c.Len() {
		return outOfRangef("offset %d outside [0, %d]", off, c.Len())
	}
	return nil
}

func (c *Content) checkRange(start, end int) error {
	if start > end {
		return invalidArgf("range [%d, %d) has start after end", start, end)
	}
	if err := c.checkOffset(start); err != nil {
		return err
	}
	return c.checkOffset(end)
}
