package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"glean/internal/source"
)

// Cursor walks the bytes of one file inside a window [pos, end).
// Reads past the window return 0.
type Cursor struct {
	file *source.File
	src  []byte
	pos  uint32
	end  uint32
}

// NewCursor covers the whole file.
func NewCursor(f *source.File) Cursor {
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file %s too large: %w", f.Path, err))
	}
	return Cursor{file: f, src: f.Content, end: end}
}

// NewSpanCursor covers sp clipped to the file.
func NewSpanCursor(f *source.File, sp source.Span) Cursor {
	c := NewCursor(f)
	c.end = min(sp.End, c.end)
	c.pos = min(sp.Start, c.end)
	return c
}

// Pos is the offset of the next unread byte.
func (c *Cursor) Pos() uint32 { return c.pos }

func (c *Cursor) EOF() bool { return c.pos >= c.end }

func (c *Cursor) at(off uint32) byte {
	if off >= c.end {
		return 0
	}
	return c.src[off]
}

func (c *Cursor) Peek() byte { return c.at(c.pos) }

// PeekAt looks n bytes ahead.
func (c *Cursor) PeekAt(n uint32) byte { return c.at(c.pos + n) }

// Peek2 returns the next two bytes; ok is false when fewer remain.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.pos+1 >= c.end {
		return 0, 0, false
	}
	return c.src[c.pos], c.src[c.pos+1], true
}

// Prev is the byte just behind the cursor, ignoring the window start.
func (c *Cursor) Prev() byte {
	if c.pos == 0 {
		return 0
	}
	return c.src[c.pos-1]
}

// Bump consumes and returns one byte.
func (c *Cursor) Bump() byte {
	b := c.Peek()
	if !c.EOF() {
		c.pos++
	}
	return b
}

// BumpN skips n bytes, stopping at the window end.
func (c *Cursor) BumpN(n uint32) { c.pos = min(c.pos+n, c.end) }

// Eat consumes b if it is next.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.src[c.pos] != b {
		return false
	}
	c.pos++
	return true
}

// SkipLine stops in front of the next '\n'.
func (c *Cursor) SkipLine() {
	for !c.EOF() && c.src[c.pos] != '\n' {
		c.pos++
	}
}

// Mark is a saved position.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.pos) }

func (c *Cursor) Reset(m Mark) { c.pos = uint32(m) }

// SpanFrom spans from m to the current position.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.file.ID, Start: uint32(m), End: c.pos}
}
