package textcontent

import (
	"sort"
	"strings"

	"glean/internal/source"
)

// HasUnknownFragmentsIn reports whether an unknown gap sits at any visible
// offset p with start <= p <= end. Both boundaries are inclusive, so a marker
// right at the edge of a range counts.
func (c *Content) HasUnknownFragmentsIn(start, end int) (bool, error) {
	if err := c.checkRange(start, end); err != nil {
		return false, err
	}
	// первый токен, который заканчивается не раньше start
	i := sort.SearchInts(c.ends, start)
	for ; i < len(c.tokens); i++ {
		if c.start(i) > end {
			break
		}
		t := c.tokens[i]
		if t.Kind == KindGap && t.Unknown {
			return true, nil
		}
	}
	return false, nil
}

// IntersectsRange reports whether the file range sp shares at least one byte
// with the span of any visible text token. Ranges that only touch a text token
// at its boundary do not intersect it.
func (c *Content) IntersectsRange(sp source.Span) bool {
	for _, t := range c.tokens {
		if t.Kind == KindText && t.Span.Intersects(sp) {
			return true
		}
	}
	return false
}

// TextOffsetToFile maps a visible offset to a file offset, leaning backward
// at gaps.
func (c *Content) TextOffsetToFile(offset int) (uint32, error) {
	return c.TextOffsetToFileLean(offset, false)
}

// TextOffsetToFileLean maps a visible offset to a file offset. Inside a text
// token the mapping is exact. At a boundary with gaps, leanForward=false picks
// the position before the gaps and leanForward=true the position after them.
func (c *Content) TextOffsetToFileLean(offset int, leanForward bool) (uint32, error) {
	pos, err := c.Locate(offset, leanForward)
	if err != nil {
		return 0, err
	}
	return pos.Start, nil
}

// Locate is TextOffsetToFileLean returning a zero-width span, so callers of
// multi-file contents also learn which file the offset lands in.
func (c *Content) Locate(offset int, leanForward bool) (source.Span, error) {
	if err := c.checkOffset(offset); err != nil {
		return source.Span{}, err
	}
	i := sort.SearchInts(c.ends, offset)
	if i < len(c.tokens) {
		t := c.tokens[i]
		if from := c.start(i); from < offset && offset < c.ends[i] {
			// строго внутри видимого токена; разделитель имеет длину 1 и сюда не попадает
			at := t.Span.Start + u32(offset-from)
			return source.Span{File: t.Span.File, Start: at, End: at}, nil
		}
	}

	var (
		prev, next        *Token
		firstGap, lastGap *Token
	)
	for j := i; j < len(c.tokens) && c.start(j) <= offset; j++ {
		t := &c.tokens[j]
		switch {
		case !t.Visible():
			if firstGap == nil {
				firstGap = t
			}
			lastGap = t
		case c.ends[j] == offset:
			prev = t
		case c.start(j) == offset:
			next = t
		}
		if next != nil {
			break
		}
	}

	if leanForward {
		switch {
		case next != nil:
			return next.Span.ZeroideToStart(), nil
		case lastGap != nil:
			return lastGap.Span.ZeroideToEnd(), nil
		case prev != nil:
			return prev.Span.ZeroideToEnd(), nil
		}
	} else {
		switch {
		case prev != nil:
			return prev.Span.ZeroideToEnd(), nil
		case firstGap != nil:
			return firstGap.Span.ZeroideToStart(), nil
		case next != nil:
			return next.Span.ZeroideToStart(), nil
		}
	}
	return c.Origin(), nil
}

// FileRange maps the visible range [start, end) to a file span. The start
// leans forward and the end leans backward so that gaps bordering the range
// are left out. The range must stay within one file.
func (c *Content) FileRange(start, end int) (source.Span, error) {
	if err := c.checkRange(start, end); err != nil {
		return source.Span{}, err
	}
	if start == end {
		return c.Locate(start, false)
	}
	from, err := c.Locate(start, true)
	if err != nil {
		return source.Span{}, err
	}
	to, err := c.Locate(end, false)
	if err != nil {
		return source.Span{}, err
	}
	if from.File != to.File {
		return source.Span{}, invalidArgf("range [%d, %d) spans files %d and %d", start, end, from.File, to.File)
	}
	if to.Start < from.Start {
		return from, nil
	}
	return source.Span{File: from.File, Start: from.Start, End: to.Start}, nil
}

// UnknownOffsets renders the visible text with '|' at every offset holding an
// unknown gap. It is a debugging and test aid.
func (c *Content) UnknownOffsets() string {
	text := c.String()
	var sb strings.Builder
	sb.Grow(len(text) + 4)
	pos := 0
	for _, at := range c.UnknownPositions() {
		sb.WriteString(text[pos:at])
		sb.WriteByte('|')
		pos = at
	}
	sb.WriteString(text[pos:])
	return sb.String()
}

// UnknownPositions lists the distinct visible offsets that hold unknown gaps.
func (c *Content) UnknownPositions() []int {
	var out []int
	for i, t := range c.tokens {
		if t.Kind != KindGap || !t.Unknown {
			continue
		}
		at := c.start(i)
		if n := len(out); n == 0 || out[n-1] != at {
			out = append(out, at)
		}
	}
	return out
}

// IsContiguous reports whether the visible range [start, end) lies inside a
// single text token, so that it maps to one unbroken file range with the same
// bytes. Empty ranges are contiguous.
func (c *Content) IsContiguous(start, end int) bool {
	if c.checkRange(start, end) != nil {
		return false
	}
	if start == end {
		return true
	}
	i := sort.SearchInts(c.ends, start+1)
	if i >= len(c.tokens) {
		return false
	}
	return c.tokens[i].Kind == KindText && c.ends[i] >= end
}
