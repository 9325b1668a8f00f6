package textcontent

import (
	"sort"

	"glean/internal/source"
)

// Exclusion is one entry of an ExcludeRanges batch. Start and End are visible
// offsets of the receiver; MarkUnknown selects unknown gaps for the removed
// characters instead of known ones.
type Exclusion struct {
	Start       int
	End         int
	MarkUnknown bool
}

// ExcludeRange hides the visible characters in [start, end) behind a known gap.
// An empty range leaves the content unchanged.
func (c *Content) ExcludeRange(start, end int) (*Content, error) {
	return c.ExcludeRanges([]Exclusion{{Start: start, End: end}})
}

// MarkUnknown hides [start, end) behind an unknown gap. An empty range inserts
// a zero-width unknown marker at start, after any character ending there and
// before any gap already sitting at that offset.
func (c *Content) MarkUnknown(start, end int) (*Content, error) {
	return c.ExcludeRanges([]Exclusion{{Start: start, End: end, MarkUnknown: true}})
}

// ExcludeRanges applies a batch of exclusions in one left-to-right pass.
// Ranges must be sorted by Start and must not overlap; touching ranges are
// allowed. The result equals applying the ranges one at a time from the last
// to the first. A known exclusion starting at 0 also hides a separator that
// would otherwise become the first visible character.
func (c *Content) ExcludeRanges(ranges []Exclusion) (*Content, error) {
	if err := c.validateExclusions(ranges); err != nil {
		return nil, err
	}
	if len(ranges) == 0 {
		return c, nil
	}
	if !hasEffect(ranges) {
		return c, nil
	}

	b := newBuilder(len(c.tokens) + 2*len(ranges))
	dropAt := c.leadingSeparator(ranges)
	ri := 0
	pos := 0
	// anchor: позиция сразу после последнего видимого символа
	anchor := c.Origin()

	emitMarkers := func(p int) {
		for ri < len(ranges) && ranges[ri].Start == p && ranges[ri].End == p {
			if ranges[ri].MarkUnknown {
				b.push(GapToken(anchor, true))
			}
			ri++
		}
	}

	for _, tok := range c.tokens {
		if !tok.Visible() {
			emitMarkers(pos)
			b.push(tok)
			continue
		}
		size := tok.Len()
		end := pos + size
		k := 0
		for k < size {
			p := pos + k
			if k > 0 {
				anchor = tok.charEnd(k - 1)
			}
			emitMarkers(p)
			if ri < len(ranges) && ranges[ri].Start <= p {
				r := ranges[ri]
				stop := min(end, r.End)
				b.push(GapToken(tok.slice(k, stop-pos), r.MarkUnknown))
				k = stop - pos
				if r.End <= end {
					ri++
				}
				continue
			}
			stop := end
			if ri < len(ranges) && ranges[ri].Start < stop {
				stop = ranges[ri].Start
			}
			if tok.Kind == KindSeparator && p == dropAt {
				b.push(GapToken(tok.Span, false))
			} else {
				b.push(Token{Kind: tok.Kind, Span: tok.slice(k, stop-pos)})
			}
			k = stop - pos
		}
		anchor = tok.charEnd(size - 1)
		pos = end
	}
	emitMarkers(pos)

	return newContent(c.domain, c.reader, c.origin, b.out), nil
}

func (c *Content) validateExclusions(ranges []Exclusion) error {
	for i, r := range ranges {
		if err := c.checkRange(r.Start, r.End); err != nil {
			return err
		}
		if i > 0 && r.Start < ranges[i-1].End {
			return invalidArgf("exclusion %d [%d, %d) overlaps or precedes [%d, %d)",
				i, r.Start, r.End, ranges[i-1].Start, ranges[i-1].End)
		}
	}
	return nil
}

// leadingSeparator returns the visible offset of the separator that a known
// exclusion starting at 0 leaves as the first visible character, or -1.
// Exclusions chained to it by touching ranges count as already applied.
func (c *Content) leadingSeparator(ranges []Exclusion) int {
	i := 0
	for i < len(ranges) && ranges[i].Start == 0 && ranges[i].End == 0 {
		i++
	}
	if i == len(ranges) || ranges[i].Start != 0 || ranges[i].MarkUnknown {
		return -1
	}
	at := ranges[i].End
	for j := i + 1; j < len(ranges) && ranges[j].Start <= at; j++ {
		at = max(at, ranges[j].End)
	}
	if at >= c.Len() {
		return -1
	}
	idx := sort.SearchInts(c.ends, at+1)
	if idx < len(c.tokens) && c.tokens[idx].Kind == KindSeparator {
		return at
	}
	return -1
}

// hasEffect reports whether at least one exclusion changes the token stream.
func hasEffect(ranges []Exclusion) bool {
	for _, r := range ranges {
		if r.Start != r.End || r.MarkUnknown {
			return true
		}
	}
	return false
}

// Unknown returns a Content with no visible characters holding one unknown
// gap anchored at sp. Extractors use it for fragments that are entirely opaque.
func Unknown(domain Domain, reader Reader, sp source.Span) (*Content, error) {
	c, err := FromSpan(domain, reader, sp)
	if err != nil {
		return nil, err
	}
	return c.MarkUnknown(0, c.Len())
}
