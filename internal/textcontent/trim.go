package textcontent

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// TrimWhitespace hides leading and trailing whitespace behind known gaps.
func (c *Content) TrimWhitespace() (*Content, error) {
	text := c.String()
	lead := 0
	for lead < len(text) {
		r, size := utf8.DecodeRuneInString(text[lead:])
		if !unicode.IsSpace(r) {
			break
		}
		lead += size
	}
	if lead == len(text) {
		return c.ExcludeRange(0, len(text))
	}
	trail := len(text)
	for trail > lead {
		r, size := utf8.DecodeLastRuneInString(text[:trail])
		if !unicode.IsSpace(r) {
			break
		}
		trail -= size
	}
	return c.ExcludeRanges([]Exclusion{
		{Start: 0, End: lead},
		{Start: trail, End: len(text)},
	})
}

// ExcludeMatches hides every non-empty match of re in the visible text.
// Matches become unknown gaps when markUnknown is set.
func (c *Content) ExcludeMatches(re *regexp.Regexp, markUnknown bool) (*Content, error) {
	if re == nil {
		return nil, invalidArgf("nil pattern")
	}
	locs := re.FindAllStringIndex(c.String(), -1)
	ranges := make([]Exclusion, 0, len(locs))
	for _, loc := range locs {
		if loc[0] == loc[1] {
			continue
		}
		ranges = append(ranges, Exclusion{Start: loc[0], End: loc[1], MarkUnknown: markUnknown})
	}
	return c.ExcludeRanges(ranges)
}

// ExcludeSubmatch hides capture group group of every match of re. Matches
// where the group did not participate are skipped.
func (c *Content) ExcludeSubmatch(re *regexp.Regexp, group int, markUnknown bool) (*Content, error) {
	if re == nil {
		return nil, invalidArgf("nil pattern")
	}
	if group < 0 || group > re.NumSubexp() {
		return nil, invalidArgf("pattern has no group %d", group)
	}
	locs := re.FindAllStringSubmatchIndex(c.String(), -1)
	ranges := make([]Exclusion, 0, len(locs))
	for _, loc := range locs {
		from, to := loc[2*group], loc[2*group+1]
		if from < 0 || from == to {
			continue
		}
		ranges = append(ranges, Exclusion{Start: from, End: to, MarkUnknown: markUnknown})
	}
	return c.ExcludeRanges(ranges)
}
