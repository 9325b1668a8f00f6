package extract

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"glean/internal/lexer"
	"glean/internal/source"
	"glean/internal/textcontent"
	"glean/internal/token"
)

var (
	docCodeSpan = regexp.MustCompile("`[^`\n]*`")
	docTag      = regexp.MustCompile(`(?:^|\s)(@[A-Za-z_][\w.-]*)`)
)

func domainOf(f token.Fragment) textcontent.Domain {
	switch {
	case f.IsDoc():
		return textcontent.Documentation
	case f.IsComment():
		return textcontent.Comments
	default:
		return textcontent.Literals
	}
}

func (e *Extractor) code(file *source.File) ([]*textcontent.Content, error) {
	frags := lexer.Scan(file, lexer.Options{
		Reporter:     e.opts.Reporter,
		SkipStrings:  !e.wants(textcontent.Literals),
		SkipComments: !e.wants(textcontent.Comments) && !e.wants(textcontent.Documentation),
	})

	var (
		out   []*textcontent.Content
		group []*textcontent.Content
		last  token.Fragment
	)
	flush := func() {
		if len(group) > 0 {
			out = append(out, textcontent.JoinWithWhitespace(group...))
			group = nil
		}
	}

	for _, f := range frags {
		if !e.wants(domainOf(f)) {
			flush()
			continue
		}
		if f.IsLine() {
			c, err := e.lineComment(f)
			if err != nil {
				return nil, err
			}
			if len(group) > 0 && (f.Kind != last.Kind || !consecutiveLines(file, last, f)) {
				flush()
			}
			group = append(group, c)
			last = f
			continue
		}
		flush()

		var (
			c   *textcontent.Content
			err error
		)
		if f.IsComment() {
			c, err = e.blockComment(f)
		} else {
			c, err = e.literal(f)
		}
		if err != nil {
			return nil, err
		}
		if c != nil {
			out = append(out, c)
		}
	}
	flush()
	return out, nil
}

// consecutiveLines reports whether next starts on the line after prev ends
// with nothing but indentation between them.
func consecutiveLines(file *source.File, prev, next token.Fragment) bool {
	if prev.Span.End > next.Span.Start {
		return false
	}
	gap := file.Content[prev.Span.End:next.Span.Start]
	newlines := 0
	for _, b := range gap {
		switch b {
		case '\n':
			newlines++
		case ' ', '\t', '\r':
		default:
			return false
		}
	}
	return newlines == 1
}

// lineComment drops the marker and one following space.
func (e *Extractor) lineComment(f token.Fragment) (*textcontent.Content, error) {
	body := f.Body()
	if rest := f.Text[body.Start-f.Span.Start:]; strings.HasPrefix(rest, " ") {
		body.Start++
	}
	c, err := textcontent.FromSpan(domainOf(f), e.fs, body)
	if err != nil {
		return nil, err
	}
	if f.IsDoc() {
		return docMarkup(c)
	}
	return c, nil
}

// blockComment removes /*, /**, */ and the leading " * " decoration of every
// continuation line in one batch.
func (e *Extractor) blockComment(f token.Fragment) (*textcontent.Content, error) {
	c, err := textcontent.FromSpan(domainOf(f), e.fs, f.Span)
	if err != nil {
		return nil, err
	}
	c, err = c.ExcludeRanges(blockDecorations(f))
	if err != nil {
		return nil, err
	}
	if f.IsDoc() {
		return docMarkup(c)
	}
	return c, nil
}

func blockDecorations(f token.Fragment) []textcontent.Exclusion {
	text := f.Text
	open := int(f.OpenLen())
	closeAt := len(text) - int(f.CloseLen())
	ranges := []textcontent.Exclusion{{Start: 0, End: open}}
	for i := open; i < closeAt; i++ {
		if text[i] != '\n' {
			continue
		}
		j := i + 1
		for j < closeAt && (text[j] == ' ' || text[j] == '\t') {
			j++
		}
		if j >= closeAt || text[j] != '*' {
			continue
		}
		j++
		if j < closeAt && text[j] == ' ' {
			j++
		}
		ranges = append(ranges, textcontent.Exclusion{Start: i + 1, End: j})
		i = j - 1
	}
	if closeAt < len(text) {
		ranges = append(ranges, textcontent.Exclusion{Start: closeAt, End: len(text)})
	}
	return ranges
}

// literal hides quotes, marks escapes and interpolations unknown, and drops
// literals that do not look like prose.
func (e *Extractor) literal(f token.Fragment) (*textcontent.Content, error) {
	c, err := textcontent.FromSpan(textcontent.Literals, e.fs, f.Span)
	if err != nil {
		return nil, err
	}
	base := f.Span.Start
	ranges := []textcontent.Exclusion{{Start: 0, End: int(f.OpenLen())}}
	var opaque []source.Span
	opaque = append(opaque, lexer.Escapes(f)...)
	opaque = append(opaque, lexer.Interpolations(f)...)
	slices.SortFunc(opaque, func(a, b source.Span) int { return cmp.Compare(a.Start, b.Start) })
	for _, sp := range opaque {
		ranges = append(ranges, textcontent.Exclusion{
			Start:       int(sp.Start - base),
			End:         int(sp.End - base),
			MarkUnknown: true,
		})
	}
	if n := int(f.CloseLen()); n > 0 {
		ranges = append(ranges, textcontent.Exclusion{Start: len(f.Text) - n, End: len(f.Text)})
	}
	c, err = c.ExcludeRanges(ranges)
	if err != nil {
		return nil, err
	}
	if len(strings.Fields(c.String())) < e.opts.MinLiteralWords {
		return nil, nil
	}
	return c, nil
}

// docMarkup marks `code` spans and @tags unknown.
func docMarkup(c *textcontent.Content) (*textcontent.Content, error) {
	c, err := c.ExcludeMatches(docCodeSpan, true)
	if err != nil {
		return nil, err
	}
	return c.ExcludeSubmatch(docTag, 1, true)
}
