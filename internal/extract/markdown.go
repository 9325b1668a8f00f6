package extract

import (
	"bytes"
	"fmt"
	"regexp"

	"fortio.org/safecast"

	"glean/internal/source"
	"glean/internal/textcontent"
)

type markdownRule struct {
	re      *regexp.Regexp
	group   int
	unknown bool
}

var markdownRules = []markdownRule{
	{re: regexp.MustCompile(`<!--[\s\S]*?-->`)},
	{re: regexp.MustCompile("(`+)[^`]+?(`+)"), unknown: true},
	{re: regexp.MustCompile(`\](\([^)\s]*(?:\s+"[^"]*")?\))`), group: 1},
	{re: regexp.MustCompile(`<https?://[^>\s]+>`)},
	{re: regexp.MustCompile(`(?m)^(#{1,6}\s+)`), group: 1},
	{re: regexp.MustCompile(`(?m)^([ \t]*(?:[-*+]|\d+[.)])[ \t]+)`), group: 1},
	{re: regexp.MustCompile(`(?m)^(>[ \t]?)`), group: 1},
}

func (e *Extractor) markdown(file *source.File) ([]*textcontent.Content, error) {
	var out []*textcontent.Content
	for _, sp := range paragraphs(file, true) {
		c, err := textcontent.FromSpan(textcontent.PlainText, e.fs, sp)
		if err != nil {
			return nil, err
		}
		for _, rule := range markdownRules {
			if rule.group > 0 {
				c, err = c.ExcludeSubmatch(rule.re, rule.group, rule.unknown)
			} else {
				c, err = c.ExcludeMatches(rule.re, rule.unknown)
			}
			if err != nil {
				return nil, err
			}
		}
		out = append(out, c)
	}
	return out, nil
}

func (e *Extractor) plain(file *source.File) ([]*textcontent.Content, error) {
	var out []*textcontent.Content
	for _, sp := range paragraphs(file, false) {
		c, err := textcontent.FromSpan(textcontent.PlainText, e.fs, sp)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// fileSpan builds a span of file from int offsets.
func fileSpan(file *source.File, start, end int) source.Span {
	s, err := safecast.Conv[uint32](start)
	if err != nil {
		panic(fmt.Errorf("%s: offset %d: %w", file.Path, start, err))
	}
	e, err := safecast.Conv[uint32](end)
	if err != nil {
		panic(fmt.Errorf("%s: offset %d: %w", file.Path, end, err))
	}
	return source.Span{File: file.ID, Start: s, End: e}
}

// paragraphs splits a file into runs of non-blank lines. In Markdown mode
// fenced code blocks and indented code after a blank line are skipped.
func paragraphs(file *source.File, markdown bool) []source.Span {
	var (
		out     []source.Span
		start   = -1
		end     int
		fence   []byte
		inBlank = true
	)
	closePara := func() {
		if start >= 0 {
			out = append(out, fileSpan(file, start, end))
			start = -1
		}
	}

	content := file.Content
	for off := 0; off < len(content); {
		lineEnd := bytes.IndexByte(content[off:], '\n')
		next := len(content)
		if lineEnd < 0 {
			lineEnd = len(content)
		} else {
			lineEnd += off
			next = lineEnd + 1
		}
		line := content[off:lineEnd]
		trimmed := bytes.TrimSpace(line)

		switch {
		case markdown && fence != nil:
			if bytes.HasPrefix(trimmed, fence) {
				fence = nil
			}
		case markdown && (bytes.HasPrefix(trimmed, []byte("```")) || bytes.HasPrefix(trimmed, []byte("~~~"))):
			closePara()
			fence = trimmed[:3]
		case len(trimmed) == 0:
			closePara()
			inBlank = true
		case markdown && inBlank && start < 0 && (bytes.HasPrefix(line, []byte("    ")) || bytes.HasPrefix(line, []byte("\t"))):
			// indented code block
		default:
			if start < 0 {
				start = off
			}
			end = lineEnd
			inBlank = false
		}
		off = next
	}
	closePara()
	return out
}
