package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"glean/internal/source"
	"glean/internal/textcontent"
)

// ContentOpts configures ContentsPretty and ContentsJSON.
type ContentOpts struct {
	PathMode   PathMode
	ShowTokens bool
	Color      bool
}

// ContentJSON describes one extracted content.
type ContentJSON struct {
	Index    int          `json:"index"`
	Domain   string       `json:"domain"`
	Text     string       `json:"text"`
	Marked   string       `json:"marked"`
	Unknown  []int        `json:"unknown,omitempty"`
	Location LocationJSON `json:"location"`
	Tokens   []TokenJSON  `json:"tokens,omitempty"`
}

// TokenJSON describes one token of a content.
type TokenJSON struct {
	Kind     string       `json:"kind"`
	Unknown  bool         `json:"unknown,omitempty"`
	Location LocationJSON `json:"location"`
}

// contentSpan is the file range covered by the visible text, or the origin
// for empty contents.
func contentSpan(c *textcontent.Content) source.Span {
	if c.Len() == 0 {
		return c.Origin()
	}
	if sp, err := c.FileRange(0, c.Len()); err == nil {
		return sp
	}
	return c.Origin()
}

// BuildContentsOutput converts contents into their JSON shape.
func BuildContentsOutput(contents []*textcontent.Content, fs *source.FileSet, opts ContentOpts) []ContentJSON {
	out := make([]ContentJSON, 0, len(contents))
	for i, c := range contents {
		cj := ContentJSON{
			Index:    i + 1,
			Domain:   c.Domain().String(),
			Text:     c.String(),
			Marked:   c.UnknownOffsets(),
			Unknown:  c.UnknownPositions(),
			Location: locator{fs, opts.PathMode, true}.at(contentSpan(c)),
		}
		if opts.ShowTokens {
			for _, tok := range c.Tokens() {
				cj.Tokens = append(cj.Tokens, TokenJSON{
					Kind:     tok.Kind.String(),
					Unknown:  tok.Unknown,
					Location: locator{fs, opts.PathMode, false}.at(tok.Span),
				})
			}
		}
		out = append(out, cj)
	}
	return out
}

// ContentsJSON writes extracted contents as a JSON array.
func ContentsJSON(w io.Writer, contents []*textcontent.Content, fs *source.FileSet, opts ContentOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildContentsOutput(contents, fs, opts))
}

// ContentsPretty writes one block per content:
//
//	#1 comments main.go:3:4-3:20
//	  Hello | world.
//
// '|' marks unknown fragments.
func ContentsPretty(w io.Writer, contents []*textcontent.Content, fs *source.FileSet, opts ContentOpts) error {
	p := newPalette(opts.Color)
	var sb strings.Builder
	for i, c := range BuildContentsOutput(contents, fs, opts) {
		loc := c.Location
		fmt.Fprintf(&sb, "%s %s %s:%d:%d-%d:%d\n",
			p.gutter.Sprintf("#%d", c.Index), p.note.Sprint(c.Domain),
			loc.File, loc.StartLine, loc.StartCol, loc.EndLine, loc.EndCol)
		for _, line := range strings.Split(c.Marked, "\n") {
			fmt.Fprintf(&sb, "  %s\n", line)
		}
		for _, tok := range c.Tokens {
			mark := ""
			if tok.Unknown {
				mark = " ?"
			}
			fmt.Fprintf(&sb, "    %-9s [%d,%d)%s\n", tok.Kind, tok.Location.StartByte, tok.Location.EndByte, mark)
		}
		if i < len(contents)-1 {
			sb.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
