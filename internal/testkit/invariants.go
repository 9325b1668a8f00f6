// Package testkit holds structural checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"glean/internal/diag"
	"glean/internal/source"
	"glean/internal/textcontent"
)

// CheckContentInvariants validates the token stream of c:
// 1) every token span is valid and lies inside its file
// 2) text tokens are non-empty and the rendered text matches the source bytes
// 3) Len equals the length of String
// 4) UnknownOffsets holds exactly one '|' per unknown position
func CheckContentInvariants(c *textcontent.Content) error {
	if c == nil {
		return fmt.Errorf("nil content")
	}
	reader := c.Reader()
	var text strings.Builder
	for i, tok := range c.Tokens() {
		sp := tok.Span
		if !sp.Valid() {
			return fmt.Errorf("token %d: invalid span %v", i, sp)
		}
		size, ok := reader.SourceLen(sp.File)
		if !ok {
			return fmt.Errorf("token %d: unknown file %d", i, sp.File)
		}
		if sp.End > size {
			return fmt.Errorf("token %d: span %v beyond file length %d", i, sp, size)
		}
		switch tok.Kind {
		case textcontent.KindText:
			if sp.Empty() {
				return fmt.Errorf("token %d: empty text token at %v", i, sp)
			}
			text.Write(reader.ReadSpan(sp))
		case textcontent.KindSeparator:
			text.WriteByte(' ')
		case textcontent.KindGap:
		default:
			return fmt.Errorf("token %d: bad kind %v", i, tok.Kind)
		}
	}
	if got := c.String(); got != text.String() {
		return fmt.Errorf("String() = %q, tokens render %q", got, text.String())
	}
	if c.Len() != text.Len() {
		return fmt.Errorf("Len() = %d, text has %d bytes", c.Len(), text.Len())
	}
	positions := c.UnknownPositions()
	for i, p := range positions {
		if p < 0 || p > c.Len() || (i > 0 && p <= positions[i-1]) {
			return fmt.Errorf("unknown positions not strictly increasing in range: %v", positions)
		}
	}
	marked := c.UnknownOffsets()
	if strings.Count(marked, "|")-strings.Count(c.String(), "|") != len(positions) {
		return fmt.Errorf("UnknownOffsets %q disagrees with positions %v", marked, positions)
	}
	return nil
}

// CheckDiagnosticSpans verifies that every primary, note and fix span in bag
// refers to a loaded file and lies within its content.
func CheckDiagnosticSpans(bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || fs == nil {
		return fmt.Errorf("nil bag or file set")
	}
	check := func(what string, sp source.Span) error {
		f := fs.Get(sp.File)
		if f == nil {
			return fmt.Errorf("%s: unknown file %d", what, sp.File)
		}
		n, err := safecast.Conv[uint32](len(f.Content))
		if err != nil {
			return fmt.Errorf("%s: content length overflow: %w", what, err)
		}
		if !sp.Valid() || sp.End > n {
			return fmt.Errorf("%s: span %v outside %s (%d bytes)", what, sp, f.Path, n)
		}
		return nil
	}
	for i, d := range bag.Items() {
		// диагностики без позиции (тайминги, I/O) пропускаем
		if d.Primary == (source.Span{}) {
			continue
		}
		if err := check(fmt.Sprintf("diagnostic %d (%s)", i, d.Code.ID()), d.Primary); err != nil {
			return err
		}
		for j, n := range d.Notes {
			if err := check(fmt.Sprintf("diagnostic %d note %d", i, j), n.Span); err != nil {
				return err
			}
		}
		for j, fx := range d.Fixes {
			for k, e := range fx.Edits {
				if err := check(fmt.Sprintf("diagnostic %d fix %d edit %d", i, j, k), e.Span); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
