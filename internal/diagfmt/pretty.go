package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"glean/internal/diag"
	"glean/internal/source"
)

// PrettyOpts configures Pretty.
type PrettyOpts struct {
	Color       bool
	Context     int // строк контекста над строкой находки
	PathMode    PathMode
	TabWidth    int // 0: 4
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

type palette struct {
	err, warn, info, note, code, gutter, caret, fix *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		note:   mk(color.FgBlue),
		code:   mk(color.Faint),
		gutter: mk(color.FgBlue, color.Bold),
		caret:  mk(color.FgGreen, color.Bold),
		fix:    mk(color.FgGreen),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := prettyOne(w, &d, fs, opts, p); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) error {
	var sb strings.Builder
	file := fs.Get(d.Primary.File)
	if file == nil {
		fmt.Fprintf(&sb, "%s %s: %s\n", p.severity(d.Severity).Sprint(d.Severity), p.code.Sprint(d.Code.ID()), d.Message)
		_, err := io.WriteString(w, sb.String())
		return err
	}
	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(&sb, "%s:%d:%d: %s %s: %s\n",
		formatPath(fs, file, opts.PathMode), start.Line, start.Col,
		p.severity(d.Severity).Sprint(d.Severity), p.code.Sprint(d.Code.ID()), d.Message)

	gutterWidth := len(strconv.FormatUint(uint64(start.Line), 10))
	gutter := strings.Repeat(" ", gutterWidth)
	fmt.Fprintf(&sb, "%s %s\n", gutter, p.gutter.Sprint("|"))

	first := start.Line
	for n := 0; n < opts.Context && first > 1; n++ {
		first--
	}
	tab := opts.TabWidth
	if tab <= 0 {
		tab = 4
	}
	for line := first; line <= start.Line; line++ {
		text := expandTabs(file.GetLine(line), tab)
		fmt.Fprintf(&sb, "%*d %s %s\n", gutterWidth, line, p.gutter.Sprint("|"), text)
	}

	lineStart, lineEnd, _ := file.LineBounds(start.Line)
	raw := string(file.Content[lineStart:lineEnd])
	col := min(int(d.Primary.Start-lineStart), len(raw))
	stop := len(raw)
	if end.Line == start.Line {
		stop = min(int(d.Primary.End-lineStart), len(raw))
	}
	pad := runewidth.StringWidth(expandTabs(raw[:col], tab))
	width := max(1, runewidth.StringWidth(expandTabs(raw[col:stop], tab)))
	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(&sb, "%s %s %s%s\n", gutter, p.gutter.Sprint("|"), strings.Repeat(" ", pad), p.caret.Sprint(underline))

	if opts.ShowNotes {
		for _, n := range d.Notes {
			loc := ""
			if nf := fs.Get(n.Span.File); nf != nil {
				ns, _ := fs.Resolve(n.Span)
				loc = fmt.Sprintf("%s:%d:%d: ", formatPath(fs, nf, opts.PathMode), ns.Line, ns.Col)
			}
			fmt.Fprintf(&sb, "%s %s %s: %s%s\n", gutter, p.gutter.Sprint("="), p.note.Sprint("note"), loc, n.Msg)
		}
	}
	if opts.ShowFixes {
		for i, fix := range d.Fixes {
			fmt.Fprintf(&sb, "%s %s %s: %s\n", gutter, p.gutter.Sprint("="), p.fix.Sprintf("fix #%d", i+1), fix.Title)
			for _, edit := range fix.Edits {
				if ef := fs.Get(edit.Span.File); ef != nil {
					es, _ := fs.Resolve(edit.Span)
					fmt.Fprintf(&sb, "%s     edit %s:%d:%d apply=%q\n", gutter, formatPath(fs, ef, opts.PathMode), es.Line, es.Col, edit.NewText)
				}
				if !opts.ShowPreview {
					continue
				}
				preview, err := buildFixEditPreview(fs, edit)
				if err != nil {
					continue
				}
				fmt.Fprintf(&sb, "%s     preview:\n", gutter)
				for _, l := range preview.before {
					fmt.Fprintf(&sb, "%s       %s %s\n", gutter, p.err.Sprint("-"), expandTabs(l, tab))
				}
				for _, l := range preview.after {
					fmt.Fprintf(&sb, "%s       %s %s\n", gutter, p.fix.Sprint("+"), expandTabs(l, tab))
				}
			}
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func expandTabs(s string, width int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", width))
}

// Short prints one line per diagnostic: "<sev> <CODE> <path>:<line>:<col> <msg>".
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	out := diag.FormatShortDiagnostics(bag.Items(), fs, includeNotes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
