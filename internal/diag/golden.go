package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"glean/internal/source"
)

// line is one rendered row: "severity CODE path:line:col message".
type line struct {
	sev  string
	code string
	path string
	pos  source.LineCol
	msg  string
}

func (l line) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.pos.Line, l.pos.Col, l.msg)
}

// FormatGoldenDiagnostics renders one sorted line per diagnostic, paths
// relative to the file set base. Golden tests compare against it.
func FormatGoldenDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	lines := collectLines(diags, fs, includeNotes)
	slices.SortStableFunc(lines, func(a, b line) int {
		return cmp.Or(
			strings.Compare(a.path, b.path),
			cmp.Compare(a.pos.Line, b.pos.Line),
			cmp.Compare(a.pos.Col, b.pos.Col),
			strings.Compare(a.sev, b.sev),
			strings.Compare(a.code, b.code),
			strings.Compare(a.msg, b.msg),
		)
	})
	return joinLines(lines)
}

// FormatShortDiagnostics is FormatGoldenDiagnostics without sorting.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return joinLines(collectLines(diags, fs, includeNotes))
}

func joinLines(lines []line) string {
	rows := make([]string, len(lines))
	for i, l := range lines {
		rows[i] = l.String()
	}
	return strings.Join(rows, "\n")
}

func collectLines(diags []Diagnostic, fs *source.FileSet, includeNotes bool) []line {
	if fs == nil {
		return nil
	}
	var out []line
	add := func(sev string, code Code, sp source.Span, msg string) {
		f := fs.Get(sp.File)
		if f == nil {
			return
		}
		start, _ := fs.Resolve(sp)
		out = append(out, line{
			sev:  sev,
			code: code.ID(),
			path: trimDotSlash(filepath.ToSlash(f.FormatPath("relative", fs.BaseDir()))),
			pos:  start,
			msg:  oneLine(msg),
		})
	}
	for _, d := range diags {
		add(severityLabel(d.Severity), d.Code, d.Primary, d.Message)
		if includeNotes {
			for _, n := range d.Notes {
				add("note", d.Code, n.Span, n.Msg)
			}
		}
	}
	return out
}

func trimDotSlash(p string) string {
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	}
	return "info"
}

// oneLine flattens any line breaks in msg into spaces.
func oneLine(msg string) string {
	return strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(msg))
}
