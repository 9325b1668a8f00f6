package diagfmt

import (
	"encoding/json"
	"io"

	"glean/internal/diag"
	"glean/internal/source"
)

// JSONOpts configures the json format.
type JSONOpts struct {
	IncludePositions bool // line/col next to byte offsets
	PathMode         PathMode
	Max              int // 0: all
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool // before/after lines for each edit
}

// LocationJSON is a byte range, optionally with line and column.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	OldText     string       `json:"old_text,omitempty"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

type FixJSON struct {
	Title string        `json:"title"`
	Edits []FixEditJSON `json:"edits,omitempty"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty"`
}

// DiagnosticsOutput is the top-level json document.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Truncated   bool             `json:"truncated,omitempty"`
}

type jsonBuilder struct {
	fs   *source.FileSet
	opts JSONOpts
	loc  locator
}

func (b jsonBuilder) diagnostic(d diag.Diagnostic) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Title:    d.Code.Title(),
		Message:  d.Message,
		Location: b.loc.at(d.Primary),
	}
	// в заметках таймингов сами данные, их не прячем
	if b.opts.IncludeNotes || d.Code == diag.ObsTimings {
		for _, n := range d.Notes {
			out.Notes = append(out.Notes, NoteJSON{Message: n.Msg, Location: b.loc.at(n.Span)})
		}
	}
	if b.opts.IncludeFixes {
		for _, f := range d.Fixes {
			out.Fixes = append(out.Fixes, b.fix(f))
		}
	}
	return out
}

func (b jsonBuilder) fix(f diag.Fix) FixJSON {
	out := FixJSON{Title: f.Title, Edits: make([]FixEditJSON, 0, len(f.Edits))}
	for _, e := range f.Edits {
		ej := FixEditJSON{Location: b.loc.at(e.Span), NewText: e.NewText, OldText: e.OldText}
		if b.opts.IncludePreviews {
			if p, err := buildFixEditPreview(b.fs, e); err == nil {
				ej.BeforeLines, ej.AfterLines = p.before, p.after
			}
		}
		out.Edits = append(out.Edits, ej)
	}
	return out
}

// BuildDiagnosticsOutput converts bag without encoding it.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	n := len(items)
	if opts.Max > 0 {
		n = min(n, opts.Max)
	}
	b := jsonBuilder{fs: fs, opts: opts, loc: locator{fs: fs, mode: opts.PathMode, positions: opts.IncludePositions}}
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, n), Truncated: n < len(items)}
	for _, d := range items[:n] {
		out.Diagnostics = append(out.Diagnostics, b.diagnostic(d))
	}
	out.Count = len(out.Diagnostics)
	return out
}

// JSON writes bag as an indented DiagnosticsOutput document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
