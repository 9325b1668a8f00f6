package diag

import "glean/internal/source"

// Diagnostic is one finding.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

// Note adds context on a secondary span.
type Note struct {
	Span source.Span
	Msg  string
}

// Fix is a named set of edits that are applied together or not at all.
type Fix struct {
	Title string
	Edits []FixEdit
}

// FixEdit replaces the bytes under Span with NewText.
type FixEdit struct {
	Span    source.Span
	NewText string
	OldText string // пусто: содержимое не сверяем
}

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

// WithNote returns d with one more note. d itself is not modified.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes[:len(d.Notes):len(d.Notes)], Note{Span: sp, Msg: msg})
	return d
}

// WithFix returns d with one more fix built from edits.
func (d Diagnostic) WithFix(title string, edits ...FixEdit) Diagnostic {
	d.Fixes = append(d.Fixes[:len(d.Fixes):len(d.Fixes)], Fix{Title: title, Edits: edits})
	return d
}
