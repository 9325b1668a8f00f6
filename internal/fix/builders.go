package fix

import (
	"glean/internal/diag"
	"glean/internal/source"
)

// InsertText creates fix that inserts text at span (Span.Start == Span.End).
func InsertText(title string, at source.Span, text string) diag.Fix {
	at.End = at.Start
	return diag.Fix{
		Title: title,
		Edits: []diag.FixEdit{{Span: at, NewText: text}},
	}
}

// DeleteSpan removes text covered by span. expect guards the removed text;
// empty disables the check.
func DeleteSpan(title string, span source.Span, expect string) diag.Fix {
	return ReplaceSpan(title, span, "", expect)
}

// ReplaceSpan replaces text covered by span with newText.
func ReplaceSpan(title string, span source.Span, newText, expect string) diag.Fix {
	return diag.Fix{
		Title: title,
		Edits: []diag.FixEdit{{Span: span, NewText: newText, OldText: expect}},
	}
}
