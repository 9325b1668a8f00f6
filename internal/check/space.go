package check

import (
	"context"

	"glean/internal/diag"
	"glean/internal/textcontent"
)

// DoubleSpace flags runs of two or more spaces between words on one line.
type DoubleSpace struct{}

func (DoubleSpace) ID() string          { return "double-space" }
func (DoubleSpace) Code() diag.Code     { return diag.ProseDoubleSpace }
func (DoubleSpace) Description() string { return "repeated spaces between words" }

func (r DoubleSpace) Check(_ context.Context, c *textcontent.Content) []Finding {
	text := c.String()
	var out []Finding
	for i := 0; i < len(text); {
		if text[i] != ' ' {
			i++
			continue
		}
		j := i
		for j < len(text) && (text[j] == ' ' || text[j] == '\t') {
			j++
		}
		// только внутри строки: по краям и перед переводом строки не трогаем
		if j-i >= 2 && i > 0 && j < len(text) && !isSpaceByte(text[i-1]) && !isSpaceByte(text[j]) {
			// пробелы, склеенные через вырезанный фрагмент, не настоящие
			if c.IsContiguous(i, j) {
				out = append(out, Finding{
					Start:       i,
					End:         j,
					Code:        r.Code(),
					Message:     "multiple spaces between words",
					Replacement: replacement(" "),
				})
			}
		}
		i = j
	}
	return out
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
