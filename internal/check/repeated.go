package check

import (
	"context"
	"fmt"
	"strings"

	"glean/internal/diag"
	"glean/internal/textcontent"
)

// RepeatedWord flags a word that immediately repeats the previous one,
// ignoring case: "the the".
type RepeatedWord struct{}

func (RepeatedWord) ID() string          { return "repeated-word" }
func (RepeatedWord) Code() diag.Code     { return diag.ProseRepeatedWord }
func (RepeatedWord) Description() string { return "the same word twice in a row" }

func (r RepeatedWord) Check(_ context.Context, c *textcontent.Content) []Finding {
	text := c.String()
	words := Words(text)
	f := newFolder()
	var out []Finding
	for i := 1; i < len(words); i++ {
		prev, cur := words[i-1], words[i]
		gap := text[prev.End:cur.Start]
		if gap == "" || strings.TrimSpace(gap) != "" {
			continue
		}
		// числа вроде "1 1" повторами не считаем
		if !hasLetter(cur.Text) || f.Key(prev.Text) != f.Key(cur.Text) {
			continue
		}
		out = append(out, Finding{
			Start:       prev.End,
			End:         cur.End,
			Code:        r.Code(),
			Message:     fmt.Sprintf("word %q is repeated", cur.Text),
			Replacement: replacement(""),
		})
	}
	return out
}

func hasLetter(s string) bool {
	for _, r := range s {
		if isWordRune(r) && (r < '0' || r > '9') {
			return true
		}
	}
	return false
}
