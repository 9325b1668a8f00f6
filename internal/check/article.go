package check

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"glean/internal/diag"
	"glean/internal/textcontent"
)

// Article checks the indefinite article against the first letter of the next
// word: "a apple" -> "an apple", "an banana" -> "a banana".
type Article struct{}

func (Article) ID() string          { return "article" }
func (Article) Code() diag.Code     { return diag.ProseArticle }
func (Article) Description() string { return "a/an before vowel and consonant sounds" }

// слова, где произношение расходится с написанием
var (
	consonantSoundPrefixes = []string{"uni", "use", "usu", "uti", "one", "once", "eu", "ewe", "ure", "uro"}
	vowelSoundPrefixes     = []string{"hour", "honest", "honor", "honour", "heir", "unin", "unim"}
)

func (r Article) Check(_ context.Context, c *textcontent.Content) []Finding {
	text := c.String()
	words := Words(text)
	f := newFolder()
	var out []Finding
	for i := 0; i+1 < len(words); i++ {
		art, next := words[i], words[i+1]
		key := f.Key(art.Text)
		if key != "a" && key != "an" {
			continue
		}
		if strings.TrimSpace(text[art.End:next.Start]) != "" || text[art.End:next.Start] == "" {
			continue
		}
		vowel, ok := vowelSound(f.Key(next.Text), next.Text)
		if !ok {
			continue
		}
		want := "a"
		if vowel {
			want = "an"
		}
		if key == want {
			continue
		}
		fix := f.MatchCase(art.Text, want)
		out = append(out, Finding{
			Start:       art.Start,
			End:         art.End,
			Code:        r.Code(),
			Message:     fmt.Sprintf("use %q before %q", fix, next.Text),
			Replacement: replacement(fix),
		})
	}
	return out
}

// vowelSound guesses whether word starts with a vowel sound. ok is false when
// the guess is unreliable: digits, acronyms, non-Latin letters.
func vowelSound(key, orig string) (vowel, ok bool) {
	first, _ := utf8.DecodeRuneInString(orig)
	if !unicode.IsLetter(first) || first > unicode.MaxASCII {
		return false, false
	}
	if caseOf(orig) == caseUpper {
		return false, false
	}
	for _, p := range vowelSoundPrefixes {
		if strings.HasPrefix(key, p) {
			return true, true
		}
	}
	for _, p := range consonantSoundPrefixes {
		if strings.HasPrefix(key, p) {
			return false, true
		}
	}
	return strings.ContainsRune("aeiou", rune(key[0])), true
}
