package check

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Word is a run of letters, digits, apostrophes and inner hyphens in the
// visible text of a content.
type Word struct {
	Start, End int
	Text       string
}

// Words splits text into words. Offsets are byte offsets into text.
func Words(text string) []Word {
	var out []Word
	start := -1
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if isWordRune(r) || (start >= 0 && isJoiner(r) && i+size < len(text) && nextIsLetter(text[i+size:])) {
			if start < 0 {
				start = i
			}
		} else if start >= 0 {
			out = append(out, Word{Start: start, End: i, Text: text[start:i]})
			start = -1
		}
		i += size
	}
	if start >= 0 {
		out = append(out, Word{Start: start, End: len(text), Text: text[start:]})
	}
	return out
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// апостроф и дефис входят в слово только между буквами
func isJoiner(r rune) bool {
	return r == '\'' || r == '’' || r == '-'
}

func nextIsLetter(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r)
}

// folder normalises words for comparison. cases.Caser keeps state, so a
// folder belongs to one goroutine.
type folder struct {
	fold  cases.Caser
	title cases.Caser
	upper cases.Caser
}

func newFolder() *folder {
	return &folder{
		fold:  cases.Fold(),
		title: cases.Title(language.Und),
		upper: cases.Upper(language.Und),
	}
}

// Key returns the NFC-normalised, case-folded form of a word.
func (f *folder) Key(word string) string {
	return f.fold.String(norm.NFC.String(word))
}

// MatchCase rewrites repl to follow the capitalisation of orig:
// "Teh" -> "The", "TEH" -> "THE".
func (f *folder) MatchCase(orig, repl string) string {
	switch caseOf(orig) {
	case caseUpper:
		return f.upper.String(repl)
	case caseTitle:
		return f.title.String(repl)
	default:
		return repl
	}
}

type wordCase uint8

const (
	caseLower wordCase = iota
	caseTitle
	caseUpper
)

func caseOf(word string) wordCase {
	upper, letters := 0, 0
	first := true
	firstUpper := false
	for _, r := range word {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsUpper(r) {
			upper++
			if first {
				firstUpper = true
			}
		}
		first = false
	}
	switch {
	case letters > 1 && upper == letters:
		return caseUpper
	case firstUpper:
		return caseTitle
	default:
		return caseLower
	}
}
