package check

import (
	"context"
	"fmt"
	"maps"

	"glean/internal/diag"
	"glean/internal/textcontent"
)

// DefaultTypos is the built-in dictionary of common misspellings.
var DefaultTypos = map[string]string{
	"accomodate":  "accommodate",
	"adress":      "address",
	"arguement":   "argument",
	"begining":    "beginning",
	"calback":     "callback",
	"definately":  "definitely",
	"enviroment":  "environment",
	"fucntion":    "function",
	"lenght":      "length",
	"neccessary":  "necessary",
	"occured":     "occurred",
	"paramter":    "parameter",
	"recieve":     "receive",
	"reponse":     "response",
	"retreive":    "retrieve",
	"retrun":      "return",
	"seperate":    "separate",
	"succesful":   "successful",
	"teh":         "the",
	"untill":      "until",
	"wich":        "which",
	"writting":    "writing",
	"existance":   "existence",
	"dependancy":  "dependency",
	"independant": "independent",
}

// Typo flags words found in a misspelling dictionary and suggests the
// correction with the original capitalisation.
type Typo struct {
	words map[string]string // ключи уже в сложенном регистре
}

// NewTypo builds the rule from DefaultTypos extended with extra. An empty
// correction in extra removes the built-in entry.
func NewTypo(extra map[string]string) *Typo {
	f := newFolder()
	words := make(map[string]string, len(DefaultTypos)+len(extra))
	for k, v := range DefaultTypos {
		words[f.Key(k)] = v
	}
	for k, v := range extra {
		if v == "" {
			delete(words, f.Key(k))
			continue
		}
		words[f.Key(k)] = v
	}
	return &Typo{words: words}
}

func (*Typo) ID() string          { return "typo" }
func (*Typo) Code() diag.Code     { return diag.ProseTypo }
func (*Typo) Description() string { return "common misspellings" }

// Dictionary returns a copy of the effective dictionary.
func (t *Typo) Dictionary() map[string]string {
	return maps.Clone(t.words)
}

func (t *Typo) Check(_ context.Context, c *textcontent.Content) []Finding {
	f := newFolder()
	var out []Finding
	for _, w := range Words(c.String()) {
		fix, ok := t.words[f.Key(w.Text)]
		if !ok {
			continue
		}
		fix = f.MatchCase(w.Text, fix)
		out = append(out, Finding{
			Start:       w.Start,
			End:         w.End,
			Code:        t.Code(),
			Message:     fmt.Sprintf("%q may be misspelled, did you mean %q?", w.Text, fix),
			Replacement: replacement(fix),
		})
	}
	return out
}
