package lexer

import (
	"glean/internal/source"
	"glean/internal/token"
)

// Escapes returns the file spans of escape sequences inside a string
// fragment: \n, \", \xNN, \u{...}, \uNNNN, and {{ / }} in format strings.
// Raw strings and comments have none.
func Escapes(f token.Fragment) []source.Span {
	if f.Kind != token.StringLit && f.Kind != token.FStringLit {
		return nil
	}
	body := f.Body()
	text := f.Text[body.Start-f.Span.Start : body.End-f.Span.Start]
	var out []source.Span
	depth := 0
	for i := 0; i < len(text); {
		n := 0
		switch {
		case text[i] == '\\':
			n = escapeLen(text[i:])
		case f.Kind == token.FStringLit && depth == 0 && i+1 < len(text) &&
			(text[i] == '{' && text[i+1] == '{' || text[i] == '}' && text[i+1] == '}'):
			n = 2
		case f.Kind == token.FStringLit && text[i] == '{':
			depth++
		case f.Kind == token.FStringLit && text[i] == '}' && depth > 0:
			depth--
		}
		if n > 0 {
			if depth == 0 {
				out = append(out, body.Sub(uint32(i), uint32(i+n)))
			}
			i += n
			continue
		}
		i++
	}
	return out
}

// Interpolations returns the file spans of {expr} parts of a format string,
// braces included. An interpolation left open runs to the end of the body.
func Interpolations(f token.Fragment) []source.Span {
	if f.Kind != token.FStringLit {
		return nil
	}
	body := f.Body()
	text := f.Text[body.Start-f.Span.Start : body.End-f.Span.Start]
	var out []source.Span
	depth := 0
	open := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i += escapeLen(text[i:]) - 1
		case '{':
			if depth == 0 && i+1 < len(text) && text[i+1] == '{' {
				i++
				continue
			}
			if depth == 0 {
				open = i
			}
			depth++
		case '}':
			if depth == 0 {
				if i+1 < len(text) && text[i+1] == '}' {
					i++
				}
				continue
			}
			depth--
			if depth == 0 {
				out = append(out, body.Sub(uint32(open), uint32(i+1)))
			}
		}
	}
	if depth > 0 {
		out = append(out, body.Sub(uint32(open), uint32(len(text))))
	}
	return out
}

// escapeLen returns the byte length of the escape sequence at the start of s.
func escapeLen(s string) int {
	if len(s) < 2 {
		return len(s)
	}
	switch s[1] {
	case 'x':
		return min(len(s), 2+hexRun(s[2:], 2))
	case 'u':
		if len(s) > 2 && s[2] == '{' {
			for i := 3; i < len(s); i++ {
				if s[i] == '}' {
					return i + 1
				}
				if !isHex(s[i]) {
					return i
				}
			}
			return len(s)
		}
		return 2 + hexRun(s[2:], 4)
	case 'U':
		return 2 + hexRun(s[2:], 8)
	default:
		return 2
	}
}

func hexRun(s string, limit int) int {
	n := 0
	for n < len(s) && n < limit && isHex(s[n]) {
		n++
	}
	return n
}
