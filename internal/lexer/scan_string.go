package lexer

import (
	"glean/internal/diag"
	"glean/internal/token"
)

// scanString разбирает "..." и f"...". Перевод строки внутри литерала
// завершает его с диагностикой; фрагмент тогда заканчивается перед '\n'.
// В f-строках {expr} может содержать вложенные скобки, {{ и }} экранируют скобки.
func (lx *Lexer) scanString(kind token.FragmentKind) token.Fragment {
	start := lx.cursor.Mark()
	if kind == token.FStringLit {
		lx.cursor.Bump() // 'f'
	}
	lx.cursor.Bump() // opening '"'
	depth := 0
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '\n':
			f := lx.fragment(kind, start, true)
			lx.errLex(diag.LexUnterminatedString, f.Span, "newline in string literal")
			return f

		case b == '\\':
			lx.cursor.Bump()
			if lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			continue

		case b == '"':
			lx.cursor.Bump()
			f := lx.fragment(kind, start, false)
			if depth > 0 {
				lx.errLex(diag.LexUnterminatedInterp, f.Span, "unterminated interpolation in format string")
			}
			return f

		case kind == token.FStringLit && b == '{':
			if depth == 0 && lx.cursor.PeekAt(1) == '{' {
				lx.cursor.BumpN(2)
				continue
			}
			depth++

		case kind == token.FStringLit && b == '}' && depth > 0:
			depth--
		}
		lx.cursor.Bump()
	}
	// EOF без закрывающей кавычки
	f := lx.fragment(kind, start, true)
	lx.errLex(diag.LexUnterminatedString, f.Span, "unterminated string literal")
	return f
}

// scanRawString разбирает `...`; литерал может занимать несколько строк.
func (lx *Lexer) scanRawString() token.Fragment {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '`'
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() == '`' {
			return lx.fragment(token.RawStringLit, start, false)
		}
	}
	f := lx.fragment(token.RawStringLit, start, true)
	lx.errLex(diag.LexUnterminatedRawString, f.Span, "unterminated raw string literal")
	return f
}

// skipCharLit пропускает 'c', '\n', '\u{..}'. Символьные литералы прозой не считаются.
func (lx *Lexer) skipCharLit() {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\''
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedChar, sp, "unterminated character literal")
			return
		case '\\':
			lx.cursor.Bump()
			if lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		case '\'':
			lx.cursor.Bump()
			return
		default:
			lx.cursor.Bump()
		}
	}
	lx.errLex(diag.LexUnterminatedChar, lx.cursor.SpanFrom(start), "unterminated character literal")
}
