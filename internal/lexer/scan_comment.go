package lexer

import (
	"glean/internal/diag"
	"glean/internal/token"
)

// scanComment разбирает //..., ///..., /*...*/ и /**...*/.
// Если под курсором не комментарий, курсор не двигается и ok == false.
//   - //// и длиннее: обычный LineComment
//   - /**/: пустой BlockComment, не DocBlock
//   - /* ... */ поддерживает вложенность; незакрытый тянется до EOF с диагностикой
func (lx *Lexer) scanComment() (token.Fragment, bool) {
	start := lx.cursor.Mark()
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' {
		return token.Fragment{}, false
	}
	switch b1 {
	case '/':
		kind := token.LineComment
		if lx.cursor.PeekAt(2) == '/' && lx.cursor.PeekAt(3) != '/' {
			kind = token.DocLine
		}
		lx.cursor.SkipLine()
		return lx.fragment(kind, start, false), true

	case '*':
		kind := token.BlockComment
		if lx.cursor.PeekAt(2) == '*' && lx.cursor.PeekAt(3) != '/' && lx.cursor.PeekAt(3) != '*' {
			kind = token.DocBlock
		}
		lx.cursor.BumpN(2)
		depth := 1
		for !lx.cursor.EOF() && depth > 0 {
			if c0, c1, ok := lx.cursor.Peek2(); ok {
				if c0 == '/' && c1 == '*' {
					lx.cursor.BumpN(2)
					depth++
					continue
				}
				if c0 == '*' && c1 == '/' {
					lx.cursor.BumpN(2)
					depth--
					continue
				}
			}
			lx.cursor.Bump()
		}
		f := lx.fragment(kind, start, depth > 0)
		if f.Unterminated {
			lx.errLex(diag.LexUnterminatedBlockComment, f.Span, "unterminated block comment")
		}
		return f, true

	default:
		return token.Fragment{}, false
	}
}
