package lexer

import (
	"glean/internal/source"
	"glean/internal/token"
)

// Lexer walks a C-family source file and yields the comments and string
// literals in it. Everything else is skipped.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Scan returns every fragment of the file in document order.
func Scan(file *source.File, opts Options) []token.Fragment {
	lx := New(file, opts)
	var out []token.Fragment
	for {
		f, ok := lx.Next()
		if !ok {
			return out
		}
		out = append(out, f)
	}
}

// Next возвращает следующий фрагмент. После конца файла ok == false.
func (lx *Lexer) Next() (token.Fragment, bool) {
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		var (
			f  token.Fragment
			ok bool
		)
		switch {
		case ch == '/':
			f, ok = lx.scanComment()
			if !ok {
				lx.cursor.Bump()
				continue
			}
			if lx.opts.SkipComments {
				continue
			}

		case ch == '"':
			f = lx.scanString(token.StringLit)
			if lx.opts.SkipStrings {
				continue
			}

		case ch == 'f' && lx.cursor.PeekAt(1) == '"' && !isIdentContinueByte(lx.cursor.Prev()):
			f = lx.scanString(token.FStringLit)
			if lx.opts.SkipStrings {
				continue
			}

		case ch == '`':
			f = lx.scanRawString()
			if lx.opts.SkipStrings {
				continue
			}

		case ch == '\'':
			lx.skipCharLit()
			continue

		case isIdentStartByte(ch):
			// идентификатор пропускаем целиком, чтобы "elf\"" не стал f-строкой
			for isIdentContinueByte(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			continue

		default:
			lx.cursor.Bump()
			continue
		}
		return f, true
	}
	return token.Fragment{}, false
}

func (lx *Lexer) fragment(kind token.FragmentKind, m Mark, unterminated bool) token.Fragment {
	sp := lx.cursor.SpanFrom(m)
	return token.Fragment{
		Kind:         kind,
		Span:         sp,
		Text:         string(lx.file.Content[sp.Start:sp.End]),
		Unterminated: unterminated,
	}
}
