package lexer

import (
	"glean/internal/diag"
	"glean/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil, тогда ошибки игнорируем (но продолжаем сканировать)
	// SkipStrings отключает выдачу строковых литералов
	SkipStrings bool
	// SkipComments отключает выдачу комментариев
	SkipComments bool
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}
