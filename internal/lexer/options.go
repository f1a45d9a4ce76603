package lexer

import (
	"macplugins/internal/diag"
	"macplugins/internal/source"
)

// maxTokenLength ограничивает длину одного токена; дальше лексер сдаётся
// и перематывает файл до EOF.
const maxTokenLength = 1 << 16

type Options struct {
	Reporter diag.Reporter // может быть nil — тогда ошибки игнорируем (но продолжаем лексить)
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, nil)
	}
}
