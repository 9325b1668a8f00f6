// Package fuzztests houses Go fuzz harnesses for the text pipeline: the
// comment/literal lexer, content exclusion and the extract+check path. They
// guard against panics and broken content invariants on arbitrary input.
//
// Не делает: генерацию корпусов, запись файлов, запуск CLI.
package fuzztests
