package diag

import (
	"fmt"
	"strings"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexUnterminatedChar         Code = 1004
	LexUnterminatedRawString    Code = 1005
	LexUnterminatedInterp       Code = 1006

	// Проза
	ProseInfo         Code = 3000
	ProseRepeatedWord Code = 3001
	ProseTypo         Code = 3002
	ProseDoubleSpace  Code = 3003
	ProseArticle      Code = 3004

	// I/O
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002
	IOCacheError     Code = 4003

	// Конфигурация
	CfgInfo        Code = 5000
	CfgInvalid     Code = 5001
	CfgUnknownRule Code = 5002

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexUnterminatedChar:         "Unterminated character literal",
		LexUnterminatedRawString:    "Unterminated raw string literal",
		LexUnterminatedInterp:       "Unterminated interpolation in format string",
		ProseInfo:                   "Prose information",
		ProseRepeatedWord:           "Repeated word",
		ProseTypo:                   "Possible misspelling",
		ProseDoubleSpace:            "Repeated whitespace between words",
		ProseArticle:                "Indefinite article does not match the next word",
		IOLoadFileError:             "I/O load file error",
		IOWriteFileError:            "I/O write file error",
		IOCacheError:                "Disk cache error",
		CfgInfo:                     "Configuration information",
		CfgInvalid:                  "Invalid configuration",
		CfgUnknownRule:              "Unknown rule in configuration",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("PRS%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// ParseCode accepts either the stable ID ("PRS3001") or the bare number ("3001").
func ParseCode(s string) (Code, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for c := range codeDescription {
		if c.ID() == s || fmt.Sprint(uint16(c)) == s {
			return c, true
		}
	}
	return UnknownCode, false
}
