package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0
	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexTokenTooLong             Code = 1005
	LexBadEscape                Code = 1006

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynUnclosedDelimiter  Code = 2002
	SynUnclosedParen      Code = 2003
	SynUnclosedBrace      Code = 2004
	SynUnclosedBracket    Code = 2005
	SynUnbalancedBrace    Code = 2006
	SynExpectIdentifier   Code = 2007
	SynExpectExpression   Code = 2008
	SynExpectColon        Code = 2009
	SynExpectTypeName     Code = 2010
	SynExpectMacroName    Code = 2011
	SynExpectArgumentList Code = 2012

	// Ввод/вывод
	IOInfo          Code = 3000
	IOLoadFileError Code = 3001
	IOWriteError    Code = 3002
	IOCacheError    Code = 3003

	// Макросы: 40xx buildURLRequest, 41xx OSLogger, 42xx Equatable, 49xx драйвер
	MacInfo                Code = 4000
	MacInvalidURLString    Code = 4001
	MacInvalidMethodString Code = 4002
	MacInvalidHeaders      Code = 4003
	MacWrongType           Code = 4101
	MacBadLoggerNameValue  Code = 4102
	MacBadSubsystemValue   Code = 4103
	MacBadCategoryValue    Code = 4104
	MacUnknownMacro        Code = 4900
	MacDuplicateMember     Code = 4901
	MacNotNominal          Code = 4902
	MacDisabled            Code = 4903

	// Конфигурация
	CfgInfo       Code = 5000
	CfgInvalid    Code = 5001
	CfgUnknownKey Code = 5002

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Протокол плагина
	PlgInfo         Code = 7000
	PlgUnknownMacro Code = 7001
	PlgBadSyntax    Code = 7002
	PlgWrongRole    Code = 7003
	PlgBadMessage   Code = 7004
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Invalid number literal",
		LexTokenTooLong:             "Token too long",
		LexBadEscape:                "Invalid escape sequence",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynUnclosedDelimiter:        "Unclosed delimiter",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynUnclosedBrace:            "Unclosed brace",
		SynUnclosedBracket:          "Unclosed bracket",
		SynUnbalancedBrace:          "Closing brace without opening",
		SynExpectIdentifier:         "Expected identifier",
		SynExpectExpression:         "Expected expression",
		SynExpectColon:              "Expected ':'",
		SynExpectTypeName:           "Expected type name",
		SynExpectMacroName:          "Expected macro name",
		SynExpectArgumentList:       "Expected argument list",
		IOInfo:                      "I/O information",
		IOLoadFileError:             "I/O load file error",
		IOWriteError:                "I/O write error",
		IOCacheError:                "Expansion cache error",
		MacInfo:                     "Macro information",
		MacInvalidURLString:         "Value for URL is invalid",
		MacInvalidMethodString:      "Could not parse method parameter",
		MacInvalidHeaders:           "Could not parse headers parameter",
		MacWrongType:                "OSLogger can only be attached to class or struct",
		MacBadLoggerNameValue:       "OSLogger variable name must be an identifier or a non-empty string",
		MacBadSubsystemValue:        "OSLogger subsystem must be an identifier or a non-empty string",
		MacBadCategoryValue:         "OSLogger category must be an identifier or a non-empty string",
		MacUnknownMacro:             "Unknown macro",
		MacDuplicateMember:          "Duplicate generated member",
		MacNotNominal:               "Macro requires a type declaration",
		MacDisabled:                 "Macro disabled by configuration",
		CfgInfo:                     "Configuration information",
		CfgInvalid:                  "Invalid configuration",
		CfgUnknownKey:               "Unknown configuration key",
		ObsInfo:                     "Observability information",
		ObsTimings:                  "Pipeline timings",
		PlgInfo:                     "Plugin information",
		PlgUnknownMacro:             "Macro implementation not found",
		PlgBadSyntax:                "Cannot parse macro syntax",
		PlgWrongRole:                "Macro role not supported",
		PlgBadMessage:               "Unsupported plugin message",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("MAC%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("PLG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
