package token

var keywords = map[string]Kind{
	"class":     KwClass,
	"struct":    KwStruct,
	"enum":      KwEnum,
	"actor":     KwActor,
	"protocol":  KwProtocol,
	"extension": KwExtension,
	"func":      KwFunc,
	"let":       KwLet,
	"var":       KwVar,
	"import":    KwImport,
	"init":      KwInit,
	"typealias": KwTypealias,
	"case":      KwCase,
	"return":    KwReturn,
	"guard":     KwGuard,
	"if":        KwIf,
	"else":      KwElse,
	"for":       KwFor,
	"in":        KwIn,
	"while":     KwWhile,
	"as":        KwAs,
	"is":        KwIs,
	"true":      KwTrue,
	"false":     KwFalse,
	"nil":       KwNil,
	"self":      KwSelf,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые, `class` в обратных кавычках остаётся Ident.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// modifiers are contextual: lexed as Ident, accepted by the parser before
// declaration keywords.
var modifiers = map[string]struct{}{
	"public":      {},
	"private":     {},
	"fileprivate": {},
	"internal":    {},
	"open":        {},
	"final":       {},
	"static":      {},
	"indirect":    {},
	"nonisolated": {},
	"package":     {},
	"override":    {},
	"required":    {},
	"convenience": {},
	"mutating":    {},
	"lazy":        {},
	"weak":        {},
	"unowned":     {},
	"dynamic":     {},
	"distributed": {},
}

// IsModifier reports whether ident is a declaration modifier.
func IsModifier(ident string) bool {
	_, ok := modifiers[ident]
	return ok
}
