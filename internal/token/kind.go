package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token, including `escaped` and $0 forms.
	Ident

	KwClass       // class
	KwStruct      // struct
	KwEnum        // enum
	KwActor       // actor
	KwProtocol    // protocol
	KwExtension   // extension
	KwFunc        // func
	KwLet         // let
	KwVar         // var
	KwImport      // import
	KwInit        // init
	KwTypealias   // typealias
	KwCase        // case
	KwReturn      // return
	KwGuard       // guard
	KwIf          // if
	KwElse        // else
	KwFor         // for
	KwIn          // in
	KwWhile       // while
	KwAs          // as
	KwIs          // is
	KwTrue        // true
	KwFalse       // false
	KwNil         // nil
	KwSelf        // self

	// IntLit represents an integer literal (decimal, 0x, 0o, 0b).
	IntLit
	// FloatLit represents a floating point literal.
	FloatLit
	// StringLit represents any string literal; see Flags for its form.
	StringLit

	LParen     // (
	RParen     // )
	LBrace     // {
	RBrace     // }
	LBracket   // [
	RBracket   // ]
	Comma      // ,
	Colon      // :
	Semicolon  // ;
	Dot        // .
	At         // @
	Hash       // #
	Arrow      // ->
	Assign     // =
	Question   // ?
	Bang       // !
	Underscore // _
	Backslash  // \ (key paths)
	// Operator is any other operator character sequence (+, ==, ??, ..<, ...).
	Operator
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Ident:       "Ident",
	KwClass:     "KwClass",
	KwStruct:    "KwStruct",
	KwEnum:      "KwEnum",
	KwActor:     "KwActor",
	KwProtocol:  "KwProtocol",
	KwExtension: "KwExtension",
	KwFunc:      "KwFunc",
	KwLet:       "KwLet",
	KwVar:       "KwVar",
	KwImport:    "KwImport",
	KwInit:      "KwInit",
	KwTypealias: "KwTypealias",
	KwCase:      "KwCase",
	KwReturn:    "KwReturn",
	KwGuard:     "KwGuard",
	KwIf:        "KwIf",
	KwElse:      "KwElse",
	KwFor:       "KwFor",
	KwIn:        "KwIn",
	KwWhile:     "KwWhile",
	KwAs:        "KwAs",
	KwIs:        "KwIs",
	KwTrue:      "KwTrue",
	KwFalse:     "KwFalse",
	KwNil:       "KwNil",
	KwSelf:      "KwSelf",
	IntLit:      "IntLit",
	FloatLit:    "FloatLit",
	StringLit:   "StringLit",
	LParen:      "LParen",
	RParen:      "RParen",
	LBrace:      "LBrace",
	RBrace:      "RBrace",
	LBracket:    "LBracket",
	RBracket:    "RBracket",
	Comma:       "Comma",
	Colon:       "Colon",
	Semicolon:   "Semicolon",
	Dot:         "Dot",
	At:          "At",
	Hash:        "Hash",
	Arrow:       "Arrow",
	Assign:      "Assign",
	Question:    "Question",
	Bang:        "Bang",
	Underscore:  "Underscore",
	Backslash:   "Backslash",
	Operator:    "Operator",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Flags carries per-token lexical details the parser and classifier need.
type Flags uint8

const (
	// StrInterpolated marks a string literal containing \( ... ) segments.
	StrInterpolated Flags = 1 << iota
	// StrRaw marks a #"..."# raw string literal.
	StrRaw
	// StrMultiline marks a """ ... """ literal.
	StrMultiline
)
