// Package token defines lexical token kinds and trivia for Swift source
// processed by the macro expander.
// Invariants:
//   - Token.Text is a slice of the normalized source (no copies of escapes).
//   - Token.Span matches Text exactly (Start..End).
//   - Attributes and freestanding macros are lexed as '@' / '#' + Ident;
//     there are no per-macro token kinds.
//   - Declaration modifiers (public, final, private, ...) are identifiers.
//     The parser decides whether an identifier acts as a modifier.
//   - Backticked identifiers keep their backticks in Text.
package token
