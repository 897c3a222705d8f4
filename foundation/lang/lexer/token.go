// File: token.go
// Title: Token Definitions
// Description: Defines token types, source positions and the token value
//              produced by the tokenizer.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-25 v0.1.0: Initial token definitions
// - 2026-10-17 v0.2.0: fnlang token set, positions as a separate type

package lexer

import (
	"fmt"
)

// TokenType represents the type of a lexical token
type TokenType int

const (
	// TokenEOF is returned by NextToken at the end of input. It never appears
	// in the result of Tokenize.
	TokenEOF TokenType = iota

	// Keywords
	TokenFn     // fn
	TokenLet    // let
	TokenConst  // const
	TokenIf     // if
	TokenThen   // then
	TokenElse   // else
	TokenReturn // return
	TokenUse    // use

	// Structural
	TokenBeginBlock   // {
	TokenEndBlock     // }
	TokenEndStatement // ;
	TokenOpenParen    // (
	TokenCloseParen   // )

	// Operators
	TokenEquals       // = or ==
	TokenGreaterThan  // >
	TokenLessThan     // <
	TokenGreaterEqual // >=
	TokenLessEqual    // <=
	TokenNotEqual     // !=

	// Identifiers and literals
	TokenIdentifier // main, test_1
	TokenString     // "text"
	TokenNumber     // 42
	TokenBoolean    // true, false
)

var tokenNames = map[TokenType]string{
	TokenEOF:          "EOF",
	TokenFn:           "FN",
	TokenLet:          "LET",
	TokenConst:        "CONST",
	TokenIf:           "IF",
	TokenThen:         "THEN",
	TokenElse:         "ELSE",
	TokenReturn:       "RETURN",
	TokenUse:          "USE",
	TokenBeginBlock:   "BEGIN_BLOCK",
	TokenEndBlock:     "END_BLOCK",
	TokenEndStatement: "END_STATEMENT",
	TokenOpenParen:    "OPEN_PAREN",
	TokenCloseParen:   "CLOSE_PAREN",
	TokenEquals:       "EQUALS",
	TokenGreaterThan:  "GREATER_THAN",
	TokenLessThan:     "LESS_THAN",
	TokenGreaterEqual: "GREATER_EQUAL",
	TokenLessEqual:    "LESS_EQUAL",
	TokenNotEqual:     "NOT_EQUAL",
	TokenIdentifier:   "IDENTIFIER",
	TokenString:       "STRING",
	TokenNumber:       "NUMBER",
	TokenBoolean:      "BOOLEAN",
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsKeyword reports whether the type is one of the reserved words
func (tt TokenType) IsKeyword() bool {
	return tt >= TokenFn && tt <= TokenUse
}

// IsLiteral reports whether the type is a string, number or boolean literal
func (tt TokenType) IsLiteral() bool {
	return tt == TokenString || tt == TokenNumber || tt == TokenBoolean
}

// IsComparison reports whether the type is a comparison operator
func (tt TokenType) IsComparison() bool {
	return tt >= TokenEquals && tt <= TokenNotEqual
}

// Position locates a token in the source text
type Position struct {
	Offset int // Byte offset, 0-based
	Line   int // Line number, 1-based
	Column int // Column in runes, 1-based
}

// String returns the position as line:column
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token represents a lexical token with position information
type Token struct {
	Type     TokenType
	Value    string // Identifier name, unescaped string, digits or operator text
	Number   Number // Set for TokenNumber only
	Position Position
}

// String returns a string representation of the token
func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenString:
		return fmt.Sprintf("%s(%q)", t.Type, t.Value)
	default:
		return fmt.Sprintf("%s(%s)", t.Type, t.Value)
	}
}

// Equal compares two tokens ignoring their positions
func (t Token) Equal(other Token) bool {
	return t.Type == other.Type &&
		t.Value == other.Value &&
		t.Number.Equal(other.Number)
}

// keywords classifies identifier-shaped words
var keywords = map[string]TokenType{
	"fn":     TokenFn,
	"let":    TokenLet,
	"const":  TokenConst,
	"if":     TokenIf,
	"then":   TokenThen,
	"else":   TokenElse,
	"return": TokenReturn,
	"use":    TokenUse,
	"true":   TokenBoolean,
	"false":  TokenBoolean,
}

// LookupIdent returns the keyword or boolean type for name, or TokenIdentifier
func LookupIdent(name string) TokenType {
	if tt, ok := keywords[name]; ok {
		return tt
	}
	return TokenIdentifier
}

// IsKeyword checks if a word is reserved
func IsKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}
