// File: errors.go
// Title: Parse Errors
// Description: Error type returned by the parser together with the names of
//              the productions it reports.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-25 v0.1.0: Initial parse error with line and column
// - 2026-10-17 v0.2.0: Error kinds, productions and token index

package parser

import (
	"fmt"
	"strings"

	"github.com/msto63/fnlang/foundation/lang/lexer"
)

// Production names reported in errors
const (
	ProductionProgram           = "program"
	ProductionFunction          = "function"
	ProductionAnonymousFunction = "anonymous-function"
	ProductionAssignment        = "assignment"
	ProductionConditional       = "conditional"
	ProductionIfExpression      = "if-expression"
	ProductionReturn            = "return"
	ProductionUse               = "use"
	ProductionExpression        = "expression"
)

// ErrorKind classifies a parse error
type ErrorKind int

const (
	// ErrUnexpectedToken means the token does not fit the production
	ErrUnexpectedToken ErrorKind = iota

	// ErrUnexpectedEOF means the input ended inside a statement
	ErrUnexpectedEOF

	// ErrUnterminatedBlock means the input ended before a block's closing brace
	ErrUnterminatedBlock

	// ErrNestingTooDeep means blocks or expressions exceed Options.MaxDepth
	ErrNestingTooDeep
)

// String returns a short description of the kind
func (k ErrorKind) String() string {
	switch k {
	case ErrUnexpectedToken:
		return "unexpected token"
	case ErrUnexpectedEOF:
		return "unexpected end of input"
	case ErrUnterminatedBlock:
		return "unterminated block"
	case ErrNestingTooDeep:
		return "nesting too deep"
	default:
		return "parse error"
	}
}

// ParseError reports why a production could not be parsed
type ParseError struct {
	Kind       ErrorKind
	Production string       // Innermost production being parsed
	Token      *lexer.Token // Offending token, nil at end of input
	Index      int          // Token index of the offending token
	Expected   []string     // What would have been accepted
}

// Error implements the error interface
func (e *ParseError) Error() string {
	var sb strings.Builder

	sb.WriteString(e.Kind.String())
	if e.Kind == ErrUnexpectedToken && e.Token != nil {
		fmt.Fprintf(&sb, " %s", describe(*e.Token))
	}
	fmt.Fprintf(&sb, " in %s", e.Production)
	if e.Token != nil {
		fmt.Fprintf(&sb, " at line %d, column %d", e.Token.Position.Line, e.Token.Position.Column)
	}
	if len(e.Expected) > 0 {
		fmt.Fprintf(&sb, " (expected %s)", strings.Join(e.Expected, " or "))
	}
	return sb.String()
}

// AtEOF reports whether the error was raised at the end of input
func (e *ParseError) AtEOF() bool {
	return e.Token == nil
}

// Position returns the position of the offending token
func (e *ParseError) Position() (lexer.Position, bool) {
	if e.Token == nil {
		return lexer.Position{}, false
	}
	return e.Token.Position, true
}

// Found describes the offending token for messages
func (e *ParseError) Found() string {
	if e.Token == nil {
		return "end of input"
	}
	return describe(*e.Token)
}

func describe(tok lexer.Token) string {
	switch tok.Type {
	case lexer.TokenIdentifier:
		return fmt.Sprintf("identifier %q", tok.Value)
	case lexer.TokenString:
		return fmt.Sprintf("string %q", tok.Value)
	case lexer.TokenNumber:
		return "number " + tok.Value
	default:
		return fmt.Sprintf("%q", tok.Value)
	}
}
