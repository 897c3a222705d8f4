// File: errors.go
// Title: Lexical Errors
// Description: Error type returned by the tokenizer.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.2.0: Initial implementation

package lexer

import (
	"fmt"
)

// ErrorKind classifies a lexical error
type ErrorKind int

const (
	ErrUnrecognizedCharacter ErrorKind = iota
	ErrUnterminatedString
	ErrInvalidEscape
	ErrNumberOverflow
	ErrInputTooLarge
)

// String returns a short description of the kind
func (k ErrorKind) String() string {
	switch k {
	case ErrUnrecognizedCharacter:
		return "unrecognized character"
	case ErrUnterminatedString:
		return "unterminated string"
	case ErrInvalidEscape:
		return "invalid escape sequence"
	case ErrNumberOverflow:
		return "number too large"
	case ErrInputTooLarge:
		return "input too large"
	default:
		return "lexical error"
	}
}

// LexError reports the first character sequence the tokenizer could not accept
type LexError struct {
	Kind     ErrorKind
	Text     string   // Offending character or slice
	Position Position // Start of Text
}

// Error implements the error interface
func (e *LexError) Error() string {
	if e.Kind == ErrInputTooLarge {
		return fmt.Sprintf("%s: %s", e.Kind, e.Text)
	}
	return fmt.Sprintf("%s %q at line %d, column %d", e.Kind, e.Text, e.Position.Line, e.Position.Column)
}
