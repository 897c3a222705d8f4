// File: lexer.go
// Title: fnlang Lexical Analyzer (Tokenizer)
// Description: Converts fnlang source text into a stream of tokens in a
//              single forward scan. Tracks byte offsets, lines and columns
//              for error reporting and stops at the first unrecognised input.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-25 v0.1.0: Initial lexer implementation
// - 2026-10-17 v0.2.0: Rune based scanning, escapes, comments, 128-bit numbers

package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// eof marks the end of input; it is not a valid rune
const eof rune = -1

// Options limits the tokenizer
type Options struct {
	// MaxInputLength is the maximum input size in bytes; 0 means unlimited
	MaxInputLength int
}

// twoCharOperators are checked before the single character table
var twoCharOperators = map[string]TokenType{
	">=": TokenGreaterEqual,
	"<=": TokenLessEqual,
	"!=": TokenNotEqual,
	"==": TokenEquals,
}

var singleCharTokens = map[rune]TokenType{
	'{': TokenBeginBlock,
	'}': TokenEndBlock,
	';': TokenEndStatement,
	'(': TokenOpenParen,
	')': TokenCloseParen,
	'=': TokenEquals,
	'>': TokenGreaterThan,
	'<': TokenLessThan,
}

var escapes = map[rune]rune{
	'"':  '"',
	'\\': '\\',
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'0':  0,
}

// Lexer performs lexical analysis of fnlang input
type Lexer struct {
	input    string
	position int  // Offset of ch
	readPos  int  // Offset after ch
	ch       rune // Current rune, eof at the end
	line     int
	column   int

	// err is sticky: once set, NextToken keeps returning it
	err error
}

// NewLexer creates a new lexer for the given input
func NewLexer(input string) *Lexer {
	return NewLexerWithOptions(input, Options{})
}

// NewLexerWithOptions creates a new lexer that enforces opts
func NewLexerWithOptions(input string, opts Options) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
	}
	if opts.MaxInputLength > 0 && len(input) > opts.MaxInputLength {
		l.err = &LexError{
			Kind:     ErrInputTooLarge,
			Text:     fmt.Sprintf("%d bytes exceeds the limit of %d", len(input), opts.MaxInputLength),
			Position: Position{Offset: 0, Line: 1, Column: 1},
		}
	}
	l.readChar()
	return l
}

// Tokenize returns all tokens of src. The result carries no EOF token.
func Tokenize(src string) ([]Token, error) {
	return NewLexer(src).Tokenize()
}

// TokenizeWithOptions is Tokenize with input limits
func TokenizeWithOptions(src string, opts Options) ([]Token, error) {
	return NewLexerWithOptions(src, opts).Tokenize()
}

// Tokenize returns the remaining tokens up to the end of input
func (l *Lexer) Tokenize() ([]Token, error) {
	tokens := make([]Token, 0, len(l.input)/3+1)
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		if tok.Type == TokenEOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

// NextToken returns the next token, or a TokenEOF token at the end of input
func (l *Lexer) NextToken() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}

	l.skipWhitespaceAndComments()
	start := l.pos()

	switch {
	case l.ch == eof:
		return Token{Type: TokenEOF, Position: start}, nil
	case l.ch == '"':
		return l.readString(start)
	case isIdentStart(l.ch):
		name := l.readIdentifier()
		return Token{Type: LookupIdent(name), Value: name, Position: start}, nil
	case isASCIIDigit(l.ch):
		return l.readNumber(start)
	}

	if tt, text, ok := l.readOperator(); ok {
		return Token{Type: tt, Value: text, Position: start}, nil
	}

	return l.fail(&LexError{
		Kind:     ErrUnrecognizedCharacter,
		Text:     l.input[l.position:l.readPos],
		Position: start,
	})
}

// readChar advances to the next rune and updates line and column
func (l *Lexer) readChar() {
	switch {
	case l.readPos == 0:
		l.column = 1
	case l.ch == eof:
		return
	case l.ch == '\n':
		l.line++
		l.column = 1
	default:
		l.column++
	}

	l.position = l.readPos
	if l.readPos >= len(l.input) {
		l.ch = eof
		return
	}
	r, width := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.readPos += width
}

// peekChar returns the rune after ch without advancing
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) pos() Position {
	return Position{Offset: l.position, Line: l.line, Column: l.column}
}

func (l *Lexer) fail(err *LexError) (Token, error) {
	l.err = err
	return Token{}, err
}

func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for unicode.IsSpace(l.ch) {
			l.readChar()
		}
		if l.ch != '/' || l.peekChar() != '/' {
			return
		}
		for l.ch != '\n' && l.ch != eof {
			l.readChar()
		}
	}
}

func (l *Lexer) readIdentifier() string {
	start := l.position
	for isIdentContinue(l.ch) {
		l.readChar()
	}
	return l.input[start:l.position]
}

func (l *Lexer) readNumber(start Position) (Token, error) {
	for isASCIIDigit(l.ch) {
		l.readChar()
	}
	digits := l.input[start.Offset:l.position]

	n, err := ParseNumber(digits)
	if err != nil {
		return l.fail(&LexError{Kind: ErrNumberOverflow, Text: digits, Position: start})
	}
	return Token{Type: TokenNumber, Value: digits, Number: n, Position: start}, nil
}

func (l *Lexer) readString(start Position) (Token, error) {
	l.readChar() // opening quote

	var sb strings.Builder
	for {
		switch l.ch {
		case eof:
			return l.fail(&LexError{
				Kind:     ErrUnterminatedString,
				Text:     l.input[start.Offset:],
				Position: start,
			})
		case '"':
			l.readChar()
			return Token{Type: TokenString, Value: sb.String(), Position: start}, nil
		case '\\':
			escStart := l.pos()
			l.readChar()
			if l.ch == eof {
				continue
			}
			r, ok := escapes[l.ch]
			if !ok {
				return l.fail(&LexError{
					Kind:     ErrInvalidEscape,
					Text:     l.input[escStart.Offset:l.readPos],
					Position: escStart,
				})
			}
			sb.WriteRune(r)
			l.readChar()
		default:
			// Copy raw bytes so invalid UTF-8 survives unchanged
			sb.WriteString(l.input[l.position:l.readPos])
			l.readChar()
		}
	}
}

func (l *Lexer) readOperator() (TokenType, string, bool) {
	if next := l.peekChar(); next != eof {
		text := string(l.ch) + string(next)
		if tt, ok := twoCharOperators[text]; ok {
			l.readChar()
			l.readChar()
			return tt, text, true
		}
	}
	if tt, ok := singleCharTokens[l.ch]; ok {
		text := string(l.ch)
		l.readChar()
		return tt, text, true
	}
	return 0, "", false
}

// isIdentStart reports Unicode ID_Start plus '_'
func isIdentStart(r rune) bool {
	if r == '_' {
		return true
	}
	if unicode.In(r, unicode.Pattern_Syntax, unicode.Pattern_White_Space) {
		return false
	}
	return unicode.In(r, unicode.L, unicode.Nl, unicode.Other_ID_Start)
}

// isIdentContinue reports Unicode ID_Continue plus '_'
func isIdentContinue(r rune) bool {
	if isIdentStart(r) {
		return true
	}
	if unicode.In(r, unicode.Pattern_Syntax, unicode.Pattern_White_Space) {
		return false
	}
	return unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}

func isASCIIDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// EndPosition returns the position just past the last character of src
func EndPosition(src string) Position {
	line, column := 1, 1
	for _, r := range src {
		if r == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return Position{Offset: len(src), Line: line, Column: column}
}
