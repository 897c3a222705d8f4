// File: doc.go
// Title: Lexer Package Documentation
// Description: Package documentation for the fnlang tokenizer.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-25 v0.1.0: Initial lexer implementation
// - 2026-10-17 v0.2.0: Rewritten as the fnlang tokenizer

/*
Package lexer converts fnlang source text into an ordered, finite slice of
tokens in a single forward scan.

The tokenizer is pure: it performs no I/O and never logs. Every token carries
its byte offset and its 1-based line and column, so later stages can point at
the exact place of a problem.

Usage:

	tokens, err := lexer.Tokenize(`fn main() { let x = 5; }`)
	if err != nil {
		var lexErr *lexer.LexError
		if errors.As(err, &lexErr) {
			fmt.Println(lexErr.Position)
		}
	}

Recognised input:

  • Keywords: fn, let, const, if, then, else, return, use
  • Identifiers: a letter or underscore followed by letters, digits or underscores
  • Numbers: unsigned decimal integers up to 2^128 - 1
  • Strings: double quoted with the escapes \" \\ \n \t \r \0
  • Booleans: true, false
  • Punctuation: { } ( ) ; = == > < >= <= !=
  • Line comments starting with //

Any other character is reported as a *LexError. Nothing is skipped silently.
*/
package lexer
