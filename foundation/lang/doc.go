// File: doc.go
// Title: fnlang Front End Package Documentation
// Description: Package documentation for the fnlang pipeline facade.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-25 v0.1.0: Initial engine package
// - 2026-10-17 v0.2.0: Tokenize and parse pipeline for fnlang

/*
Package lang runs the fnlang front end: text to tokens to statements.

The Engine combines the lexer and parser packages, assigns every run an ID,
logs the outcome and converts failures into structured errors:

	engine, err := lang.New(lang.Options{Logger: logger})
	result, err := engine.Parse(ctx, `fn main() { let x = 5; }`)
	if err != nil {
		diag := lang.DiagnosticFrom(err)
		fmt.Printf("%d:%d %s\n", diag.Line, diag.Column, diag.Message)
	}

Failures carry mdwerror codes CodeLexical, CodeInputTooLarge or CodeSyntax.
The original *lexer.LexError or *parser.ParseError stays reachable through
errors.As.
*/
package lang
