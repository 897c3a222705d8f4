// File: doc.go
// Title: Parser Package Documentation
// Description: Package documentation for the fnlang recursive descent parser.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-25 v0.1.0: Initial parser implementation
// - 2026-10-17 v0.2.0: fnlang grammar

/*
Package parser converts a token slice into fnlang statements.

The parser is a recursive descent parser over a fully materialised token
slice. It uses an index cursor and can look at any position ahead without
consuming, which lets it check whole token windows before it commits to a
production:

	program    = { statement }
	statement  = function | assignment | conditional | return | use | exprstmt
	function   = "fn" IDENT "(" ")" block
	assignment = ("let" | "const") IDENT "=" LITERAL ";"
	conditional= "if" expr ( "then" expr "else" expr [";"] | block [ "else" block ] )
	return     = "return" expr [";"]
	use        = "use" IDENT ";"
	exprstmt   = expr [";"]
	block      = "{" { statement } "}"
	expr       = primary { cmpop primary }
	primary    = IDENT | LITERAL | "(" expr ")" | "if" expr "then" expr "else" expr | "fn" "(" ")" block
	cmpop      = "=" | "==" | "!=" | ">" | ">=" | "<" | "<="

With Options.ExpressionInitializers the assignment right hand side may be any
expression.

There is no error recovery. The first *ParseError ends the parse and no
partial tree is returned. The error names the innermost production that
failed and the offending token, or nil when the input ended.
*/
package parser
