// File: doc.go
// Title: AST Package Documentation
// Description: Package documentation for the fnlang abstract syntax tree.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-25 v0.1.0: Initial AST package
// - 2026-10-17 v0.2.0: fnlang statements and expressions

/*
Package ast defines the abstract syntax tree produced by the fnlang parser.

The tree is made of two node families:

  • Statements: Function, Assignment, ExpressionStatement, Return, Use
  • Expressions: Identifier, StringLiteral, NumberLiteral, BooleanLiteral,
    Comparison, IfShorthand, IfCondition, AnonFunction

Every parent owns its children exclusively; nodes are never shared and the
tree never contains cycles. String renders a node back to canonical source
text which parses to an equal tree. The Visitor interface, Inspect and Dump
support traversal, pretty printing and serialization.
*/
package ast
