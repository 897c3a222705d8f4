// File: nodes.go
// Title: fnlang AST Node Definitions
// Description: Defines all AST node types for fnlang programs: statements,
//              expressions and their canonical source representation.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-25 v0.1.0: Initial AST node definitions
// - 2026-10-17 v0.2.0: Replaced command nodes with fnlang statements

package ast

import (
	"strings"

	"github.com/msto63/fnlang/foundation/lang/lexer"
)

// Position represents a position in the source code
type Position = lexer.Position

// Node represents the base interface for all AST nodes
type Node interface {
	// String returns the node as canonical source text
	String() string

	// Accept implements the visitor pattern
	Accept(visitor Visitor) interface{}

	// Position returns the source position of the first token of the node
	Position() Position
}

// Statement is a construct without a value
type Statement interface {
	Node
	statementNode()
}

// Expression is a construct that yields a value
type Expression interface {
	Node
	expressionNode()
}

// BindingKind distinguishes mutable from immutable bindings
type BindingKind int

const (
	BindingLet BindingKind = iota
	BindingConst
)

// String returns the keyword of the binding
func (k BindingKind) String() string {
	if k == BindingConst {
		return "const"
	}
	return "let"
}

// ComparisonKind is the operator of a Comparison
type ComparisonKind int

const (
	Equal ComparisonKind = iota
	NotEqual
	GreaterThan
	GreaterOrEqual
	LessThan
	LessOrEqual
)

// String returns the operator symbol
func (k ComparisonKind) String() string {
	switch k {
	case Equal:
		return "=="
	case NotEqual:
		return "!="
	case GreaterThan:
		return ">"
	case GreaterOrEqual:
		return ">="
	case LessThan:
		return "<"
	case LessOrEqual:
		return "<="
	default:
		return "?"
	}
}

// Name returns the operator name
func (k ComparisonKind) Name() string {
	switch k {
	case Equal:
		return "Equal"
	case NotEqual:
		return "NotEqual"
	case GreaterThan:
		return "GreaterThan"
	case GreaterOrEqual:
		return "GreaterOrEqual"
	case LessThan:
		return "LessThan"
	case LessOrEqual:
		return "LessOrEqual"
	default:
		return "Unknown"
	}
}

// Statement types

// Function is a named function declaration: fn NAME() { BODY }
type Function struct {
	Name string
	Body []Statement
	Pos  Position
}

// Assignment binds a name: let NAME = VALUE; or const NAME = VALUE;
type Assignment struct {
	Name  string
	Kind  BindingKind
	Value Expression
	Pos   Position
}

// ExpressionStatement evaluates an expression for its effect
type ExpressionStatement struct {
	Expr Expression
	Pos  Position
}

// Return leaves the enclosing function with a value
type Return struct {
	Value Expression
	Pos   Position
}

// Use imports a module by name
type Use struct {
	Name string
	Pos  Position
}

// Expression types

// Identifier references a binding by name
type Identifier struct {
	Name string
	Pos  Position
}

// StringLiteral holds unescaped text
type StringLiteral struct {
	Value string
	Pos   Position
}

// NumberLiteral keeps both the digits and the parsed value. Width typing is
// left to later stages.
type NumberLiteral struct {
	Raw   string
	Value lexer.Number
	Pos   Position
}

// BooleanLiteral is true or false
type BooleanLiteral struct {
	Value bool
	Pos   Position
}

// Comparison compares two operands
type Comparison struct {
	Left     Expression
	Right    Expression
	Operator ComparisonKind
	Pos      Position
}

// IfShorthand is the conditional expression: if C then A else B
type IfShorthand struct {
	Condition Expression
	Then      Expression
	Otherwise Expression
	Pos       Position
}

// IfCondition controls a block: if C { ... } with an optional else block.
// Else is nil when no else block was written.
type IfCondition struct {
	Condition Expression
	Then      []Statement
	Else      []Statement
	Pos       Position
}

// AnonFunction is a function value: fn() { BODY }
type AnonFunction struct {
	Body []Statement
	Pos  Position
}

// Function

func (f *Function) String() string {
	return "fn " + f.Name + "() " + blockString(f.Body)
}

func (f *Function) Accept(visitor Visitor) interface{} {
	return visitor.VisitFunction(f)
}

func (f *Function) Position() Position { return f.Pos }
func (f *Function) statementNode()     {}

// Assignment

func (a *Assignment) String() string {
	return a.Kind.String() + " " + a.Name + " = " + exprString(a.Value) + ";"
}

func (a *Assignment) Accept(visitor Visitor) interface{} {
	return visitor.VisitAssignment(a)
}

func (a *Assignment) Position() Position { return a.Pos }
func (a *Assignment) statementNode()     {}

// ExpressionStatement

func (es *ExpressionStatement) String() string {
	if _, ok := es.Expr.(*IfCondition); ok {
		return es.Expr.String()
	}
	return exprString(es.Expr) + ";"
}

func (es *ExpressionStatement) Accept(visitor Visitor) interface{} {
	return visitor.VisitExpressionStatement(es)
}

func (es *ExpressionStatement) Position() Position { return es.Pos }
func (es *ExpressionStatement) statementNode()     {}

// Return

func (r *Return) String() string {
	return "return " + exprString(r.Value) + ";"
}

func (r *Return) Accept(visitor Visitor) interface{} {
	return visitor.VisitReturn(r)
}

func (r *Return) Position() Position { return r.Pos }
func (r *Return) statementNode()     {}

// Use

func (u *Use) String() string {
	return "use " + u.Name + ";"
}

func (u *Use) Accept(visitor Visitor) interface{} {
	return visitor.VisitUse(u)
}

func (u *Use) Position() Position { return u.Pos }
func (u *Use) statementNode()     {}

// Identifier

func (i *Identifier) String() string { return i.Name }

func (i *Identifier) Accept(visitor Visitor) interface{} {
	return visitor.VisitIdentifier(i)
}

func (i *Identifier) Position() Position { return i.Pos }
func (i *Identifier) expressionNode()    {}

// StringLiteral

func (s *StringLiteral) String() string { return Quote(s.Value) }

func (s *StringLiteral) Accept(visitor Visitor) interface{} {
	return visitor.VisitStringLiteral(s)
}

func (s *StringLiteral) Position() Position { return s.Pos }
func (s *StringLiteral) expressionNode()    {}

// NumberLiteral

func (n *NumberLiteral) String() string {
	if n.Raw != "" {
		return n.Raw
	}
	return n.Value.String()
}

func (n *NumberLiteral) Accept(visitor Visitor) interface{} {
	return visitor.VisitNumberLiteral(n)
}

func (n *NumberLiteral) Position() Position { return n.Pos }
func (n *NumberLiteral) expressionNode()    {}

// BooleanLiteral

func (b *BooleanLiteral) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

func (b *BooleanLiteral) Accept(visitor Visitor) interface{} {
	return visitor.VisitBooleanLiteral(b)
}

func (b *BooleanLiteral) Position() Position { return b.Pos }
func (b *BooleanLiteral) expressionNode()    {}

// Comparison

func (c *Comparison) String() string {
	left := exprString(c.Left)
	if _, ok := c.Left.(*IfShorthand); ok {
		left = "(" + left + ")"
	}

	right := exprString(c.Right)
	switch c.Right.(type) {
	case *Comparison, *IfShorthand:
		right = "(" + right + ")"
	}

	return left + " " + c.Operator.String() + " " + right
}

func (c *Comparison) Accept(visitor Visitor) interface{} {
	return visitor.VisitComparison(c)
}

func (c *Comparison) Position() Position { return c.Pos }
func (c *Comparison) expressionNode()    {}

// IfShorthand

func (i *IfShorthand) String() string {
	return "if " + exprString(i.Condition) +
		" then " + exprString(i.Then) +
		" else " + exprString(i.Otherwise)
}

func (i *IfShorthand) Accept(visitor Visitor) interface{} {
	return visitor.VisitIfShorthand(i)
}

func (i *IfShorthand) Position() Position { return i.Pos }
func (i *IfShorthand) expressionNode()    {}

// IfCondition

func (i *IfCondition) String() string {
	s := "if " + exprString(i.Condition) + " " + blockString(i.Then)
	if i.Else != nil {
		s += " else " + blockString(i.Else)
	}
	return s
}

func (i *IfCondition) Accept(visitor Visitor) interface{} {
	return visitor.VisitIfCondition(i)
}

func (i *IfCondition) Position() Position { return i.Pos }
func (i *IfCondition) expressionNode()    {}

// HasElse reports whether an else block was written
func (i *IfCondition) HasElse() bool { return i.Else != nil }

// AnonFunction

func (a *AnonFunction) String() string {
	return "fn() " + blockString(a.Body)
}

func (a *AnonFunction) Accept(visitor Visitor) interface{} {
	return visitor.VisitAnonFunction(a)
}

func (a *AnonFunction) Position() Position { return a.Pos }
func (a *AnonFunction) expressionNode()    {}

// Utility functions

// Quote renders s as a string literal using the fnlang escapes
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case 0:
			sb.WriteString(`\0`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// Program renders a statement list as source text, one statement per line
func Program(stmts []Statement) string {
	lines := make([]string, len(stmts))
	for i, stmt := range stmts {
		lines[i] = stmt.String()
	}
	return strings.Join(lines, "\n")
}

func blockString(stmts []Statement) string {
	if len(stmts) == 0 {
		return "{ }"
	}
	parts := make([]string, len(stmts))
	for i, stmt := range stmts {
		parts[i] = stmt.String()
	}
	return "{ " + strings.Join(parts, " ") + " }"
}

func exprString(e Expression) string {
	if e == nil {
		return "<nil>"
	}
	return e.String()
}
