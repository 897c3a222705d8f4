// File: visitor.go
// Title: fnlang AST Visitor Pattern Implementation
// Description: Implements the visitor pattern for traversing AST nodes,
//              a depth-first inspector and an S-expression printer.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-25 v0.1.0: Initial visitor pattern implementation
// - 2026-10-17 v0.2.0: fnlang nodes, Inspect replaces BaseVisitor traversal

package ast

import (
	"fmt"
	"strings"
)

// Visitor interface for traversing AST nodes using the visitor pattern
type Visitor interface {
	// Statements
	VisitFunction(stmt *Function) interface{}
	VisitAssignment(stmt *Assignment) interface{}
	VisitExpressionStatement(stmt *ExpressionStatement) interface{}
	VisitReturn(stmt *Return) interface{}
	VisitUse(stmt *Use) interface{}

	// Expressions
	VisitIdentifier(expr *Identifier) interface{}
	VisitStringLiteral(expr *StringLiteral) interface{}
	VisitNumberLiteral(expr *NumberLiteral) interface{}
	VisitBooleanLiteral(expr *BooleanLiteral) interface{}
	VisitComparison(expr *Comparison) interface{}
	VisitIfShorthand(expr *IfShorthand) interface{}
	VisitIfCondition(expr *IfCondition) interface{}
	VisitAnonFunction(expr *AnonFunction) interface{}
}

// Children returns the direct children of a node in source order
func Children(node Node) []Node {
	var children []Node
	addStmts := func(stmts []Statement) {
		for _, s := range stmts {
			children = append(children, s)
		}
	}
	addExpr := func(exprs ...Expression) {
		for _, e := range exprs {
			if e != nil {
				children = append(children, e)
			}
		}
	}

	switch n := node.(type) {
	case *Function:
		addStmts(n.Body)
	case *Assignment:
		addExpr(n.Value)
	case *ExpressionStatement:
		addExpr(n.Expr)
	case *Return:
		addExpr(n.Value)
	case *Comparison:
		addExpr(n.Left, n.Right)
	case *IfShorthand:
		addExpr(n.Condition, n.Then, n.Otherwise)
	case *IfCondition:
		addExpr(n.Condition)
		addStmts(n.Then)
		addStmts(n.Else)
	case *AnonFunction:
		addStmts(n.Body)
	}
	return children
}

// Inspect traverses the tree depth-first. If f returns false the children of
// the node are skipped.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	for _, child := range Children(node) {
		Inspect(child, f)
	}
}

// InspectAll runs Inspect over a statement list
func InspectAll(stmts []Statement, f func(Node) bool) {
	for _, stmt := range stmts {
		Inspect(stmt, f)
	}
}

// Collect returns all nodes of type T in depth-first order
func Collect[T Node](stmts []Statement) []T {
	var found []T
	InspectAll(stmts, func(n Node) bool {
		if t, ok := n.(T); ok {
			found = append(found, t)
		}
		return true
	})
	return found
}

// Depth returns the maximum nesting depth of a statement list; a flat list
// of leaves has depth 1
func Depth(stmts []Statement) int {
	deepest := 0
	for _, stmt := range stmts {
		if d := nodeDepth(stmt); d > deepest {
			deepest = d
		}
	}
	return deepest
}

func nodeDepth(node Node) int {
	deepest := 0
	for _, child := range Children(node) {
		if d := nodeDepth(child); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// StringVisitor renders the AST as S-expressions
type StringVisitor struct {
	buffer strings.Builder
}

// NewStringVisitor creates a new string visitor
func NewStringVisitor() *StringVisitor {
	return &StringVisitor{}
}

// String returns the built string representation
func (sv *StringVisitor) String() string {
	return sv.buffer.String()
}

// Reset clears the internal buffer
func (sv *StringVisitor) Reset() {
	sv.buffer.Reset()
}

func (sv *StringVisitor) writeBlock(stmts []Statement) {
	sv.buffer.WriteString("(")
	for i, stmt := range stmts {
		if i > 0 {
			sv.buffer.WriteString(" ")
		}
		stmt.Accept(sv)
	}
	sv.buffer.WriteString(")")
}

func (sv *StringVisitor) VisitFunction(stmt *Function) interface{} {
	fmt.Fprintf(&sv.buffer, "(fn %s ", stmt.Name)
	sv.writeBlock(stmt.Body)
	sv.buffer.WriteString(")")
	return nil
}

func (sv *StringVisitor) VisitAssignment(stmt *Assignment) interface{} {
	fmt.Fprintf(&sv.buffer, "(%s %s ", stmt.Kind, stmt.Name)
	stmt.Value.Accept(sv)
	sv.buffer.WriteString(")")
	return nil
}

func (sv *StringVisitor) VisitExpressionStatement(stmt *ExpressionStatement) interface{} {
	return stmt.Expr.Accept(sv)
}

func (sv *StringVisitor) VisitReturn(stmt *Return) interface{} {
	sv.buffer.WriteString("(return ")
	stmt.Value.Accept(sv)
	sv.buffer.WriteString(")")
	return nil
}

func (sv *StringVisitor) VisitUse(stmt *Use) interface{} {
	fmt.Fprintf(&sv.buffer, "(use %s)", stmt.Name)
	return nil
}

func (sv *StringVisitor) VisitIdentifier(expr *Identifier) interface{} {
	sv.buffer.WriteString(expr.Name)
	return nil
}

func (sv *StringVisitor) VisitStringLiteral(expr *StringLiteral) interface{} {
	sv.buffer.WriteString(Quote(expr.Value))
	return nil
}

func (sv *StringVisitor) VisitNumberLiteral(expr *NumberLiteral) interface{} {
	sv.buffer.WriteString(expr.Value.String())
	return nil
}

func (sv *StringVisitor) VisitBooleanLiteral(expr *BooleanLiteral) interface{} {
	sv.buffer.WriteString(expr.String())
	return nil
}

func (sv *StringVisitor) VisitComparison(expr *Comparison) interface{} {
	fmt.Fprintf(&sv.buffer, "(%s ", expr.Operator)
	expr.Left.Accept(sv)
	sv.buffer.WriteString(" ")
	expr.Right.Accept(sv)
	sv.buffer.WriteString(")")
	return nil
}

func (sv *StringVisitor) VisitIfShorthand(expr *IfShorthand) interface{} {
	sv.buffer.WriteString("(if-then ")
	expr.Condition.Accept(sv)
	sv.buffer.WriteString(" ")
	expr.Then.Accept(sv)
	sv.buffer.WriteString(" ")
	expr.Otherwise.Accept(sv)
	sv.buffer.WriteString(")")
	return nil
}

func (sv *StringVisitor) VisitIfCondition(expr *IfCondition) interface{} {
	sv.buffer.WriteString("(if ")
	expr.Condition.Accept(sv)
	sv.buffer.WriteString(" ")
	sv.writeBlock(expr.Then)
	if expr.Else != nil {
		sv.buffer.WriteString(" ")
		sv.writeBlock(expr.Else)
	}
	sv.buffer.WriteString(")")
	return nil
}

func (sv *StringVisitor) VisitAnonFunction(expr *AnonFunction) interface{} {
	sv.buffer.WriteString("(lambda ")
	sv.writeBlock(expr.Body)
	sv.buffer.WriteString(")")
	return nil
}

// SExpr renders a statement list as S-expressions separated by newlines
func SExpr(stmts []Statement) string {
	sv := NewStringVisitor()
	for i, stmt := range stmts {
		if i > 0 {
			sv.buffer.WriteString("\n")
		}
		stmt.Accept(sv)
	}
	return sv.String()
}
