// File: dump.go
// Title: AST Serialization
// Description: Converts AST nodes into generic maps for JSON and YAML
//              encoding and names node types for display.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.2.0: Initial implementation

package ast

// TypeName returns the node type name used in dumps and tree views
func TypeName(node Node) string {
	switch node.(type) {
	case *Function:
		return "Function"
	case *Assignment:
		return "Assignment"
	case *ExpressionStatement:
		return "ExpressionStatement"
	case *Return:
		return "Return"
	case *Use:
		return "Use"
	case *Identifier:
		return "Identifier"
	case *StringLiteral:
		return "StringLiteral"
	case *NumberLiteral:
		return "NumberLiteral"
	case *BooleanLiteral:
		return "BooleanLiteral"
	case *Comparison:
		return "Comparison"
	case *IfShorthand:
		return "IfShorthand"
	case *IfCondition:
		return "IfCondition"
	case *AnonFunction:
		return "AnonFunction"
	default:
		return "Unknown"
	}
}

// Dump converts a statement list into maps
func Dump(stmts []Statement) []map[string]interface{} {
	return dumpStatements(stmts)
}

// DumpNode converts a single node and its subtree into a map
func DumpNode(node Node) map[string]interface{} {
	if node == nil {
		return nil
	}

	pos := node.Position()
	m := map[string]interface{}{
		"type":   TypeName(node),
		"line":   pos.Line,
		"column": pos.Column,
	}

	switch n := node.(type) {
	case *Function:
		m["name"] = n.Name
		m["body"] = dumpStatements(n.Body)
	case *Assignment:
		m["name"] = n.Name
		m["kind"] = n.Kind.String()
		m["value"] = DumpNode(n.Value)
	case *ExpressionStatement:
		m["expr"] = DumpNode(n.Expr)
	case *Return:
		m["value"] = DumpNode(n.Value)
	case *Use:
		m["name"] = n.Name
	case *Identifier:
		m["name"] = n.Name
	case *StringLiteral:
		m["value"] = n.Value
	case *NumberLiteral:
		m["value"] = n.Value.String()
		m["width"] = n.Value.Width().String()
	case *BooleanLiteral:
		m["value"] = n.Value
	case *Comparison:
		m["operator"] = n.Operator.Name()
		m["left"] = DumpNode(n.Left)
		m["right"] = DumpNode(n.Right)
	case *IfShorthand:
		m["condition"] = DumpNode(n.Condition)
		m["then"] = DumpNode(n.Then)
		m["otherwise"] = DumpNode(n.Otherwise)
	case *IfCondition:
		m["condition"] = DumpNode(n.Condition)
		m["then"] = dumpStatements(n.Then)
		if n.Else != nil {
			m["else"] = dumpStatements(n.Else)
		}
	case *AnonFunction:
		m["body"] = dumpStatements(n.Body)
	}
	return m
}

func dumpStatements(stmts []Statement) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(stmts))
	for _, stmt := range stmts {
		out = append(out, DumpNode(stmt))
	}
	return out
}
