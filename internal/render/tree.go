package render

import (
	"fmt"
	"strings"

	"github.com/msto63/fnlang/foundation/lang/ast"
)

// treeItem is one line of the tree view
type treeItem struct {
	label    string
	detail   string
	pos      ast.Position
	children []*treeItem
}

// treeBuilder converts nodes into tree items
type treeBuilder struct{}

func (tb treeBuilder) node(n ast.Node) *treeItem {
	return n.Accept(tb).(*treeItem)
}

func (tb treeBuilder) block(label string, stmts []ast.Statement) *treeItem {
	item := &treeItem{label: label}
	if len(stmts) == 0 {
		item.detail = "(empty)"
	}
	for _, stmt := range stmts {
		item.children = append(item.children, tb.node(stmt))
	}
	return item
}

func (tb treeBuilder) item(n ast.Node, detail string, children ...*treeItem) *treeItem {
	return &treeItem{label: ast.TypeName(n), detail: detail, pos: n.Position(), children: children}
}

func (tb treeBuilder) VisitFunction(stmt *ast.Function) interface{} {
	item := tb.item(stmt, stmt.Name)
	item.children = tb.block("", stmt.Body).children
	return item
}

func (tb treeBuilder) VisitAssignment(stmt *ast.Assignment) interface{} {
	return tb.item(stmt, stmt.Kind.String()+" "+stmt.Name, tb.node(stmt.Value))
}

func (tb treeBuilder) VisitExpressionStatement(stmt *ast.ExpressionStatement) interface{} {
	return tb.item(stmt, "", tb.node(stmt.Expr))
}

func (tb treeBuilder) VisitReturn(stmt *ast.Return) interface{} {
	return tb.item(stmt, "", tb.node(stmt.Value))
}

func (tb treeBuilder) VisitUse(stmt *ast.Use) interface{} {
	return tb.item(stmt, stmt.Name)
}

func (tb treeBuilder) VisitIdentifier(expr *ast.Identifier) interface{} {
	return tb.item(expr, expr.Name)
}

func (tb treeBuilder) VisitStringLiteral(expr *ast.StringLiteral) interface{} {
	return tb.item(expr, ast.Quote(expr.Value))
}

func (tb treeBuilder) VisitNumberLiteral(expr *ast.NumberLiteral) interface{} {
	return tb.item(expr, fmt.Sprintf("%s (%s)", expr.Value, expr.Value.Width()))
}

func (tb treeBuilder) VisitBooleanLiteral(expr *ast.BooleanLiteral) interface{} {
	return tb.item(expr, fmt.Sprintf("%t", expr.Value))
}

func (tb treeBuilder) VisitComparison(expr *ast.Comparison) interface{} {
	return tb.item(expr, expr.Operator.String(), tb.node(expr.Left), tb.node(expr.Right))
}

func (tb treeBuilder) VisitIfShorthand(expr *ast.IfShorthand) interface{} {
	return tb.item(expr, "",
		tb.node(expr.Condition),
		&treeItem{label: "then", children: []*treeItem{tb.node(expr.Then)}},
		&treeItem{label: "else", children: []*treeItem{tb.node(expr.Otherwise)}},
	)
}

func (tb treeBuilder) VisitIfCondition(expr *ast.IfCondition) interface{} {
	item := tb.item(expr, "", tb.node(expr.Condition), tb.block("then", expr.Then))
	if expr.HasElse() {
		item.children = append(item.children, tb.block("else", expr.Else))
	}
	return item
}

func (tb treeBuilder) VisitAnonFunction(expr *ast.AnonFunction) interface{} {
	item := tb.item(expr, "")
	item.children = tb.block("", expr.Body).children
	return item
}

// Tree renders statements as an indented tree with source positions
func (r *Renderer) Tree(stmts []ast.Statement) string {
	var b strings.Builder
	tb := treeBuilder{}
	for _, stmt := range stmts {
		r.writeTree(&b, tb.node(stmt), "", "")
	}
	return b.String()
}

func (r *Renderer) writeTree(b *strings.Builder, item *treeItem, prefix, childPrefix string) {
	b.WriteString(r.paint(BranchStyle, prefix))
	if item.pos.Line > 0 {
		b.WriteString(r.paint(NodeStyle, item.label))
	} else {
		b.WriteString(r.paint(SubtitleStyle, item.label))
	}
	if item.detail != "" {
		b.WriteString(" ")
		b.WriteString(item.detail)
	}
	if item.pos.Line > 0 {
		b.WriteString(" ")
		b.WriteString(r.paint(PositionStyle, item.pos.String()))
	}
	b.WriteString("\n")

	for i, child := range item.children {
		if i == len(item.children)-1 {
			r.writeTree(b, child, childPrefix+"└─ ", childPrefix+"   ")
		} else {
			r.writeTree(b, child, childPrefix+"├─ ", childPrefix+"│  ")
		}
	}
}
