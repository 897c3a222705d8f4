// Package render turns tokens, syntax trees and diagnostics into terminal
// output. Styled output uses lipgloss; Plain output contains no escape codes.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/fnlang/foundation/lang"
	"github.com/msto63/fnlang/foundation/lang/ast"
	"github.com/msto63/fnlang/foundation/lang/lexer"
)

// Mode selects styled or plain output
type Mode int

const (
	// Styled output with colors
	Styled Mode = iota
	// Plain output for pipes and tests
	Plain
)

// Renderer renders pipeline results
type Renderer struct {
	mode Mode
}

// New creates a renderer
func New(mode Mode) *Renderer {
	return &Renderer{mode: mode}
}

// Mode returns the output mode
func (r *Renderer) Mode() Mode {
	return r.mode
}

func (r *Renderer) paint(style lipgloss.Style, s string) string {
	if r.mode == Plain || s == "" {
		return s
	}
	return style.Render(s)
}

// Tokens renders a token table with position, type and value columns
func (r *Renderer) Tokens(tokens []lexer.Token) string {
	rows := make([][3]string, 0, len(tokens))
	for _, tok := range tokens {
		rows = append(rows, [3]string{tok.Position.String(), tok.Type.String(), tokenValue(tok)})
	}

	header := [3]string{"POS", "TYPE", "VALUE"}
	var widths [3]int
	for col := range header {
		widths[col] = lipgloss.Width(header[col])
		for _, row := range rows {
			if w := lipgloss.Width(row[col]); w > widths[col] {
				widths[col] = w
			}
		}
	}

	var b strings.Builder
	b.WriteString(r.tableLine(header, widths, func(int) lipgloss.Style { return HeaderStyle }))
	for i, row := range rows {
		tok := tokens[i]
		b.WriteString(r.tableLine(row, widths, func(col int) lipgloss.Style {
			switch col {
			case 0:
				return PositionStyle
			case 1:
				return tokenStyle(tok.Type)
			default:
				return lipgloss.NewStyle()
			}
		}))
	}
	return b.String()
}

func (r *Renderer) tableLine(cells [3]string, widths [3]int, style func(col int) lipgloss.Style) string {
	parts := make([]string, len(cells))
	for col, cell := range cells {
		padded := cell
		if col < len(cells)-1 {
			padded = cell + strings.Repeat(" ", widths[col]-lipgloss.Width(cell))
		}
		parts[col] = r.paint(style(col), padded)
	}
	return strings.Join(parts, "  ") + "\n"
}

func tokenValue(tok lexer.Token) string {
	switch tok.Type {
	case lexer.TokenString:
		return ast.Quote(tok.Value)
	case lexer.TokenNumber:
		return fmt.Sprintf("%s (%s)", tok.Value, tok.Number.Width())
	default:
		return tok.Value
	}
}

func tokenStyle(t lexer.TokenType) lipgloss.Style {
	switch {
	case t.IsKeyword():
		return KeywordStyle
	case t.IsLiteral():
		return LiteralStyle
	case t == lexer.TokenIdentifier:
		return lipgloss.NewStyle()
	default:
		return OperatorStyle
	}
}

// SExpr renders statements as S-expressions, one per line
func (r *Renderer) SExpr(stmts []ast.Statement) string {
	out := ast.SExpr(stmts)
	if out == "" {
		return ""
	}
	return out + "\n"
}

// Diagnostic renders an error with the offending source line and a caret
// under the reported column
func (r *Renderer) Diagnostic(name, src string, d lang.Diagnostic) string {
	var b strings.Builder

	location := name
	switch {
	case d.HasLocation() && name != "":
		location = fmt.Sprintf("%s:%d:%d", name, d.Line, d.Column)
	case d.HasLocation():
		location = fmt.Sprintf("%d:%d", d.Line, d.Column)
	}
	if location != "" {
		b.WriteString(location)
		b.WriteString(": ")
	}
	b.WriteString(r.paint(StatusErrorStyle, fmt.Sprintf("error[%s]", d.Code)))
	b.WriteString(" ")
	b.WriteString(d.Message)
	b.WriteString("\n")

	if !d.HasLocation() {
		return b.String()
	}

	line := sourceLine(src, d.Line)
	gutter := fmt.Sprintf("%d", d.Line)
	pad := strings.Repeat(" ", len(gutter))

	fmt.Fprintf(&b, "%s %s %s\n", r.paint(PositionStyle, gutter), r.paint(BranchStyle, "|"), line)
	fmt.Fprintf(&b, "%s %s %s%s\n", pad, r.paint(BranchStyle, "|"), caretPrefix(line, d.Column), r.paint(CaretStyle, "^"))
	return b.String()
}

// sourceLine returns the 1-based line of src, or "" past the end
func sourceLine(src string, n int) string {
	lines := strings.Split(src, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[n-1], "\r")
}

// caretPrefix keeps tabs so the caret lines up with the source line
func caretPrefix(line string, column int) string {
	var b strings.Builder
	i := 1
	for _, ch := range line {
		if i >= column {
			break
		}
		if ch == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteRune(' ')
		}
		i++
	}
	for ; i < column; i++ {
		b.WriteRune(' ')
	}
	return b.String()
}

// CheckOK renders a successful check result
func (r *Renderer) CheckOK(name string, statements int, elapsed time.Duration) string {
	noun := "statements"
	if statements == 1 {
		noun = "statement"
	}
	return fmt.Sprintf("%s %s: %d %s (%s)\n",
		r.paint(StatusOKStyle, "ok"), name, statements, noun, elapsed.Round(time.Microsecond))
}

// CheckFailed renders a failed check result followed by the diagnostic
func (r *Renderer) CheckFailed(name, src string, d lang.Diagnostic) string {
	return r.paint(StatusErrorStyle, "FAIL") + " " + name + "\n" + r.Diagnostic(name, src, d)
}

// Title renders a heading
func (r *Renderer) Title(s string) string {
	return r.paint(TitleStyle, s)
}

// Help renders a muted help line
func (r *Renderer) Help(s string) string {
	return r.paint(HelpStyle, s)
}
