// File: parser.go
// Title: fnlang Recursive Descent Parser
// Description: Converts token slices into fnlang statements using recursive
//              descent with window lookahead. Reports the innermost failing
//              production and leaves the cursor on the offending token.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-25 v0.1.0: Initial parser implementation
// - 2026-10-17 v0.2.0: fnlang grammar over an indexed token slice

package parser

import (
	"github.com/msto63/fnlang/foundation/lang/ast"
	"github.com/msto63/fnlang/foundation/lang/lexer"
)

// DefaultMaxDepth limits nested blocks and expressions
const DefaultMaxDepth = 256

// Options configures parser behavior
type Options struct {
	// ExpressionInitializers allows any expression after "let x =".
	// When false the right hand side must be a single literal.
	ExpressionInitializers bool

	// MaxDepth limits nesting; 0 selects DefaultMaxDepth
	MaxDepth int
}

// Parser implements recursive descent parsing for fnlang. A Parser is
// single-use: Parse consumes its tokens.
type Parser struct {
	tokens  []lexer.Token
	pos     int
	depth   int
	options Options
}

var comparisonKinds = map[lexer.TokenType]ast.ComparisonKind{
	lexer.TokenEquals:       ast.Equal,
	lexer.TokenNotEqual:     ast.NotEqual,
	lexer.TokenGreaterThan:  ast.GreaterThan,
	lexer.TokenGreaterEqual: ast.GreaterOrEqual,
	lexer.TokenLessThan:     ast.LessThan,
	lexer.TokenLessEqual:    ast.LessOrEqual,
}

var symbols = map[lexer.TokenType]string{
	lexer.TokenFn:           `"fn"`,
	lexer.TokenThen:         `"then"`,
	lexer.TokenElse:         `"else"`,
	lexer.TokenBeginBlock:   `"{"`,
	lexer.TokenEndBlock:     `"}"`,
	lexer.TokenEndStatement: `";"`,
	lexer.TokenOpenParen:    `"("`,
	lexer.TokenCloseParen:   `")"`,
	lexer.TokenEquals:       `"="`,
	lexer.TokenIdentifier:   "identifier",
}

// New creates a parser over tokens
func New(tokens []lexer.Token, opts Options) *Parser {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Parser{
		tokens:  tokens,
		options: opts,
	}
}

// ParseTokens parses tokens into statements
func ParseTokens(tokens []lexer.Token, opts Options) ([]ast.Statement, error) {
	return New(tokens, opts).Parse()
}

// ParseSource tokenizes and parses src. Lexical errors are returned as
// *lexer.LexError.
func ParseSource(src string, opts Options) ([]ast.Statement, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens, opts)
}

// Parse parses all remaining tokens as top level statements
func (p *Parser) Parse() ([]ast.Statement, error) {
	stmts := []ast.Statement{}
	for p.pos < len(p.tokens) {
		if p.tokens[p.pos].Type == lexer.TokenEndBlock {
			return nil, p.fail(ErrUnexpectedToken, ProductionProgram, p.pos, "statement")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// Position returns the cursor index. After a failed parse it points at the
// offending token, or at len(tokens) when the input ended.
func (p *Parser) Position() int {
	return p.pos
}

// parseStatement dispatches on the current token
func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.tokens[p.pos].Type {
	case lexer.TokenFn:
		if p.peekIs(1, lexer.TokenOpenParen) {
			return p.parseExpressionStatement()
		}
		return p.parseFunction()
	case lexer.TokenLet, lexer.TokenConst:
		return p.parseAssignment()
	case lexer.TokenIf:
		return p.parseConditional()
	case lexer.TokenReturn:
		return p.parseReturn()
	case lexer.TokenUse:
		return p.parseUse()
	default:
		return p.parseExpressionStatement()
	}
}

// parseFunction parses fn NAME ( ) { BODY }
func (p *Parser) parseFunction() (ast.Statement, error) {
	start := p.pos
	err := p.matchWindow(ProductionFunction, 1,
		lexer.TokenIdentifier, lexer.TokenOpenParen, lexer.TokenCloseParen, lexer.TokenBeginBlock)
	if err != nil {
		return nil, err
	}

	name := p.tokens[start+1].Value
	p.pos += 5

	body, err := p.parseBlock(ProductionFunction)
	if err != nil {
		return nil, err
	}

	return &ast.Function{
		Name: name,
		Body: body,
		Pos:  p.tokens[start].Position,
	}, nil
}

// parseAssignment parses let|const NAME = VALUE ;
func (p *Parser) parseAssignment() (ast.Statement, error) {
	start := p.pos
	kind := ast.BindingLet
	if p.tokens[start].Type == lexer.TokenConst {
		kind = ast.BindingConst
	}

	if err := p.matchWindow(ProductionAssignment, 1, lexer.TokenIdentifier, lexer.TokenEquals); err != nil {
		return nil, err
	}
	if p.tokens[start+2].Value != "=" {
		return nil, p.fail(ErrUnexpectedToken, ProductionAssignment, start+2, `"="`)
	}

	assignment := &ast.Assignment{
		Name: p.tokens[start+1].Value,
		Kind: kind,
		Pos:  p.tokens[start].Position,
	}

	if p.options.ExpressionInitializers {
		p.pos += 3
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(ProductionAssignment, lexer.TokenEndStatement); err != nil {
			return nil, err
		}
		assignment.Value = value
		return assignment, nil
	}

	// Exact window: KW NAME = LITERAL ;
	valueIdx := start + 3
	if valueIdx >= len(p.tokens) {
		return nil, p.fail(ErrUnexpectedEOF, ProductionAssignment, valueIdx, "literal")
	}
	if !p.tokens[valueIdx].Type.IsLiteral() {
		return nil, p.fail(ErrUnexpectedToken, ProductionAssignment, valueIdx, "literal")
	}
	if err := p.matchWindow(ProductionAssignment, 4, lexer.TokenEndStatement); err != nil {
		return nil, err
	}

	assignment.Value = literal(p.tokens[valueIdx])
	p.pos += 5
	return assignment, nil
}

// parseConditional parses the statement form of if. After the condition a
// "then" selects the shorthand expression and a "{" selects the block form.
func (p *Parser) parseConditional() (ast.Statement, error) {
	ifTok := p.tokens[p.pos]
	p.pos++

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	next, ok := p.current()
	if !ok {
		return nil, p.fail(ErrUnexpectedEOF, ProductionConditional, p.pos, `"then"`, `"{"`)
	}

	switch next.Type {
	case lexer.TokenThen:
		expr, err := p.parseShorthandBranches(ProductionConditional, ifTok, cond)
		if err != nil {
			return nil, err
		}
		p.skipEndStatement()
		return &ast.ExpressionStatement{Expr: expr, Pos: ifTok.Position}, nil

	case lexer.TokenBeginBlock:
		p.pos++
		then, err := p.parseBlock(ProductionConditional)
		if err != nil {
			return nil, err
		}

		ifCond := &ast.IfCondition{
			Condition: cond,
			Then:      then,
			Pos:       ifTok.Position,
		}

		if p.peekIs(0, lexer.TokenElse) {
			p.pos++
			if _, err := p.expect(ProductionConditional, lexer.TokenBeginBlock); err != nil {
				return nil, err
			}
			otherwise, err := p.parseBlock(ProductionConditional)
			if err != nil {
				return nil, err
			}
			ifCond.Else = otherwise
		}
		return &ast.ExpressionStatement{Expr: ifCond, Pos: ifTok.Position}, nil

	default:
		return nil, p.fail(ErrUnexpectedToken, ProductionConditional, p.pos, `"then"`, `"{"`)
	}
}

// parseReturn parses return EXPR [;]
func (p *Parser) parseReturn() (ast.Statement, error) {
	retTok := p.tokens[p.pos]
	p.pos++

	if !p.peekExpressionStart() {
		return nil, p.failHere(ProductionReturn, "expression")
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.skipEndStatement()

	return &ast.Return{Value: value, Pos: retTok.Position}, nil
}

// parseUse parses use NAME ;
func (p *Parser) parseUse() (ast.Statement, error) {
	start := p.pos
	if err := p.matchWindow(ProductionUse, 1, lexer.TokenIdentifier, lexer.TokenEndStatement); err != nil {
		return nil, err
	}
	p.pos += 3
	return &ast.Use{Name: p.tokens[start+1].Value, Pos: p.tokens[start].Position}, nil
}

// parseExpressionStatement parses EXPR [;]
func (p *Parser) parseExpressionStatement() (ast.Statement, error) {
	pos := p.tokens[p.pos].Position
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.skipEndStatement()
	return &ast.ExpressionStatement{Expr: expr, Pos: pos}, nil
}

// parseBlock parses statements up to and including the closing brace. The
// opening brace is already consumed.
func (p *Parser) parseBlock(production string) ([]ast.Statement, error) {
	if err := p.enter(production); err != nil {
		return nil, err
	}
	defer p.leave()

	body := []ast.Statement{}
	for {
		tok, ok := p.current()
		if !ok {
			return nil, p.fail(ErrUnterminatedBlock, production, p.pos, `"}"`)
		}
		if tok.Type == lexer.TokenEndBlock {
			p.pos++
			return body, nil
		}

		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
}

// parseExpression parses primary { cmpop primary }, left associative
func (p *Parser) parseExpression() (ast.Expression, error) {
	if err := p.enter(ProductionExpression); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		tok, ok := p.current()
		if !ok {
			return left, nil
		}
		op, isComparison := comparisonKinds[tok.Type]
		if !isComparison {
			return left, nil
		}
		p.pos++

		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &ast.Comparison{
			Left:     left,
			Right:    right,
			Operator: op,
			Pos:      left.Position(),
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok, ok := p.current()
	if !ok {
		return nil, p.fail(ErrUnexpectedEOF, ProductionExpression, p.pos, "expression")
	}

	switch tok.Type {
	case lexer.TokenIdentifier:
		p.pos++
		return &ast.Identifier{Name: tok.Value, Pos: tok.Position}, nil

	case lexer.TokenString, lexer.TokenNumber, lexer.TokenBoolean:
		p.pos++
		return literal(tok), nil

	case lexer.TokenOpenParen:
		p.pos++
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(ProductionExpression, lexer.TokenCloseParen); err != nil {
			return nil, err
		}
		return inner, nil

	case lexer.TokenIf:
		return p.parseIfExpression()

	case lexer.TokenFn:
		return p.parseAnonFunction()

	default:
		return nil, p.fail(ErrUnexpectedToken, ProductionExpression, p.pos, "expression")
	}
}

// parseIfExpression parses if C then A else B in expression position
func (p *Parser) parseIfExpression() (ast.Expression, error) {
	ifTok := p.tokens[p.pos]
	p.pos++

	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.peekIs(0, lexer.TokenThen) {
		return nil, p.failHere(ProductionIfExpression, `"then"`)
	}
	return p.parseShorthandBranches(ProductionIfExpression, ifTok, cond)
}

// parseShorthandBranches parses then A else B; the cursor is on "then"
func (p *Parser) parseShorthandBranches(production string, ifTok lexer.Token, cond ast.Expression) (ast.Expression, error) {
	p.pos++

	then, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(production, lexer.TokenElse); err != nil {
		return nil, err
	}
	otherwise, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &ast.IfShorthand{
		Condition: cond,
		Then:      then,
		Otherwise: otherwise,
		Pos:       ifTok.Position,
	}, nil
}

// parseAnonFunction parses fn ( ) { BODY }
func (p *Parser) parseAnonFunction() (ast.Expression, error) {
	start := p.pos
	err := p.matchWindow(ProductionAnonymousFunction, 1,
		lexer.TokenOpenParen, lexer.TokenCloseParen, lexer.TokenBeginBlock)
	if err != nil {
		return nil, err
	}
	p.pos += 4

	body, err := p.parseBlock(ProductionAnonymousFunction)
	if err != nil {
		return nil, err
	}
	return &ast.AnonFunction{Body: body, Pos: p.tokens[start].Position}, nil
}

// Helper methods

func (p *Parser) current() (lexer.Token, bool) {
	return p.peek(0)
}

// peek returns the token n positions ahead without consuming it
func (p *Parser) peek(n int) (lexer.Token, bool) {
	idx := p.pos + n
	if idx < 0 || idx >= len(p.tokens) {
		return lexer.Token{}, false
	}
	return p.tokens[idx], true
}

func (p *Parser) peekIs(n int, tt lexer.TokenType) bool {
	tok, ok := p.peek(n)
	return ok && tok.Type == tt
}

func (p *Parser) peekExpressionStart() bool {
	tok, ok := p.current()
	if !ok {
		return false
	}
	switch tok.Type {
	case lexer.TokenIdentifier, lexer.TokenString, lexer.TokenNumber, lexer.TokenBoolean,
		lexer.TokenOpenParen, lexer.TokenIf, lexer.TokenFn:
		return true
	}
	return false
}

// matchWindow checks that the tokens at offset, offset+1, ... have the given
// types without consuming anything
func (p *Parser) matchWindow(production string, offset int, shape ...lexer.TokenType) error {
	for i, tt := range shape {
		idx := p.pos + offset + i
		if idx >= len(p.tokens) {
			return p.fail(ErrUnexpectedEOF, production, idx, symbol(tt))
		}
		if p.tokens[idx].Type != tt {
			return p.fail(ErrUnexpectedToken, production, idx, symbol(tt))
		}
	}
	return nil
}

// expect consumes a token of type tt
func (p *Parser) expect(production string, tt lexer.TokenType) (lexer.Token, error) {
	tok, ok := p.current()
	if !ok || tok.Type != tt {
		return lexer.Token{}, p.failHere(production, symbol(tt))
	}
	p.pos++
	return tok, nil
}

func (p *Parser) skipEndStatement() {
	if p.peekIs(0, lexer.TokenEndStatement) {
		p.pos++
	}
}

func (p *Parser) enter(production string) error {
	p.depth++
	if p.depth > p.options.MaxDepth {
		return p.fail(ErrNestingTooDeep, production, p.pos)
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

// failHere reports the current token, or end of input
func (p *Parser) failHere(production string, expected ...string) *ParseError {
	if p.pos >= len(p.tokens) {
		return p.fail(ErrUnexpectedEOF, production, p.pos, expected...)
	}
	return p.fail(ErrUnexpectedToken, production, p.pos, expected...)
}

// fail builds the error and moves the cursor onto the offending token
func (p *Parser) fail(kind ErrorKind, production string, index int, expected ...string) *ParseError {
	if index > len(p.tokens) {
		index = len(p.tokens)
	}
	p.pos = index

	err := &ParseError{
		Kind:       kind,
		Production: production,
		Index:      index,
		Expected:   expected,
	}
	if index < len(p.tokens) {
		tok := p.tokens[index]
		err.Token = &tok
	}
	return err
}

func literal(tok lexer.Token) ast.Expression {
	switch tok.Type {
	case lexer.TokenString:
		return &ast.StringLiteral{Value: tok.Value, Pos: tok.Position}
	case lexer.TokenNumber:
		return &ast.NumberLiteral{Raw: tok.Value, Value: tok.Number, Pos: tok.Position}
	default:
		return &ast.BooleanLiteral{Value: tok.Value == "true", Pos: tok.Position}
	}
}

func symbol(tt lexer.TokenType) string {
	if s, ok := symbols[tt]; ok {
		return s
	}
	return tt.String()
}
