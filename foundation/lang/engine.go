// File: engine.go
// Title: fnlang Pipeline Engine
// Description: High-level interface that runs the tokenizer and parser,
//              tags runs with an ID, logs results and converts lexical and
//              syntax errors into structured errors with source positions.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-25 v0.1.0: Initial high-level engine implementation
// - 2026-10-17 v0.2.0: Tokenize/parse pipeline with run IDs

package lang

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/fnlang/foundation/core/error"
	mdwlog "github.com/msto63/fnlang/foundation/core/log"
	"github.com/msto63/fnlang/foundation/lang/ast"
	"github.com/msto63/fnlang/foundation/lang/lexer"
	"github.com/msto63/fnlang/foundation/lang/parser"
)

// Options configures the engine
type Options struct {
	Logger *mdwlog.Logger
	Lexer  lexer.Options
	Parser parser.Options
}

// Engine runs the fnlang front end. It is safe for concurrent use.
type Engine struct {
	logger  *mdwlog.Logger
	options Options
}

// Result is the outcome of a successful parse run
type Result struct {
	RunID      string
	Tokens     []lexer.Token
	Statements []ast.Statement
	Duration   time.Duration
}

// New creates a new engine
func New(opts Options) (*Engine, error) {
	if opts.Logger == nil {
		opts.Logger = mdwlog.GetDefault()
	}
	if opts.Lexer.MaxInputLength < 0 {
		return nil, mdwerror.Newf("max input length must not be negative, got %d", opts.Lexer.MaxInputLength).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("engine.new")
	}
	if opts.Parser.MaxDepth < 0 {
		return nil, mdwerror.Newf("max depth must not be negative, got %d", opts.Parser.MaxDepth).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("engine.new")
	}
	if opts.Parser.MaxDepth == 0 {
		opts.Parser.MaxDepth = parser.DefaultMaxDepth
	}

	return &Engine{
		logger:  opts.Logger.WithField("component", "lang-engine"),
		options: opts,
	}, nil
}

// Options returns the effective options
func (e *Engine) Options() Options {
	return e.options
}

// Tokenize runs the tokenizer only
func (e *Engine) Tokenize(ctx context.Context, src string) ([]lexer.Token, error) {
	runID := uuid.NewString()
	logger := e.logger.WithRunID(runID)

	if err := checkContext(ctx, "tokenize", runID); err != nil {
		return nil, err
	}

	timer := logger.StartTimer("tokenize").WithField("bytes", len(src))
	tokens, err := e.tokenize(src, runID)
	if err != nil {
		timer.StopWithError(err)
		return nil, err
	}
	timer.WithField("tokens", len(tokens)).Stop()
	return tokens, nil
}

// Parse tokenizes and parses src
func (e *Engine) Parse(ctx context.Context, src string) (*Result, error) {
	runID := uuid.NewString()
	logger := e.logger.WithRunID(runID)
	start := time.Now()

	if err := checkContext(ctx, "tokenize", runID); err != nil {
		return nil, err
	}

	timer := logger.StartTimer("parse").WithField("bytes", len(src))
	tokens, err := e.tokenize(src, runID)
	if err != nil {
		timer.StopWithError(err)
		return nil, err
	}

	if err := checkContext(ctx, "parse", runID); err != nil {
		timer.StopWithError(err)
		return nil, err
	}

	stmts, err := parser.ParseTokens(tokens, e.options.Parser)
	if err != nil {
		wrapped := wrapParseError(err, src, runID)
		timer.StopWithError(wrapped)
		return nil, wrapped
	}

	timer.WithField("tokens", len(tokens)).WithField("statements", len(stmts)).Stop()
	return &Result{
		RunID:      runID,
		Tokens:     tokens,
		Statements: stmts,
		Duration:   time.Since(start),
	}, nil
}

// Check parses src and reports only the error
func (e *Engine) Check(ctx context.Context, src string) error {
	_, err := e.Parse(ctx, src)
	return err
}

func (e *Engine) tokenize(src, runID string) ([]lexer.Token, error) {
	tokens, err := lexer.TokenizeWithOptions(src, e.options.Lexer)
	if err != nil {
		return nil, wrapLexError(err, runID)
	}
	return tokens, nil
}

func checkContext(ctx context.Context, operation, runID string) error {
	if err := ctx.Err(); err != nil {
		return mdwerror.Wrap(err, operation+" canceled").
			WithCode(mdwerror.CodeCanceled).
			WithOperation(operation).
			WithRequestID(runID)
	}
	return nil
}

func wrapLexError(err error, runID string) error {
	var lexErr *lexer.LexError
	if !errors.As(err, &lexErr) {
		return mdwerror.Wrap(err, "tokenize failed").
			WithCode(mdwerror.CodeInternal).
			WithOperation("tokenize").
			WithRequestID(runID)
	}

	code := mdwerror.CodeLexical
	if lexErr.Kind == lexer.ErrInputTooLarge {
		code = mdwerror.CodeInputTooLarge
	}

	return mdwerror.Wrap(err, "tokenize failed").
		WithCode(code).
		WithOperation("tokenize").
		WithRequestID(runID).
		WithDetails(map[string]interface{}{
			"kind":   lexErr.Kind.String(),
			"text":   lexErr.Text,
			"offset": lexErr.Position.Offset,
			"line":   lexErr.Position.Line,
			"column": lexErr.Position.Column,
		})
}

func wrapParseError(err error, src, runID string) error {
	var parseErr *parser.ParseError
	if !errors.As(err, &parseErr) {
		return mdwerror.Wrap(err, "parse failed").
			WithCode(mdwerror.CodeInternal).
			WithOperation("parse").
			WithRequestID(runID)
	}

	pos, ok := parseErr.Position()
	if !ok {
		pos = lexer.EndPosition(src)
	}

	return mdwerror.Wrap(err, "parse failed").
		WithCode(mdwerror.CodeSyntax).
		WithOperation("parse").
		WithRequestID(runID).
		WithDetails(map[string]interface{}{
			"kind":       parseErr.Kind.String(),
			"production": parseErr.Production,
			"found":      parseErr.Found(),
			"expected":   parseErr.Expected,
			"index":      parseErr.Index,
			"offset":     pos.Offset,
			"line":       pos.Line,
			"column":     pos.Column,
		})
}
