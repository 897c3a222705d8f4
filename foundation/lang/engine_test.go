// File: engine_test.go
// Title: fnlang Pipeline Engine Tests
// Description: Tests for the engine facade: successful runs, structured
//              errors, diagnostics, cancellation and logging.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-25 v0.1.0: Initial integration tests
// - 2026-10-17 v0.2.0: Rewritten for the fnlang pipeline

package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/fnlang/foundation/core/error"
	mdwlog "github.com/msto63/fnlang/foundation/core/log"
	"github.com/msto63/fnlang/foundation/lang/ast"
	"github.com/msto63/fnlang/foundation/lang/lexer"
	"github.com/msto63/fnlang/foundation/lang/parser"
)

// syncBuffer guards a bytes.Buffer for concurrent writers
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Lines() []map[string]interface{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(b.buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

func newTestEngine(t *testing.T, opts Options) (*Engine, *syncBuffer) {
	t.Helper()
	buf := &syncBuffer{}
	opts.Logger = mdwlog.NewWithConfig(mdwlog.Config{
		Level:  mdwlog.LevelDebug,
		Format: mdwlog.FormatJSON,
		Output: buf,
	})
	engine, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return engine, buf
}

func TestEngine_Parse(t *testing.T) {
	engine, logs := newTestEngine(t, Options{})

	result, err := engine.Parse(context.Background(), "fn main() { let test = 5; if test > 5 { } }")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := uuid.Parse(result.RunID); err != nil {
		t.Errorf("Expected a UUID run ID, got %q", result.RunID)
	}
	if len(result.Tokens) != 17 {
		t.Errorf("Expected 17 tokens, got %d", len(result.Tokens))
	}
	if got := ast.SExpr(result.Statements); got != "(fn main ((let test 5) (if (> test 5) ())))" {
		t.Errorf("Unexpected tree %q", got)
	}

	entries := logs.Lines()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 log entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry["level"] != "debug" || entry["message"] != "parse completed" {
		t.Errorf("Unexpected log entry %v", entry)
	}
	if entry["run_id"] != result.RunID {
		t.Errorf("Expected run_id %s, got %v", result.RunID, entry["run_id"])
	}
	if entry["component"] != "lang-engine" || entry["statements"] != float64(1) {
		t.Errorf("Missing fields in %v", entry)
	}
}

func TestEngine_Tokenize(t *testing.T) {
	engine, _ := newTestEngine(t, Options{})

	tokens, err := engine.Tokenize(context.Background(), "use io;")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(tokens) != 3 || tokens[0].Type != lexer.TokenUse {
		t.Errorf("Unexpected tokens %v", tokens)
	}
}

func TestEngine_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		opts    Options
		code    mdwerror.Code
		line    int
		column  int
		prod    string
		checkAs func(t *testing.T, err error)
	}{
		{
			name:   "Lexical error",
			input:  "let x = 5;\nlet y = @;",
			code:   mdwerror.CodeLexical,
			line:   2,
			column: 9,
			checkAs: func(t *testing.T, err error) {
				var lexErr *lexer.LexError
				if !errors.As(err, &lexErr) || lexErr.Kind != lexer.ErrUnrecognizedCharacter {
					t.Errorf("Expected unrecognized character, got %v", err)
				}
			},
		},
		{
			name:   "Syntax error on token",
			input:  "fn main() {\n  let x = y;\n}",
			code:   mdwerror.CodeSyntax,
			line:   2,
			column: 11,
			prod:   parser.ProductionAssignment,
			checkAs: func(t *testing.T, err error) {
				var parseErr *parser.ParseError
				if !errors.As(err, &parseErr) || parseErr.Kind != parser.ErrUnexpectedToken {
					t.Errorf("Expected unexpected token, got %v", err)
				}
			},
		},
		{
			name:   "Syntax error at end of input",
			input:  "fn main() {\n  let x = 1;",
			code:   mdwerror.CodeSyntax,
			line:   2,
			column: 13,
			prod:   parser.ProductionFunction,
			checkAs: func(t *testing.T, err error) {
				var parseErr *parser.ParseError
				if !errors.As(err, &parseErr) || parseErr.Kind != parser.ErrUnterminatedBlock {
					t.Errorf("Expected unterminated block, got %v", err)
				}
			},
		},
		{
			name:  "Input too large",
			input: "let x = 1;",
			opts:  Options{Lexer: lexer.Options{MaxInputLength: 4}},
			code:  mdwerror.CodeInputTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, logs := newTestEngine(t, tt.opts)

			err := engine.Check(context.Background(), tt.input)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !mdwerror.HasCode(err, tt.code) {
				t.Errorf("Expected code %s, got %s", tt.code, mdwerror.GetCode(err))
			}
			if tt.checkAs != nil {
				tt.checkAs(t, err)
			}

			diag := DiagnosticFrom(err)
			if diag.Code != string(tt.code) {
				t.Errorf("Expected diagnostic code %s, got %s", tt.code, diag.Code)
			}
			if diag.Line != tt.line || diag.Column != tt.column {
				t.Errorf("Expected %d:%d, got %d:%d", tt.line, tt.column, diag.Line, diag.Column)
			}
			if diag.Production != tt.prod {
				t.Errorf("Expected production %q, got %q", tt.prod, diag.Production)
			}
			if diag.RunID == "" {
				t.Error("Expected run ID in diagnostic")
			}

			entries := logs.Lines()
			if len(entries) != 1 || entries[0]["level"] != "warn" {
				t.Errorf("Expected one warn entry, got %v", entries)
			}
		})
	}
}

func TestEngine_Canceled(t *testing.T) {
	engine, _ := newTestEngine(t, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Parse(ctx, "let x = 1;")
	if !mdwerror.HasCode(err, mdwerror.CodeCanceled) {
		t.Errorf("Expected canceled code, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Error("Expected context.Canceled in chain")
	}
}

func TestEngine_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"Negative input length", Options{Lexer: lexer.Options{MaxInputLength: -1}}},
		{"Negative depth", Options{Parser: parser.Options{MaxDepth: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Logger = mdwlog.NewNop()
			if _, err := New(tt.opts); !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
				t.Errorf("Expected invalid config error, got %v", err)
			}
		})
	}

	engine, err := New(Options{Logger: mdwlog.NewNop()})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if engine.Options().Parser.MaxDepth != parser.DefaultMaxDepth {
		t.Errorf("Expected default depth, got %d", engine.Options().Parser.MaxDepth)
	}
}

func TestEngine_ExpressionInitializers(t *testing.T) {
	engine, _ := newTestEngine(t, Options{Parser: parser.Options{ExpressionInitializers: true}})

	result, err := engine.Parse(context.Background(), "let ok = a >= 3;")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got := ast.SExpr(result.Statements); got != "(let ok (>= a 3))" {
		t.Errorf("Unexpected tree %q", got)
	}
}

func TestEngine_Concurrent(t *testing.T) {
	engine, logs := newTestEngine(t, Options{})

	var wg sync.WaitGroup
	ids := make([]string, 16)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := engine.Parse(context.Background(), "fn f() { return 1; }")
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			ids[i] = result.RunID
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			t.Errorf("Duplicate run ID %s", id)
		}
		seen[id] = true
	}
	if got := len(logs.Lines()); got != len(ids) {
		t.Errorf("Expected %d log entries, got %d", len(ids), got)
	}
}

func TestDiagnosticFrom_PlainErrors(t *testing.T) {
	if d := DiagnosticFrom(nil); d.Code != "" {
		t.Errorf("Expected empty diagnostic, got %+v", d)
	}

	d := DiagnosticFrom(errors.New("boom"))
	if d.Code != string(mdwerror.CodeUnknown) || d.HasLocation() {
		t.Errorf("Unexpected diagnostic %+v", d)
	}

	// Errors straight from the parser package carry their own position
	_, err := parser.ParseSource("let x = y;", parser.Options{})
	d = DiagnosticFrom(err)
	if d.Code != string(mdwerror.CodeSyntax) || d.Column != 9 {
		t.Errorf("Unexpected diagnostic %+v", d)
	}
}
