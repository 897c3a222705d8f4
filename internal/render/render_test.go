package render

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	mdwlog "github.com/msto63/fnlang/foundation/core/log"
	"github.com/msto63/fnlang/foundation/lang"
	"github.com/msto63/fnlang/foundation/lang/ast"
	"github.com/msto63/fnlang/foundation/lang/lexer"
	"github.com/msto63/fnlang/foundation/lang/parser"
)

const scenario = "fn main() { let test = 5; if test > 5 { } }"

func mustParse(t *testing.T, src string) []ast.Statement {
	t.Helper()
	stmts, err := parser.ParseSource(src, parser.Options{})
	if err != nil {
		t.Fatalf("ParseSource() error = %v", err)
	}
	return stmts
}

func diagnosticFor(t *testing.T, src string) lang.Diagnostic {
	t.Helper()
	engine, err := lang.New(lang.Options{Logger: mdwlog.NewNop()})
	if err != nil {
		t.Fatalf("lang.New() error = %v", err)
	}
	checkErr := engine.Check(context.Background(), src)
	if checkErr == nil {
		t.Fatalf("Expected error for %q", src)
	}
	return lang.DiagnosticFrom(checkErr)
}

func TestRenderer_Tokens(t *testing.T) {
	tokens, err := lexer.Tokenize(`use io; let s = "a"; const n = 300;`)
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	out := New(Plain).Tokens(tokens[:3])
	expected := "POS  TYPE           VALUE\n" +
		"1:1  USE            use\n" +
		"1:5  IDENTIFIER     io\n" +
		"1:7  END_STATEMENT  ;\n"
	if out != expected {
		t.Errorf("Tokens() =\n%s\nwant\n%s", out, expected)
	}

	out = New(Plain).Tokens(tokens)
	if !strings.Contains(out, `"a"`) {
		t.Errorf("Expected quoted string value in\n%s", out)
	}
	if !strings.Contains(out, "300 (u16)") {
		t.Errorf("Expected number width in\n%s", out)
	}
}

func TestRenderer_Tree(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:  "Scenario",
			input: scenario,
			expected: "Function main 1:1\n" +
				"├─ Assignment let test 1:13\n" +
				"│  └─ NumberLiteral 5 (u8) 1:24\n" +
				"└─ ExpressionStatement 1:27\n" +
				"   └─ IfCondition 1:27\n" +
				"      ├─ Comparison > 1:30\n" +
				"      │  ├─ Identifier test 1:30\n" +
				"      │  └─ NumberLiteral 5 (u8) 1:37\n" +
				"      └─ then (empty)\n",
		},
		{
			name:  "Use and if-else",
			input: "use io;\nif a { } else { return b; }",
			expected: "Use io 1:1\n" +
				"ExpressionStatement 2:1\n" +
				"└─ IfCondition 2:1\n" +
				"   ├─ Identifier a 2:4\n" +
				"   ├─ then (empty)\n" +
				"   └─ else\n" +
				"      └─ Return 2:17\n" +
				"         └─ Identifier b 2:24\n",
		},
		{
			name:  "Shorthand",
			input: "if ok then 1 else false;",
			expected: "ExpressionStatement 1:1\n" +
				"└─ IfShorthand 1:1\n" +
				"   ├─ Identifier ok 1:4\n" +
				"   ├─ then\n" +
				"   │  └─ NumberLiteral 1 (u8) 1:12\n" +
				"   └─ else\n" +
				"      └─ BooleanLiteral false 1:19\n",
		},
		{
			name:     "Empty program",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := New(Plain).Tree(mustParse(t, tt.input))
			if out != tt.expected {
				t.Errorf("Tree() =\n%s\nwant\n%s", out, tt.expected)
			}
		})
	}
}

func TestRenderer_SExpr(t *testing.T) {
	out := New(Plain).SExpr(mustParse(t, scenario))
	if out != "(fn main ((let test 5) (if (> test 5) ())))\n" {
		t.Errorf("SExpr() = %q", out)
	}
	if New(Plain).SExpr(nil) != "" {
		t.Error("SExpr(nil) should be empty")
	}
}

func TestRenderer_Diagnostic(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		header    string
		caretLine string
	}{
		{
			name:      "Lexical error",
			input:     "let x = 5;\nlet y = @;",
			header:    "main.fn:2:9: error[LEXICAL] ",
			caretLine: "  |         ^",
		},
		{
			name:      "Syntax error",
			input:     "fn main() {\n  let x = y;\n}",
			header:    "main.fn:2:11: error[SYNTAX] ",
			caretLine: "  |           ^",
		},
		{
			name:      "Tab indented",
			input:     "fn main() {\n\tlet x = y;\n}",
			header:    "main.fn:2:10: error[SYNTAX] ",
			caretLine: "  | \t        ^",
		},
		{
			name:      "End of input",
			input:     "fn main() {\n",
			header:    "main.fn:2:1: error[SYNTAX] ",
			caretLine: "  | ^",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := diagnosticFor(t, tt.input)
			out := New(Plain).Diagnostic("main.fn", tt.input, d)
			lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
			if len(lines) != 3 {
				t.Fatalf("Expected 3 lines, got %q", out)
			}
			if !strings.HasPrefix(lines[0], tt.header) {
				t.Errorf("Header = %q, want prefix %q", lines[0], tt.header)
			}
			if lines[2] != tt.caretLine {
				t.Errorf("Caret line = %q, want %q", lines[2], tt.caretLine)
			}
		})
	}
}

func TestRenderer_DiagnosticWithoutLocation(t *testing.T) {
	d := lang.Diagnostic{Code: "INPUT_TOO_LARGE", Message: "input too large"}
	out := New(Plain).Diagnostic("big.fn", "", d)
	if out != "big.fn: error[INPUT_TOO_LARGE] input too large\n" {
		t.Errorf("Diagnostic() = %q", out)
	}
}

func TestRenderer_Check(t *testing.T) {
	r := New(Plain)

	ok := r.CheckOK("a.fn", 1, 1500*time.Microsecond)
	if ok != "ok a.fn: 1 statement (1.5ms)\n" {
		t.Errorf("CheckOK() = %q", ok)
	}

	failed := r.CheckFailed("b.fn", "let x = @;", diagnosticFor(t, "let x = @;"))
	if !strings.HasPrefix(failed, "FAIL b.fn\nb.fn:1:9: error[LEXICAL]") {
		t.Errorf("CheckFailed() = %q", failed)
	}
}

func TestEncode(t *testing.T) {
	tokens, err := lexer.Tokenize("let x = 5;")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Encode(&buf, FormatJSON, lexer.Dump(tokens)); err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		var decoded []map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if len(decoded) != 5 || decoded[3]["width"] != "u8" {
			t.Errorf("Unexpected JSON %s", buf.String())
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := Encode(&buf, FormatYAML, ast.Dump(mustParse(t, "let x = 5;"))); err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		var decoded []map[string]interface{}
		if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if len(decoded) != 1 || decoded[0]["type"] != "Assignment" {
			t.Errorf("Unexpected YAML %s", buf.String())
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		if err := Encode(&bytes.Buffer{}, Format("xml"), nil); err == nil {
			t.Error("Expected error for unsupported format")
		}
	})
}
