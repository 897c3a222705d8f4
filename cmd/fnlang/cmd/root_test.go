package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/fnlang/foundation/core/error"
	"github.com/msto63/fnlang/foundation/lang/lexer"
)

const scenario = "fn main() { let test = 5; if test > 5 { } }"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// run executes the CLI with a quiet config file and plain output
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cfgPath := writeFile(t, t.TempDir(), "fnlang.toml", "[general]\nlog_level = \"error\"\n")

	root := NewRootCommand()
	var stdout, stderr bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", cfgPath, "--plain"}, args...))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestTokenize_Table(t *testing.T) {
	out, _, err := run(t, "use io;", "tokenize")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	expected := "POS  TYPE           VALUE\n" +
		"1:1  USE            use\n" +
		"1:5  IDENTIFIER     io\n" +
		"1:7  END_STATEMENT  ;\n"
	if out != expected {
		t.Errorf("Output =\n%s\nwant\n%s", out, expected)
	}
}

func TestTokenize_JSON(t *testing.T) {
	out, _, err := run(t, "use io;", "tokenize", "-o", "json")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var records []lexer.TokenRecord
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("Unmarshal() error = %v\n%s", err, out)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if records[0].Type != "USE" || records[1].Value != "io" {
		t.Errorf("Unexpected records %+v", records)
	}
}

func TestParse_Outputs(t *testing.T) {
	out, _, err := run(t, scenario, "parse", "-o", "sexpr")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "(fn main ((let test 5) (if (> test 5) ())))\n" {
		t.Errorf("sexpr output = %q", out)
	}

	out, _, err = run(t, scenario, "parse", "-o", "yaml")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	var decoded parseOutput
	if err := yaml.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v\n%s", err, out)
	}
	if decoded.RunID == "" {
		t.Error("Expected run_id in yaml output")
	}
	if len(decoded.Statements) != 1 || decoded.Statements[0]["type"] != "Function" {
		t.Errorf("Unexpected statements %v", decoded.Statements)
	}

	out, _, err = run(t, scenario, "parse")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(out, "Function main 1:1\n") {
		t.Errorf("tree output = %q", out)
	}
}

func TestParse_ReportsDiagnostic(t *testing.T) {
	out, stderr, err := run(t, "let x = 5;\nlet y = @;", "parse")
	if !errors.Is(err, errReported) {
		t.Fatalf("Expected errReported, got %v", err)
	}
	if out != "" {
		t.Errorf("Expected no stdout, got %q", out)
	}
	if !strings.HasPrefix(stderr, "<stdin>:2:9: error[LEXICAL]") {
		t.Errorf("Unexpected diagnostic %q", stderr)
	}
	if !strings.Contains(stderr, "2 | let y = @;\n") {
		t.Errorf("Expected source line in %q", stderr)
	}
}

func TestParse_ExpressionInitializers(t *testing.T) {
	_, _, err := run(t, "let ok = a >= 3;", "parse", "-o", "sexpr")
	if !errors.Is(err, errReported) {
		t.Fatalf("Expected bare literal initializer error, got %v", err)
	}

	out, _, err := run(t, "let ok = a >= 3;", "--expr-init", "parse", "-o", "sexpr")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if out != "(let ok (>= a 3))\n" {
		t.Errorf("Output = %q", out)
	}
}

func TestCommands_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code mdwerror.Code
	}{
		{"Tokenize output", []string{"tokenize", "-o", "xml"}, mdwerror.CodeInvalidInput},
		{"Parse output", []string{"parse", "-o", "table"}, mdwerror.CodeInvalidInput},
		{"Log format", []string{"--log-format", "xml", "parse"}, mdwerror.CodeInvalidInput},
		{"Missing file", []string{"parse", "does-not-exist.fn"}, mdwerror.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, "use io;", tt.args...)
			if !mdwerror.HasCode(err, tt.code) {
				t.Errorf("Expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestRoot_ExplicitConfigMissing(t *testing.T) {
	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "none.toml"), "parse"})

	err := root.Execute()
	if !mdwerror.HasCode(err, mdwerror.CodeMissingConfig) {
		t.Errorf("Expected CodeMissingConfig, got %v", err)
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.fn", "use io;\nlet x = 1;")
	bad := writeFile(t, dir, "bad.fn", "fn main() {\n  let x = 1;")

	out, _, err := run(t, "", "check", good)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(out, "ok "+good+": 2 statements (") {
		t.Errorf("Unexpected output %q", out)
	}

	out, _, err = run(t, "", "check", good, bad)
	if !errors.Is(err, errReported) {
		t.Fatalf("Expected errReported, got %v", err)
	}
	if !strings.Contains(out, "FAIL "+bad+"\n") {
		t.Errorf("Expected FAIL line in %q", out)
	}
	if !strings.Contains(out, bad+":2:13: error[SYNTAX]") {
		t.Errorf("Expected diagnostic in %q", out)
	}
}

func TestCheck_Stdin(t *testing.T) {
	out, _, err := run(t, "use io;", "check")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(out, "ok <stdin>: 1 statement (") {
		t.Errorf("Unexpected output %q", out)
	}
}

func TestWatch_Once(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.fn", "use io;")
	writeFile(t, dir, "b.fn", "let = ;")
	writeFile(t, dir, "notes.txt", "not source")

	out, _, err := run(t, "", "watch", "--once", dir)
	if !errors.Is(err, errReported) {
		t.Fatalf("Expected errReported, got %v", err)
	}

	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[0], "ok "+filepath.Join(dir, "a.fn")) {
		t.Errorf("Expected a.fn first, got %q", lines[0])
	}
	if !strings.Contains(out, "FAIL "+filepath.Join(dir, "b.fn")) {
		t.Errorf("Expected b.fn failure in %q", out)
	}
	if strings.Contains(out, "notes.txt") {
		t.Errorf("Non-source file was checked: %q", out)
	}
}

func TestVersion(t *testing.T) {
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", "ignored.toml", "version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	for _, want := range []string{"fnlang ", "lexer", "parser", "protocol 1"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected %q in %q", want, out.String())
		}
	}
}
