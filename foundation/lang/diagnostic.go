// File: diagnostic.go
// Title: Pipeline Diagnostics
// Description: Flattens pipeline errors into a location-aware record used
//              by the CLI, the watcher and the websocket server.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.2.0: Initial implementation

package lang

import (
	"errors"

	mdwerror "github.com/msto63/fnlang/foundation/core/error"
	"github.com/msto63/fnlang/foundation/lang/lexer"
	"github.com/msto63/fnlang/foundation/lang/parser"
)

// Diagnostic describes a failed run
type Diagnostic struct {
	Code       string   `json:"code" yaml:"code"`
	Message    string   `json:"message" yaml:"message"`
	Offset     int      `json:"offset" yaml:"offset"`
	Line       int      `json:"line" yaml:"line"`
	Column     int      `json:"column" yaml:"column"`
	Production string   `json:"production,omitempty" yaml:"production,omitempty"`
	Expected   []string `json:"expected,omitempty" yaml:"expected,omitempty"`
	RunID      string   `json:"run_id,omitempty" yaml:"run_id,omitempty"`
}

// HasLocation reports whether the diagnostic points into the source
func (d Diagnostic) HasLocation() bool {
	return d.Line > 0
}

// DiagnosticFrom converts an error returned by the Engine. Errors that do not
// come from a pipeline run produce a diagnostic without location.
func DiagnosticFrom(err error) Diagnostic {
	if err == nil {
		return Diagnostic{}
	}

	d := Diagnostic{
		Code:    string(mdwerror.GetCode(err)),
		Message: err.Error(),
	}

	var mdwErr *mdwerror.Error
	if errors.As(err, &mdwErr) {
		d.RunID = mdwErr.RequestID()
	}

	var lexErr *lexer.LexError
	if errors.As(err, &lexErr) {
		d.Message = lexErr.Error()
		if d.Code == string(mdwerror.CodeUnknown) {
			d.Code = string(mdwerror.CodeLexical)
		}
		if lexErr.Kind != lexer.ErrInputTooLarge {
			d.Offset = lexErr.Position.Offset
			d.Line = lexErr.Position.Line
			d.Column = lexErr.Position.Column
		}
		return d
	}

	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		d.Message = parseErr.Error()
		d.Production = parseErr.Production
		d.Expected = parseErr.Expected
		if d.Code == string(mdwerror.CodeUnknown) {
			d.Code = string(mdwerror.CodeSyntax)
		}
		if mdwErr != nil {
			d.Offset = intDetail(mdwErr, "offset")
			d.Line = intDetail(mdwErr, "line")
			d.Column = intDetail(mdwErr, "column")
		} else if pos, ok := parseErr.Position(); ok {
			d.Offset = pos.Offset
			d.Line = pos.Line
			d.Column = pos.Column
		}
	}
	return d
}

func intDetail(err *mdwerror.Error, key string) int {
	v, ok := err.Detail(key)
	if !ok {
		return 0
	}
	n, _ := v.(int)
	return n
}
