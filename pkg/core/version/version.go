// ============================================================================
// fnlang - fnlang toolchain
// ============================================================================
//
// Package:     version
// Description: Central version management for the toolchain components
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants for all fnlang components
const (
	// Toolchain version
	Toolchain = "0.2.0"

	// Component versions
	Lexer  = "0.2.0"
	Parser = "0.2.0"
	Server = "0.1.0"
)

// ProtocolVersion is reported by the websocket server
const ProtocolVersion = 1

// Commit and BuildDate are set through -ldflags at build time
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "lexer":
		return Lexer
	case "parser":
		return Parser
	case "server":
		return Server
	default:
		return Toolchain
	}
}

// Info returns a one-line build description
func Info() string {
	return fmt.Sprintf("fnlang %s (commit %s, built %s, %s)", Toolchain, Commit, BuildDate, runtime.Version())
}
