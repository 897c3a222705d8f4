// ============================================================================
// fnlang - fnlang toolchain
// ============================================================================
//
// Package:     main
// Description: fnlang command line entry point
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package main

import (
	"os"

	"github.com/msto63/fnlang/cmd/fnlang/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
