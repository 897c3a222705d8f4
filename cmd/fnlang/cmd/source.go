// ============================================================================
// fnlang - fnlang toolchain
// ============================================================================
//
// Package:     cmd
// Description: Source input helpers shared by subcommands
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package cmd

import (
	"io"
	"os"

	mdwerror "github.com/msto63/fnlang/foundation/core/error"
)

const stdinName = "<stdin>"

// readSource reads the named file, or stdin when path is empty or "-"
func readSource(stdin io.Reader, path string) (name, src string, err error) {
	if path == "" || path == "-" {
		data, readErr := io.ReadAll(stdin)
		if readErr != nil {
			return "", "", mdwerror.Wrap(readErr, "failed to read stdin").
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("cli.read")
		}
		return stdinName, string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		code := mdwerror.CodeInvalidInput
		if os.IsNotExist(err) {
			code = mdwerror.CodeNotFound
		}
		return "", "", mdwerror.Wrap(err, "failed to read source").
			WithCode(code).
			WithOperation("cli.read").
			WithDetail("path", path)
	}
	return path, string(data), nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
