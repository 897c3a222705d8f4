// ============================================================================
// fnlang - fnlang toolchain
// ============================================================================
//
// Package:     cmd
// Description: tokenize subcommand
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/fnlang/foundation/core/error"
	"github.com/msto63/fnlang/foundation/lang"
	"github.com/msto63/fnlang/foundation/lang/lexer"
	"github.com/msto63/fnlang/internal/render"
)

func newTokenizeCmd(a *app) *cobra.Command {
	var output string

	tokenizeCmd := &cobra.Command{
		Use:   "tokenize [file]",
		Short: "Print the token stream of a source file",
		Long: `Tokenize a source file and print every token with its position.

Reads stdin when no file or "-" is given.

Output formats:
  table  - aligned columns (default)
  json   - token records as JSON
  yaml   - token records as YAML`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, src, err := readSource(cmd.InOrStdin(), firstArg(args))
			if err != nil {
				return err
			}

			tokens, err := a.engine.Tokenize(cmd.Context(), src)
			if err != nil {
				return a.report(cmd, name, src, err)
			}

			out := cmd.OutOrStdout()
			switch output {
			case "table":
				fmt.Fprint(out, a.renderer.Tokens(tokens))
				return nil
			case "json", "yaml":
				return render.Encode(out, render.Format(output), lexer.Dump(tokens))
			default:
				return unsupportedOutput(output)
			}
		},
	}

	tokenizeCmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return tokenizeCmd
}

// report prints a diagnostic for a pipeline error and returns errReported
func (a *app) report(cmd *cobra.Command, name, src string, err error) error {
	if mdwerror.HasCode(err, mdwerror.CodeCanceled) {
		return err
	}
	fmt.Fprint(cmd.ErrOrStderr(), a.renderer.Diagnostic(name, src, lang.DiagnosticFrom(err)))
	return errReported
}

func unsupportedOutput(output string) error {
	return mdwerror.Newf("unsupported output format: %s", output).
		WithCode(mdwerror.CodeInvalidInput).
		WithOperation("cli.output")
}
