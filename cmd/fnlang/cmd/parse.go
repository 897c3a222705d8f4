// ============================================================================
// fnlang - fnlang toolchain
// ============================================================================
//
// Package:     cmd
// Description: parse subcommand
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msto63/fnlang/foundation/lang/ast"
	"github.com/msto63/fnlang/internal/render"
)

// parseOutput is the structured form of a parse run
type parseOutput struct {
	RunID      string                   `json:"run_id" yaml:"run_id"`
	Statements []map[string]interface{} `json:"statements" yaml:"statements"`
}

func newParseCmd(a *app) *cobra.Command {
	var output string

	parseCmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Print the syntax tree of a source file",
		Long: `Parse a source file and print its syntax tree.

Reads stdin when no file or "-" is given.

Output formats:
  tree   - indented tree (default)
  sexpr  - one S-expression per statement
  json   - node dump as JSON
  yaml   - node dump as YAML`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, src, err := readSource(cmd.InOrStdin(), firstArg(args))
			if err != nil {
				return err
			}

			result, err := a.engine.Parse(cmd.Context(), src)
			if err != nil {
				return a.report(cmd, name, src, err)
			}

			out := cmd.OutOrStdout()
			switch output {
			case "tree":
				fmt.Fprint(out, a.renderer.Tree(result.Statements))
				return nil
			case "sexpr":
				fmt.Fprint(out, a.renderer.SExpr(result.Statements))
				return nil
			case "json", "yaml":
				return render.Encode(out, render.Format(output), parseOutput{
					RunID:      result.RunID,
					Statements: ast.Dump(result.Statements),
				})
			default:
				return unsupportedOutput(output)
			}
		},
	}

	parseCmd.Flags().StringVarP(&output, "output", "o", "tree", "output format: tree, sexpr, json or yaml")
	return parseCmd
}
