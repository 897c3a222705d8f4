// ============================================================================
// fnlang - fnlang toolchain
// ============================================================================
//
// Package:     cmd
// Description: check subcommand
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/fnlang/foundation/core/error"
	mdwlog "github.com/msto63/fnlang/foundation/core/log"
	"github.com/msto63/fnlang/foundation/lang"
)

func newCheckCmd(a *app) *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check [file...]",
		Short: "Report syntax errors in source files",
		Long: `Parse every given file and report the first error in each.

Reads stdin when no file is given. Exits with status 1 if any file fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range args {
				name, src, err := readSource(cmd.InOrStdin(), path)
				if err != nil {
					failed++
					fmt.Fprint(out, a.renderer.CheckFailed(path, "", lang.DiagnosticFrom(err)))
					continue
				}

				result, err := a.engine.Parse(cmd.Context(), src)
				if err != nil {
					if mdwerror.HasCode(err, mdwerror.CodeCanceled) {
						return err
					}
					failed++
					fmt.Fprint(out, a.renderer.CheckFailed(name, src, lang.DiagnosticFrom(err)))
					continue
				}
				fmt.Fprint(out, a.renderer.CheckOK(name, len(result.Statements), result.Duration))
			}

			a.logger.Debug("Check finished", mdwlog.Fields{
				"files":  len(args),
				"failed": failed,
			})
			if failed > 0 {
				return errReported
			}
			return nil
		},
	}
	return checkCmd
}
