// ============================================================================
// fnlang - fnlang toolchain
// ============================================================================
//
// Package:     cmd
// Description: watch subcommand
// Author:      msto63
// Created:     2025-12-11
// License:     MIT
// ============================================================================

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/fnlang/foundation/core/log"
	"github.com/msto63/fnlang/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var once bool

	watchCmd := &cobra.Command{
		Use:   "watch [path...]",
		Short: "Re-check source files whenever they change",
		Long: `Check all matching files under the given paths, then keep checking
every file that is created or written until interrupted.

Defaults to the current directory. File extensions and the debounce
interval come from the [watch] config section.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}

			out := cmd.OutOrStdout()
			failed := 0
			handler := func(res watch.Result) {
				if res.OK() {
					fmt.Fprint(out, a.renderer.CheckOK(res.Path, res.Statements, res.Elapsed))
					return
				}
				failed++
				fmt.Fprint(out, a.renderer.CheckFailed(res.Path, res.Source, res.Diagnostic))
			}

			w, err := watch.New(a.engine, watch.Options{
				Debounce:   a.cfg.Watch.Debounce.Duration,
				Extensions: a.cfg.Watch.Extensions,
				Logger:     a.logger,
			}, handler)
			if err != nil {
				return err
			}

			for _, path := range args {
				if err := w.Add(path); err != nil {
					w.Close()
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w.CheckAll(ctx)
			if once {
				w.Close()
				if failed > 0 {
					return errReported
				}
				return nil
			}

			a.logger.Info("Watching for changes", mdwlog.Fields{
				"files": len(w.Files()),
			})
			return w.Run(ctx)
		},
	}

	watchCmd.Flags().BoolVar(&once, "once", false, "check all files once and exit")
	return watchCmd
}
