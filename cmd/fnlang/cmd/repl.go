// ============================================================================
// fnlang - fnlang toolchain
// ============================================================================
//
// Package:     cmd
// Description: Interactive REPL subcommand
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	mdwlog "github.com/msto63/fnlang/foundation/core/log"
	"github.com/msto63/fnlang/foundation/lang"
	"github.com/msto63/fnlang/internal/repl"
)

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive parse session",
		Long: `Start an interactive session that parses each submitted line.

Commands:
  :tokens  toggle the token table
  :sexpr   toggle S-expression output
  :clear   clear the transcript
  :help    show help
  :quit    exit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Log lines would corrupt the alternate screen
			engine, err := lang.New(lang.Options{
				Logger: mdwlog.NewNop(),
				Lexer:  a.cfg.LexerOptions(),
				Parser: a.cfg.ParserOptions(),
			})
			if err != nil {
				return err
			}
			return repl.Run(engine, a.renderer, tea.WithAltScreen())
		},
	}
}
