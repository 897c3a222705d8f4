// ============================================================================
// fnlang - fnlang toolchain
// ============================================================================
//
// Package:     cmd
// Description: Root command, configuration loading and shared state
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/fnlang/foundation/core/error"
	mdwlog "github.com/msto63/fnlang/foundation/core/log"
	"github.com/msto63/fnlang/foundation/lang"
	"github.com/msto63/fnlang/internal/render"
	"github.com/msto63/fnlang/pkg/core/config"
	"github.com/msto63/fnlang/pkg/core/logging"
)

// errReported marks failures whose diagnostics were already printed
var errReported = errors.New("failed")

// app holds the state shared by all subcommands
type app struct {
	// Flags
	cfgFile   string
	verbose   bool
	logFormat string
	plain     bool
	exprInit  bool

	cfg      *config.Config
	logger   *mdwlog.Logger
	engine   *lang.Engine
	renderer *render.Renderer
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "fnlang",
		Short: "fnlang - tokenizer and parser toolchain",
		Long: `fnlang tokenizes and parses programs written in the fnlang toy language.

Commands:
  tokenize  - print the token stream
  parse     - print the syntax tree
  check     - report syntax errors
  repl      - interactive session
  watch     - re-check files on change
  serve     - websocket endpoint for editors`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $FNLANG_CONFIG or ./fnlang.toml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "log format: json, text or console")
	rootCmd.PersistentFlags().BoolVar(&a.plain, "plain", false, "disable colors and styles")
	rootCmd.PersistentFlags().BoolVar(&a.exprInit, "expr-init", false, "allow expressions as assignment initializers")

	rootCmd.AddCommand(
		newTokenizeCmd(a),
		newParseCmd(a),
		newCheckCmd(a),
		newReplCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the CLI
func Execute() error {
	rootCmd := NewRootCommand()
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// setup loads configuration and builds the logger, engine and renderer
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("expr-init") {
		cfg.Parser.ExpressionInitializers = a.exprInit
	}

	logCfg := logging.FromConfig("fnlang", cfg.General)
	logCfg.Output = cmd.ErrOrStderr()
	if a.verbose {
		logCfg.Level = "debug"
	}
	if a.logFormat != "" {
		if _, err := mdwlog.ParseFormat(a.logFormat); err != nil {
			return mdwerror.Newf("invalid log format: %s", a.logFormat).
				WithCode(mdwerror.CodeInvalidInput).
				WithOperation("cli.setup")
		}
		logCfg.Format = a.logFormat
	}
	a.logger = logging.NewLogger(logCfg)

	a.engine, err = lang.New(lang.Options{
		Logger: a.logger,
		Lexer:  cfg.LexerOptions(),
		Parser: cfg.ParserOptions(),
	})
	if err != nil {
		return err
	}

	mode := render.Styled
	if a.plain {
		mode = render.Plain
	}
	a.renderer = render.New(mode)
	a.cfg = cfg

	a.logger.Debug("Configuration loaded", logging.KV(
		"max_depth", cfg.Parser.MaxDepth,
		"max_input_length", cfg.Lexer.MaxInputLength,
		"expression_initializers", cfg.Parser.ExpressionInitializers,
	))
	return nil
}

// loadConfig reads --config, then FNLANG_CONFIG and the default paths, and
// falls back to defaults when no file exists
func (a *app) loadConfig() (*config.Config, error) {
	if a.cfgFile != "" {
		return config.Load(a.cfgFile)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		if mdwerror.HasCode(err, mdwerror.CodeMissingConfig) && os.Getenv(config.EnvConfigPath) == "" {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)
}
