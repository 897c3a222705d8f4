// ============================================================================
// fnlang - fnlang toolchain
// ============================================================================
//
// Package:     cmd
// Description: Websocket server subcommand
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/msto63/fnlang/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		host string
		port int
	)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve tokenize and parse requests over websocket",
		Long: `Start a websocket endpoint at /ws that answers tokenize, parse and
ping requests, plus a /health endpoint.

Host and port default to the [server] config section.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := server.Config{
				Host:           a.cfg.Server.Host,
				Port:           a.cfg.Server.Port,
				ReadTimeout:    a.cfg.Server.ReadTimeout.Duration,
				WriteTimeout:   a.cfg.Server.WriteTimeout.Duration,
				MaxMessageSize: a.cfg.Server.MaxMessageSize,
				CacheEntries:   a.cfg.Server.CacheEntries,
				CacheTTL:       a.cfg.Server.CacheTTL.Duration,
				AllowedOrigins: a.cfg.Server.AllowedOrigins,
			}
			if cmd.Flags().Changed("host") {
				cfg.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.New(a.engine, cfg, a.logger).Start(ctx)
		},
	}

	serveCmd.Flags().StringVar(&host, "host", "", "listen host")
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "listen port")
	return serveCmd
}
