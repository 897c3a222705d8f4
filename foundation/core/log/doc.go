// Package log provides structured logging for the fnlang toolchain.
//
// Package: log
// Title: Structured Logging
// Description: Implements a small structured logger with levels, persistent
//              context fields, JSON/text/console formatters and operation
//              timers. The lexer and parser never log; the pipeline facade,
//              the CLI and the servers do.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with structured logging and error integration
// - 2026-10-17 v0.2.0: Dropped async buffering and audit level, run IDs replace request IDs
//
// Usage:
//   import mdwlog "github.com/msto63/fnlang/foundation/core/log"
//
//   logger := mdwlog.NewWithConfig(mdwlog.Config{Level: mdwlog.LevelDebug, Format: mdwlog.FormatText})
//   logger = logger.WithField("component", "lang-engine")
//   logger.Debug("Parsing source", mdwlog.Fields{"length": len(src)})
//
//   timer := logger.StartTimer("parse")
//   defer timer.Stop()
package log
