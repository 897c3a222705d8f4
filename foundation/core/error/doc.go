// Package error provides structured error handling for the fnlang toolchain.
//
// Package: error
// Title: fnlang Error Handling
// Description: Implements a structured error type carrying a code, a severity,
//              the operation that failed and free-form details. Lexer and parser
//              errors are converted into this type at the pipeline boundary so
//              that the CLI, the websocket server and the logger can report them
//              uniformly while the original error stays reachable via errors.As.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-17
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with contextual errors and codes
// - 2026-10-17 v0.2.0: Reduced to the codes used by the language front end
//
// Usage:
//   import mdwerror "github.com/msto63/fnlang/foundation/core/error"
//
//   err := mdwerror.Wrap(lexErr, "tokenize failed").
//     WithCode(mdwerror.CodeLexical).
//     WithOperation("tokenize").
//     WithDetail("offset", 12)
//
//   if mdwerror.HasCode(err, mdwerror.CodeLexical) {
//     // report a lexical diagnostic
//   }
package error
