package server

import (
	"encoding/json"

	"github.com/msto63/fnlang/foundation/lang/lexer"
)

// Message types
const (
	TypeTokenize = "tokenize"
	TypeParse    = "parse"
	TypePing     = "ping"

	TypeTokens = "tokens"
	TypeAST    = "ast"
	TypeError  = "error"
	TypePong   = "pong"
)

// Request represents a client message
type Request struct {
	Type    string          `json:"type"`         // "tokenize", "parse", "ping"
	ID      string          `json:"id,omitempty"` // Echoed in the response
	Payload json.RawMessage `json:"payload"`      // Message-specific payload
}

// SourcePayload carries the program text for tokenize and parse
type SourcePayload struct {
	Source string `json:"source"`
}

// Response represents a server message
type Response struct {
	Type    string      `json:"type"` // "tokens", "ast", "error", "pong"
	ID      string      `json:"id,omitempty"`
	Payload interface{} `json:"payload"`
}

// TokensPayload is the response to a tokenize request
type TokensPayload struct {
	Tokens []lexer.TokenRecord `json:"tokens"`
}

// ASTPayload is the response to a parse request
type ASTPayload struct {
	RunID      string                   `json:"run_id"`
	Statements []map[string]interface{} `json:"statements"`
	SExpr      string                   `json:"sexpr"`
}

// PongPayload is the response to a ping
type PongPayload struct {
	Version  string `json:"version"`
	Protocol int    `json:"protocol"`
}
