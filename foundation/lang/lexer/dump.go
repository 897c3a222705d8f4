// File: dump.go
// Title: Token Serialization
// Description: Converts tokens into plain records for JSON and YAML output.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.2.0: Initial implementation

package lexer

// TokenRecord is the serialisable form of a token
type TokenRecord struct {
	Type   string `json:"type" yaml:"type"`
	Value  string `json:"value" yaml:"value"`
	Width  string `json:"width,omitempty" yaml:"width,omitempty"`
	Offset int    `json:"offset" yaml:"offset"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

// Dump converts tokens into records
func Dump(tokens []Token) []TokenRecord {
	records := make([]TokenRecord, 0, len(tokens))
	for _, tok := range tokens {
		rec := TokenRecord{
			Type:   tok.Type.String(),
			Value:  tok.Value,
			Offset: tok.Position.Offset,
			Line:   tok.Position.Line,
			Column: tok.Position.Column,
		}
		if tok.Type == TokenNumber {
			rec.Width = tok.Number.Width().String()
		}
		records = append(records, rec)
	}
	return records
}
