// ============================================================================
// fnlang - fnlang toolchain
// ============================================================================
//
// Package:     cache
// Description: Cache key derivation
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Key derives a fixed-size cache key from its parts
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
