// File: number.go
// Title: Numeric Literal Values
// Description: Unsigned 128-bit values for numeric literals together with
//              the smallest unsigned width that can hold them.
// Author: msto63
// Version: v0.2.0
// Created: 2026-10-17
// Modified: 2026-10-17
//
// Change History:
// - 2026-10-17 v0.2.0: Initial implementation

package lexer

import (
	"errors"
	"math"

	"lukechampine.com/uint128"
)

// errNumberOverflow is returned by ParseNumber for values above 2^128 - 1
var errNumberOverflow = errors.New("number exceeds 128 bits")

// maxBeforeShift is the largest value that can be multiplied by ten
var maxBeforeShift = uint128.Max.Div64(10)

// Width is the smallest unsigned integer width that holds a value
type Width int

const (
	U8 Width = iota
	U16
	U32
	U64
	U128
)

// String returns the width as a type name
func (w Width) String() string {
	switch w {
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	case U128:
		return "u128"
	default:
		return "unknown"
	}
}

// Number is the value of a numeric literal
type Number struct {
	value uint128.Uint128
}

// NumberFrom64 creates a Number from a uint64
func NumberFrom64(v uint64) Number {
	return Number{value: uint128.From64(v)}
}

// ParseNumber parses a run of ASCII decimal digits
func ParseNumber(digits string) (Number, error) {
	if digits == "" {
		return Number{}, errors.New("empty number")
	}

	v := uint128.Zero
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return Number{}, errors.New("invalid digit in number")
		}
		if v.Cmp(maxBeforeShift) > 0 {
			return Number{}, errNumberOverflow
		}
		v = v.Mul64(10)

		d := uint64(c - '0')
		if v.Cmp(uint128.Max.Sub64(d)) > 0 {
			return Number{}, errNumberOverflow
		}
		v = v.Add64(d)
	}
	return Number{value: v}, nil
}

// Equal compares two numbers
func (n Number) Equal(other Number) bool {
	return n.value.Equals(other.value)
}

// Width returns the smallest unsigned width that holds the value
func (n Number) Width() Width {
	switch {
	case n.value.Hi != 0:
		return U128
	case n.value.Lo > math.MaxUint32:
		return U64
	case n.value.Lo > math.MaxUint16:
		return U32
	case n.value.Lo > math.MaxUint8:
		return U16
	default:
		return U8
	}
}

// String returns the decimal representation
func (n Number) String() string {
	return n.value.String()
}

// MarshalText implements encoding.TextMarshaler
func (n Number) MarshalText() ([]byte, error) {
	return []byte(n.value.String()), nil
}
