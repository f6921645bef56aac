// Package conv provides checked narrowing conversions for the automata
// engine.
//
// These helpers panic on overflow. They are used only at construction and
// serialization boundaries, where an out-of-range value indicates a bug
// (for example a state count that was not validated against the configured
// size limit) rather than a recoverable condition.
package conv

import "math"

// IntToUint32 converts an int to uint32, panicking if it does not fit.
//
//go:inline
func IntToUint32(n int) uint32 {
	// Compare as uint so the check is valid on 32-bit platforms too.
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("conv: int value out of uint32 range")
	}
	return uint32(n)
}

// IntToUint16 converts an int to uint16, panicking if it does not fit.
//
//go:inline
func IntToUint16(n int) uint16 {
	if n < 0 || n > math.MaxUint16 {
		panic("conv: int value out of uint16 range")
	}
	return uint16(n)
}

// Uint64ToInt converts a uint64 to int, panicking if it does not fit.
//
//go:inline
func Uint64ToInt(n uint64) int {
	if n > math.MaxInt {
		panic("conv: uint64 value out of int range")
	}
	return int(n)
}
