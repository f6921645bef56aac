// Package memchr implements forward byte search using SWAR (SIMD Within A
// Register) arithmetic.
//
// The dense DFA uses these routines to accelerate states whose outgoing
// transitions leave the state on at most three distinct bytes: instead of
// stepping the transition table once per input byte, the search skips
// directly to the next occurrence of one of the exit bytes. Eight haystack
// bytes are examined per uint64 operation, which is typically 2-5x faster
// than a byte-at-a-time loop on medium and large inputs.
package memchr

import (
	"encoding/binary"
	"math/bits"
)

const (
	lo8 = 0x0101010101010101
	hi8 = 0x8080808080808080
)

// Memchr returns the index of the first occurrence of needle in haystack,
// or -1 if needle is not present.
func Memchr(haystack []byte, needle byte) int {
	n := len(haystack)
	// Small inputs: the SWAR setup costs more than it saves.
	if n < 8 {
		for i := 0; i < n; i++ {
			if haystack[i] == needle {
				return i
			}
		}
		return -1
	}

	// Broadcast needle into every byte of a uint64.
	mask := uint64(needle) * lo8

	i := 0
	for i+8 <= n {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		// Matching bytes become zero; hasZero isolates their high bits.
		if z := hasZeroByte(chunk ^ mask); z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
		i += 8
	}
	for ; i < n; i++ {
		if haystack[i] == needle {
			return i
		}
	}
	return -1
}

// Memchr2 returns the index of the first occurrence of either n1 or n2 in
// haystack, or -1 if neither is present.
func Memchr2(haystack []byte, n1, n2 byte) int {
	n := len(haystack)
	if n < 8 {
		for i := 0; i < n; i++ {
			if b := haystack[i]; b == n1 || b == n2 {
				return i
			}
		}
		return -1
	}

	m1 := uint64(n1) * lo8
	m2 := uint64(n2) * lo8

	i := 0
	for i+8 <= n {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		z := hasZeroByte(chunk^m1) | hasZeroByte(chunk^m2)
		if z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
		i += 8
	}
	for ; i < n; i++ {
		if b := haystack[i]; b == n1 || b == n2 {
			return i
		}
	}
	return -1
}

// Memchr3 returns the index of the first occurrence of n1, n2 or n3 in
// haystack, or -1 if none is present.
func Memchr3(haystack []byte, n1, n2, n3 byte) int {
	n := len(haystack)
	if n < 8 {
		for i := 0; i < n; i++ {
			if b := haystack[i]; b == n1 || b == n2 || b == n3 {
				return i
			}
		}
		return -1
	}

	m1 := uint64(n1) * lo8
	m2 := uint64(n2) * lo8
	m3 := uint64(n3) * lo8

	i := 0
	for i+8 <= n {
		chunk := binary.LittleEndian.Uint64(haystack[i:])
		z := hasZeroByte(chunk^m1) | hasZeroByte(chunk^m2) | hasZeroByte(chunk^m3)
		if z != 0 {
			return i + bits.TrailingZeros64(z)/8
		}
		i += 8
	}
	for ; i < n; i++ {
		if b := haystack[i]; b == n1 || b == n2 || b == n3 {
			return i
		}
	}
	return -1
}

// hasZeroByte returns a word whose high bit is set in every byte position
// where v holds a zero byte (Hacker's Delight, section 6-1).
func hasZeroByte(v uint64) uint64 {
	return (v - lo8) & ^v & hi8
}
