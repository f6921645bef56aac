// Package dfa defines the surface shared by the deterministic automaton
// representations in dfa/dense and dfa/sparse: the Automaton read
// interface, the state ID width constraint, and the serialized format
// both representations use.
//
// A DFA here is always byte-oriented. Transitions are taken one input
// byte at a time (possibly through an equivalence-class map), so a single
// multi-byte rune crosses several states. Every automaton has a dead
// state from which no match can follow; reaching it ends a search early.
package dfa

import "encoding/binary"

// StateSize constrains the representable state ID widths. Smaller widths
// shrink the transition table at the cost of a lower state-count ceiling.
type StateSize interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Automaton is the read-only search interface implemented by dense and
// sparse DFAs of every state width.
//
// SearchForward scans haystack[at:] and reports the end offset of the
// leftmost-longest match, if any. When earliest is true it returns at the
// first byte position known to be inside a match, which is cheaper and
// sufficient for boolean matching. SearchReverse scans haystack[start:end]
// backwards with an anchored, reversed automaton and reports the start
// offset of the match ending at end.
type Automaton interface {
	SearchForward(haystack []byte, at int, earliest bool) (end int, ok bool)
	SearchReverse(haystack []byte, start, end int) (int, bool)

	// StateCount reports the number of states, including the dead state.
	StateCount() int
	// AlphabetLen reports the number of byte equivalence classes the
	// transition function is defined over (256 when classes are off).
	AlphabetLen() int
	// MemoryUsage reports the heap bytes backing the transition data.
	MemoryUsage() int

	// Serialize encodes the automaton in the given byte order. A buffer
	// serialized in native order can be deserialized without copying.
	Serialize(order binary.ByteOrder) ([]byte, error)
}
