package nfa

import (
	"fmt"
)

// StateID uniquely identifies an NFA state.
type StateID uint32

// InvalidState represents an invalid/uninitialized state ID.
const InvalidState StateID = 0xFFFFFFFF

// StateKind identifies the type of NFA state and determines which
// transitions are valid.
type StateKind uint8

const (
	// StateMatch represents a match (accepting) state.
	StateMatch StateKind = iota

	// StateByteRange represents a single byte-range transition [lo, hi].
	StateByteRange

	// StateSparse represents multiple byte-range transitions, as produced
	// by character classes like [a-zA-Z0-9].
	StateSparse

	// StateSplit represents an epsilon transition to two states, used for
	// alternation and repetition.
	StateSplit

	// StateEpsilon represents an epsilon transition to a single state.
	StateEpsilon

	// StateFail represents a dead state with no transitions.
	StateFail
)

// String returns a human-readable representation of the StateKind.
func (k StateKind) String() string {
	switch k {
	case StateMatch:
		return "Match"
	case StateByteRange:
		return "ByteRange"
	case StateSparse:
		return "Sparse"
	case StateSplit:
		return "Split"
	case StateEpsilon:
		return "Epsilon"
	case StateFail:
		return "Fail"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// State is a single NFA state. The state's kind determines which fields
// are valid.
type State struct {
	id   StateID
	kind StateKind

	// For ByteRange: inclusive bounds. next is also the target for Epsilon.
	lo, hi byte
	next   StateID

	// For Sparse: sorted, non-overlapping byte ranges.
	transitions []Transition

	// For Split: epsilon transitions to two states.
	left, right StateID
}

// Transition is a byte range with a target state, used by Sparse states.
type Transition struct {
	Lo   byte // inclusive lower bound
	Hi   byte // inclusive upper bound
	Next StateID
}

// ID returns the state's identifier.
func (s *State) ID() StateID { return s.id }

// Kind returns the state's type.
func (s *State) Kind() StateKind { return s.kind }

// IsMatch reports whether this is a match state.
func (s *State) IsMatch() bool { return s.kind == StateMatch }

// ByteRange returns the byte range for ByteRange states.
// Returns (0, 0, InvalidState) for other kinds.
func (s *State) ByteRange() (lo, hi byte, next StateID) {
	if s.kind == StateByteRange {
		return s.lo, s.hi, s.next
	}
	return 0, 0, InvalidState
}

// Split returns the two targets for Split states.
// Returns (InvalidState, InvalidState) for other kinds.
func (s *State) Split() (left, right StateID) {
	if s.kind == StateSplit {
		return s.left, s.right
	}
	return InvalidState, InvalidState
}

// Epsilon returns the target for Epsilon states.
// Returns InvalidState for other kinds.
func (s *State) Epsilon() StateID {
	if s.kind == StateEpsilon {
		return s.next
	}
	return InvalidState
}

// Transitions returns the range list for Sparse states, nil for other kinds.
func (s *State) Transitions() []Transition {
	if s.kind == StateSparse {
		return s.transitions
	}
	return nil
}

// String returns a human-readable representation of the state.
func (s *State) String() string {
	switch s.kind {
	case StateMatch:
		return fmt.Sprintf("State(%d, Match)", s.id)
	case StateByteRange:
		if s.lo == s.hi {
			return fmt.Sprintf("State(%d, ByteRange %#02x -> %d)", s.id, s.lo, s.next)
		}
		return fmt.Sprintf("State(%d, ByteRange [%#02x-%#02x] -> %d)", s.id, s.lo, s.hi, s.next)
	case StateSparse:
		return fmt.Sprintf("State(%d, Sparse %d ranges)", s.id, len(s.transitions))
	case StateSplit:
		return fmt.Sprintf("State(%d, Split -> [%d, %d])", s.id, s.left, s.right)
	case StateEpsilon:
		return fmt.Sprintf("State(%d, Epsilon -> %d)", s.id, s.next)
	case StateFail:
		return fmt.Sprintf("State(%d, Fail)", s.id)
	default:
		return fmt.Sprintf("State(%d, Unknown)", s.id)
	}
}

// NFA is a Thompson NFA compiled from a regexp/syntax.Regexp pattern.
//
// An NFA is immutable once built. It is consumed by the determinizer, which
// reads states through the accessors and never mutates the graph.
type NFA struct {
	states []State

	// startAnchored points directly at the compiled pattern.
	startAnchored StateID

	// startUnanchored points at the implicit (?s:.)*? prefix loop, so an
	// unanchored DFA search need not be restarted at every candidate
	// offset. Equal to startAnchored when no prefix was built.
	startUnanchored StateID

	// restartLoop is the byte-consuming state of the unanchored prefix,
	// or InvalidState when none was built. The determinizer excludes it
	// from the successors of match states so the leftmost match wins.
	restartLoop StateID

	// reversed records whether this NFA matches the reverse of the
	// pattern's language (built for the reverse DFA).
	reversed bool

	// byteClasses is the coarsest partition of the byte alphabet such that
	// bytes in the same class are treated identically by every transition.
	byteClasses ByteClasses
}

// StartAnchored returns the start state for anchored searches.
func (n *NFA) StartAnchored() StateID { return n.startAnchored }

// StartUnanchored returns the start state for unanchored searches.
func (n *NFA) StartUnanchored() StateID { return n.startUnanchored }

// RestartLoop returns the byte-consuming state of the unanchored restart
// prefix, or InvalidState when the NFA has none.
func (n *NFA) RestartLoop() StateID { return n.restartLoop }

// IsReversed reports whether this NFA matches the reversed language.
func (n *NFA) IsReversed() bool { return n.reversed }

// State returns the state with the given ID, or nil if the ID is invalid.
func (n *NFA) State(id StateID) *State {
	if id == InvalidState || int(id) >= len(n.states) {
		return nil
	}
	return &n.states[id]
}

// States returns the total number of states in the NFA.
func (n *NFA) States() int { return len(n.states) }

// ByteClasses returns the byte equivalence classes for this NFA.
func (n *NFA) ByteClasses() *ByteClasses { return &n.byteClasses }

// String returns a human-readable summary of the NFA.
func (n *NFA) String() string {
	return fmt.Sprintf("NFA{states: %d, startAnchored: %d, startUnanchored: %d, reversed: %v}",
		len(n.states), n.startAnchored, n.startUnanchored, n.reversed)
}
