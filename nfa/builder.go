package nfa

import (
	"fmt"
)

// Builder constructs NFAs incrementally. It is used by the Compiler and is
// also usable directly when an automaton is assembled from something other
// than a parsed pattern.
//
// The builder enforces the configured state limit: Add* methods keep
// working past the limit, but the overflow is recorded and surfaced as
// ErrNFATooLarge when Build is called, so construction code does not need
// an error path at every node.
type Builder struct {
	states          []State
	startAnchored   StateID
	startUnanchored StateID
	restartLoop     StateID
	byteClassSet    *ByteClassSet
	stateLimit      int
	overLimit       bool
}

// NewBuilder creates a builder with the given state limit. A limit of zero
// or less means no limit.
func NewBuilder(stateLimit int) *Builder {
	return &Builder{
		states:          make([]State, 0, 16),
		startAnchored:   InvalidState,
		startUnanchored: InvalidState,
		restartLoop:     InvalidState,
		byteClassSet:    NewByteClassSet(),
		stateLimit:      stateLimit,
	}
}

func (b *Builder) push(s State) StateID {
	id := StateID(len(b.states))
	s.id = id
	b.states = append(b.states, s)
	if b.stateLimit > 0 && len(b.states) > b.stateLimit {
		b.overLimit = true
	}
	return id
}

// AddMatch adds a match (accepting) state and returns its ID.
func (b *Builder) AddMatch() StateID {
	return b.push(State{kind: StateMatch})
}

// AddByteRange adds a state transitioning on any byte in [lo, hi].
// For a single byte, set lo == hi.
func (b *Builder) AddByteRange(lo, hi byte, next StateID) StateID {
	b.byteClassSet.SetRange(lo, hi)
	return b.push(State{kind: StateByteRange, lo: lo, hi: hi, next: next})
}

// AddSparse adds a state with multiple byte-range transitions.
// The slice is copied to avoid aliasing.
func (b *Builder) AddSparse(transitions []Transition) StateID {
	for _, tr := range transitions {
		b.byteClassSet.SetRange(tr.Lo, tr.Hi)
	}
	trans := make([]Transition, len(transitions))
	copy(trans, transitions)
	return b.push(State{kind: StateSparse, transitions: trans})
}

// AddSplit adds a state with epsilon transitions to two states.
func (b *Builder) AddSplit(left, right StateID) StateID {
	return b.push(State{kind: StateSplit, left: left, right: right})
}

// AddEpsilon adds a state with a single epsilon transition.
func (b *Builder) AddEpsilon(next StateID) StateID {
	return b.push(State{kind: StateEpsilon, next: next})
}

// AddFail adds a dead state with no transitions.
func (b *Builder) AddFail() StateID {
	return b.push(State{kind: StateFail})
}

// Patch updates the target of a state with a single next pointer
// (ByteRange or Epsilon). Used to resolve forward references during
// compilation.
func (b *Builder) Patch(stateID, target StateID) error {
	if int(stateID) >= len(b.states) {
		return &BuildError{Message: "state ID out of bounds", StateID: stateID}
	}
	s := &b.states[stateID]
	switch s.kind {
	case StateByteRange, StateEpsilon:
		s.next = target
		return nil
	case StateSparse:
		for i := range s.transitions {
			if s.transitions[i].Next == InvalidState {
				s.transitions[i].Next = target
			}
		}
		return nil
	default:
		return &BuildError{
			Message: fmt.Sprintf("cannot patch state of kind %s", s.kind),
			StateID: stateID,
		}
	}
}

// PatchSplit updates both targets of a Split state.
func (b *Builder) PatchSplit(stateID, left, right StateID) error {
	if int(stateID) >= len(b.states) {
		return &BuildError{Message: "state ID out of bounds", StateID: stateID}
	}
	s := &b.states[stateID]
	if s.kind != StateSplit {
		return &BuildError{
			Message: fmt.Sprintf("expected Split state, got %s", s.kind),
			StateID: stateID,
		}
	}
	s.left = left
	s.right = right
	return nil
}

// SetStarts sets the anchored and unanchored start states.
func (b *Builder) SetStarts(anchored, unanchored StateID) {
	b.startAnchored = anchored
	b.startUnanchored = unanchored
}

// SetRestartLoop records the byte-consuming state of the unanchored
// restart prefix. Determinization drops this thread from the successors
// of match states, which is what makes an unanchored DFA reach the dead
// state once the leftmost match cannot be extended.
func (b *Builder) SetRestartLoop(loop StateID) {
	b.restartLoop = loop
}

// States returns the number of states added so far.
func (b *Builder) States() int {
	return len(b.states)
}

// OverLimit reports whether the builder has exceeded its state limit.
// Compilation loops check this between AST nodes to fail early on
// pathological patterns.
func (b *Builder) OverLimit() bool {
	return b.overLimit
}

// Validate checks that start states are set and all references are in
// bounds.
func (b *Builder) Validate() error {
	if b.startAnchored == InvalidState {
		return &BuildError{Message: "anchored start state not set", StateID: InvalidState}
	}
	if int(b.startAnchored) >= len(b.states) {
		return &BuildError{Message: "anchored start state out of bounds", StateID: b.startAnchored}
	}
	if b.startUnanchored == InvalidState {
		return &BuildError{Message: "unanchored start state not set", StateID: InvalidState}
	}
	if int(b.startUnanchored) >= len(b.states) {
		return &BuildError{Message: "unanchored start state out of bounds", StateID: b.startUnanchored}
	}

	for i, s := range b.states {
		id := StateID(i)
		check := func(target StateID) error {
			if target != InvalidState && int(target) >= len(b.states) {
				return &BuildError{
					Message: fmt.Sprintf("invalid target state %d", target),
					StateID: id,
				}
			}
			return nil
		}
		switch s.kind {
		case StateByteRange, StateEpsilon:
			if err := check(s.next); err != nil {
				return err
			}
		case StateSplit:
			if err := check(s.left); err != nil {
				return err
			}
			if err := check(s.right); err != nil {
				return err
			}
		case StateSparse:
			for _, t := range s.transitions {
				if err := check(t.Next); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Build finalizes the NFA. It fails with ErrNFATooLarge if the state limit
// was exceeded at any point during construction.
func (b *Builder) Build(reversed bool) (*NFA, error) {
	if b.overLimit {
		return nil, &CompileError{Err: ErrNFATooLarge}
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &NFA{
		states:          b.states,
		startAnchored:   b.startAnchored,
		startUnanchored: b.startUnanchored,
		restartLoop:     b.restartLoop,
		reversed:        reversed,
		byteClasses:     b.byteClassSet.ByteClasses(),
	}, nil
}
