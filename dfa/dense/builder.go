package dense

import (
	"fmt"

	"github.com/coregx/automata/dfa"
	"github.com/coregx/automata/internal/conv"
	"github.com/coregx/automata/internal/sparse"
	"github.com/coregx/automata/nfa"
)

// Builder determinizes an NFA into a dense DFA via subset construction.
type Builder struct {
	config Config
}

// NewBuilder creates a builder with the given configuration.
func NewBuilder(config Config) *Builder {
	return &Builder{config: config}
}

// Build runs subset construction and returns a uint32-ID dense DFA.
//
// Each DFA state corresponds to a set of NFA states (an epsilon closure,
// ordered by thread priority and truncated at its first match state).
// The worklist algorithm discovers sets reachable from the start closure,
// computing one transition per byte equivalence class. A canonical key
// (the ordered member IDs) deduplicates sets. When the configured
// SizeLimit is exceeded the build fails with ErrStateLimitExceeded
// rather than growing without bound.
//
// The resulting automaton has the dead state at ID 0 and all match states
// renumbered into the contiguous range [1, maxMatch]. When the
// configuration asks for minimization or premultiplication, those run as
// final passes here.
func (b *Builder) Build(n *nfa.NFA) (*DFA[uint32], error) {
	if err := b.config.Validate(); err != nil {
		return nil, err
	}

	var classes nfa.ByteClasses
	if b.config.ByteClasses {
		classes = *n.ByteClasses()
	} else {
		classes = nfa.SingletonByteClasses()
	}

	det := &determinizer{
		nfa:         n,
		classes:     classes,
		alphabetLen: classes.AlphabetLen(),
		reps:        classes.Representatives(),
		limit:       b.config.SizeLimit,
		cache:       make(map[string]uint32),
		visited:     sparse.NewSet(conv.IntToUint32(n.States())),
	}

	d, err := det.run(b.config.Anchored, n.IsReversed())
	if err != nil {
		return nil, err
	}

	if b.config.Minimize {
		d.Minimize()
	}
	d.computeAccel()
	if b.config.Premultiply {
		if err := d.Premultiply(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// dfaState is one subset-construction state: the NFA member IDs in
// priority order, which form its canonical identity, plus whether the
// set ends in a match state.
type dfaState struct {
	ids     []nfa.StateID
	isMatch bool
}

type determinizer struct {
	nfa         *nfa.NFA
	classes     nfa.ByteClasses
	alphabetLen int
	reps        []byte
	limit       int

	cache  map[string]uint32 // canonical key -> state index
	states []dfaState
	rows   [][]uint32

	visited  *sparse.Set
	seedBuf  []nfa.StateID
	dfsStack []nfa.StateID
	keyBuf   []byte
}

func (det *determinizer) run(anchored, reversed bool) (*DFA[uint32], error) {
	// The dead state is the empty set, pinned at index 0.
	if _, err := det.addState(nil, false); err != nil {
		return nil, err
	}

	startNFA := det.nfa.StartUnanchored()
	if anchored {
		startNFA = det.nfa.StartAnchored()
	}
	ids, isMatch := det.closure([]nfa.StateID{startNFA})
	start, err := det.addState(ids, isMatch)
	if err != nil {
		return nil, err
	}

	// Worklist: state indexes are appended in order, so scanning by index
	// visits every discovered state exactly once.
	for idx := 0; idx < len(det.states); idx++ {
		row := make([]uint32, det.alphabetLen)
		det.rows = append(det.rows, row)
		if idx == 0 {
			continue // dead state loops to itself on every input
		}
		for class, rep := range det.reps {
			ids, isMatch := det.move(det.states[idx], rep)
			next, err := det.addState(ids, isMatch)
			if err != nil {
				return nil, err
			}
			row[class] = next
		}
	}

	return det.finish(start, anchored, reversed), nil
}

// addState interns the closure under its canonical key, creating a new
// state index on first sight.
func (det *determinizer) addState(ids []nfa.StateID, isMatch bool) (uint32, error) {
	det.keyBuf = det.keyBuf[:0]
	for _, id := range ids {
		det.keyBuf = append(det.keyBuf, byte(id), byte(id>>8), byte(id>>16), byte(id>>24))
	}
	key := string(det.keyBuf)
	if idx, ok := det.cache[key]; ok {
		return idx, nil
	}
	if det.limit > 0 && len(det.states) >= det.limit {
		return 0, &dfa.BuildError{
			Kind:    dfa.StateLimitExceeded,
			Message: fmt.Sprintf("DFA state limit of %d exceeded", det.limit),
		}
	}
	idx := conv.IntToUint32(len(det.states))
	det.states = append(det.states, dfaState{ids: ids, isMatch: isMatch})
	det.cache[key] = idx
	return idx, nil
}

// move computes the epsilon-closed successor set of src on input byte b.
// Members are scanned in priority order, so the successor set inherits
// it: threads of earlier-starting candidates stay ahead of threads the
// restart loop seeds at the current offset.
func (det *determinizer) move(src dfaState, b byte) ([]nfa.StateID, bool) {
	seeds := det.seedBuf[:0]
	for _, id := range src.ids {
		s := det.nfa.State(id)
		switch s.Kind() {
		case nfa.StateByteRange:
			lo, hi, next := s.ByteRange()
			if lo <= b && b <= hi {
				seeds = append(seeds, next)
			}
		case nfa.StateSparse:
			for _, t := range s.Transitions() {
				if t.Lo <= b && b <= t.Hi {
					seeds = append(seeds, t.Next)
				}
			}
		}
	}
	det.seedBuf = seeds // reuse the backing array next time
	return det.closure(seeds)
}

// closure expands seeds through split and epsilon states in priority
// order: earlier seeds before later ones, split left branches before
// right. Byte-consuming and match states are emitted as they are
// reached, and the closure is truncated at the first match state: a
// thread of lower priority than a match can never win against it, so
// keeping it would let a later, overlapping candidate outlive the
// leftmost one. Truncation also cuts the restart loop out of every
// match set, which is what lets an unanchored automaton reach the dead
// state and end a scan.
func (det *determinizer) closure(seeds []nfa.StateID) ([]nfa.StateID, bool) {
	det.visited.Clear()
	var out []nfa.StateID
	stack := det.dfsStack[:0]
	for _, seed := range seeds {
		stack = append(stack[:0], seed)
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if det.visited.Contains(uint32(id)) {
				continue
			}
			det.visited.Insert(uint32(id))
			s := det.nfa.State(id)
			switch s.Kind() {
			case nfa.StateSplit:
				left, right := s.Split()
				// Push right first so the left branch is explored first.
				stack = append(stack, right, left)
			case nfa.StateEpsilon:
				stack = append(stack, s.Epsilon())
			case nfa.StateByteRange, nfa.StateSparse:
				out = append(out, id)
			case nfa.StateMatch:
				det.dfsStack = stack
				return append(out, id), true
			}
		}
	}
	det.dfsStack = stack
	return out, false
}

// finish renumbers states so match states are contiguous from 1 and
// flattens the rows into the final transition table.
func (det *determinizer) finish(start uint32, anchored, reversed bool) *DFA[uint32] {
	count := len(det.states)
	remap := make([]uint32, count)
	next := uint32(1)
	for i := 1; i < count; i++ {
		if det.states[i].isMatch {
			remap[i] = next
			next++
		}
	}
	maxMatch := next - 1
	for i := 1; i < count; i++ {
		if !det.states[i].isMatch {
			remap[i] = next
			next++
		}
	}

	table := make([]uint32, count*det.alphabetLen)
	for old, row := range det.rows {
		base := int(remap[old]) * det.alphabetLen
		for class, target := range row {
			table[base+class] = remap[target]
		}
	}

	return &DFA[uint32]{
		table:       table,
		classes:     det.classes,
		alphabetLen: det.alphabetLen,
		stateCount:  count,
		start:       remap[start],
		maxMatch:    maxMatch,
		anchored:    anchored,
		reversed:    reversed,
	}
}
