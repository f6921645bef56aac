// Package dense implements a fully-built deterministic finite automaton
// backed by a flat transition table.
//
// A dense DFA stores stateCount x alphabetLen state IDs in a single
// slice, so taking a transition is one bounds-checked load. The alphabet
// is the set of byte equivalence classes computed during NFA
// construction; with classes disabled it is all 256 byte values.
//
// State IDs are generic over their width (uint8 through uint64). The
// builder always produces a uint32 automaton; To converts it to the
// narrowest width that fits. IDs can additionally be premultiplied by the
// alphabet length, turning them into table offsets.
//
// Two invariants hold in every dense DFA:
//
//   - State 0 is the dead state. All of its transitions point to itself
//     and reaching it means no match can follow.
//   - Match states occupy the contiguous ID range [1, maxMatch], so the
//     match check is a pair of integer compares rather than a bitmap
//     lookup.
package dense

import (
	"fmt"
	"math"
	"strings"

	"github.com/coregx/automata/dfa"
	"github.com/coregx/automata/internal/wire"
	"github.com/coregx/automata/nfa"
)

// maxAccelBytes is the most distinct bytes start-state acceleration will
// search for; beyond that a memchr sweep stops paying off.
const maxAccelBytes = 3

// accel describes start-state acceleration: the set of bytes that move
// the start state forward. When the search sits in the start state it can
// skip ahead with memchr instead of stepping byte by byte.
type accel struct {
	enabled bool
	n       int
	bytes   [maxAccelBytes]byte
}

// DFA is a dense deterministic automaton with state IDs of width S.
//
// A DFA is immutable after construction and safe for concurrent
// searches.
type DFA[S dfa.StateSize] struct {
	// table holds stateCount*alphabetLen transitions, row per state.
	table       []S
	classes     nfa.ByteClasses
	alphabetLen int
	stateCount  int
	start       S
	// maxMatch is the largest match state ID; with premultiplied IDs it
	// is the largest match table offset. Zero means no match states.
	maxMatch      S
	premultiplied bool
	anchored      bool
	reversed      bool
	accel         accel
}

var _ dfa.Automaton = (*DFA[uint32])(nil)

// Start returns the start state ID.
func (d *DFA[S]) Start() S { return d.start }

// StateCount reports the number of states, including the dead state.
func (d *DFA[S]) StateCount() int { return d.stateCount }

// AlphabetLen reports the number of byte equivalence classes.
func (d *DFA[S]) AlphabetLen() int { return d.alphabetLen }

// IsAnchored reports whether the automaton only matches where the search
// starts.
func (d *DFA[S]) IsAnchored() bool { return d.anchored }

// IsReversed reports whether the automaton was built from a reverse NFA
// and therefore scans right to left.
func (d *DFA[S]) IsReversed() bool { return d.reversed }

// IsPremultiplied reports whether state IDs are table offsets.
func (d *DFA[S]) IsPremultiplied() bool { return d.premultiplied }

// ByteClasses returns the equivalence class table.
func (d *DFA[S]) ByteClasses() *nfa.ByteClasses { return &d.classes }

// MemoryUsage reports the heap bytes backing the transition table.
func (d *DFA[S]) MemoryUsage() int {
	return len(d.table) * wire.Size[S]()
}

// NextState returns the state reached from id on input byte b.
func (d *DFA[S]) NextState(id S, b byte) S {
	if d.premultiplied {
		return d.table[int(id)+int(d.classes.Get(b))]
	}
	return d.table[int(id)*d.alphabetLen+int(d.classes.Get(b))]
}

// IsMatch reports whether id is a match state.
func (d *DFA[S]) IsMatch(id S) bool {
	return id != 0 && id <= d.maxMatch
}

// IsDead reports whether id is the dead state.
func (d *DFA[S]) IsDead(id S) bool { return id == 0 }

// row returns the transition row of the state with the given index
// (not premultiplied).
func (d *DFA[S]) row(index int) []S {
	off := index * d.alphabetLen
	return d.table[off : off+d.alphabetLen]
}

// Premultiply converts state IDs into table offsets in place: every ID
// becomes id*alphabetLen. Lookups then skip the row multiply. Fails with
// ErrStateWidthOverflow when the largest offset does not fit in S.
func (d *DFA[S]) Premultiply() error {
	if d.premultiplied {
		return nil
	}
	maxOffset := uint64(d.stateCount-1) * uint64(d.alphabetLen)
	if maxOffset > maxStateID[S]() {
		return &dfa.BuildError{
			Kind:    dfa.StateWidthOverflow,
			Message: fmt.Sprintf("premultiplied offset %d exceeds %d-bit state IDs", maxOffset, 8*wire.Size[S]()),
		}
	}
	stride := S(d.alphabetLen)
	for i := range d.table {
		d.table[i] *= stride
	}
	d.start *= stride
	d.maxMatch *= stride
	d.premultiplied = true
	return nil
}

// To converts a uint32 automaton produced by the builder into one with
// state IDs of width S. The source must not be premultiplied (convert
// first, then premultiply). Fails with ErrStateWidthOverflow when the
// state count does not fit.
func To[S dfa.StateSize](d *DFA[uint32]) (*DFA[S], error) {
	if d.premultiplied {
		return nil, &dfa.BuildError{
			Kind:    dfa.InvalidConfig,
			Message: "cannot convert a premultiplied DFA",
		}
	}
	if uint64(d.stateCount-1) > maxStateID[S]() {
		return nil, &dfa.BuildError{
			Kind:    dfa.StateWidthOverflow,
			Message: fmt.Sprintf("%d states exceed %d-bit state IDs", d.stateCount, 8*wire.Size[S]()),
		}
	}
	table := make([]S, len(d.table))
	for i, id := range d.table {
		table[i] = S(id)
	}
	return &DFA[S]{
		table:         table,
		classes:       d.classes,
		alphabetLen:   d.alphabetLen,
		stateCount:    d.stateCount,
		start:         S(d.start),
		maxMatch:      S(d.maxMatch),
		premultiplied: false,
		anchored:      d.anchored,
		reversed:      d.reversed,
		accel:         d.accel,
	}, nil
}

// MinStateSize returns the narrowest state ID width (in bytes) able to
// represent this automaton, accounting for premultiplication when p is
// true.
func (d *DFA[S]) MinStateSize(premultiplied bool) int {
	max := uint64(d.stateCount - 1)
	if premultiplied {
		max *= uint64(d.alphabetLen)
	}
	switch {
	case max <= math.MaxUint8:
		return 1
	case max <= math.MaxUint16:
		return 2
	case max <= math.MaxUint32:
		return 4
	default:
		return 8
	}
}

// stateIndex converts a state ID back to its dense index.
func (d *DFA[S]) stateIndex(id S) int {
	if d.premultiplied {
		return int(id) / d.alphabetLen
	}
	return int(id)
}

// computeAccel inspects the start state and records up to maxAccelBytes
// input bytes that move it to a different state. Unanchored automata
// spend most of a search sitting in the start state; when only a few
// bytes can advance it, the search skips with memchr instead.
func (d *DFA[S]) computeAccel() {
	d.accel = accel{}
	if d.anchored || d.IsMatch(d.start) || d.IsDead(d.start) {
		return
	}
	row := d.row(d.stateIndex(d.start))
	var bytes [maxAccelBytes]byte
	n := 0
	for b := 0; b < 256; b++ {
		next := row[d.classes.Get(byte(b))]
		if next == d.start {
			continue
		}
		if n == maxAccelBytes {
			return
		}
		bytes[n] = byte(b)
		n++
	}
	if n == 0 {
		return
	}
	d.accel = accel{enabled: true, n: n, bytes: bytes}
}

// String returns a multi-line debug rendering of the automaton. Rows are
// printed per state with transitions grouped into byte ranges; dead
// transitions are omitted.
func (d *DFA[S]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "dense.DFA(states=%d, alphabet=%d, start=%d, maxMatch=%d",
		d.stateCount, d.alphabetLen, d.start, d.maxMatch)
	if d.premultiplied {
		sb.WriteString(", premultiplied")
	}
	if d.anchored {
		sb.WriteString(", anchored")
	}
	if d.reversed {
		sb.WriteString(", reversed")
	}
	sb.WriteString(")\n")

	for i := 0; i < d.stateCount; i++ {
		id := S(i)
		if d.premultiplied {
			id = S(i * d.alphabetLen)
		}
		marker := " "
		if d.IsMatch(id) {
			marker = "*"
		}
		if id == d.start {
			marker = ">"
		}
		fmt.Fprintf(&sb, "%s%06d:", marker, id)
		row := d.row(i)
		for class := 0; class < d.alphabetLen; class++ {
			next := row[class]
			if next == 0 {
				continue
			}
			fmt.Fprintf(&sb, " %d=>%d", class, next)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// maxStateID returns the largest value representable in S.
func maxStateID[S dfa.StateSize]() uint64 {
	switch wire.Size[S]() {
	case 1:
		return math.MaxUint8
	case 2:
		return math.MaxUint16
	case 4:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}
