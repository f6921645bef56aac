// Package sparse implements a deterministic automaton stored as
// per-state byte-range lists in one flat buffer.
//
// Where a dense DFA spends alphabetLen slots on every state, a sparse
// state stores only the ranges that lead somewhere: a transition list of
// (lo, hi) byte ranges with one target ID each. Ranges whose target is
// the dead state are omitted, so a lookup that finds no range goes dead.
// Lookups scan the range list (binary search for long lists), trading
// speed for a much smaller footprint.
//
// A state's ID is the byte offset of its block in the buffer, which makes
// the representation position-independent and lets a serialized automaton
// be searched directly after a zero-copy load. Block layout, with IDs of
// width S:
//
//	ntrans  u16   transition count; the top bit marks a match state
//	lo,hi   2×ntrans bytes, ranges sorted by lo, non-overlapping
//	target  ntrans×sizeof(S) bytes, unaligned, native byte order
//
// The dead state is the empty block at offset 0.
package sparse

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/coregx/automata/dfa"
	"github.com/coregx/automata/internal/wire"
	"github.com/coregx/automata/nfa"
)

// matchFlag marks a match state in the ntrans field.
const matchFlag = uint16(1) << 15

// linearScanMax is the longest range list searched linearly; longer lists
// use binary search.
const linearScanMax = 8

// DFA is a sparse deterministic automaton with target IDs of width S.
//
// A DFA is immutable after construction and safe for concurrent
// searches.
type DFA[S dfa.StateSize] struct {
	blocks      []byte
	classes     nfa.ByteClasses
	alphabetLen int
	stateCount  int
	start       S
	anchored    bool
	reversed    bool
}

var _ dfa.Automaton = (*DFA[uint32])(nil)

// Start returns the start state ID (its block offset).
func (d *DFA[S]) Start() S { return d.start }

// StateCount reports the number of states, including the dead state.
func (d *DFA[S]) StateCount() int { return d.stateCount }

// AlphabetLen reports the number of byte equivalence classes of the
// automaton this was built from. Sparse lookups work on raw bytes; the
// classes are carried for diagnostics and serialization.
func (d *DFA[S]) AlphabetLen() int { return d.alphabetLen }

// MemoryUsage reports the heap bytes backing the transition blocks.
func (d *DFA[S]) MemoryUsage() int { return len(d.blocks) }

// IsAnchored reports whether the automaton only matches where the search
// starts.
func (d *DFA[S]) IsAnchored() bool { return d.anchored }

// IsReversed reports whether the automaton scans right to left.
func (d *DFA[S]) IsReversed() bool { return d.reversed }

// IsDead reports whether id is the dead state.
func (d *DFA[S]) IsDead(id S) bool { return id == 0 }

// IsMatch reports whether id is a match state.
func (d *DFA[S]) IsMatch(id S) bool {
	return binary.NativeEndian.Uint16(d.blocks[id:])&matchFlag != 0
}

// ntrans returns the transition count of the block at id.
func (d *DFA[S]) ntrans(id S) int {
	return int(binary.NativeEndian.Uint16(d.blocks[id:]) &^ matchFlag)
}

// NextState returns the state reached from id on input byte b, which is
// the dead state when no range of the block contains b.
func (d *DFA[S]) NextState(id S, b byte) S {
	n := d.ntrans(id)
	ranges := d.blocks[int(id)+2 : int(id)+2+2*n]
	idx := -1
	if n <= linearScanMax {
		for i := 0; i < n; i++ {
			if ranges[2*i] <= b && b <= ranges[2*i+1] {
				idx = i
				break
			}
			if b < ranges[2*i] {
				break
			}
		}
	} else {
		lo, hi := 0, n
		for lo < hi {
			mid := (lo + hi) / 2
			switch {
			case b < ranges[2*mid]:
				hi = mid
			case b > ranges[2*mid+1]:
				lo = mid + 1
			default:
				lo, hi = mid, mid
				idx = mid
			}
		}
	}
	if idx < 0 {
		return 0
	}
	size := wire.Size[S]()
	targets := d.blocks[int(id)+2+2*n:]
	return S(wire.Sized(targets[idx*size:], size, binary.NativeEndian))
}

// String returns a multi-line debug rendering of the automaton.
func (d *DFA[S]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "sparse.DFA(states=%d, bytes=%d, start=%d", d.stateCount, len(d.blocks), d.start)
	if d.anchored {
		sb.WriteString(", anchored")
	}
	if d.reversed {
		sb.WriteString(", reversed")
	}
	sb.WriteString(")\n")
	size := wire.Size[S]()
	for off := 0; off < len(d.blocks); {
		id := S(off)
		marker := " "
		if d.IsMatch(id) {
			marker = "*"
		}
		if id == d.start {
			marker = ">"
		}
		n := d.ntrans(id)
		fmt.Fprintf(&sb, "%s%06d:", marker, off)
		ranges := d.blocks[off+2 : off+2+2*n]
		targets := d.blocks[off+2+2*n:]
		for i := 0; i < n; i++ {
			target := wire.Sized(targets[i*size:], size, binary.NativeEndian)
			if ranges[2*i] == ranges[2*i+1] {
				fmt.Fprintf(&sb, " %#02x=>%d", ranges[2*i], target)
			} else {
				fmt.Fprintf(&sb, " %#02x-%#02x=>%d", ranges[2*i], ranges[2*i+1], target)
			}
		}
		sb.WriteByte('\n')
		off += blockLen(n, size)
	}
	return sb.String()
}

// blockLen is the encoded size of a block with n transitions.
func blockLen(n, idSize int) int {
	return 2 + 2*n + n*idSize
}
