package sparse

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/coregx/automata/dfa"
	"github.com/coregx/automata/dfa/dense"
	"github.com/coregx/automata/internal/wire"
)

// FromDense losslessly converts a dense automaton into sparse form with
// target IDs of width S.
//
// Each dense row is turned into a sorted list of maximal byte ranges
// sharing a target; ranges leading to the dead state are dropped. Blocks
// are laid out in dense state order, so the dead state (dense ID 0) lands
// at offset 0. Fails with ErrStateWidthOverflow when a block offset does
// not fit in S.
func FromDense[S dfa.StateSize](src *dense.DFA[uint32]) (*DFA[S], error) {
	size := wire.Size[S]()
	count := src.StateCount()
	alphabet := src.AlphabetLen()

	denseID := func(index int) uint32 {
		if src.IsPremultiplied() {
			return uint32(index * alphabet)
		}
		return uint32(index)
	}
	denseIndex := func(id uint32) int {
		if src.IsPremultiplied() {
			return int(id) / alphabet
		}
		return int(id)
	}

	type byteRange struct {
		lo, hi byte
		target int // dense state index
	}

	// First pass: compute each state's ranges and block offset.
	stateRanges := make([][]byteRange, count)
	offsets := make([]int, count)
	off := 0
	for i := 0; i < count; i++ {
		offsets[i] = off
		id := denseID(i)
		var ranges []byteRange
		for b := 0; b < 256; {
			target := src.NextState(id, byte(b))
			e := b
			for e+1 < 256 && src.NextState(id, byte(e+1)) == target {
				e++
			}
			if target != 0 {
				ranges = append(ranges, byteRange{lo: byte(b), hi: byte(e), target: denseIndex(target)})
			}
			b = e + 1
		}
		stateRanges[i] = ranges
		off += blockLen(len(ranges), size)
	}
	if count > 0 && uint64(offsets[count-1]) > maxID[S]() {
		return nil, &dfa.BuildError{
			Kind:    dfa.StateWidthOverflow,
			Message: fmt.Sprintf("block offset %d exceeds %d-bit state IDs", offsets[count-1], 8*size),
		}
	}

	// Second pass: emit blocks with offsets resolved.
	blocks := make([]byte, 0, off)
	var tmp [8]byte
	for i, ranges := range stateRanges {
		ntrans := uint16(len(ranges))
		if src.IsMatch(denseID(i)) {
			ntrans |= matchFlag
		}
		blocks = binary.NativeEndian.AppendUint16(blocks, ntrans)
		for _, r := range ranges {
			blocks = append(blocks, r.lo, r.hi)
		}
		for _, r := range ranges {
			wire.PutSized(tmp[:size], uint64(offsets[r.target]), size, binary.NativeEndian)
			blocks = append(blocks, tmp[:size]...)
		}
	}

	return &DFA[S]{
		blocks:      blocks,
		classes:     *src.ByteClasses(),
		alphabetLen: alphabet,
		stateCount:  count,
		start:       S(offsets[denseIndex(src.Start())]),
		anchored:    src.IsAnchored(),
		reversed:    src.IsReversed(),
	}, nil
}

// maxID returns the largest value representable in S.
func maxID[S dfa.StateSize]() uint64 {
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
