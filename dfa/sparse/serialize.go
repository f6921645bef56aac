package sparse

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/coregx/automata/dfa"
	"github.com/coregx/automata/internal/mmap"
	"github.com/coregx/automata/internal/wire"
	"github.com/coregx/automata/nfa"
)

// Serialize encodes the automaton in the given byte order: the shared
// header followed by the block buffer. In native order the blocks are
// copied verbatim; in foreign order each block's ntrans field and target
// IDs are re-encoded (range bytes are order-free).
func (d *DFA[S]) Serialize(order binary.ByteOrder) ([]byte, error) {
	size := wire.Size[S]()
	h := dfa.Header{
		Magic:       dfa.MagicSparse,
		Version:     dfa.FormatVersion,
		StateSize:   uint8(size),
		AlphabetLen: uint16(d.alphabetLen),
		StateCount:  uint64(d.stateCount),
		Start:       uint64(d.start),
		TableLen:    uint64(len(d.blocks)),
	}
	if d.anchored {
		h.Flags |= dfa.FlagAnchored
	}
	if d.reversed {
		h.Flags |= dfa.FlagReversed
	}
	copy(h.ByteClasses[:], d.classes.Table())

	buf := make([]byte, 0, dfa.HeaderLen+len(d.blocks))
	buf = dfa.AppendHeader(buf, &h, order)
	if wire.IsNative(order) {
		return append(buf, d.blocks...), nil
	}
	return reencodeBlocks(buf, d.blocks, size, binary.NativeEndian, order)
}

// reencodeBlocks appends src's blocks to buf, converting ntrans fields
// and target IDs from one byte order to another.
func reencodeBlocks(buf, src []byte, size int, from, to binary.ByteOrder) ([]byte, error) {
	var tmp [8]byte
	for off := 0; off < len(src); {
		if off+2 > len(src) {
			return nil, &dfa.FormatError{
				Kind:    dfa.FormatTruncated,
				Message: fmt.Sprintf("block header at offset %d", off),
			}
		}
		ntrans := from.Uint16(src[off:])
		n := int(ntrans &^ matchFlag)
		end := off + blockLen(n, size)
		if end > len(src) {
			return nil, &dfa.FormatError{
				Kind:    dfa.FormatTruncated,
				Message: fmt.Sprintf("block at offset %d claims %d transitions", off, n),
			}
		}
		buf = wire.AppendU16(buf, ntrans, to)
		buf = append(buf, src[off+2:off+2+2*n]...)
		targets := src[off+2+2*n : end]
		for i := 0; i < n; i++ {
			wire.PutSized(tmp[:size], wire.Sized(targets[i*size:], size, from), size, to)
			buf = append(buf, tmp[:size]...)
		}
		off = end
	}
	return buf, nil
}

// Deserialize reconstructs a sparse automaton from a serialized buffer
// without copying the block data: the returned automaton aliases buf,
// which must stay alive and unmodified while the automaton is in use.
//
// The buffer must have been serialized in the host's byte order; a
// foreign-endian buffer fails with ErrBadEndianness (use
// DeserializeConverting for those). Validation is structural: every block
// must lie within the buffer, the start state and every transition target
// must land on a block boundary, and the state count must agree with the
// header.
func Deserialize(buf []byte) (dfa.Automaton, error) {
	h, err := dfa.ParseHeader(buf, dfa.MagicSparse)
	if err != nil {
		return nil, err
	}
	if !wire.IsNative(h.Order) {
		return nil, &dfa.FormatError{
			Kind:    dfa.FormatBadEndianness,
			Message: "buffer is foreign-endian; use DeserializeConverting",
		}
	}
	blocks := buf[dfa.HeaderLen : dfa.HeaderLen+int(h.TableLen)]
	switch h.StateSize {
	case 1:
		return fromParts[uint8](&h, blocks)
	case 2:
		return fromParts[uint16](&h, blocks)
	case 4:
		return fromParts[uint32](&h, blocks)
	default:
		return fromParts[uint64](&h, blocks)
	}
}

// DeserializeConverting is Deserialize for buffers serialized in either
// byte order. A foreign-endian buffer has its blocks copied and
// re-encoded in native order first.
func DeserializeConverting(buf []byte) (dfa.Automaton, error) {
	h, err := dfa.ParseHeader(buf, dfa.MagicSparse)
	if err != nil {
		return nil, err
	}
	blocks := buf[dfa.HeaderLen : dfa.HeaderLen+int(h.TableLen)]
	if !wire.IsNative(h.Order) {
		size := int(h.StateSize)
		native, err := reencodeBlocks(make([]byte, 0, len(blocks)), blocks, size, h.Order, binary.NativeEndian)
		if err != nil {
			return nil, err
		}
		blocks = native
	}
	switch h.StateSize {
	case 1:
		return fromParts[uint8](&h, blocks)
	case 2:
		return fromParts[uint16](&h, blocks)
	case 4:
		return fromParts[uint32](&h, blocks)
	default:
		return fromParts[uint64](&h, blocks)
	}
}

// fromParts validates block structure and builds the typed automaton over
// the given native-order blocks.
func fromParts[S dfa.StateSize](h *dfa.Header, blocks []byte) (*DFA[S], error) {
	size := wire.Size[S]()

	// First walk: collect block boundaries.
	boundaries := make(map[uint64]struct{})
	count := 0
	for off := 0; off < len(blocks); {
		if off+2 > len(blocks) {
			return nil, &dfa.FormatError{
				Kind:    dfa.FormatTruncated,
				Message: fmt.Sprintf("block header at offset %d", off),
			}
		}
		n := int(binary.NativeEndian.Uint16(blocks[off:]) &^ matchFlag)
		end := off + blockLen(n, size)
		if end > len(blocks) {
			return nil, &dfa.FormatError{
				Kind:    dfa.FormatTruncated,
				Message: fmt.Sprintf("block at offset %d claims %d transitions", off, n),
			}
		}
		boundaries[uint64(off)] = struct{}{}
		count++
		off = end
	}
	if uint64(count) != h.StateCount {
		return nil, &dfa.FormatError{
			Kind:    dfa.FormatBadDimensions,
			Message: fmt.Sprintf("%d blocks, header claims %d states", count, h.StateCount),
		}
	}
	if _, ok := boundaries[h.Start]; !ok {
		return nil, &dfa.FormatError{
			Kind:    dfa.FormatBadDimensions,
			Message: fmt.Sprintf("start %d is not a block offset", h.Start),
		}
	}

	// Second walk: every target must land on a block boundary.
	for off := 0; off < len(blocks); {
		n := int(binary.NativeEndian.Uint16(blocks[off:]) &^ matchFlag)
		targets := blocks[off+2+2*n : off+blockLen(n, size)]
		for i := 0; i < n; i++ {
			t := wire.Sized(targets[i*size:], size, binary.NativeEndian)
			if _, ok := boundaries[t]; !ok {
				return nil, &dfa.FormatError{
					Kind:    dfa.FormatBadDimensions,
					Message: fmt.Sprintf("block %d target %d is not a block offset", off, t),
				}
			}
		}
		off += blockLen(n, size)
	}

	return &DFA[S]{
		blocks:      blocks,
		classes:     nfa.ByteClassesFromSlice(h.ByteClasses[:]),
		alphabetLen: int(h.AlphabetLen),
		stateCount:  int(h.StateCount),
		start:       S(h.Start),
		anchored:    h.Flags&dfa.FlagAnchored != 0,
		reversed:    h.Flags&dfa.FlagReversed != 0,
	}, nil
}

// LoadFile memory-maps a serialized sparse automaton and deserializes it
// in place. The returned closer unmaps the file; the automaton must not
// be used after closing it.
func LoadFile(path string) (dfa.Automaton, io.Closer, error) {
	f, err := mmap.Open(path)
	if err != nil {
		return nil, nil, err
	}
	a, err := Deserialize(f.Bytes())
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return a, f, nil
}
