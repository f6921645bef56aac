package dense

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/coregx/automata/dfa"
	"github.com/coregx/automata/internal/mmap"
	"github.com/coregx/automata/internal/wire"
	"github.com/coregx/automata/nfa"
)

// Serialize encodes the automaton as a flat buffer in the given byte
// order: the shared 304-byte header followed by the transition table at
// the automaton's state width.
//
// A buffer serialized in the host's byte order round-trips through
// Deserialize without copying the table.
func (d *DFA[S]) Serialize(order binary.ByteOrder) ([]byte, error) {
	size := wire.Size[S]()
	h := dfa.Header{
		Magic:       dfa.MagicDense,
		Version:     dfa.FormatVersion,
		StateSize:   uint8(size),
		AlphabetLen: uint16(d.alphabetLen),
		StateCount:  uint64(d.stateCount),
		Start:       uint64(d.start),
		MaxMatch:    uint64(d.maxMatch),
		TableLen:    uint64(len(d.table) * size),
	}
	if d.premultiplied {
		h.Flags |= dfa.FlagPremultiplied
	}
	if d.anchored {
		h.Flags |= dfa.FlagAnchored
	}
	if d.reversed {
		h.Flags |= dfa.FlagReversed
	}
	copy(h.ByteClasses[:], d.classes.Table())

	buf := make([]byte, 0, dfa.HeaderLen+len(d.table)*size)
	buf = dfa.AppendHeader(buf, &h, order)
	buf = wire.AppendSlice(buf, d.table, order)
	return buf, nil
}

// Deserialize reconstructs a dense automaton from a serialized buffer
// without copying the transition table: the returned automaton aliases
// buf, which must stay alive and unmodified for as long as the automaton
// is in use.
//
// The buffer must have been serialized in the host's byte order; a
// foreign-endian buffer fails with ErrBadEndianness (use
// DeserializeConverting for those). The concrete type of the result is
// *DFA[S] for the state width recorded in the header.
func Deserialize(buf []byte) (dfa.Automaton, error) {
	h, err := dfa.ParseHeader(buf, dfa.MagicDense)
	if err != nil {
		return nil, err
	}
	if !wire.IsNative(h.Order) {
		return nil, &dfa.FormatError{
			Kind:    dfa.FormatBadEndianness,
			Message: "buffer is foreign-endian; use DeserializeConverting",
		}
	}
	table := buf[dfa.HeaderLen : dfa.HeaderLen+int(h.TableLen)]
	switch h.StateSize {
	case 1:
		return fromParts[uint8](&h, table, false)
	case 2:
		return fromParts[uint16](&h, table, false)
	case 4:
		return fromParts[uint32](&h, table, false)
	default:
		return fromParts[uint64](&h, table, false)
	}
}

// DeserializeConverting is Deserialize for buffers serialized in either
// byte order. When the order is foreign the table is copied and
// byte-swapped; when it is native this is exactly Deserialize.
func DeserializeConverting(buf []byte) (dfa.Automaton, error) {
	h, err := dfa.ParseHeader(buf, dfa.MagicDense)
	if err != nil {
		return nil, err
	}
	table := buf[dfa.HeaderLen : dfa.HeaderLen+int(h.TableLen)]
	convert := !wire.IsNative(h.Order)
	switch h.StateSize {
	case 1:
		return fromParts[uint8](&h, table, convert)
	case 2:
		return fromParts[uint16](&h, table, convert)
	case 4:
		return fromParts[uint32](&h, table, convert)
	default:
		return fromParts[uint64](&h, table, convert)
	}
}

// fromParts validates the header dimensions against the table bytes and
// builds the typed automaton, either aliasing or converting the table.
func fromParts[S dfa.StateSize](h *dfa.Header, table []byte, convert bool) (*DFA[S], error) {
	size := wire.Size[S]()
	alphabet := uint64(h.AlphabetLen)
	if h.StateCount == 0 || h.StateCount > uint64(math.MaxInt32) {
		return nil, &dfa.FormatError{
			Kind:    dfa.FormatBadDimensions,
			Message: fmt.Sprintf("state count %d", h.StateCount),
		}
	}
	if h.TableLen != h.StateCount*alphabet*uint64(size) {
		return nil, &dfa.FormatError{
			Kind: dfa.FormatBadDimensions,
			Message: fmt.Sprintf("table is %d bytes, want %d states x %d classes x %d bytes",
				h.TableLen, h.StateCount, alphabet, size),
		}
	}

	maxID := h.StateCount - 1
	premultiplied := h.Flags&dfa.FlagPremultiplied != 0
	if premultiplied {
		maxID *= alphabet
		if h.Start%alphabet != 0 {
			return nil, &dfa.FormatError{
				Kind:    dfa.FormatBadDimensions,
				Message: fmt.Sprintf("premultiplied start %d is not a multiple of %d", h.Start, alphabet),
			}
		}
	}
	if h.Start > maxID || h.MaxMatch > maxID {
		return nil, &dfa.FormatError{
			Kind:    dfa.FormatBadDimensions,
			Message: fmt.Sprintf("start %d or maxMatch %d out of range (max %d)", h.Start, h.MaxMatch, maxID),
		}
	}

	var ids []S
	if convert {
		ids = make([]S, h.TableLen/uint64(size))
		for i := range ids {
			ids[i] = S(wire.Sized(table[i*size:], size, h.Order))
		}
	} else {
		if !wire.Aligned(table, size) {
			return nil, &dfa.FormatError{
				Kind:    dfa.FormatMisaligned,
				Message: fmt.Sprintf("table not aligned for %d-byte state IDs", size),
			}
		}
		ids = wire.CastSlice[S](table)
	}

	d := &DFA[S]{
		table:         ids,
		classes:       nfa.ByteClassesFromSlice(h.ByteClasses[:]),
		alphabetLen:   int(h.AlphabetLen),
		stateCount:    int(h.StateCount),
		start:         S(h.Start),
		maxMatch:      S(h.MaxMatch),
		premultiplied: premultiplied,
		anchored:      h.Flags&dfa.FlagAnchored != 0,
		reversed:      h.Flags&dfa.FlagReversed != 0,
	}
	d.computeAccel()
	return d, nil
}

// LoadFile memory-maps a serialized dense automaton and deserializes it
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
