package dfa

import (
	"encoding/binary"
	"fmt"

	"github.com/coregx/automata/internal/wire"
)

// Serialized automaton format, shared by dfa/dense and dfa/sparse.
//
// A serialized automaton is a fixed 304-byte header followed by the
// transition table. All multi-byte header fields use the byte order the
// automaton was serialized in; the endianness marker at offset 6 lets a
// reader detect that order. The header is 8-byte aligned in total size so
// that a table of 8-byte state IDs placed directly after it stays aligned
// when the buffer itself is allocated aligned (Go heap allocations and
// page-aligned mappings both are).
//
//	offset  size  field
//	     0     4  magic (representation tag)
//	     4     2  version
//	     6     2  endianness marker (0xFEFF)
//	     8     1  state ID width in bytes (1, 2, 4 or 8)
//	     9     1  flags
//	    10     2  alphabet length (number of byte classes)
//	    12     4  reserved (zero)
//	    16   256  byte equivalence class table
//	   272     8  state count (including the dead state)
//	   280     8  start state ID
//	   288     8  maximum match state ID (dense; zero for sparse)
//	   296     8  table length in bytes
//	   304     .  table
const (
	// MagicDense tags a serialized dense automaton ("\xD2\xFAdn").
	MagicDense uint32 = 0xD2FA646E
	// MagicSparse tags a serialized sparse automaton ("\xD2\xFAsp").
	MagicSparse uint32 = 0xD2FA7370
	// MagicRegex tags a serialized regex envelope ("\xD2\xFArx").
	MagicRegex uint32 = 0xD2FA7278

	// FormatVersion is the current serialization version.
	FormatVersion uint16 = 1

	// EndianMark is the endianness marker value as written. A reader that
	// decodes it as 0xFFFE is looking at a foreign-endian buffer.
	EndianMark uint16 = 0xFEFF

	// HeaderLen is the size of the fixed header in bytes.
	HeaderLen = 304
)

// Header flags.
const (
	// FlagPremultiplied marks dense state IDs that are table offsets
	// (state index times alphabet length) rather than plain indexes.
	FlagPremultiplied byte = 1 << 0
	// FlagAnchored marks an automaton whose start state does not carry
	// the unanchored restart loop.
	FlagAnchored byte = 1 << 1
	// FlagReversed marks an automaton built from a reverse NFA.
	FlagReversed byte = 1 << 2
)

// Header is the decoded fixed-size prefix of a serialized automaton.
type Header struct {
	Magic       uint32
	Version     uint16
	StateSize   uint8
	Flags       byte
	AlphabetLen uint16
	ByteClasses [256]byte
	StateCount  uint64
	Start       uint64
	MaxMatch    uint64
	TableLen    uint64

	// Order is the byte order the buffer was serialized in, detected
	// from the endianness marker.
	Order binary.ByteOrder
}

// AppendHeader appends the 304-byte header encoding of h in the given
// byte order.
func AppendHeader(buf []byte, h *Header, order binary.ByteOrder) []byte {
	buf = wire.AppendU32(buf, h.Magic, order)
	buf = wire.AppendU16(buf, h.Version, order)
	buf = wire.AppendU16(buf, EndianMark, order)
	buf = append(buf, h.StateSize, h.Flags)
	buf = wire.AppendU16(buf, h.AlphabetLen, order)
	buf = wire.AppendU32(buf, 0, order) // reserved
	buf = append(buf, h.ByteClasses[:]...)
	buf = wire.AppendU64(buf, h.StateCount, order)
	buf = wire.AppendU64(buf, h.Start, order)
	buf = wire.AppendU64(buf, h.MaxMatch, order)
	buf = wire.AppendU64(buf, h.TableLen, order)
	return buf
}

// ParseHeader decodes and validates the header of a serialized automaton,
// checking it against the expected representation tag. It accepts either
// byte order and records the detected one in Header.Order; callers that
// need native order for zero-copy access check Order themselves.
//
// Validation here covers only what both representations share: magic,
// version, endianness marker, state width, alphabet length, the byte
// class table, and that the buffer actually holds TableLen bytes of
// table.
func ParseHeader(buf []byte, wantMagic uint32) (Header, error) {
	var h Header
	if len(buf) < HeaderLen {
		return h, &FormatError{
			Kind:    FormatTruncated,
			Message: fmt.Sprintf("%d bytes, need at least %d for the header", len(buf), HeaderLen),
		}
	}

	switch binary.LittleEndian.Uint16(buf[6:8]) {
	case EndianMark:
		h.Order = binary.LittleEndian
	case 0xFFFE:
		h.Order = binary.BigEndian
	default:
		return h, &FormatError{
			Kind:    FormatBadEndianness,
			Message: fmt.Sprintf("marker %#04x", binary.LittleEndian.Uint16(buf[6:8])),
		}
	}

	h.Magic = h.Order.Uint32(buf[0:4])
	if h.Magic != wantMagic {
		return h, &FormatError{
			Kind:    FormatBadMagic,
			Message: fmt.Sprintf("got %#08x, want %#08x", h.Magic, wantMagic),
		}
	}
	h.Version = h.Order.Uint16(buf[4:6])
	if h.Version == 0 || h.Version > FormatVersion {
		return h, &FormatError{
			Kind:    FormatBadVersion,
			Message: fmt.Sprintf("version %d, support up to %d", h.Version, FormatVersion),
		}
	}

	h.StateSize = buf[8]
	switch h.StateSize {
	case 1, 2, 4, 8:
	default:
		return h, &FormatError{
			Kind:    FormatBadDimensions,
			Message: fmt.Sprintf("state width %d, want 1, 2, 4 or 8", h.StateSize),
		}
	}
	h.Flags = buf[9]
	h.AlphabetLen = h.Order.Uint16(buf[10:12])
	if h.AlphabetLen == 0 || h.AlphabetLen > 256 {
		return h, &FormatError{
			Kind:    FormatBadDimensions,
			Message: fmt.Sprintf("alphabet length %d", h.AlphabetLen),
		}
	}
	copy(h.ByteClasses[:], buf[16:272])
	// Every byte must map to a class below the alphabet length, and the
	// classes must fill [0, AlphabetLen): a stray class index would be
	// read as a transition-table column that does not exist.
	maxClass := byte(0)
	for b, class := range h.ByteClasses {
		if uint16(class) >= h.AlphabetLen {
			return h, &FormatError{
				Kind:    FormatBadDimensions,
				Message: fmt.Sprintf("byte %#02x in class %d, alphabet length %d", b, class, h.AlphabetLen),
			}
		}
		if class > maxClass {
			maxClass = class
		}
	}
	if uint16(maxClass)+1 != h.AlphabetLen {
		return h, &FormatError{
			Kind:    FormatBadDimensions,
			Message: fmt.Sprintf("highest byte class is %d, alphabet length %d", maxClass, h.AlphabetLen),
		}
	}

	h.StateCount = h.Order.Uint64(buf[272:280])
	h.Start = h.Order.Uint64(buf[280:288])
	h.MaxMatch = h.Order.Uint64(buf[288:296])
	h.TableLen = h.Order.Uint64(buf[296:304])

	if uint64(len(buf)-HeaderLen) < h.TableLen {
		return h, &FormatError{
			Kind:    FormatTruncated,
			Message: fmt.Sprintf("table claims %d bytes, %d available", h.TableLen, len(buf)-HeaderLen),
		}
	}
	return h, nil
}
