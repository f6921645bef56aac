package automata

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/coregx/automata/dfa"
	"github.com/coregx/automata/dfa/dense"
	"github.com/coregx/automata/dfa/sparse"
	"github.com/coregx/automata/internal/mmap"
	"github.com/coregx/automata/internal/wire"
)

// Regex envelope: a fixed 48-byte header, the pattern text, then the
// three serialized automata (forward, anchored forward, reverse), each
// padded to an 8-byte boundary so the automaton headers and tables stay
// aligned for zero-copy deserialization.
//
//	offset  size  field
//	     0     4  magic ("\xD2\xFArx")
//	     4     2  version
//	     6     2  endianness marker (0xFEFF)
//	     8     1  flags
//	     9     7  reserved (zero)
//	    16     8  pattern length in bytes
//	    24     8  forward section length
//	    32     8  anchored section length
//	    40     8  reverse section length
//	    48     .  pattern, then sections, each 8-byte padded
const regexEnvelopeLen = 48

// Regex envelope flags.
const (
	regexFlagUnicode     = 1 << 0
	regexFlagInvalidUTF8 = 1 << 1
	regexFlagAnchored    = 1 << 2
)

// Serialize encodes the Regex and its three automata in the given byte
// order. The result round-trips through DeserializeRegex (same byte
// order) or DeserializeRegexConverting (any byte order).
func (re *Regex) Serialize(order binary.ByteOrder) ([]byte, error) {
	fwd, err := re.forward.Serialize(order)
	if err != nil {
		return nil, err
	}
	anch, err := re.anchored.Serialize(order)
	if err != nil {
		return nil, err
	}
	rev, err := re.reverse.Serialize(order)
	if err != nil {
		return nil, err
	}

	var flags byte
	if re.config.Unicode {
		flags |= regexFlagUnicode
	}
	if re.config.AllowInvalidUTF8 {
		flags |= regexFlagInvalidUTF8
	}
	if re.config.Anchored {
		flags |= regexFlagAnchored
	}

	total := regexEnvelopeLen + padded(len(re.pattern)) + padded(len(fwd)) + padded(len(anch)) + padded(len(rev))
	buf := make([]byte, 0, total)
	buf = wire.AppendU32(buf, dfa.MagicRegex, order)
	buf = wire.AppendU16(buf, dfa.FormatVersion, order)
	buf = wire.AppendU16(buf, dfa.EndianMark, order)
	buf = append(buf, flags, 0, 0, 0, 0, 0, 0, 0)
	buf = wire.AppendU64(buf, uint64(len(re.pattern)), order)
	buf = wire.AppendU64(buf, uint64(len(fwd)), order)
	buf = wire.AppendU64(buf, uint64(len(anch)), order)
	buf = wire.AppendU64(buf, uint64(len(rev)), order)
	buf = appendPadded(buf, []byte(re.pattern))
	buf = appendPadded(buf, fwd)
	buf = appendPadded(buf, anch)
	buf = appendPadded(buf, rev)
	return buf, nil
}

// DeserializeRegex reconstructs a Regex from a serialized buffer without
// copying transition data; the Regex aliases buf, which must stay alive
// and unmodified while the Regex is in use.
//
// The buffer must have been serialized in the host's byte order; use
// DeserializeRegexConverting for foreign-endian buffers.
func DeserializeRegex(buf []byte) (*Regex, error) {
	return deserializeRegex(buf, false)
}

// DeserializeRegexConverting is DeserializeRegex for buffers in either
// byte order; foreign-endian transition data is copied and converted.
func DeserializeRegexConverting(buf []byte) (*Regex, error) {
	return deserializeRegex(buf, true)
}

func deserializeRegex(buf []byte, convert bool) (*Regex, error) {
	if len(buf) < regexEnvelopeLen {
		return nil, &dfa.FormatError{
			Kind:    dfa.FormatTruncated,
			Message: fmt.Sprintf("%d bytes, need at least %d for the envelope", len(buf), regexEnvelopeLen),
		}
	}
	var order binary.ByteOrder
	switch binary.LittleEndian.Uint16(buf[6:8]) {
	case dfa.EndianMark:
		order = binary.LittleEndian
	case 0xFFFE:
		order = binary.BigEndian
	default:
		return nil, &dfa.FormatError{
			Kind:    dfa.FormatBadEndianness,
			Message: fmt.Sprintf("marker %#04x", binary.LittleEndian.Uint16(buf[6:8])),
		}
	}
	if !convert && !wire.IsNative(order) {
		return nil, &dfa.FormatError{
			Kind:    dfa.FormatBadEndianness,
			Message: "buffer is foreign-endian; use DeserializeRegexConverting",
		}
	}
	if magic := order.Uint32(buf[0:4]); magic != dfa.MagicRegex {
		return nil, &dfa.FormatError{
			Kind:    dfa.FormatBadMagic,
			Message: fmt.Sprintf("got %#08x, want %#08x", magic, dfa.MagicRegex),
		}
	}
	if v := order.Uint16(buf[4:6]); v == 0 || v > dfa.FormatVersion {
		return nil, &dfa.FormatError{
			Kind:    dfa.FormatBadVersion,
			Message: fmt.Sprintf("version %d, support up to %d", v, dfa.FormatVersion),
		}
	}
	flags := buf[8]

	lens := [4]int{}
	for i := range lens {
		v := order.Uint64(buf[16+8*i : 24+8*i])
		if v > uint64(len(buf)) {
			return nil, &dfa.FormatError{
				Kind:    dfa.FormatTruncated,
				Message: fmt.Sprintf("section %d claims %d bytes", i, v),
			}
		}
		lens[i] = int(v)
	}
	need := regexEnvelopeLen + padded(lens[0]) + padded(lens[1]) + padded(lens[2]) + padded(lens[3])
	if len(buf) < need {
		return nil, &dfa.FormatError{
			Kind:    dfa.FormatTruncated,
			Message: fmt.Sprintf("%d bytes, envelope needs %d", len(buf), need),
		}
	}

	off := regexEnvelopeLen
	pattern := string(buf[off : off+lens[0]])
	off += padded(lens[0])

	sections := [3]dfa.Automaton{}
	for i := 0; i < 3; i++ {
		a, err := deserializeSection(buf[off:off+lens[i+1]], convert)
		if err != nil {
			return nil, err
		}
		sections[i] = a
		off += padded(lens[i+1])
	}

	config := DefaultConfig()
	config.Unicode = flags&regexFlagUnicode != 0
	config.AllowInvalidUTF8 = flags&regexFlagInvalidUTF8 != 0
	config.Anchored = flags&regexFlagAnchored != 0

	return &Regex{
		pattern:  pattern,
		config:   config,
		forward:  sections[0],
		anchored: sections[1],
		reverse:  sections[2],
	}, nil
}

// deserializeSection dispatches on the section's own magic, so dense and
// sparse automata can be mixed within one envelope.
func deserializeSection(buf []byte, convert bool) (dfa.Automaton, error) {
	if len(buf) < 4 {
		return nil, &dfa.FormatError{
			Kind:    dfa.FormatTruncated,
			Message: "section too short for a magic tag",
		}
	}
	le := binary.LittleEndian.Uint32(buf)
	be := binary.BigEndian.Uint32(buf)
	switch {
	case le == dfa.MagicDense || be == dfa.MagicDense:
		if convert {
			return dense.DeserializeConverting(buf)
		}
		return dense.Deserialize(buf)
	case le == dfa.MagicSparse || be == dfa.MagicSparse:
		if convert {
			return sparse.DeserializeConverting(buf)
		}
		return sparse.Deserialize(buf)
	default:
		return nil, &dfa.FormatError{
			Kind:    dfa.FormatBadMagic,
			Message: fmt.Sprintf("section magic %#08x", le),
		}
	}
}

// LoadFile memory-maps a serialized Regex and deserializes it in place.
// The returned closer unmaps the file; the Regex must not be used after
// closing it.
func LoadFile(path string) (*Regex, io.Closer, error) {
	f, err := mmap.Open(path)
	if err != nil {
		return nil, nil, err
	}
	re, err := DeserializeRegex(f.Bytes())
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return re, f, nil
}

func padded(n int) int {
	return n + (8-n%8)%8
}

func appendPadded(buf, section []byte) []byte {
	buf = append(buf, section...)
	for i := len(section); i%8 != 0; i++ {
		buf = append(buf, 0)
	}
	return buf
}
