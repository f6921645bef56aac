// Package wire provides binary layout helpers for the serialized automaton
// format.
//
// The serialized format stores state identifiers at their native width
// (1, 2, 4 or 8 bytes) in an explicitly declared byte order. Deserialization
// is zero-copy: when the declared byte order matches the host, the raw table
// bytes are reinterpreted in place as a typed slice. These helpers centralize
// the endianness checks and the unsafe reinterpretation so the rest of the
// engine never touches package unsafe directly.
package wire

import (
	"encoding/binary"
	"unsafe"
)

// Unsigned is the set of fixed-width unsigned integers usable as state IDs.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// IsNative reports whether the given byte order matches the host byte order.
func IsNative(order binary.ByteOrder) bool {
	var want, got [2]byte
	binary.NativeEndian.PutUint16(want[:], 0x0102)
	order.PutUint16(got[:], 0x0102)
	return want == got
}

// Size returns the size in bytes of the state ID type S.
func Size[S Unsigned]() int {
	var z S
	return int(unsafe.Sizeof(z))
}

// PutSized writes v into buf as a size-byte unsigned integer in the given
// byte order. size must be 1, 2, 4 or 8 and buf must have at least size bytes.
func PutSized(buf []byte, v uint64, size int, order binary.ByteOrder) {
	switch size {
	case 1:
		buf[0] = byte(v)
	case 2:
		order.PutUint16(buf, uint16(v))
	case 4:
		order.PutUint32(buf, uint32(v))
	case 8:
		order.PutUint64(buf, v)
	default:
		panic("wire: invalid state ID size")
	}
}

// Sized reads a size-byte unsigned integer from buf in the given byte order.
func Sized(buf []byte, size int, order binary.ByteOrder) uint64 {
	switch size {
	case 1:
		return uint64(buf[0])
	case 2:
		return uint64(order.Uint16(buf))
	case 4:
		return uint64(order.Uint32(buf))
	case 8:
		return order.Uint64(buf)
	default:
		panic("wire: invalid state ID size")
	}
}

// AppendU16 appends v to buf in the given byte order.
func AppendU16(buf []byte, v uint16, order binary.ByteOrder) []byte {
	var tmp [2]byte
	order.PutUint16(tmp[:], v)
	return append(buf, tmp[:]...)
}

// AppendU32 appends v to buf in the given byte order.
func AppendU32(buf []byte, v uint32, order binary.ByteOrder) []byte {
	var tmp [4]byte
	order.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

// AppendU64 appends v to buf in the given byte order.
func AppendU64(buf []byte, v uint64, order binary.ByteOrder) []byte {
	var tmp [8]byte
	order.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

// CastSlice reinterprets b as a slice of S without copying.
//
// The caller must ensure that len(b) is a multiple of the size of S and that
// the bytes are in host byte order. Returns nil for an empty input.
func CastSlice[S Unsigned](b []byte) []S {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*S)(unsafe.Pointer(&b[0])), len(b)/Size[S]())
}

// Aligned reports whether the start of b is aligned for values of size align.
// Alignment matters for CastSlice: a misaligned table cannot be viewed
// in place on all architectures.
func Aligned(b []byte, align int) bool {
	if len(b) == 0 || align <= 1 {
		return true
	}
	return uintptr(unsafe.Pointer(&b[0]))%uintptr(align) == 0
}

// AppendSlice appends the elements of table to buf in the given byte order.
// Used by serialization, where copying is expected.
func AppendSlice[S Unsigned](buf []byte, table []S, order binary.ByteOrder) []byte {
	size := Size[S]()
	var tmp [8]byte
	for _, v := range table {
		PutSized(tmp[:size], uint64(v), size, order)
		buf = append(buf, tmp[:size]...)
	}
	return buf
}
