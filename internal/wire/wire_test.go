package wire

import (
	"encoding/binary"
	"testing"
)

func TestIsNative(t *testing.T) {
	le := IsNative(binary.LittleEndian)
	be := IsNative(binary.BigEndian)
	if le == be {
		t.Fatalf("exactly one of little/big endian must be native, got le=%v be=%v", le, be)
	}
	if !IsNative(binary.NativeEndian) {
		t.Error("NativeEndian should always be native")
	}
}

func TestSize(t *testing.T) {
	if got := Size[uint8](); got != 1 {
		t.Errorf("Size[uint8] = %d, want 1", got)
	}
	if got := Size[uint16](); got != 2 {
		t.Errorf("Size[uint16] = %d, want 2", got)
	}
	if got := Size[uint32](); got != 4 {
		t.Errorf("Size[uint32] = %d, want 4", got)
	}
	if got := Size[uint64](); got != 8 {
		t.Errorf("Size[uint64] = %d, want 8", got)
	}
}

func TestPutSizedRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 0x7F, 0xFF, 0xFFFF, 0xDEADBEEF, 0xFFFFFFFF, 0x0123456789ABCDEF}
	orders := []binary.ByteOrder{binary.LittleEndian, binary.BigEndian}

	for _, order := range orders {
		for _, size := range []int{1, 2, 4, 8} {
			max := uint64(1)<<(8*size) - 1
			if size == 8 {
				max = ^uint64(0)
			}
			for _, v := range values {
				if v > max {
					continue
				}
				buf := make([]byte, size)
				PutSized(buf, v, size, order)
				if got := Sized(buf, size, order); got != v {
					t.Errorf("round trip size=%d order=%v value=%#x: got %#x", size, order, v, got)
				}
			}
		}
	}
}

func TestPutSizedInvalidSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("PutSized with size 3 should panic")
		}
	}()
	PutSized(make([]byte, 8), 0, 3, binary.LittleEndian)
}

func TestAppendHelpers(t *testing.T) {
	buf := AppendU16(nil, 0x0102, binary.BigEndian)
	buf = AppendU32(buf, 0x03040506, binary.BigEndian)
	buf = AppendU64(buf, 0x0708090A0B0C0D0E, binary.BigEndian)

	want := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14}
	if len(buf) != len(want) {
		t.Fatalf("appended %d bytes, want %d", len(buf), len(want))
	}
	for i := range want {
		if buf[i] != want[i] {
			t.Errorf("byte %d = %#x, want %#x", i, buf[i], want[i])
		}
	}
}

func TestCastSlice(t *testing.T) {
	table := []uint32{0, 10, 20, 0xFFFFFFFF}
	raw := AppendSlice(nil, table, binary.NativeEndian)

	if len(raw) != 16 {
		t.Fatalf("serialized %d bytes, want 16", len(raw))
	}
	got := CastSlice[uint32](raw)
	if len(got) != len(table) {
		t.Fatalf("cast slice has %d elements, want %d", len(got), len(table))
	}
	for i, v := range table {
		if got[i] != v {
			t.Errorf("element %d = %d, want %d", i, got[i], v)
		}
	}

	// The cast view aliases the underlying bytes.
	raw[0] ^= 0xFF
	if got[0] == table[0] {
		t.Error("CastSlice should alias the input buffer, not copy it")
	}

	if CastSlice[uint32](nil) != nil {
		t.Error("CastSlice of empty input should be nil")
	}
}

func TestAppendSliceForeignOrder(t *testing.T) {
	var foreign binary.ByteOrder = binary.BigEndian
	if IsNative(foreign) {
		foreign = binary.LittleEndian
	}

	raw := AppendSlice(nil, []uint16{0x0102}, foreign)
	if got := Sized(raw, 2, foreign); got != 0x0102 {
		t.Errorf("foreign-order element = %#x, want 0x0102", got)
	}
	if got := Sized(raw, 2, binary.NativeEndian); got == 0x0102 {
		t.Error("foreign-order bytes should not decode natively")
	}
}

func TestAligned(t *testing.T) {
	buf := make([]byte, 16)
	if !Aligned(nil, 8) {
		t.Error("empty slice is trivially aligned")
	}
	if !Aligned(buf, 1) {
		t.Error("everything is 1-aligned")
	}
	// Exactly one of four consecutive offsets is 4-aligned.
	aligned := 0
	for off := 0; off < 4; off++ {
		if Aligned(buf[off:], 4) {
			aligned++
		}
	}
	if aligned != 1 {
		t.Errorf("found %d 4-aligned offsets among 4 consecutive ones, want 1", aligned)
	}
}
