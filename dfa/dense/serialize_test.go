package dense

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/coregx/automata/dfa"
)

func foreignOrder() binary.ByteOrder {
	if binary.NativeEndian.Uint16([]byte{1, 2}) == binary.LittleEndian.Uint16([]byte{1, 2}) {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func checkSearchAgreement(t *testing.T, got dfa.Automaton, want *DFA[uint32], haystacks []string) {
	t.Helper()
	for _, hs := range haystacks {
		h := []byte(hs)
		for at := 0; at <= len(h); at++ {
			gotEnd, gotOK := got.SearchForward(h, at, false)
			wantEnd, wantOK := want.SearchForward(h, at, false)
			if gotEnd != wantEnd || gotOK != wantOK {
				t.Errorf("SearchForward(%q, %d) = (%d, %v), want (%d, %v)",
					hs, at, gotEnd, gotOK, wantEnd, wantOK)
			}
		}
	}
}

func TestSerializeRoundTripNative(t *testing.T) {
	for _, tc := range matchCorpus {
		orig := buildDFA(t, tc.pattern, DefaultConfig())
		buf, err := orig.Serialize(binary.NativeEndian)
		if err != nil {
			t.Fatalf("%q: Serialize failed: %v", tc.pattern, err)
		}

		loaded, err := Deserialize(buf)
		if err != nil {
			t.Fatalf("%q: Deserialize failed: %v", tc.pattern, err)
		}
		if loaded.StateCount() != orig.StateCount() {
			t.Errorf("%q: StateCount = %d, want %d", tc.pattern, loaded.StateCount(), orig.StateCount())
		}
		if loaded.AlphabetLen() != orig.AlphabetLen() {
			t.Errorf("%q: AlphabetLen = %d, want %d", tc.pattern, loaded.AlphabetLen(), orig.AlphabetLen())
		}
		checkSearchAgreement(t, loaded, orig, tc.haystacks)
	}
}

func TestSerializeRoundTripNarrowWidth(t *testing.T) {
	wide := buildDFA(t, "a+b", DefaultConfig().WithPremultiply(false))
	narrow, err := To[uint16](wide)
	if err != nil {
		t.Fatalf("To[uint16] failed: %v", err)
	}
	buf, err := narrow.Serialize(binary.NativeEndian)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	loaded, err := Deserialize(buf)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	if _, ok := loaded.(*DFA[uint16]); !ok {
		t.Errorf("deserialized type is %T, want *DFA[uint16]", loaded)
	}
	checkSearchAgreement(t, loaded, wide, []string{"b", "ab", "xaaab", "abab", ""})
}

func TestDeserializeForeignEndian(t *testing.T) {
	orig := buildDFA(t, "abc", DefaultConfig())
	buf, err := orig.Serialize(foreignOrder())
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	if _, err := Deserialize(buf); !errors.Is(err, dfa.ErrBadEndianness) {
		t.Errorf("Deserialize of foreign buffer = %v, want ErrBadEndianness", err)
	}

	loaded, err := DeserializeConverting(buf)
	if err != nil {
		t.Fatalf("DeserializeConverting failed: %v", err)
	}
	checkSearchAgreement(t, loaded, orig, []string{"abc", "xabcx", "ababc", ""})
}

func TestDeserializeCorrupt(t *testing.T) {
	orig := buildDFA(t, "abc", DefaultConfig())
	valid, err := orig.Serialize(binary.NativeEndian)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		corrupt func([]byte) []byte
		want    error
	}{
		{
			name: "zero state count",
			corrupt: func(b []byte) []byte {
				binary.NativeEndian.PutUint64(b[272:280], 0)
				return b
			},
			want: dfa.ErrBadDimensions,
		},
		{
			name: "table length mismatch",
			corrupt: func(b []byte) []byte {
				binary.NativeEndian.PutUint64(b[272:280], 99)
				return b
			},
			want: dfa.ErrBadDimensions,
		},
		{
			name: "start out of range",
			corrupt: func(b []byte) []byte {
				binary.NativeEndian.PutUint64(b[280:288], 1<<40)
				return b
			},
			want: dfa.ErrBadDimensions,
		},
		{
			name: "byte class beyond alphabet",
			corrupt: func(b []byte) []byte {
				b[16+'z'] = 255
				return b
			},
			want: dfa.ErrBadDimensions,
		},
		{
			name:    "truncated",
			corrupt: func(b []byte) []byte { return b[:len(b)-1] },
			want:    dfa.ErrTruncated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := append([]byte(nil), valid...)
			_, err := Deserialize(tt.corrupt(buf))
			if err == nil {
				t.Fatal("Deserialize of corrupt buffer succeeded")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want kind %v", err, tt.want)
			}
		})
	}
}

func TestDeserializeAliasesBuffer(t *testing.T) {
	orig := buildDFA(t, "abc", DefaultConfig())
	buf, err := orig.Serialize(binary.NativeEndian)
	if err != nil {
		t.Fatal(err)
	}
	loaded, err := Deserialize(buf)
	if err != nil {
		t.Fatal(err)
	}
	before := loaded.MemoryUsage()
	// Zero-copy: the automaton's table memory is the buffer itself, so
	// its reported footprint is bounded by the buffer size.
	if before > len(buf) {
		t.Errorf("MemoryUsage() = %d exceeds buffer size %d", before, len(buf))
	}
}

func TestLoadFile(t *testing.T) {
	orig := buildDFA(t, "[0-9]+", DefaultConfig())
	buf, err := orig.Serialize(binary.NativeEndian)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "digits.dfa")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatal(err)
	}

	loaded, closer, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	defer closer.Close()

	checkSearchAgreement(t, loaded, orig, []string{"abc123", "42", "", "no digits"})
}

func TestLoadFileMissing(t *testing.T) {
	if _, _, err := LoadFile(filepath.Join(t.TempDir(), "absent.dfa")); err == nil {
		t.Error("LoadFile of a missing file should fail")
	}
}
