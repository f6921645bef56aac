package nfa

import (
	"testing"
	"unicode/utf8"
)

// seqMatches reports whether the encoded bytes match the sequence.
func seqMatches(s utf8Seq, enc []byte) bool {
	if len(enc) != s.n {
		return false
	}
	for i, b := range enc {
		if b < s.ranges[i].lo || b > s.ranges[i].hi {
			return false
		}
	}
	return true
}

// seqsMatchRune counts how many sequences match the UTF-8 encoding of r.
func seqsMatchRune(seqs []utf8Seq, r rune) int {
	var enc [4]byte
	n := utf8.EncodeRune(enc[:], r)
	count := 0
	for _, s := range seqs {
		if seqMatches(s, enc[:n]) {
			count++
		}
	}
	return count
}

func TestAppendRuneRangeASCII(t *testing.T) {
	seqs := appendRuneRange(nil, 'a', 'z')
	if len(seqs) != 1 {
		t.Fatalf("got %d sequences, want 1", len(seqs))
	}
	s := seqs[0]
	if s.n != 1 || s.ranges[0].lo != 'a' || s.ranges[0].hi != 'z' {
		t.Errorf("sequence = %v, want single range [a-z]", s)
	}
}

func TestAppendRuneRangeSingleRune(t *testing.T) {
	tests := []struct {
		name string
		r    rune
		n    int
	}{
		{"ascii", 'x', 1},
		{"two byte", 0xE9, 2},      // é
		{"three byte", 0x65E5, 3},  // 日
		{"four byte", 0x1F600, 4},  // emoji
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seqs := appendRuneRange(nil, tt.r, tt.r)
			if len(seqs) != 1 {
				t.Fatalf("got %d sequences, want 1", len(seqs))
			}
			if seqs[0].n != tt.n {
				t.Errorf("sequence length = %d, want %d", seqs[0].n, tt.n)
			}
			if seqsMatchRune(seqs, tt.r) != 1 {
				t.Errorf("%U not matched by its own sequence", tt.r)
			}
		})
	}
}

// TestAppendRuneRangeExact checks that the generated sequences match
// exactly the runes in the range: every rune inside matched once, runes
// just outside not matched at all.
func TestAppendRuneRangeExact(t *testing.T) {
	ranges := []struct {
		name   string
		lo, hi rune
	}{
		{"ascii span", 0x20, 0x7E},
		{"across one byte boundary", 0x60, 0x100},
		{"two byte span", 0x80, 0x7FF},
		{"across two byte boundary", 0x700, 0x900},
		{"three byte span", 0x800, 0x2000},
		{"around surrogates", 0xD000, 0xE800},
		{"across three byte boundary", 0xFF00, 0x10100},
		{"four byte span", 0x1F300, 0x1F700},
	}
	for _, tt := range ranges {
		t.Run(tt.name, func(t *testing.T) {
			seqs := appendRuneRange(nil, tt.lo, tt.hi)
			if len(seqs) == 0 {
				t.Fatal("no sequences generated")
			}
			for r := tt.lo; r <= tt.hi; r++ {
				if r >= 0xD800 && r <= 0xDFFF {
					continue
				}
				if got := seqsMatchRune(seqs, r); got != 1 {
					t.Fatalf("%U matched by %d sequences, want 1", r, got)
				}
			}
			for _, r := range []rune{tt.lo - 1, tt.hi + 1} {
				if r < 0 || r > utf8.MaxRune || (r >= 0xD800 && r <= 0xDFFF) {
					continue
				}
				if got := seqsMatchRune(seqs, r); got != 0 {
					t.Errorf("%U outside the range matched by %d sequences", r, got)
				}
			}
		})
	}
}

func TestAppendRuneRangeSurrogatesOnly(t *testing.T) {
	if seqs := appendRuneRange(nil, 0xD800, 0xDFFF); len(seqs) != 0 {
		t.Errorf("surrogate-only range produced %d sequences, want 0", len(seqs))
	}
}

func TestAppendRuneRangeEmpty(t *testing.T) {
	if seqs := appendRuneRange(nil, 'z', 'a'); len(seqs) != 0 {
		t.Errorf("inverted range produced %d sequences, want 0", len(seqs))
	}
}

func TestSeqReversed(t *testing.T) {
	seqs := appendRuneRange(nil, 0x65E5, 0x65E5)
	if len(seqs) != 1 || seqs[0].n != 3 {
		t.Fatalf("unexpected sequences for three-byte rune: %v", seqs)
	}
	fwd := seqs[0]
	rev := fwd.reversed()
	if rev.n != fwd.n {
		t.Fatalf("reversed length = %d, want %d", rev.n, fwd.n)
	}
	for i := 0; i < fwd.n; i++ {
		if rev.ranges[i] != fwd.ranges[fwd.n-1-i] {
			t.Errorf("reversed range %d = %v, want %v", i, rev.ranges[i], fwd.ranges[fwd.n-1-i])
		}
	}
}

func TestUTF8StateCache(t *testing.T) {
	b := NewBuilder(0)
	match := b.AddMatch()
	cache := newUTF8StateCache()

	s1 := cache.getOrCreate(b, match, 0x80, 0xBF)
	s2 := cache.getOrCreate(b, match, 0x80, 0xBF)
	if s1 != s2 {
		t.Errorf("identical (target, lo, hi) produced distinct states %d and %d", s1, s2)
	}

	s3 := cache.getOrCreate(b, match, 0x80, 0x8F)
	if s3 == s1 {
		t.Error("different byte range reused a cached state")
	}

	cache.clear()
	s4 := cache.getOrCreate(b, match, 0x80, 0xBF)
	if s4 == s1 {
		t.Error("cleared cache should not return stale states")
	}
}
