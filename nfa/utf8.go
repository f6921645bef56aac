package nfa

import "unicode/utf8"

// This file implements UTF-8 expansion of rune ranges into byte-range
// sequences, plus the suffix-sharing cache that keeps the expansion from
// duplicating continuation-byte states.
//
// A rune range like [U+0080, U+07FF] cannot be matched with a single byte
// transition; it becomes the two-byte sequence [C2-DF][80-BF]. Arbitrary
// ranges are first split at encoding-length boundaries (0x7F, 0x7FF,
// 0xFFFF) and around the surrogate gap, then recursively split until each
// piece is expressible as a fixed-length sequence of byte ranges.

// byteRange is an inclusive range of byte values.
type byteRange struct {
	lo, hi byte
}

// utf8Seq is a sequence of 1-4 byte ranges encoding one slice of a rune
// range. Matching the sequence means matching one byte from each range in
// order.
type utf8Seq struct {
	ranges [4]byteRange
	n      int
}

// prepend returns a copy of s with r inserted at the front.
func (s utf8Seq) prepend(r byteRange) utf8Seq {
	var out utf8Seq
	out.ranges[0] = r
	copy(out.ranges[1:], s.ranges[:s.n])
	out.n = s.n + 1
	return out
}

// reversed returns a copy of s with its byte ranges in reverse order, for
// reverse-language compilation.
func (s utf8Seq) reversed() utf8Seq {
	var out utf8Seq
	out.n = s.n
	for i := 0; i < s.n; i++ {
		out.ranges[i] = s.ranges[s.n-1-i]
	}
	return out
}

// appendRuneRange appends the UTF-8 sequences covering runes [lo, hi] to
// seqs. The surrogate range U+D800-U+DFFF is skipped: it has no UTF-8
// encoding.
func appendRuneRange(seqs []utf8Seq, lo, hi rune) []utf8Seq {
	if lo > hi {
		return seqs
	}

	// Carve out the surrogate gap.
	if lo < 0xD800 && hi > 0xDFFF {
		seqs = appendRuneRange(seqs, lo, 0xD7FF)
		return appendRuneRange(seqs, 0xE000, hi)
	}
	if lo >= 0xD800 && lo <= 0xDFFF {
		lo = 0xE000
		if lo > hi {
			return seqs
		}
	}
	if hi >= 0xD800 && hi <= 0xDFFF {
		hi = 0xD7FF
		if lo > hi {
			return seqs
		}
	}

	// Split at encoding-length boundaries so both endpoints encode to the
	// same number of bytes.
	for _, boundary := range [...]rune{0x7F, 0x7FF, 0xFFFF} {
		if lo <= boundary && boundary < hi {
			seqs = appendRuneRange(seqs, lo, boundary)
			return appendRuneRange(seqs, boundary+1, hi)
		}
	}

	var lb, hb [4]byte
	ln := utf8.EncodeRune(lb[:], lo)
	utf8.EncodeRune(hb[:], hi)
	return appendEncodedRange(seqs, lb[:ln], hb[:ln])
}

// appendEncodedRange splits the lexicographic byte-string range [lo, hi]
// (equal lengths, both valid UTF-8 encodings) into sequences of byte
// ranges.
func appendEncodedRange(seqs []utf8Seq, lo, hi []byte) []utf8Seq {
	n := len(lo)
	if n == 1 {
		return append(seqs, utf8Seq{ranges: [4]byteRange{{lo[0], hi[0]}}, n: 1})
	}

	if lo[0] == hi[0] {
		// Common leading byte: recurse on the tails and prefix the result.
		for _, sub := range appendEncodedRange(nil, lo[1:], hi[1:]) {
			seqs = append(seqs, sub.prepend(byteRange{lo[0], lo[0]}))
		}
		return seqs
	}

	// lo[0] < hi[0]. Peel off a partial leading block when lo's tail does
	// not start at the minimum continuation value.
	if !allBytes(lo[1:], 0x80) {
		upper := make([]byte, n)
		upper[0] = lo[0]
		for i := 1; i < n; i++ {
			upper[i] = 0xBF
		}
		seqs = appendEncodedRange(seqs, lo, upper)

		next := make([]byte, n)
		next[0] = lo[0] + 1
		for i := 1; i < n; i++ {
			next[i] = 0x80
		}
		lo = next
	}

	// Symmetrically peel off a partial trailing block.
	if !allBytes(hi[1:], 0xBF) {
		if lo[0] <= hi[0]-1 {
			seqs = append(seqs, fullTailSeq(lo[0], hi[0]-1, n))
		}
		lower := make([]byte, n)
		lower[0] = hi[0]
		for i := 1; i < n; i++ {
			lower[i] = 0x80
		}
		return appendEncodedRange(seqs, lower, hi)
	}

	// Both tails are now full continuation ranges.
	return append(seqs, fullTailSeq(lo[0], hi[0], n))
}

// fullTailSeq builds [a-b] followed by n-1 full continuation ranges.
func fullTailSeq(a, b byte, n int) utf8Seq {
	var s utf8Seq
	s.ranges[0] = byteRange{a, b}
	for i := 1; i < n; i++ {
		s.ranges[i] = byteRange{0x80, 0xBF}
	}
	s.n = n
	return s
}

func allBytes(b []byte, v byte) bool {
	for _, x := range b {
		if x != v {
			return false
		}
	}
	return true
}

// utf8StateCache deduplicates byte-range states during class expansion.
//
// UTF-8 sequences share tails heavily: every multi-byte sequence ends in
// [80-BF], and most three-byte lead ranges share [80-BF][80-BF]. Compiling
// each sequence from its last range toward its first and caching
// (target, lo, hi) -> state lets those shared tails collapse into shared
// states. For reverse compilation the sequences are flipped first, so the
// cache collapses shared heads instead.
//
// Cached states carry a concrete target and are never patched, so an
// entry stays valid for the whole compilation; the cache is cleared only
// when a compiler is reused for another pattern. Exact, unbounded lookup
// matters here: a large class like \p{L} expands to thousands of
// sequences, and any missed share is a permanent extra state per repeat
// of the class.
type utf8StateCache struct {
	entries map[utf8CacheKey]StateID
}

type utf8CacheKey struct {
	target StateID
	lo, hi byte
}

func newUTF8StateCache() *utf8StateCache {
	return &utf8StateCache{entries: make(map[utf8CacheKey]StateID)}
}

// clear drops all entries. State IDs are only meaningful within one
// builder, so a new compilation must not see the previous pattern's
// entries.
func (c *utf8StateCache) clear() {
	c.entries = make(map[utf8CacheKey]StateID)
}

// getOrCreate returns a ByteRange state [lo, hi] -> target, reusing a
// previously created identical state when possible.
func (c *utf8StateCache) getOrCreate(b *Builder, target StateID, lo, hi byte) StateID {
	key := utf8CacheKey{target: target, lo: lo, hi: hi}
	if id, ok := c.entries[key]; ok {
		return id
	}
	id := b.AddByteRange(lo, hi, target)
	c.entries[key] = id
	return id
}
