package nfa

// ByteClasses maps each byte value to its equivalence class.
//
// Two bytes belong to the same class when no transition in the automaton
// distinguishes them, so a DFA built over classes instead of raw bytes needs
// `classes` columns per state instead of 256. For ASCII-oriented patterns
// this is typically 4-16 classes; Unicode-heavy character classes fragment
// the partition and can degrade it back toward 256 singleton classes, which
// is the documented cause of inflated table sizes for such patterns.
//
// Example for pattern [a-z]+:
//
//	class 0: 0x00-0x60 (before 'a')
//	class 1: 0x61-0x7a ('a' to 'z')
//	class 2: 0x7b-0xff (after 'z')
type ByteClasses struct {
	classes [256]byte
}

// SingletonByteClasses returns the identity partition: each byte is its own
// class. Equivalent to disabling alphabet compression.
func SingletonByteClasses() ByteClasses {
	var bc ByteClasses
	for i := 0; i < 256; i++ {
		bc.classes[i] = byte(i)
	}
	return bc
}

// ByteClassesFromSlice reconstructs a ByteClasses from its 256-byte table,
// as stored in a serialized automaton header.
func ByteClassesFromSlice(table []byte) ByteClasses {
	var bc ByteClasses
	copy(bc.classes[:], table)
	return bc
}

// Get returns the equivalence class for the given byte.
func (bc *ByteClasses) Get(b byte) byte {
	return bc.classes[b]
}

// Table returns the underlying 256-entry class table.
func (bc *ByteClasses) Table() []byte {
	return bc.classes[:]
}

// AlphabetLen returns the number of equivalence classes.
//
// Classes are assigned in increasing order as byte values climb, so the
// count is the last byte's class plus one.
func (bc *ByteClasses) AlphabetLen() int {
	return int(bc.classes[255]) + 1
}

// IsSingleton reports whether each byte is its own class (no reduction).
func (bc *ByteClasses) IsSingleton() bool {
	return bc.AlphabetLen() == 256
}

// Representatives returns one byte per class, in class order. The
// determinizer computes transitions for representatives only and reuses the
// result for every byte in the class.
func (bc *ByteClasses) Representatives() []byte {
	reps := make([]byte, 0, bc.AlphabetLen())
	seen := [256]bool{}
	for b := 0; b < 256; b++ {
		class := bc.classes[b]
		if !seen[class] {
			seen[class] = true
			reps = append(reps, byte(b))
		}
	}
	return reps
}

// Elements returns all bytes belonging to the given class.
func (bc *ByteClasses) Elements(class byte) []byte {
	var elems []byte
	for b := 0; b < 256; b++ {
		if bc.classes[b] == class {
			elems = append(elems, byte(b))
		}
	}
	return elems
}

// ByteClassSet accumulates class boundaries during NFA construction.
//
// Every byte-range transition [lo, hi] added to the builder marks lo-1 and
// hi as boundaries. Once construction finishes, walking the 256 byte values
// and bumping the class number after each boundary yields the coarsest
// partition consistent with every transition in the automaton. The
// classification is per-automaton: two patterns with different range
// boundaries produce different partitions.
type ByteClassSet struct {
	// bits is a 256-bit set; bit i marks byte i as a class boundary.
	bits [4]uint64
}

// NewByteClassSet creates an empty boundary set.
func NewByteClassSet() *ByteClassSet {
	return &ByteClassSet{}
}

// SetRange records that bytes in [start, end] transition differently from
// their neighbors.
func (bcs *ByteClassSet) SetRange(start, end byte) {
	if start > 0 {
		bcs.setBit(start - 1)
	}
	bcs.setBit(end)
}

func (bcs *ByteClassSet) setBit(b byte) {
	bcs.bits[b/64] |= 1 << (b % 64)
}

func (bcs *ByteClassSet) getBit(b byte) bool {
	return bcs.bits[b/64]&(1<<(b%64)) != 0
}

// ByteClasses converts the accumulated boundaries into a class table.
func (bcs *ByteClassSet) ByteClasses() ByteClasses {
	var bc ByteClasses
	class := byte(0)
	for b := 0; b < 256; b++ {
		bc.classes[b] = class
		if bcs.getBit(byte(b)) && b < 255 {
			class++
		}
	}
	return bc
}
