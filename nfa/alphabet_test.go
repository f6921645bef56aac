package nfa

import "testing"

func TestSingletonByteClasses(t *testing.T) {
	bc := SingletonByteClasses()
	if !bc.IsSingleton() {
		t.Error("IsSingleton() = false, want true")
	}
	if got := bc.AlphabetLen(); got != 256 {
		t.Errorf("AlphabetLen() = %d, want 256", got)
	}
	for b := 0; b < 256; b++ {
		if got := bc.Get(byte(b)); got != byte(b) {
			t.Errorf("Get(%d) = %d, want %d", b, got, b)
		}
	}
}

func TestByteClassSetSingleRange(t *testing.T) {
	set := NewByteClassSet()
	set.SetRange('a', 'z')
	bc := set.ByteClasses()

	// Three classes: below 'a', the range itself, above 'z'.
	if got := bc.AlphabetLen(); got != 3 {
		t.Fatalf("AlphabetLen() = %d, want 3", got)
	}
	if bc.Get('a') != bc.Get('m') || bc.Get('m') != bc.Get('z') {
		t.Error("all bytes of [a-z] should share one class")
	}
	if bc.Get('a') == bc.Get('A') {
		t.Error("'A' should not share a class with 'a'")
	}
	if bc.Get(0) != bc.Get('a'-1) {
		t.Error("all bytes below 'a' should share one class")
	}
	if bc.Get('z'+1) != bc.Get(255) {
		t.Error("all bytes above 'z' should share one class")
	}
}

func TestByteClassSetAdjacentRanges(t *testing.T) {
	set := NewByteClassSet()
	set.SetRange('a', 'c')
	set.SetRange('d', 'f')
	bc := set.ByteClasses()

	if bc.Get('a') == bc.Get('d') {
		t.Error("adjacent but distinct ranges must land in distinct classes")
	}
	if bc.Get('a') != bc.Get('c') {
		t.Error("bytes of [a-c] should share one class")
	}
	if bc.Get('d') != bc.Get('f') {
		t.Error("bytes of [d-f] should share one class")
	}
}

func TestByteClassSetFullRange(t *testing.T) {
	set := NewByteClassSet()
	set.SetRange(0, 255)
	bc := set.ByteClasses()
	if got := bc.AlphabetLen(); got != 1 {
		t.Errorf("AlphabetLen() = %d, want 1", got)
	}
}

func TestByteClassesRepresentatives(t *testing.T) {
	set := NewByteClassSet()
	set.SetRange('0', '9')
	bc := set.ByteClasses()

	reps := bc.Representatives()
	if len(reps) != bc.AlphabetLen() {
		t.Fatalf("got %d representatives, want %d", len(reps), bc.AlphabetLen())
	}
	seen := make(map[byte]bool)
	for i, rep := range reps {
		class := bc.Get(rep)
		if int(class) != i {
			t.Errorf("representative %d maps to class %d, want %d", rep, class, i)
		}
		if seen[class] {
			t.Errorf("class %d has more than one representative", class)
		}
		seen[class] = true
	}
}

func TestByteClassesElements(t *testing.T) {
	set := NewByteClassSet()
	set.SetRange('a', 'c')
	bc := set.ByteClasses()

	elems := bc.Elements(bc.Get('b'))
	if len(elems) != 3 {
		t.Fatalf("Elements(class of 'b') has %d bytes, want 3", len(elems))
	}
	for i, want := range []byte{'a', 'b', 'c'} {
		if elems[i] != want {
			t.Errorf("element %d = %q, want %q", i, elems[i], want)
		}
	}
}

func TestByteClassesFromSliceRoundTrip(t *testing.T) {
	set := NewByteClassSet()
	set.SetRange('x', 'z')
	orig := set.ByteClasses()

	restored := ByteClassesFromSlice(orig.Table())
	for b := 0; b < 256; b++ {
		if orig.Get(byte(b)) != restored.Get(byte(b)) {
			t.Fatalf("class of byte %d changed across Table round trip", b)
		}
	}
}
