package sparse

import "testing"

func TestSetBasic(t *testing.T) {
	s := NewSet(100)

	if !s.IsEmpty() {
		t.Error("new set should be empty")
	}
	if s.Contains(0) {
		t.Error("empty set should not contain 0")
	}

	s.Insert(5)
	if !s.Contains(5) {
		t.Error("set should contain 5 after insert")
	}
	s.Insert(5)
	if s.Len() != 1 {
		t.Errorf("len after duplicate insert = %d, want 1", s.Len())
	}

	s.Insert(10)
	s.Insert(3)
	s.Insert(7)
	if s.Len() != 4 {
		t.Errorf("len = %d, want 4", s.Len())
	}

	s.Clear()
	if !s.IsEmpty() {
		t.Error("set should be empty after clear")
	}
	if s.Contains(5) {
		t.Error("cleared set should not contain 5")
	}
}

func TestSetInsertionOrder(t *testing.T) {
	s := NewSet(100)
	for _, v := range []uint32{5, 2, 8, 1} {
		s.Insert(v)
	}

	want := []uint32{5, 2, 8, 1}
	got := s.Values()
	if len(got) != len(want) {
		t.Fatalf("got %d values, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Values()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSetSorted(t *testing.T) {
	a := NewSet(50)
	b := NewSet(50)
	for _, v := range []uint32{9, 0, 42, 17} {
		a.Insert(v)
	}
	for _, v := range []uint32{17, 42, 9, 0} {
		b.Insert(v)
	}

	as, bs := a.Sorted(), b.Sorted()
	if len(as) != len(bs) {
		t.Fatalf("sorted lengths differ: %d vs %d", len(as), len(bs))
	}
	for i := range as {
		if as[i] != bs[i] {
			t.Errorf("Sorted()[%d] differs: %d vs %d", i, as[i], bs[i])
		}
	}
	for i := 1; i < len(as); i++ {
		if as[i-1] >= as[i] {
			t.Errorf("Sorted() not strictly ascending at %d: %v", i, as)
		}
	}
}

func TestSetContainsOutOfRange(t *testing.T) {
	s := NewSet(4)
	s.Insert(3)
	if s.Contains(4) {
		t.Error("value beyond capacity should not be contained")
	}
	if s.Contains(1 << 30) {
		t.Error("huge value should not be contained")
	}
}

func TestSetUninitializedMemory(t *testing.T) {
	// The sparse array is never zeroed; membership must still be exact.
	s := NewSet(64)
	s.Insert(10)
	s.Insert(20)
	s.Clear()
	s.Insert(20)
	if s.Contains(10) {
		t.Error("10 should be gone after clear")
	}
	if !s.Contains(20) {
		t.Error("20 should be present after re-insert")
	}
	if s.Len() != 1 {
		t.Errorf("len = %d, want 1", s.Len())
	}
}
