// Package sparse provides a sparse set over a bounded universe of uint32
// values.
//
// The determinizer uses sparse sets to build epsilon closures and move sets:
// insertion and membership are O(1), clearing is O(1), and the dense array
// preserves insertion order so a closure can be iterated in the order states
// were discovered. The universe is the NFA state count, which is known when
// the set is created.
package sparse

import "slices"

// Set is a sparse set of uint32 values in [0, capacity).
//
// The zero value is not usable; use NewSet.
type Set struct {
	sparse []uint32 // value -> index in dense
	dense  []uint32 // values in insertion order
}

// NewSet creates an empty set able to hold values in [0, capacity).
func NewSet(capacity uint32) *Set {
	return &Set{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Insert adds value to the set. Inserting a value already present is a no-op.
// value must be less than the capacity the set was created with.
func (s *Set) Insert(value uint32) {
	if s.Contains(value) {
		return
	}
	s.sparse[value] = uint32(len(s.dense))
	s.dense = append(s.dense, value)
}

// Contains reports whether value is in the set.
func (s *Set) Contains(value uint32) bool {
	if value >= uint32(len(s.sparse)) {
		return false
	}
	idx := s.sparse[value]
	return idx < uint32(len(s.dense)) && s.dense[idx] == value
}

// Clear removes all elements in O(1) time. Capacity is retained.
func (s *Set) Clear() {
	s.dense = s.dense[:0]
}

// Len returns the number of elements in the set.
func (s *Set) Len() int {
	return len(s.dense)
}

// IsEmpty reports whether the set has no elements.
func (s *Set) IsEmpty() bool {
	return len(s.dense) == 0
}

// Values returns the elements in insertion order.
// The returned slice aliases internal storage and is valid until the next
// mutation.
func (s *Set) Values() []uint32 {
	return s.dense
}

// Sorted returns the elements in ascending order as a fresh slice.
// The determinizer uses this to build a canonical key for a state set, so
// that two sets with the same members compare equal regardless of discovery
// order.
func (s *Set) Sorted() []uint32 {
	out := slices.Clone(s.dense)
	slices.Sort(out)
	return out
}
