// Package sparse provides a sparse set for O(1) membership tests over
// automaton state IDs.
//
// The set keeps a dense list of members alongside a sparse index, so
// clearing is O(1) and iteration visits only the members. It backs the
// static epsilon-graph walks in package nfa.
package sparse

// SparseSet is a set of uint32 values below a fixed capacity.
type SparseSet struct {
	sparse []uint32 // value -> index in dense
	dense  []uint32 // members in insertion order
}

// NewSparseSet creates a set able to hold values in [0, capacity).
func NewSparseSet(capacity uint32) *SparseSet {
	return &SparseSet{
		sparse: make([]uint32, capacity),
		dense:  make([]uint32, 0, capacity),
	}
}

// Capacity returns the exclusive upper bound on storable values
func (s *SparseSet) Capacity() int {
	return len(s.sparse)
}

// Insert adds value to the set and reports whether it was newly added.
// Panics if value >= capacity.
func (s *SparseSet) Insert(value uint32) bool {
	if s.Contains(value) {
		return false
	}
	//nolint:gosec // G115: len(dense) < capacity, which fits uint32
	s.sparse[value] = uint32(len(s.dense))
	s.dense = append(s.dense, value)
	return true
}

// Contains returns true if the value is in the set
func (s *SparseSet) Contains(value uint32) bool {
	if int(value) >= len(s.sparse) {
		return false
	}
	idx := s.sparse[value]
	return int(idx) < len(s.dense) && s.dense[idx] == value
}

// Remove deletes value from the set. Removing an absent value is a no-op.
func (s *SparseSet) Remove(value uint32) {
	if !s.Contains(value) {
		return
	}
	idx := s.sparse[value]
	last := s.dense[len(s.dense)-1]
	s.dense[idx] = last
	s.sparse[last] = idx
	s.dense = s.dense[:len(s.dense)-1]
}

// Clear removes all elements in O(1)
func (s *SparseSet) Clear() {
	s.dense = s.dense[:0]
}

// Size returns the number of elements in the set
func (s *SparseSet) Size() int {
	return len(s.dense)
}

// Values returns the members in insertion order, unless Remove has
// reordered them. The slice is valid until the next mutation.
func (s *SparseSet) Values() []uint32 {
	return s.dense
}
