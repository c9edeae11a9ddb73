// Package visibility keeps one flag per permanent commit id telling whether
// the commit is shown or folded away.
package visibility

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Set is a growable bit vector keyed by permanent id.
//
// Reading an id past Len yields false; writing one extends the set. A Set
// never shrinks. Len counts the ids the set has a recorded value for, which
// is what tells ids known before a history reload from fresh ones.
type Set struct {
	bits *bitset.BitSet
	size uint
}

// New returns a set recording n ids, all hidden.
func New(n int) *Set {
	return &Set{bits: bitset.New(uint(checkID(n))), size: uint(n)}
}

// All returns a set recording n ids, all visible.
func All(n int) *Set {
	s := New(0)
	s.Grow(n, true)
	return s
}

// Get reports whether id is visible.
func (s *Set) Get(id int) bool {
	return s.bits.Test(uint(checkID(id)))
}

// Set records the visibility of id.
func (s *Set) Set(id int, visible bool) {
	u := uint(checkID(id))
	s.bits.SetTo(u, visible)
	if u >= s.size {
		s.size = u + 1
	}
}

// Len returns the number of ids with a recorded value.
func (s *Set) Len() int {
	return int(s.size)
}

// Grow records value for every id in [Len(), n). It does nothing when n is
// not past Len.
func (s *Set) Grow(n int, value bool) {
	if n <= int(s.size) {
		return
	}
	if value {
		for id := s.size; id < uint(n); id++ {
			s.bits.Set(id)
		}
	}
	s.size = uint(n)
}

// Count returns the number of visible ids.
func (s *Set) Count() int {
	return int(s.bits.Count())
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	return &Set{bits: s.bits.Clone(), size: s.size}
}

// ForEach calls fn for every visible id in ascending order.
func (s *Set) ForEach(fn func(id int)) {
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		fn(int(i))
	}
}

// Union marks visible every id visible in other.
func (s *Set) Union(other *Set) {
	s.bits.InPlaceUnion(other.bits)
	if other.size > s.size {
		s.size = other.size
	}
}

func (s *Set) String() string {
	return fmt.Sprintf("visibility(%d/%d)", s.Count(), s.size)
}

func checkID(id int) int {
	if id < 0 {
		panic(fmt.Sprintf("visibility: negative id %d", id))
	}
	return id
}
