package automaton

import (
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// StateSet is a set of NFA node IDs backed by a bit set with one bit per
// node. The zero value is an empty set ready for use.
type StateSet struct {
	bits *bitset.BitSet
}

// NewStateSet returns a StateSet containing the given node IDs.
func NewStateSet(ids ...int) StateSet {
	s := StateSet{bits: &bitset.BitSet{}}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add adds the node to the set.
func (s *StateSet) Add(id int) {
	if s.bits == nil {
		s.bits = &bitset.BitSet{}
	}
	s.bits.Set(uint(id))
}

// AddAll adds every node in o to the set.
func (s *StateSet) AddAll(o StateSet) {
	if o.bits == nil {
		return
	}
	if s.bits == nil {
		s.bits = &bitset.BitSet{}
	}
	s.bits.InPlaceUnion(o.bits)
}

// Has returns whether the node is in the set.
func (s StateSet) Has(id int) bool {
	if s.bits == nil || id < 0 {
		return false
	}
	return s.bits.Test(uint(id))
}

// Len returns the number of nodes in the set.
func (s StateSet) Len() int {
	if s.bits == nil {
		return 0
	}
	return int(s.bits.Count())
}

// Empty returns whether the set has no nodes.
func (s StateSet) Empty() bool {
	return s.Len() == 0
}

// Copy returns a copy of the set that shares no storage with it.
func (s StateSet) Copy() StateSet {
	if s.bits == nil {
		return StateSet{}
	}
	return StateSet{bits: s.bits.Clone()}
}

// Elements returns the node IDs in the set in ascending order.
func (s StateSet) Elements() []int {
	if s.Empty() {
		return nil
	}
	elems := make([]int, 0, s.bits.Count())
	for i, ok := s.bits.NextSet(0); ok; i, ok = s.bits.NextSet(i + 1) {
		elems = append(elems, int(i))
	}
	return elems
}

// Equal returns whether s and o contain exactly the same nodes.
func (s StateSet) Equal(o StateSet) bool {
	return s.Key() == o.Key()
}

// Key returns a canonical string for the set. Two sets have the same key if
// and only if they contain the same nodes, no matter what order the nodes
// were added in.
func (s StateSet) Key() string {
	var sb strings.Builder
	for i, id := range s.Elements() {
		if i > 0 {
			sb.WriteRune(',')
		}
		sb.WriteString(strconv.Itoa(id))
	}
	return sb.String()
}

func (s StateSet) String() string {
	return "{" + strings.ReplaceAll(s.Key(), ",", ", ") + "}"
}
