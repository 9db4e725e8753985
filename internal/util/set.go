package util

import (
	"fmt"
	"sort"
	"strings"
)

// KeySet is a map[E comparable]bool with methods added to use it as a set.
type KeySet[E comparable] map[E]bool

// NewKeySet creates a new KeySet containing every key of the given maps whose
// value is true.
func NewKeySet[E comparable](of ...map[E]bool) KeySet[E] {
	ks := KeySet[E]{}
	for _, m := range of {
		for k := range m {
			if m[k] {
				ks.Add(k)
			}
		}
	}
	return ks
}

// KeySetOf creates a new KeySet from the items in sl.
func KeySetOf[E comparable](sl []E) KeySet[E] {
	ks := KeySet[E]{}
	for i := range sl {
		ks.Add(sl[i])
	}
	return ks
}

// Copy returns a copy of the set.
func (s KeySet[E]) Copy() KeySet[E] {
	return NewKeySet(s)
}

// Add adds the given element to the set. If the element is already in the
// set, no effect occurs.
func (s KeySet[E]) Add(value E) {
	s[value] = true
}

// AddAll adds all elements in s2 to the set.
func (s KeySet[E]) AddAll(s2 KeySet[E]) {
	for k := range s2 {
		s.Add(k)
	}
}

// Remove removes the given element from the set. If the element is already
// not in the set, no effect occurs.
func (s KeySet[E]) Remove(value E) {
	delete(s, value)
}

// Has returns whether the set has the given element.
func (s KeySet[E]) Has(value E) bool {
	_, has := s[value]
	return has
}

// Len returns the number of elements in the set.
func (s KeySet[E]) Len() int {
	return len(s)
}

// Empty returns whether the set is empty.
func (s KeySet[E]) Empty() bool {
	return len(s) == 0
}

// Union returns a new set that has every element of s and o.
func (s KeySet[E]) Union(o KeySet[E]) KeySet[E] {
	newSet := s.Copy()
	newSet.AddAll(o)
	return newSet
}

// Elements returns the elements of s as a slice. No particular order is
// guaranteed nor should it be relied on.
func (s KeySet[E]) Elements() []E {
	sl := make([]E, 0, len(s))
	for k := range s {
		sl = append(sl, k)
	}
	return sl
}

// Equal returns whether two sets have the same items.
func (s KeySet[E]) Equal(o any) bool {
	other, ok := o.(KeySet[E])
	if !ok {
		otherPtr, ok := o.(*KeySet[E])
		if !ok || otherPtr == nil {
			return false
		}
		other = *otherPtr
	}

	if s.Len() != other.Len() {
		return false
	}

	for k := range s {
		if !other.Has(k) {
			return false
		}
	}

	return true
}

// String shows the contents of the set. Items are ordered by their %v
// representation so the output is stable.
func (s KeySet[E]) String() string {
	convs := make([]string, 0, len(s))
	for k := range s {
		convs = append(convs, fmt.Sprintf("%v", k))
	}
	sort.Strings(convs)

	return "{" + strings.Join(convs, ", ") + "}"
}
