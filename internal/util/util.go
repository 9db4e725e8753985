// Package util contains small generic helpers shared by the tunalex packages.
package util

import (
	"sort"
)

// Ordered is any type whose values can be ordered with the < operator.
type Ordered interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 | ~string
}

// OrderedKeys returns the keys of m, ordered a particular way. The order is
// guaranteed to be the same on every run.
//
// As of this writing, the order is ascending, but this function does not
// guarantee this will always be the case.
func OrderedKeys[K Ordered, V any](m map[K]V) []K {
	keys := make([]K, len(m))
	idx := 0

	for k := range m {
		keys[idx] = k
		idx++
	}

	sort.Slice(keys, func(i, j int) bool {
		return keys[i] < keys[j]
	})

	return keys
}

// SortBy returns a copy of items sorted by the given less function. The sort
// is stable.
func SortBy[E any](items []E, lt func(l E, r E) bool) []E {
	sorted := make([]E, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		return lt(sorted[i], sorted[j])
	})

	return sorted
}

// MakeTextList gives a nice list of things in English: "x", "x and y",
// "x, y, and z".
func MakeTextList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}

	var list string
	for i := range items {
		if i+1 == len(items) {
			list += "and " + items[i]
		} else {
			list += items[i] + ", "
		}
	}
	return list
}
