package model

import "slices"

// ToggleIndex flips membership of i in set and returns a new sorted slice.
// added reports whether i was absent before. The input is never modified.
func ToggleIndex(set []int, i int) (next []int, added bool) {
	next = Normalize(set, 0)
	pos, found := slices.BinarySearch(next, i)
	if found {
		return slices.Delete(next, pos, pos+1), false
	}
	return slices.Insert(next, pos, i), true
}

// Contains reports whether i is in set.
func Contains(set []int, i int) bool {
	return slices.Contains(set, i)
}

// Normalize returns a sorted copy of set without duplicates. When upper > 0,
// values outside [1, upper] are dropped.
func Normalize(set []int, upper int) []int {
	out := make([]int, 0, len(set))
	for _, v := range set {
		if upper > 0 && (v < 1 || v > upper) {
			continue
		}
		out = append(out, v)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
