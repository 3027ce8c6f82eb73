package notes

import "sort"

// SortByRecency returns a copy of list ordered by LastModified, newest first.
// Notes with equal LastModified keep their relative order.
func SortByRecency(list []Note) []Note {
	out := make([]Note, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastModified.After(out[j].LastModified)
	})
	return out
}

// SortByCreated returns a copy of list ordered by DateCreated, newest first.
func SortByCreated(list []Note) []Note {
	out := make([]Note, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateCreated.After(out[j].DateCreated)
	})
	return out
}
