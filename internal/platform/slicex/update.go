// Package slicex holds small copy-on-write helpers for slices that are shared
// between readers and must never be modified in place.
package slicex

// UpdateItem returns a new slice where every element equal to value is
// replaced by value. Useful for pointer slices where identity is the key.
func UpdateItem[T comparable](source []T, value T) []T {
	return UpdateItemFunc(source, value, func(current T) bool { return current == value })
}

// UpdateItemFunc returns a new slice where every element matching the
// predicate is replaced by value. Non-matching elements are carried over as is.
func UpdateItemFunc[T any](source []T, value T, match func(T) bool) []T {
	out := make([]T, len(source))
	for i, current := range source {
		if match(current) {
			out[i] = value
			continue
		}
		out[i] = current
	}
	return out
}

// RemoveFunc returns a new slice without the elements matching the predicate.
func RemoveFunc[T any](source []T, match func(T) bool) []T {
	out := make([]T, 0, len(source))
	for _, current := range source {
		if !match(current) {
			out = append(out, current)
		}
	}
	return out
}
