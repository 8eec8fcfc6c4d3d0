// Package chunk partitions ordered slices into bounded-size groups.
package chunk

// Slices splits items into groups of at most size elements, preserving
// order across group boundaries. Every group except possibly the last has
// exactly size elements. A nil or empty input yields no groups.
//
// size must be positive; a non-positive size is a programmer error and
// panics.
func Slices[T any](items []T, size int) [][]T {
	if size <= 0 {
		panic("chunk: size must be positive")
	}
	if len(items) == 0 {
		return nil
	}

	groups := make([][]T, 0, (len(items)+size-1)/size)
	for size < len(items) {
		groups = append(groups, items[:size:size])
		items = items[size:]
	}
	return append(groups, items)
}
