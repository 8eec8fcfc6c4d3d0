package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlices(t *testing.T) {
	tests := []struct {
		name      string
		length    int
		size      int
		wantSizes []int
	}{
		{
			name:      "empty input",
			length:    0,
			size:      20,
			wantSizes: nil,
		},
		{
			name:      "shorter than one group",
			length:    5,
			size:      20,
			wantSizes: []int{5},
		},
		{
			name:      "exact multiple",
			length:    40,
			size:      20,
			wantSizes: []int{20, 20},
		},
		{
			name:      "remainder in last group",
			length:    45,
			size:      20,
			wantSizes: []int{20, 20, 5},
		},
		{
			name:      "single element groups",
			length:    3,
			size:      1,
			wantSizes: []int{1, 1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]int, tt.length)
			for i := range items {
				items[i] = i
			}

			groups := Slices(items, tt.size)
			require.Len(t, groups, len(tt.wantSizes))

			var flattened []int
			for i, g := range groups {
				assert.Len(t, g, tt.wantSizes[i])
				flattened = append(flattened, g...)
			}

			// concatenating all groups in order must reproduce the input
			assert.Equal(t, items, append([]int{}, flattened...))
		})
	}
}

func TestSlicesRejectsNonPositiveSize(t *testing.T) {
	assert.Panics(t, func() { Slices([]int{1, 2, 3}, 0) })
	assert.Panics(t, func() { Slices([]int{1, 2, 3}, -1) })
}

func TestSlicesPreservesOrderAcrossBoundaries(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	groups := Slices(items, 2)

	require.Len(t, groups, 3)
	assert.Equal(t, []string{"a", "b"}, groups[0])
	assert.Equal(t, []string{"c", "d"}, groups[1])
	assert.Equal(t, []string{"e"}, groups[2])
}
