package disk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocateSlots(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing []int
		count    int
		want     []int
	}{
		{
			name:     "empty set starts at zero",
			existing: nil,
			count:    3,
			want:     []int{0, 1, 2},
		},
		{
			name:     "single disk on fresh VM",
			existing: []int{},
			count:    1,
			want:     []int{0},
		},
		{
			name:     "continues above highest slot",
			existing: []int{0, 1, 2},
			count:    2,
			want:     []int{3, 4},
		},
		{
			name:     "gaps are not back-filled",
			existing: []int{0, 1, 3},
			count:    2,
			want:     []int{4, 5},
		},
		{
			name:     "unordered existing slots",
			existing: []int{5, 0, 2},
			count:    1,
			want:     []int{6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, AllocateSlots(tt.existing, tt.count))
		})
	}
}

func TestAllocateSlots_DisjointFromExisting(t *testing.T) {
	t.Parallel()

	existing := []int{0, 1, 3, 7}
	got := AllocateSlots(existing, 4)

	assert.Len(t, got, 4)
	occupied := make(map[int]bool)
	for _, slot := range existing {
		occupied[slot] = true
	}
	for _, slot := range got {
		assert.False(t, occupied[slot], "allocated slot %d collides with existing set", slot)
	}
}
