package orderfeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageWindow(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		total    int
		expected []int
	}{
		{
			name:     "middle page collapses both sides",
			current:  5,
			total:    10,
			expected: []int{1, GapPage, 3, 4, 5, 6, 7, GapPage, 10},
		},
		{
			name:     "first page collapses only the tail",
			current:  1,
			total:    10,
			expected: []int{1, 2, 3, GapPage, 10},
		},
		{
			name:     "last page collapses only the head",
			current:  10,
			total:    10,
			expected: []int{1, GapPage, 8, 9, 10},
		},
		{
			name:     "adjacent runs never produce a gap",
			current:  4,
			total:    7,
			expected: []int{1, 2, 3, 4, 5, 6, 7},
		},
		{
			name:     "small total lists every page",
			current:  2,
			total:    5,
			expected: []int{1, 2, 3, 4, 5},
		},
		{
			name:     "single page",
			current:  1,
			total:    1,
			expected: []int{1},
		},
		{
			name:     "current clamped above total",
			current:  50,
			total:    10,
			expected: []int{1, GapPage, 8, 9, 10},
		},
		{
			name:     "current clamped below one",
			current:  0,
			total:    10,
			expected: []int{1, 2, 3, GapPage, 10},
		},
		{
			name:     "no pages",
			current:  1,
			total:    0,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PageWindow(tt.current, tt.total))
		})
	}
}
