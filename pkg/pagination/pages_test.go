package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const E = Ellipsis

func TestGeneratePageNumbers(t *testing.T) {
	tests := []struct {
		name                string
		current, total, max int
		want                []int
	}{
		{"no pages", 1, 0, 7, []int{}},
		{"fits", 2, 5, 7, []int{1, 2, 3, 4, 5}},
		{"exactly max", 7, 7, 7, []int{1, 2, 3, 4, 5, 6, 7}},
		{"near start", 1, 20, 7, []int{1, 2, 3, 4, 5, E, 20}},
		{"start edge", 4, 20, 7, []int{1, 2, 3, 4, 5, E, 20}},
		{"middle", 10, 20, 7, []int{1, E, 9, 10, 11, E, 20}},
		{"first middle", 5, 20, 7, []int{1, E, 4, 5, 6, E, 20}},
		{"last middle", 16, 20, 7, []int{1, E, 15, 16, 17, E, 20}},
		{"near end", 18, 20, 7, []int{1, E, 16, 17, 18, 19, 20}},
		{"wider window", 10, 20, 9, []int{1, E, 8, 9, 10, 11, 12, E, 20}},
		{"default width", 10, 20, 0, []int{1, E, 9, 10, 11, E, 20}},
		{"current clamped", 99, 20, 7, []int{1, E, 16, 17, 18, 19, 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GeneratePageNumbers(tt.current, tt.total, tt.max)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGeneratePageNumbersInvariants(t *testing.T) {
	for total := 1; total <= 30; total++ {
		for current := 1; current <= total; current++ {
			got := GeneratePageNumbers(current, total, 7)
			assert.LessOrEqual(t, len(got), 7)
			assert.Equal(t, 1, got[0])
			assert.Equal(t, total, got[len(got)-1])
			assert.Contains(t, got, current)
		}
	}
}

func TestGenerateSmartPageNumbers(t *testing.T) {
	tests := []struct {
		name                                  string
		current, total, siblings, boundaries int
		want                                  []int
	}{
		{"single page", 1, 1, 1, 1, []int{1}},
		{"three pages", 1, 3, 1, 1, []int{1, 2, 3}},
		{"middle", 5, 10, 1, 1, []int{1, E, 4, 5, 6, E, 10}},
		{"start fills gap", 1, 10, 1, 1, []int{1, 2, 3, 4, 5, E, 10}},
		{"end fills gap", 10, 10, 1, 1, []int{1, E, 6, 7, 8, 9, 10}},
		{"two boundaries", 10, 20, 1, 2, []int{1, 2, E, 9, 10, 11, E, 19, 20}},
		{"no siblings", 5, 10, 0, 1, []int{1, E, 5, E, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateSmartPageNumbers(tt.current, tt.total, tt.siblings, tt.boundaries)
			assert.Equal(t, tt.want, got)
		})
	}
}
