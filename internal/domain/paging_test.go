package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageOf(t *testing.T) {
	tests := []struct {
		name       string
		from, size int
		wantOffset int
	}{
		{"first page", 0, 10, 0},
		{"exact page boundary", 10, 10, 10},
		{"offset inside a page rounds down", 3, 3, 3},
		{"offset mid-page", 4, 3, 3},
		{"offset just before boundary", 5, 3, 3},
		{"second page boundary", 6, 3, 6},
		{"large offset", 17, 5, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := PageOf(tt.from, tt.size)
			assert.Equal(t, tt.wantOffset, page.Offset)
			assert.Equal(t, tt.size, page.Limit)
		})
	}
}
