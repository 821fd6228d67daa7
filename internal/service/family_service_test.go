package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeInterests(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "lowercases and trims",
			in:   []string{" Reading ", "SPORT"},
			want: []string{"reading", "sport"},
		},
		{
			name: "deduplicates preserving order",
			in:   []string{"sport", "reading", "Sport", "reading"},
			want: []string{"sport", "reading"},
		},
		{
			name: "drops empties",
			in:   []string{"", "  ", "outdoor"},
			want: []string{"outdoor"},
		},
		{
			name: "splits on the storage delimiter",
			in:   []string{"arts, crafts", "sport"},
			want: []string{"arts", "crafts", "sport"},
		},
		{
			name: "nil input",
			in:   nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeInterests(tt.in))
		})
	}
}
