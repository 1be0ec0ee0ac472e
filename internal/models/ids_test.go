package models

import (
	"slices"
	"testing"
)

func TestUniqueIDs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"keeps order", []string{"b", "a", "c"}, []string{"b", "a", "c"}},
		{"drops repeats after first", []string{"a", "b", "a", "b"}, []string{"a", "b"}},
		{"drops empty", []string{"", "a", ""}, []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UniqueIDs(tt.in)
			if !slices.Equal(got, tt.want) || got == nil {
				t.Errorf("UniqueIDs(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
