package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveExponent(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected float64
	}{
		{"hundreds", "H", 100},
		{"hundreds lowercase", "h", 100},
		{"thousands K", "K", 1_000},
		{"thousands k", "k", 1_000},
		{"thousands T", "T", 1_000},
		{"millions", "M", 1_000_000},
		{"millions lowercase", "m", 1_000_000},
		{"billions", "B", 1_000_000_000},
		{"empty", "", 1},
		{"unrecognized letter", "Z", 1},
		{"digit", "5", 1},
		{"punctuation", "+", 1},
		{"question mark", "?", 1},
		{"multi-character", "KM", 1},
		{"padded", " k ", 1_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveExponent(tt.code))
		})
	}
}
