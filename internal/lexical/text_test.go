package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercase and collapse", input: "  Pterional   Craniotomy  ", want: "pterional craniotomy"},
		{name: "strips punctuation", input: "s/p coiling, POD#5.", want: "s/p coiling pod5"},
		{name: "keeps internal dash", input: "modified-Fisher grade", want: "modified-fisher grade"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.input))
		})
	}
}

func TestCalculateCombinedSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		min  float64
		max  float64
	}{
		{name: "identical", a: "coiling", b: "coiling", min: 1.0, max: 1.0},
		{name: "identical after normalization", a: "Coiling", b: "  coiling ", min: 1.0, max: 1.0},
		{name: "disjoint tokens", a: "craniotomy", b: "zzzzzzzzzz", min: 0.0, max: 0.35},
		{name: "near match", a: "endovascular coiling", b: "coil embolization", min: 0.1, max: 0.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateCombinedSimilarity(tt.a, tt.b)
			assert.GreaterOrEqual(t, got, tt.min)
			assert.LessOrEqual(t, got, tt.max)
		})
	}
}
