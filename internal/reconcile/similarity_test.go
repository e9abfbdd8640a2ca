package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase passthrough", "kitchenlamp", "kitchenlamp"},
		{"spaces stripped", "Kitchen Lamp", "kitchenlamp"},
		{"hyphens stripped", "kitchen-lamp", "kitchenlamp"},
		{"underscores stripped", "Kitchen_Lamp", "kitchenlamp"},
		{"mixed separators", "Master-Bed_Room Light", "masterbedroomlight"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"equal strings", "kitchen", "kitchen", 0},
		{"empty vs empty", "", "", 0},
		{"empty vs nonempty", "", "lamp", 4},
		{"nonempty vs empty", "lamp", "", 4},
		{"single substitution", "lamp", "ramp", 1},
		{"single insertion", "lamp", "lamps", 1},
		{"single deletion", "lamps", "lamp", 1},
		{"classic kitten sitting", "kitten", "sitting", 3},
		{"unicode code points", "café", "cafe", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
		})
	}
}

// Distance to self is always zero, for any string.
func TestLevenshteinSelfIsZero(t *testing.T) {
	for _, s := range []string{"", "a", "Kitchen Lamp", "ランプ"} {
		assert.Zero(t, Levenshtein(s, s), "levenshtein(%q, %q)", s, s)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "Kitchen Lamp", "Kitchen Lamp", 1.0},
		{"identical case folded", "Kitchen Lamp", "kitchen lamp", 1.0},
		{"empty vs nonempty", "", "lamp", 0.0},
		{"nonempty vs empty", "lamp", "", 0.0},
		{"both empty", "", "", 0.0},
		{"one edit in four", "lamp", "ramp", 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"Kitchen Lamp", "Kitchen Light"},
		{"Hall", "Hallway"},
		{"", "Den"},
		{"Porch", "Porch"},
	}
	for _, p := range pairs {
		assert.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]),
			"similarity(%q, %q) not symmetric", p[0], p[1])
	}
}

func TestSimilaritySelfIsOne(t *testing.T) {
	for _, s := range []string{"a", "Kitchen Lamp", "Dining Room Chandelier"} {
		assert.Equal(t, 1.0, Similarity(s, s))
	}
}
