package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical colors", []float64{50, 10, -5}, []float64{50, 10, -5}, 0},
		{"single channel delta", []float64{50, 0, 0}, []float64{53, 0, 0}, 3},
		{"pythagorean triple", []float64{0, 3, 0}, []float64{0, 0, 4}, 5},
		{"short slices pad with zeros", []float64{3}, nil, 3},
		{"both empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, LabDistance(tt.a, tt.b), 1e-9)
		})
	}
}

func TestIsColorMatch(t *testing.T) {
	base := []float64{50, 0, 0}
	assert.True(t, IsColorMatch(base, []float64{52, 0, 0}, 2.0), "distance equal to threshold matches")
	assert.False(t, IsColorMatch(base, []float64{53, 0, 0}, 2.0))
}

func TestLRVScore(t *testing.T) {
	assert.Equal(t, 0.85, LRVScore(85))
	assert.Equal(t, 0.0, LRVScore(-10))
	assert.Equal(t, 1.0, LRVScore(230))
}

func TestValidateHexColor(t *testing.T) {
	assert.True(t, ValidateHexColor("#FFFFFF"))
	assert.True(t, ValidateHexColor("#abc"))
	assert.False(t, ValidateHexColor("FFFFFF"))
	assert.False(t, ValidateHexColor("#FFFF"))
	assert.False(t, ValidateHexColor("#GGGGGG"))
	assert.False(t, ValidateHexColor(""))
}

func TestIsWhiteColor(t *testing.T) {
	assert.True(t, IsWhiteColor("#FFF"))
	assert.True(t, IsWhiteColor("#ffffff"))
	assert.False(t, IsWhiteColor("#FEFEFE"))
}

func TestLabDistanceSymmetry(t *testing.T) {
	a := []float64{31.2, 4.7, -12.1}
	b := []float64{78.5, -2.3, 9.9}
	assert.InDelta(t, LabDistance(a, b), LabDistance(b, a), 1e-12)
	assert.False(t, math.Signbit(LabDistance(a, b)))
}
