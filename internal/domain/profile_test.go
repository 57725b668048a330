package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreProfile(t *testing.T) {
	tests := []struct {
		name         string
		record       FlatRecord
		wantStrength float64
		wantHints    []string
	}{
		{
			name: "fully curated record",
			record: FlatRecord{
				"title":         "Alabaster",
				"description":   "A warm soft white with a hint of beige.",
				"color_hex":     "#EDEAE0",
				"tags":          []string{"warm", "neutral"},
				"segment_types": []string{"interior"},
			},
			wantStrength: 100.0,
			wantHints:    nil,
		},
		{
			name: "all placeholder record",
			record: FlatRecord{
				"title":         "",
				"description":   "na",
				"color_hex":     "#FFFFFF",
				"tags":          []string{"style1", "style2"},
				"segment_types": []string{},
			},
			wantStrength: 0.0,
			wantHints:    []string{HintDummyDescription, HintDefaultColor, HintGenericTags, HintLowStrength},
		},
		{
			name: "title only",
			record: FlatRecord{
				"title":         "Slate Gray",
				"description":   "none",
				"color_hex":     "#ffffff",
				"tags":          []string{"style3"},
				"segment_types": []string{},
			},
			wantStrength: 20.0,
			wantHints:    []string{HintDummyDescription, HintDefaultColor, HintGenericTags, HintLowStrength},
		},
		{
			name: "three of five passes still flagged weak",
			record: FlatRecord{
				"title":         "Sea Salt",
				"description":   "Coastal green-gray.",
				"color_hex":     "#FFFFFF",
				"tags":          []string{"style1"},
				"segment_types": []string{"exterior"},
			},
			wantStrength: 60.0,
			wantHints:    []string{HintDefaultColor, HintGenericTags},
		},
		{
			name: "one real tag rescues the tag check",
			record: FlatRecord{
				"title":         "Naval",
				"description":   "Deep navy blue.",
				"color_hex":     "#2F3D4C",
				"tags":          []string{"style1", "bold"},
				"segment_types": []string{"interior"},
			},
			wantStrength: 100.0,
			wantHints:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreProfile(tt.record)
			assert.Equal(t, tt.wantStrength, got.Strength)
			assert.Equal(t, tt.wantHints, got.Hints)
		})
	}
}

func TestIsDummyDescription(t *testing.T) {
	assert.True(t, IsDummyDescription(""))
	assert.True(t, IsDummyDescription("  NA "))
	assert.True(t, IsDummyDescription("None"))
	assert.False(t, IsDummyDescription("A durable satin finish."))
	assert.False(t, IsDummyDescription("nada"))
}

func TestIsDummyColor(t *testing.T) {
	assert.True(t, IsDummyColor("#FFFFFF"))
	assert.True(t, IsDummyColor("#ffffff"))
	assert.False(t, IsDummyColor("#FFFFFE"))
	assert.False(t, IsDummyColor(""))
}

func TestIsDummyTags(t *testing.T) {
	assert.True(t, IsDummyTags(nil), "empty tag list counts as dummy")
	assert.True(t, IsDummyTags([]string{"style1", "style3"}))
	assert.False(t, IsDummyTags([]string{"style1", "matte"}))
}
