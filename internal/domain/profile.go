package domain

import (
	"math"
	"strings"
)

// Placeholder values left behind by bulk imports. A record still carrying
// them has not been curated yet.
var (
	dummyTags         = map[string]struct{}{"style1": {}, "style2": {}, "style3": {}}
	dummyDescriptions = map[string]struct{}{"": {}, "na": {}, "none": {}}
)

// DefaultColorHex is the placeholder white assigned to uncurated records.
const DefaultColorHex = "#FFFFFF"

// ProfileScore is the data-completeness verdict for a catalog record.
// Derived on demand, never persisted as source of truth.
type ProfileScore struct {
	Strength float64  `json:"strength"` // 0-100, one decimal place
	Hints    []string `json:"hints"`
}

// Curation hint labels.
const (
	HintDummyDescription = "Dummy Description"
	HintDefaultColor     = "Default Color"
	HintGenericTags      = "Generic Tags"
	HintLowStrength      = "Low Strength"
)

// lowStrengthThreshold is the score below which a record is flagged weak.
const lowStrengthThreshold = 60

// ScoreProfile evaluates the five completeness checks, each worth 20 points:
// title present, description not a placeholder, color not the default white,
// tags not all generic, and segment types non-empty. Hints name each failing
// placeholder field; "Low Strength" is added independently when the overall
// score falls below 60.
func ScoreProfile(r FlatRecord) ProfileScore {
	checks := []bool{
		r.Str("title") != "",
		!IsDummyDescription(r.Str("description")),
		!IsDummyColor(r.Str("color_hex")),
		!IsDummyTags(r.Strings("tags")),
		len(r.Strings("segment_types")) > 0,
	}

	passed := 0
	for _, ok := range checks {
		if ok {
			passed++
		}
	}
	strength := math.Round(float64(passed)/float64(len(checks))*1000) / 10

	var hints []string
	if IsDummyDescription(r.Str("description")) {
		hints = append(hints, HintDummyDescription)
	}
	if IsDummyColor(r.Str("color_hex")) {
		hints = append(hints, HintDefaultColor)
	}
	if IsDummyTags(r.Strings("tags")) {
		hints = append(hints, HintGenericTags)
	}
	if strength < lowStrengthThreshold {
		hints = append(hints, HintLowStrength)
	}

	return ProfileScore{Strength: strength, Hints: hints}
}

// IsDummyDescription reports whether the description is a placeholder
// (empty, "na" or "none", case-insensitive, whitespace-trimmed).
func IsDummyDescription(desc string) bool {
	_, ok := dummyDescriptions[strings.ToLower(strings.TrimSpace(desc))]
	return ok
}

// IsDummyColor reports whether the hex code is the default white placeholder.
func IsDummyColor(hex string) bool {
	return strings.ToUpper(hex) == DefaultColorHex
}

// IsDummyTags reports whether every tag is generic. An empty tag list is a
// subset of the dummy set and therefore counts as dummy.
func IsDummyTags(tags []string) bool {
	for _, t := range tags {
		if _, ok := dummyTags[t]; !ok {
			return false
		}
	}
	return true
}
