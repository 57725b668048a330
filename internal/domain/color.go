package domain

import (
	"math"
	"regexp"
	"strings"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}){1,2}$`)

// LabDistance computes the Delta-E (CIE76, plain Euclidean) distance between
// two LAB colors. Slices shorter than 3 channels are padded with zeros.
func LabDistance(lab1, lab2 []float64) float64 {
	var sum float64
	for i := 0; i < 3; i++ {
		d := labChannel(lab1, i) - labChannel(lab2, i)
		sum += d * d
	}
	return math.Sqrt(sum)
}

// IsColorMatch reports whether two LAB colors are within the Delta-E threshold.
func IsColorMatch(lab1, lab2 []float64, threshold float64) bool {
	return LabDistance(lab1, lab2) <= threshold
}

// LRVScore normalizes a light-reflectance value to a 0-1 scale.
func LRVScore(lrv float64) float64 {
	return math.Min(math.Max(lrv/100, 0), 1)
}

// ValidateHexColor reports whether the string is a 3- or 6-digit hex color.
func ValidateHexColor(hex string) bool {
	return hexColorPattern.MatchString(hex)
}

// IsWhiteColor reports whether the hex code is plain white.
func IsWhiteColor(hex string) bool {
	h := strings.ToLower(hex)
	return h == "#fff" || h == "#ffffff"
}

func labChannel(lab []float64, i int) float64 {
	if i < len(lab) {
		return lab[i]
	}
	return 0
}
