package grades

import "strings"

// Scale selects the percentage-to-letter band boundaries of a grading policy.
type Scale string

const (
	ScaleStandard  Scale = "standard_40"
	ScaleAltLinear Scale = "alt_linear_40"
)

// The top band reaches past 100 so that a mark of exactly 100 classifies.
const (
	topBandCeiling  = 100.0001
	noMarkThreshold = 0.01
)

// ScaleBand covers marks in [Lower, Upper).
type ScaleBand struct {
	Letter Letter  `json:"letter"`
	Lower  float64 `json:"lower"`
	Upper  float64 `json:"upper"`
}

// Contains reports whether mark falls inside the band.
func (b ScaleBand) Contains(mark float64) bool {
	return mark >= b.Lower && mark < b.Upper
}

// Standard Conversion Grade Scale (40% pass).
var standardBands = []ScaleBand{
	{APlus, 90, topBandCeiling},
	{A, 80, 90},
	{AMinus, 70, 80},
	{BPlus, 66.67, 70},
	{B, 63.33, 66.67},
	{BMinus, 60, 63.33},
	{CPlus, 56.67, 60},
	{C, 53.33, 56.67},
	{CMinus, 50, 53.33},
	{DPlus, 46.67, 50},
	{D, 43.33, 46.67},
	{DMinus, 40, 43.33},
	{EPlus, 36.67, 40},
	{E, 33.33, 36.67},
	{EMinus, 30, 33.33},
	{FPlus, 26.67, 30},
	{F, 23.33, 26.67},
	{FMinus, 20, 23.33},
	{GPlus, 16.67, 20},
	{G, 13.33, 16.67},
	{GMinus, noMarkThreshold, 13.33},
	{NM, 0, noMarkThreshold},
}

// Alternative Linear Conversion Grade Scale (40% pass).
var altLinearBands = []ScaleBand{
	{APlus, 95, topBandCeiling},
	{A, 90, 95},
	{AMinus, 85, 90},
	{BPlus, 80, 85},
	{B, 75, 80},
	{BMinus, 70, 75},
	{CPlus, 65, 70},
	{C, 60, 65},
	{CMinus, 55, 60},
	{DPlus, 50, 55},
	{D, 45, 50},
	{DMinus, 40, 45},
	{EPlus, 35, 40},
	{E, 30, 35},
	{EMinus, 25, 30},
	{FPlus, 20, 25},
	{F, 15, 20},
	{FMinus, 10, 15},
	{GPlus, 5, 10},
	{G, 0.02, 5},
	{GMinus, noMarkThreshold, 0.02},
	{NM, 0, noMarkThreshold},
}

// Scales lists the supported scales.
var Scales = []Scale{ScaleStandard, ScaleAltLinear}

// Valid reports whether s names a known scale.
func (s Scale) Valid() bool {
	return s == ScaleStandard || s == ScaleAltLinear
}

// String returns a human-readable scale name.
func (s Scale) String() string {
	switch s {
	case ScaleStandard:
		return "Standard 40% Pass"
	case ScaleAltLinear:
		return "Alternative Linear 40% Pass"
	default:
		return string(s)
	}
}

// ParseScale accepts the stored identifiers as well as "standard" and
// "alt-linear".
func ParseScale(v string) (Scale, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "standard_40", "standard":
		return ScaleStandard, true
	case "alt_linear_40", "alt-linear", "alt_linear":
		return ScaleAltLinear, true
	}
	return "", false
}

// Bands returns a copy of the band table for the scale, highest band first.
// Unknown scales return nil.
func Bands(s Scale) []ScaleBand {
	t := table(s)
	if t == nil {
		return nil
	}
	out := make([]ScaleBand, len(t))
	copy(out, t)
	return out
}

func table(s Scale) []ScaleBand {
	switch s {
	case ScaleStandard:
		return standardBands
	case ScaleAltLinear:
		return altLinearBands
	}
	return nil
}
