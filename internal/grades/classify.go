package grades

import "math"

// Classify maps a percentage mark to a letter under the scale.
//
// Finite marks are clamped into [0, 100]; NaN and infinities classify as NM.
// Classify never fails: an unknown scale also yields NM.
func Classify(mark float64, s Scale) Letter {
	if math.IsNaN(mark) || math.IsInf(mark, 0) {
		return NM
	}
	bounded := clampPercent(mark)
	for _, band := range table(s) {
		if band.Contains(bounded) {
			return band.Letter
		}
	}
	return NM
}

// LetterLowerBound returns the inclusive lower bound of the letter's band.
// ABS has no band on either scale.
func LetterLowerBound(s Scale, l Letter) (float64, bool) {
	for _, band := range table(s) {
		if band.Letter == l {
			return band.Lower, true
		}
	}
	return 0, false
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
