package grades

import (
	"math"
	"strconv"
	"strings"
)

// InputMode is how a mark was typed in.
type InputMode string

const (
	InputPercent InputMode = "percent"
	InputRaw     InputMode = "raw"
	InputLetter  InputMode = "letter"
)

// ParseInputMode accepts "percent" (or "%"), "raw" and "letter".
func ParseInputMode(v string) (InputMode, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "percent", "%", "":
		return InputPercent, true
	case "raw":
		return InputRaw, true
	case "letter":
		return InputLetter, true
	}
	return "", false
}

// MarkFromInput converts an entered value into a percentage mark.
//
// Raw values are points scored out of the component's weight. Letters map
// to the lower bound of their band on the scale, so the stored mark
// classifies back to the same letter.
func MarkFromInput(mode InputMode, value string, weight float64, s Scale) (float64, bool) {
	switch mode {
	case InputLetter:
		l, ok := ParseLetter(value)
		if !ok {
			return 0, false
		}
		lower, ok := LetterLowerBound(s, l)
		if !ok {
			return 0, true
		}
		return lower, true
	case InputRaw:
		raw, ok := parseNumber(value)
		if !ok {
			return 0, false
		}
		if weight <= 0 {
			return 0, true
		}
		return raw / weight * 100, true
	default:
		return parseNumber(value)
	}
}

// RowBreakdown is the per-component view used by exports and tables.
type RowBreakdown struct {
	Mark                float64 `json:"mark"`
	Letter              Letter  `json:"letter"`
	ClassificationPoint float64 `json:"cp"`
	WeightedCP          float64 `json:"weighted_cp"`
}

// Breakdown classifies one component on its own. WeightedCP uses the
// declared weight as entered, without normalization.
func Breakdown(c Component, s Scale) RowBreakdown {
	mark := c.EffectiveMark()
	letter := Classify(mark, s)
	cp := ClassificationPoints(letter)
	return RowBreakdown{
		Mark:                mark,
		Letter:              letter,
		ClassificationPoint: cp,
		WeightedCP:          finiteOrZero(c.Weight) / 100 * cp,
	}
}

func parseNumber(v string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
