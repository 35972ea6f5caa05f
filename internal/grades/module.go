package grades

import (
	"math"
	"strings"
)

// Method selects how a module's components are aggregated.
type Method string

const (
	// MethodSimple averages percentages directly and classifies once.
	MethodSimple Method = "simple"
	// MethodClassificationPoint classifies each component, weights the
	// 21-point values and maps the total through the module outcome table.
	MethodClassificationPoint Method = "ucd_21"
)

// ParseMethod accepts the stored identifiers and "classification-point".
func ParseMethod(v string) (Method, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "simple":
		return MethodSimple, true
	case "ucd_21", "classification-point", "classification_point":
		return MethodClassificationPoint, true
	}
	return "", false
}

// Valid reports whether m names a known method.
func (m Method) Valid() bool {
	return m == MethodSimple || m == MethodClassificationPoint
}

// ModuleOutcome is the computed result for one module. ModulePercent is set
// by the simple method only, ClassificationPointTotal by the
// classification-point method only.
type ModuleOutcome struct {
	Method                   Method   `json:"method"`
	ModulePercent            *float64 `json:"module_percent,omitempty"`
	Letter                   Letter   `json:"module_letter"`
	GradePoint               float64  `json:"module_grade_point"`
	ClassificationPointTotal *float64 `json:"cp_total,omitempty"`
}

// Label is the display form of the module letter. Under classification
// point aggregation E+, E and E- are the fail-marginal outcomes FM+, FM and
// FM-.
func (o ModuleOutcome) Label() string {
	if o.Method == MethodClassificationPoint {
		switch o.Letter {
		case EPlus:
			return "FM+"
		case E:
			return "FM"
		case EMinus:
			return "FM-"
		}
	}
	return string(o.Letter)
}

// ComputeModuleOutcome aggregates a module's components under the method.
// Any method other than MethodSimple aggregates by classification points.
func ComputeModuleOutcome(components []Component, s Scale, m Method) ModuleOutcome {
	if m == MethodSimple {
		return SimpleAverage(components, s)
	}
	letters := make([]WeightedLetter, len(components))
	for i, c := range components {
		letters[i] = WeightedLetter{Weight: c.Weight, Letter: Classify(c.EffectiveMark(), s)}
	}
	return AggregateClassificationPoints(letters)
}

// SimpleAverage classifies the normalized weighted mean of the clamped
// effective marks.
func SimpleAverage(components []Component, s Scale) ModuleOutcome {
	health := ComputeWeightHealth(components)
	var percent float64
	for _, c := range components {
		percent += health.Fraction(c.Weight) * boundedMark(c.EffectiveMark())
	}
	letter := Classify(percent, s)
	return ModuleOutcome{
		Method:        MethodSimple,
		ModulePercent: &percent,
		Letter:        letter,
		GradePoint:    GradePoint(letter),
	}
}

// WeightedLetter is a component already classified into a letter.
type WeightedLetter struct {
	Weight float64 `json:"weight"`
	Letter Letter  `json:"letter"`
}

// AggregateClassificationPoints weights each letter's classification points
// by its normalized weight and maps the total through the module outcome
// table.
func AggregateClassificationPoints(letters []WeightedLetter) ModuleOutcome {
	components := make([]Component, len(letters))
	for i, l := range letters {
		components[i] = Component{Weight: l.Weight}
	}
	health := ComputeWeightHealth(components)

	var cpTotal float64
	for _, l := range letters {
		cpTotal += health.Fraction(l.Weight) * ClassificationPoints(l.Letter)
	}
	letter, gp := ModuleOutcomeFromCP(cpTotal)
	return ModuleOutcome{
		Method:                   MethodClassificationPoint,
		Letter:                   letter,
		GradePoint:               gp,
		ClassificationPointTotal: &cpTotal,
	}
}

// outcomeBands is the module outcome table for totals of 9 and above,
// lower bounds inclusive.
var outcomeBands = []struct {
	min    float64
	letter Letter
}{
	{20, APlus},
	{19, A},
	{18, AMinus},
	{17, BPlus},
	{16, B},
	{15, BMinus},
	{14, CPlus},
	{13, C},
	{12, CMinus},
	{11, DPlus},
	{10, D},
	{9, DMinus},
}

// failBands covers (0, 9) with upper bounds inclusive.
var failBands = []struct {
	above  float64
	letter Letter
}{
	{8, EPlus},
	{7, E},
	{6, EMinus},
	{5, FPlus},
	{4, F},
	{3, FMinus},
	{2, GPlus},
	{1, G},
	{0, GMinus},
}

// ModuleOutcomeFromCP maps an aggregate classification point total to the
// module letter and its grade point. Totals at or below 0 are NM; the table
// cannot tell an all-absent module from an ungraded one.
func ModuleOutcomeFromCP(cp float64) (Letter, float64) {
	c := math.Max(0, cp)
	if math.IsNaN(c) || c == 0 {
		return NM, 0
	}
	for _, b := range outcomeBands {
		if c >= b.min {
			return b.letter, GradePoint(b.letter)
		}
	}
	for _, b := range failBands {
		if c > b.above {
			return b.letter, 0
		}
	}
	return NM, 0
}

func boundedMark(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return clampPercent(v)
}
