package grades

import "math"

// ModuleCredit is a module's ECTS credit weight and grade point.
type ModuleCredit struct {
	ECTS       float64 `json:"ects"`
	GradePoint float64 `json:"module_grade_point"`
}

// ComputeGPA returns the credit-weighted mean grade point rounded to two
// decimals. Negative credits count as 0; no credits give 0.
func ComputeGPA(modules []ModuleCredit) float64 {
	var weighted, credits float64
	for _, m := range modules {
		ects := math.Max(0, finiteOrZero(m.ECTS))
		weighted += ects * finiteOrZero(m.GradePoint)
		credits += ects
	}
	if credits == 0 {
		return 0
	}
	return roundHundredths(weighted / credits)
}

// roundHundredths rounds half up at the second decimal. Inputs are never
// negative, where math.Round and half up agree.
func roundHundredths(v float64) float64 {
	return math.Round(v*100) / 100
}
