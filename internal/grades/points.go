package grades

import "maps"

// Classification points on the 21-point scale. Used only to aggregate
// components before reclassification through the module outcome table.
var classificationPoints = map[Letter]float64{
	APlus:  20.5,
	A:      19.5,
	AMinus: 18.5,
	BPlus:  17.5,
	B:      16.5,
	BMinus: 15.5,
	CPlus:  14.5,
	C:      13.5,
	CMinus: 12.5,
	DPlus:  11.5,
	D:      10.5,
	DMinus: 9.5,
	EPlus:  8.5,
	E:      7.5,
	EMinus: 6.5,
	FPlus:  5.5,
	F:      4.5,
	FMinus: 3.5,
	GPlus:  2.5,
	G:      1.5,
	GMinus: 0.5,
	NM:     0,
	ABS:    0,
}

// Grade points on the 4.2 scale. Everything below D- is 0.0 even though
// it keeps a positive classification point.
var gradePoints = map[Letter]float64{
	APlus:  4.2,
	A:      4.0,
	AMinus: 3.8,
	BPlus:  3.6,
	B:      3.4,
	BMinus: 3.2,
	CPlus:  3.0,
	C:      2.8,
	CMinus: 2.6,
	DPlus:  2.4,
	D:      2.2,
	DMinus: 2.0,
	EPlus:  0.0,
	E:      0.0,
	EMinus: 0.0,
	FPlus:  0.0,
	F:      0.0,
	FMinus: 0.0,
	GPlus:  0.0,
	G:      0.0,
	GMinus: 0.0,
	NM:     0.0,
	ABS:    0.0,
}

// ClassificationPoints returns the 21-point value of a letter.
func ClassificationPoints(l Letter) float64 {
	return classificationPoints[l]
}

// GradePoint returns the 4.2-scale grade point of a letter.
func GradePoint(l Letter) float64 {
	return gradePoints[l]
}

// ClassificationPointTable returns a copy of the letter to classification
// point mapping.
func ClassificationPointTable() map[Letter]float64 {
	return maps.Clone(classificationPoints)
}

// GradePointTable returns a copy of the letter to grade point mapping.
func GradePointTable() map[Letter]float64 {
	return maps.Clone(gradePoints)
}
