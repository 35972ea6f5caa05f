package grades

import "strings"

// Letter is a symbolic grade on the institutional 23-value ordinal scale.
type Letter string

const (
	APlus  Letter = "A+"
	A      Letter = "A"
	AMinus Letter = "A-"
	BPlus  Letter = "B+"
	B      Letter = "B"
	BMinus Letter = "B-"
	CPlus  Letter = "C+"
	C      Letter = "C"
	CMinus Letter = "C-"
	DPlus  Letter = "D+"
	D      Letter = "D"
	DMinus Letter = "D-"
	EPlus  Letter = "E+"
	E      Letter = "E"
	EMinus Letter = "E-"
	FPlus  Letter = "F+"
	F      Letter = "F"
	FMinus Letter = "F-"
	GPlus  Letter = "G+"
	G      Letter = "G"
	GMinus Letter = "G-"
	NM     Letter = "NM"  // no mark
	ABS    Letter = "ABS" // absent
)

// Letters lists every letter from best to worst.
var Letters = []Letter{
	APlus, A, AMinus,
	BPlus, B, BMinus,
	CPlus, C, CMinus,
	DPlus, D, DMinus,
	EPlus, E, EMinus,
	FPlus, F, FMinus,
	GPlus, G, GMinus,
	NM, ABS,
}

var letterRank = func() map[Letter]int {
	m := make(map[Letter]int, len(Letters))
	for i, l := range Letters {
		m[l] = len(Letters) - i
	}
	// NM and ABS are both zero-valued outcomes.
	m[ABS] = m[NM]
	return m
}()

// Rank returns the ordinal position of the letter, higher is better.
// Unknown letters rank 0.
func (l Letter) Rank() int {
	return letterRank[l]
}

// Valid reports whether l is one of the 23 known letters.
func (l Letter) Valid() bool {
	_, ok := letterRank[l]
	return ok
}

// Passing reports whether the letter carries a non-zero grade point.
func (l Letter) Passing() bool {
	return GradePoint(l) > 0
}

// ParseLetter accepts a letter in any case, e.g. "b+" or "abs".
func ParseLetter(s string) (Letter, bool) {
	l := Letter(strings.ToUpper(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", false
	}
	return l, true
}
