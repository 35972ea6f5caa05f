package grades

import (
	"math"
	"strings"
)

// Status describes how a component's mark should be read.
type Status string

const (
	StatusEntered Status = "entered"
	StatusAbsent  Status = "abs"
	StatusNoMark  Status = "nm"
	StatusPending Status = "pending"
)

// ParseStatus accepts the stored identifiers and their long forms.
func ParseStatus(v string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "entered":
		return StatusEntered, true
	case "abs", "absent":
		return StatusAbsent, true
	case "nm", "no-mark", "no_mark":
		return StatusNoMark, true
	case "pending":
		return StatusPending, true
	}
	return "", false
}

// ForcesZero reports whether the status overrides any stored mark with 0.
func (s Status) ForcesZero() bool {
	return s == StatusAbsent || s == StatusNoMark
}

// Component is one weighted assessment of a module.
type Component struct {
	Weight float64  `json:"weight"`
	Mark   *float64 `json:"mark,omitempty"`
	Status Status   `json:"status"`
}

// EffectiveMark is 0 for abs/nm components and the given mark otherwise.
// A missing mark counts as 0; pending components are not special-cased,
// callers wanting a prediction substitute the mark before calling.
func (c Component) EffectiveMark() float64 {
	if c.Status.ForcesZero() || c.Mark == nil {
		return 0
	}
	return *c.Mark
}

// WeightHealth summarises the declared weights of a component set.
type WeightHealth struct {
	Total            float64 `json:"total"`
	NormalizedFactor float64 `json:"normalized_factor"`
}

// Balanced reports whether the weights already sum to 100.
func (h WeightHealth) Balanced() bool {
	return h.Total == 100
}

// Fraction converts a declared weight into its normalized share of 1.
func (h WeightHealth) Fraction(weight float64) float64 {
	return finiteOrZero(weight) * h.NormalizedFactor / 100
}

// ComputeWeightHealth sums the declared weights. The factor rescales a set
// not summing to 100 onto a 100% basis; a zero total keeps factor 1.
func ComputeWeightHealth(components []Component) WeightHealth {
	var total float64
	for _, c := range components {
		total += finiteOrZero(c.Weight)
	}
	factor := 1.0
	if total != 100 && total != 0 {
		factor = 100 / total
	}
	return WeightHealth{Total: total, NormalizedFactor: factor}
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
