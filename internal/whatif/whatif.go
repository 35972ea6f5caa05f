package whatif

import (
	"math"

	"github.com/MikeSquared-Agency/Gradebook/internal/grades"
)

// Item is an identified assessment component.
type Item struct {
	ID     string        `json:"id"`
	Name   string        `json:"name,omitempty"`
	Weight float64       `json:"weight"`
	Mark   *float64      `json:"mark,omitempty"`
	Status grades.Status `json:"status"`
}

// Prediction is the outcome of a module with pending marks substituted.
type Prediction struct {
	Outcome      grades.ModuleOutcome `json:"outcome"`
	Label        string               `json:"label"`
	PendingIDs   []string             `json:"pending_ids"`
	WeightHealth grades.WeightHealth  `json:"weight_health"`
}

// Predict computes the module outcome as if each pending item scored its
// override. Pending items without an override keep their stored mark, or 0.
// Overrides for items that are not pending are ignored.
func Predict(items []Item, overrides map[string]float64, s grades.Scale, m grades.Method) Prediction {
	components := make([]grades.Component, len(items))
	pending := []string{}
	for i, it := range items {
		mark := resolve(it, overrides)
		components[i] = grades.Component{Weight: it.Weight, Mark: &mark, Status: it.Status}
		if it.Status == grades.StatusPending {
			pending = append(pending, it.ID)
		}
	}
	outcome := grades.ComputeModuleOutcome(components, s, m)
	return Prediction{
		Outcome:      outcome,
		Label:        outcome.Label(),
		PendingIDs:   pending,
		WeightHealth: grades.ComputeWeightHealth(components),
	}
}

func resolve(it Item, overrides map[string]float64) float64 {
	switch {
	case it.Status.ForcesZero():
		return 0
	case it.Status == grades.StatusPending:
		if v, ok := overrides[it.ID]; ok && !math.IsNaN(v) {
			return math.Max(0, math.Min(100, v))
		}
	}
	if it.Mark == nil {
		return 0
	}
	return *it.Mark
}
