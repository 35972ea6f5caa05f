package whatif

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Gradebook/internal/grades"
)

func float64Ptr(v float64) *float64 { return &v }

func sampleItems() []Item {
	return []Item{
		{ID: "exam", Name: "Final Exam", Weight: 50, Status: grades.StatusPending},
		{ID: "mid", Name: "Midterm", Weight: 30, Mark: float64Ptr(70), Status: grades.StatusEntered},
		{ID: "lab", Name: "Lab", Weight: 20, Mark: float64Ptr(90), Status: grades.StatusAbsent},
	}
}

func TestPredictUsesOverrideForPending(t *testing.T) {
	p := Predict(sampleItems(), map[string]float64{"exam": 80}, grades.ScaleStandard, grades.MethodSimple)

	require.NotNil(t, p.Outcome.ModulePercent)
	// 0.5*80 + 0.3*70 + 0.2*0
	assert.InDelta(t, 61, *p.Outcome.ModulePercent, 1e-9)
	assert.Equal(t, grades.BMinus, p.Outcome.Letter)
	assert.Equal(t, []string{"exam"}, p.PendingIDs)
	assert.Equal(t, 100.0, p.WeightHealth.Total)
}

func TestPredictWithoutOverrideCountsZero(t *testing.T) {
	p := Predict(sampleItems(), nil, grades.ScaleStandard, grades.MethodSimple)
	assert.InDelta(t, 21, *p.Outcome.ModulePercent, 1e-9)
	assert.Equal(t, grades.FMinus, p.Outcome.Letter)
}

func TestPredictIgnoresOverridesForNonPending(t *testing.T) {
	p := Predict(sampleItems(), map[string]float64{"exam": 80, "mid": 100, "lab": 100}, grades.ScaleStandard, grades.MethodSimple)
	assert.InDelta(t, 61, *p.Outcome.ModulePercent, 1e-9)
}

func TestPredictClampsOverrides(t *testing.T) {
	p := Predict(sampleItems(), map[string]float64{"exam": 250}, grades.ScaleStandard, grades.MethodSimple)
	assert.InDelta(t, 71, *p.Outcome.ModulePercent, 1e-9)
}

func TestPredictClassificationPoint(t *testing.T) {
	p := Predict(sampleItems(), map[string]float64{"exam": 80}, grades.ScaleStandard, grades.MethodClassificationPoint)
	require.NotNil(t, p.Outcome.ClassificationPointTotal)
	// A (19.5)*0.5 + A- (18.5)*0.3 + NM*0.2
	assert.InDelta(t, 15.3, *p.Outcome.ClassificationPointTotal, 1e-9)
	assert.Equal(t, grades.BMinus, p.Outcome.Letter)
	assert.Equal(t, "B-", p.Label)
}

func TestPredictNoPending(t *testing.T) {
	items := []Item{{ID: "a", Weight: 100, Mark: float64Ptr(55), Status: grades.StatusEntered}}
	p := Predict(items, nil, grades.ScaleAltLinear, grades.MethodSimple)
	assert.Empty(t, p.PendingIDs)
	assert.Equal(t, grades.CMinus, p.Outcome.Letter)
}
