package grades

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float64Ptr(v float64) *float64 { return &v }

func entered(weight, mark float64) Component {
	return Component{Weight: weight, Mark: float64Ptr(mark), Status: StatusEntered}
}

func TestAggregateClassificationPointsExample(t *testing.T) {
	res := AggregateClassificationPoints([]WeightedLetter{
		{Weight: 20, Letter: BPlus},
		{Weight: 30, Letter: CMinus},
		{Weight: 50, Letter: D},
	})
	// 17.5*0.2 + 12.5*0.3 + 10.5*0.5 = 3.5 + 3.75 + 5.25
	require.NotNil(t, res.ClassificationPointTotal)
	assert.InDelta(t, 12.5, *res.ClassificationPointTotal, 1e-9)
	assert.Equal(t, CMinus, res.Letter)
	assert.InDelta(t, 2.6, res.GradePoint, 1e-9)
	assert.Nil(t, res.ModulePercent)
	assert.Equal(t, MethodClassificationPoint, res.Method)
}

func TestComputeModuleOutcomeClassificationPoint(t *testing.T) {
	components := []Component{
		entered(20, 68), // B+
		entered(30, 51), // C-
		entered(50, 45), // D
	}
	res := ComputeModuleOutcome(components, ScaleStandard, MethodClassificationPoint)
	require.NotNil(t, res.ClassificationPointTotal)
	assert.InDelta(t, 12.5, *res.ClassificationPointTotal, 1e-9)
	assert.Equal(t, CMinus, res.Letter)
}

func TestComputeModuleOutcomeSimple(t *testing.T) {
	res := ComputeModuleOutcome([]Component{entered(50, 80), entered(50, 60)}, ScaleStandard, MethodSimple)
	require.NotNil(t, res.ModulePercent)
	assert.InDelta(t, 70, *res.ModulePercent, 1e-9)
	assert.Equal(t, AMinus, res.Letter)
	assert.InDelta(t, 3.8, res.GradePoint, 1e-9)
	assert.Nil(t, res.ClassificationPointTotal)
}

func TestSimpleAverageClampsMarks(t *testing.T) {
	res := SimpleAverage([]Component{entered(50, 140), entered(50, -20)}, ScaleStandard)
	assert.InDelta(t, 50, *res.ModulePercent, 1e-9)
	assert.Equal(t, CMinus, res.Letter)
}

func TestAbsentAndNoMarkForceZero(t *testing.T) {
	components := []Component{
		{Weight: 50, Mark: float64Ptr(90), Status: StatusAbsent},
		{Weight: 50, Mark: float64Ptr(90), Status: StatusNoMark},
	}

	simple := ComputeModuleOutcome(components, ScaleStandard, MethodSimple)
	assert.Zero(t, *simple.ModulePercent)
	assert.Equal(t, NM, simple.Letter)

	cp := ComputeModuleOutcome(components, ScaleStandard, MethodClassificationPoint)
	assert.Zero(t, *cp.ClassificationPointTotal)
	assert.Equal(t, NM, cp.Letter)
	assert.Zero(t, cp.GradePoint)
}

func TestPendingWithoutMarkCountsAsZero(t *testing.T) {
	components := []Component{
		entered(50, 80),
		{Weight: 50, Status: StatusPending},
	}
	res := ComputeModuleOutcome(components, ScaleStandard, MethodSimple)
	assert.InDelta(t, 40, *res.ModulePercent, 1e-9)
	assert.Equal(t, DMinus, res.Letter)
}

func TestMalformedWeightsAreNormalized(t *testing.T) {
	t.Run("sum below 100", func(t *testing.T) {
		res := SimpleAverage([]Component{entered(25, 80), entered(25, 60)}, ScaleStandard)
		assert.InDelta(t, 70, *res.ModulePercent, 1e-9)
	})
	t.Run("sum above 100", func(t *testing.T) {
		res := SimpleAverage([]Component{entered(100, 80), entered(100, 60)}, ScaleStandard)
		assert.InDelta(t, 70, *res.ModulePercent, 1e-9)
	})
	t.Run("all zero", func(t *testing.T) {
		res := SimpleAverage([]Component{entered(0, 80), entered(0, 60)}, ScaleStandard)
		assert.Zero(t, *res.ModulePercent)
		assert.Equal(t, NM, res.Letter)
	})
	t.Run("classification points", func(t *testing.T) {
		res := AggregateClassificationPoints([]WeightedLetter{{Weight: 10, Letter: APlus}, {Weight: 10, Letter: A}})
		assert.InDelta(t, 20, *res.ClassificationPointTotal, 1e-9)
		assert.Equal(t, APlus, res.Letter)
	})
}

func TestEmptyComponents(t *testing.T) {
	for _, m := range []Method{MethodSimple, MethodClassificationPoint} {
		res := ComputeModuleOutcome(nil, ScaleAltLinear, m)
		assert.Equal(t, NM, res.Letter, "method %s", m)
		assert.Zero(t, res.GradePoint, "method %s", m)
	}
}

func TestComputeModuleOutcomeIdempotent(t *testing.T) {
	components := []Component{entered(30, 72.5), entered(70, 48), {Weight: 10, Status: StatusAbsent}}
	for _, m := range []Method{MethodSimple, MethodClassificationPoint} {
		first := ComputeModuleOutcome(components, ScaleStandard, m)
		second := ComputeModuleOutcome(components, ScaleStandard, m)
		assert.Equal(t, first, second)
	}
}

func TestModuleOutcomeFromCP(t *testing.T) {
	tests := []struct {
		cp     float64
		letter Letter
		gp     float64
	}{
		{25, APlus, 4.2},
		{20, APlus, 4.2},
		{19.99, A, 4.0},
		{12.5, CMinus, 2.6},
		{9.0, DMinus, 2.0},
		{8.99, EPlus, 0},
		{8.5, EPlus, 0},
		{8.0, E, 0},
		{7.0, EMinus, 0},
		{6.5, EMinus, 0},
		{6.0, FPlus, 0},
		{5.0, F, 0},
		{4.0, FMinus, 0},
		{3.0, GPlus, 0},
		{2.0, G, 0},
		{1.0, GMinus, 0},
		{0.25, GMinus, 0},
		{0, NM, 0},
		{-3, NM, 0},
	}
	for _, tt := range tests {
		letter, gp := ModuleOutcomeFromCP(tt.cp)
		assert.Equal(t, tt.letter, letter, "cp %v", tt.cp)
		assert.InDelta(t, tt.gp, gp, 1e-9, "cp %v", tt.cp)
	}
}

func TestModuleOutcomeTableIsNotScaleTable(t *testing.T) {
	// 12.5 on the percentage scales would be G-, on the outcome table it is C-.
	letter, _ := ModuleOutcomeFromCP(12.5)
	assert.Equal(t, CMinus, letter)
	assert.Equal(t, GMinus, Classify(12.5, ScaleStandard))
}

func TestOutcomeLabel(t *testing.T) {
	res := AggregateClassificationPoints([]WeightedLetter{{Weight: 100, Letter: EPlus}})
	assert.Equal(t, EPlus, res.Letter)
	assert.Equal(t, "FM+", res.Label())

	simple := SimpleAverage([]Component{entered(100, 35)}, ScaleStandard)
	assert.Equal(t, E, simple.Letter)
	assert.Equal(t, "E", simple.Label())
}

func TestParseMethod(t *testing.T) {
	m, ok := ParseMethod("classification-point")
	assert.True(t, ok)
	assert.Equal(t, MethodClassificationPoint, m)

	m, ok = ParseMethod("simple")
	assert.True(t, ok)
	assert.Equal(t, MethodSimple, m)

	_, ok = ParseMethod("median")
	assert.False(t, ok)
}
