package statkit

import (
	"errors"
	"math"
	"testing"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTest_HandComputedReference(t *testing.T) {
	group1 := []float64{10, 12, 11, 13}
	group2 := []float64{8, 9, 7, 10}

	result, err := TTest(group1, group2)
	require.NoError(t, err)

	// both variances are 5/3, so SE = sqrt(5/12 + 5/12) = sqrt(5/6)
	se := math.Sqrt(5.0 / 6.0)
	assert.Equal(t, 11.5, result.Mean1)
	assert.Equal(t, 8.5, result.Mean2)
	assert.Equal(t, 3.0, result.MeanDifference)
	assert.InDelta(t, se, result.StandardError, 1e-12)
	assert.InDelta(t, 3.0/se, result.TStatistic, 1e-12)
	assert.InDelta(t, 3.2863353, result.TStatistic, 1e-6)
	assert.Equal(t, 6, result.DegreesOfFreedom)
	assert.InDelta(t, 3.0-1.96*se, result.ConfidenceInterval.Lower, 1e-12)
	assert.InDelta(t, 3.0+1.96*se, result.ConfidenceInterval.Upper, 1e-12)
	assert.InDelta(t, 3.0/math.Sqrt(5.0/3.0), result.EffectSize, 1e-12)

	// t(6) = 3.286 lies between the 0.02 (3.143) and 0.01 (3.707) critical values
	assert.Greater(t, result.PValue, 0.01)
	assert.Less(t, result.PValue, 0.02)
	assert.True(t, result.Significant)
	assert.Contains(t, result.Interpretation, "statistically significant difference")
}

func TestTTest_NotSignificant(t *testing.T) {
	result, err := TTest([]float64{5, 7, 6, 8, 4}, []float64{6, 5, 7, 6, 5})
	require.NoError(t, err)

	assert.False(t, result.Significant)
	assert.GreaterOrEqual(t, result.PValue, 0.05)
	assert.Contains(t, result.Interpretation, "No statistically significant")
}

func TestTTest_Antisymmetric(t *testing.T) {
	a := []float64{2.5, 3.1, 4.4, 3.9, 2.8}
	b := []float64{1.9, 2.2, 3.0, 2.4}

	ab, err := TTest(a, b)
	require.NoError(t, err)
	ba, err := TTest(b, a)
	require.NoError(t, err)

	assert.InDelta(t, -ab.TStatistic, ba.TStatistic, 1e-12)
	assert.InDelta(t, ab.PValue, ba.PValue, 1e-12)
	assert.Equal(t, ab.DegreesOfFreedom, ba.DegreesOfFreedom)
}

func TestTTest_ConstantGroups(t *testing.T) {
	result, err := TTest([]float64{3, 3, 3}, []float64{3, 3})
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.TStatistic)
	assert.Equal(t, 1.0, result.PValue)
	assert.False(t, result.Significant)

	_, err = TTest([]float64{3, 3, 3}, []float64{4, 4})
	assert.True(t, errors.Is(err, core.ErrZeroVariance))
}

func TestTTest_InvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		g1, g2 []float64
		want   error
	}{
		{"empty first", nil, []float64{1, 2}, core.ErrEmptySample},
		{"short second", []float64{1, 2}, []float64{1}, core.ErrInsufficientData},
		{"NaN", []float64{1, math.NaN()}, []float64{1, 2}, core.ErrNonFinite},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := TTest(tc.g1, tc.g2)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
		})
	}
}

func TestTTestPValue(t *testing.T) {
	// critical values of Student's t, two-tailed 0.05
	assert.InDelta(t, 0.05, TTestPValue(2.228138852, 10), 1e-6)
	assert.InDelta(t, 0.05, TTestPValue(-2.042272456, 30), 1e-6)
	assert.Equal(t, 1.0, TTestPValue(0, 5))
	assert.Equal(t, 1.0, TTestPValue(2, 0))
	assert.Equal(t, 0.0, TTestPValue(math.Inf(1), 5))
}

func TestTTest_OverflowingVarianceIsRejected(t *testing.T) {
	result, err := TTest([]float64{1e308, -1e308}, []float64{1, 2})
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, core.ErrNonFinite), "got %v", err)
}
