package statkit

import (
	"errors"
	"math"
	"testing"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/core"
	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCronbachAlpha_IdenticalItems(t *testing.T) {
	// every item carries the same ratings across judges: k*v over k^2*v
	matrix := stats.RatingMatrix{
		{1, 2, 3, 4},
		{1, 2, 3, 4},
		{1, 2, 3, 4},
	}

	result, err := CronbachAlpha(matrix)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, result.Alpha, 1e-12)
	assert.Equal(t, stats.ReliabilityExcellent, result.Reliability)
	for _, item := range result.ItemStatistics {
		assert.InDelta(t, 1.0, item.CorrectedItemTotal, 1e-12)
		require.NotNil(t, item.AlphaIfDeleted)
		assert.InDelta(t, 1.0, *item.AlphaIfDeleted, 1e-12)
	}
}

func TestCronbachAlpha_HandComputed(t *testing.T) {
	// 3 items x 5 respondents
	matrix := stats.RatingMatrix{
		{4, 3, 5, 2, 4},
		{5, 3, 4, 2, 5},
		{3, 2, 4, 1, 3},
	}

	result, err := CronbachAlpha(matrix)
	require.NoError(t, err)

	// item variances 1.3, 1.7, 1.3; totals 12,8,13,5,12 -> variance 11.5
	expected := 1.5 * (1 - 4.3/11.5)
	assert.InDelta(t, expected, result.Alpha, 1e-12)
	assert.Equal(t, 3, result.Items)
	assert.Equal(t, 5, result.Observations)
	assert.Equal(t, ReliabilityBandFor(expected), result.Reliability)

	require.Len(t, result.ItemStatistics, 3)
	first := result.ItemStatistics[0]
	assert.Equal(t, 1, first.Item)
	assert.InDelta(t, 3.6, first.Mean, 1e-12)
	assert.InDelta(t, 1.3, first.Variance, 1e-12)

	// item 1 against items 2+3 = 8,5,8,3,8
	rest := []float64{8, 5, 8, 3, 8}
	r, err := Pearson(matrix[0], rest)
	require.NoError(t, err)
	assert.InDelta(t, r, first.CorrectedItemTotal, 1e-12)

	// alpha without item 1 uses items 2 and 3 only
	without, err := CronbachAlpha(stats.RatingMatrix{matrix[1], matrix[2]})
	require.NoError(t, err)
	require.NotNil(t, first.AlphaIfDeleted)
	assert.InDelta(t, without.Alpha, *first.AlphaIfDeleted, 1e-12)
}

func TestCronbachAlpha_TwoItemsHaveNoAlphaIfDeleted(t *testing.T) {
	result, err := CronbachAlpha(stats.RatingMatrix{
		{1, 2, 3, 4},
		{2, 2, 4, 3},
	})
	require.NoError(t, err)
	for _, item := range result.ItemStatistics {
		assert.Nil(t, item.AlphaIfDeleted)
	}
}

func TestCronbachAlpha_DoesNotMutateInput(t *testing.T) {
	matrix := stats.RatingMatrix{{1, 3, 2}, {2, 3, 1}, {1, 2, 2}}
	snapshot := stats.RatingMatrix{{1, 3, 2}, {2, 3, 1}, {1, 2, 2}}

	_, err := CronbachAlpha(matrix)
	require.NoError(t, err)
	assert.Equal(t, snapshot, matrix)
}

func TestCronbachAlpha_InvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		matrix stats.RatingMatrix
		want   error
	}{
		{"empty", nil, core.ErrInsufficientData},
		{"single item", stats.RatingMatrix{{1, 2, 3}}, core.ErrInsufficientData},
		{"single observation", stats.RatingMatrix{{1}, {2}}, core.ErrInsufficientData},
		{"ragged", stats.RatingMatrix{{1, 2, 3}, {1, 2}}, core.ErrRaggedMatrix},
		{"non-finite", stats.RatingMatrix{{1, 2}, {math.NaN(), 2}}, core.ErrNonFinite},
		{"constant totals", stats.RatingMatrix{{2, 2, 2}, {3, 3, 3}}, core.ErrZeroVariance},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := CronbachAlpha(tc.matrix)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			assert.True(t, core.IsInvalidInputError(err))
		})
	}
}

func TestReliabilityBandFor(t *testing.T) {
	cases := []struct {
		alpha float64
		want  stats.ReliabilityBand
	}{
		{0.95, stats.ReliabilityExcellent},
		{0.9, stats.ReliabilityExcellent},
		{0.85, stats.ReliabilityGood},
		{0.7, stats.ReliabilityAcceptable},
		{0.65, stats.ReliabilityPoor},
		{0.59, stats.ReliabilityUnacceptable},
		{-0.3, stats.ReliabilityUnacceptable},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ReliabilityBandFor(tc.alpha), "alpha %v", tc.alpha)
	}
}

func TestCronbachAlpha_OverflowingVarianceIsRejected(t *testing.T) {
	result, err := CronbachAlpha(stats.RatingMatrix{
		{1e308, -1e308, 1e308},
		{1e308, -1e308, 1e308},
	})
	assert.Nil(t, result)
	assert.True(t, errors.Is(err, core.ErrNonFinite), "got %v", err)
}
