package statkit

import (
	"errors"
	"testing"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/core"
	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleSize_InfinitePopulation(t *testing.T) {
	result, err := SampleSize(stats.SampleSizeParams{ConfidenceLevel: 95, MarginOfError: 5})
	require.NoError(t, err)

	assert.Equal(t, 1.96, result.ZScore)
	assert.InDelta(t, 384.16, result.Infinite, 1e-9)
	assert.Equal(t, 385, result.SampleSize)
	assert.Equal(t, 462, result.AdjustedSize)
	assert.NotContains(t, result.Interpretation, "Representativeness")
	assert.Contains(t, result.Interpretation, "recruit 462 participants")
}

func TestSampleSize_FinitePopulation(t *testing.T) {
	result, err := SampleSize(stats.SampleSizeParams{PopulationSize: 1000, ConfidenceLevel: 95, MarginOfError: 5})
	require.NoError(t, err)

	assert.Equal(t, 278, result.SampleSize)
	assert.Equal(t, 334, result.AdjustedSize)
	assert.Contains(t, result.Interpretation, "27.8% of the population")
}

func TestSampleSize_Monotonic(t *testing.T) {
	narrow, err := SampleSize(stats.SampleSizeParams{ConfidenceLevel: 95, MarginOfError: 3})
	require.NoError(t, err)
	wide, err := SampleSize(stats.SampleSizeParams{ConfidenceLevel: 95, MarginOfError: 5})
	require.NoError(t, err)
	strict, err := SampleSize(stats.SampleSizeParams{ConfidenceLevel: 99, MarginOfError: 5})
	require.NoError(t, err)

	assert.Greater(t, narrow.SampleSize, wide.SampleSize)
	assert.Greater(t, strict.SampleSize, wide.SampleSize)

	small, err := SampleSize(stats.SampleSizeParams{PopulationSize: 200, ConfidenceLevel: 95, MarginOfError: 5})
	require.NoError(t, err)
	assert.LessOrEqual(t, small.SampleSize, 200)
	assert.GreaterOrEqual(t, small.AdjustedSize, small.SampleSize)
}

func TestSampleSize_ExpectedProportion(t *testing.T) {
	skewed, err := SampleSize(stats.SampleSizeParams{ConfidenceLevel: 95, MarginOfError: 5, ExpectedProportion: 0.1})
	require.NoError(t, err)
	// 1.96^2 * 0.09 / 0.0025 = 138.2976
	assert.Equal(t, 139, skewed.SampleSize)
}

func TestSampleSize_InvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		params stats.SampleSizeParams
	}{
		{"zero confidence", stats.SampleSizeParams{ConfidenceLevel: 0, MarginOfError: 5}},
		{"confidence 100", stats.SampleSizeParams{ConfidenceLevel: 100, MarginOfError: 5}},
		{"zero margin", stats.SampleSizeParams{ConfidenceLevel: 95, MarginOfError: 0}},
		{"negative population", stats.SampleSizeParams{PopulationSize: -1, ConfidenceLevel: 95, MarginOfError: 5}},
		{"proportion one", stats.SampleSizeParams{ConfidenceLevel: 95, MarginOfError: 5, ExpectedProportion: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := SampleSize(tc.params)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, core.ErrInvalidInput), "got %v", err)
		})
	}
}
