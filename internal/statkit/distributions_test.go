package statkit

import (
	"testing"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"

	"github.com/stretchr/testify/assert"
)

func TestZForConfidence(t *testing.T) {
	assert.Equal(t, 1.645, ZForConfidence(90))
	assert.Equal(t, 1.96, ZForConfidence(95))
	assert.Equal(t, 2.576, ZForConfidence(99))
}

func TestNormalQuantile(t *testing.T) {
	assert.InDelta(t, 0, NormalQuantile(0.5), 1e-12)
	assert.InDelta(t, 1.959963985, NormalQuantile(0.975), 1e-8)
}

func TestClassifySignificance(t *testing.T) {
	cases := []struct {
		p    float64
		want stats.SignificanceLevel
	}{
		{0.0001, stats.SignificanceHigh},
		{0.001, stats.SignificanceMedium},
		{0.009, stats.SignificanceMedium},
		{0.01, stats.SignificanceLow},
		{0.049, stats.SignificanceLow},
		{0.05, stats.SignificanceNone},
		{0.9, stats.SignificanceNone},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifySignificance(tc.p), "p %v", tc.p)
	}
}
