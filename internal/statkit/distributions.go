package statkit

import (
	"math"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"

	"gonum.org/v1/gonum/stat/distuv"
)

// TTestPValue computes the exact two-tailed p-value of a t statistic using
// Student's t-distribution with the given degrees of freedom.
func TTestPValue(tStatistic float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 || math.IsNaN(tStatistic) {
		return 1.0
	}
	if math.IsInf(tStatistic, 0) {
		return 0
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(degreesOfFreedom)}
	return clampProbability(2 * tDist.Survival(math.Abs(tStatistic)))
}

// CorrelationPValue tests H0: rho = 0 by transforming r to a t statistic
// with n-2 degrees of freedom.
func CorrelationPValue(correlation float64, sampleSize int) float64 {
	if sampleSize < 3 {
		return 1.0
	}
	if math.Abs(correlation) >= 1 {
		return 0
	}

	df := float64(sampleSize - 2)
	tStatistic := correlation * math.Sqrt(df/(1-correlation*correlation))
	return TTestPValue(tStatistic, sampleSize-2)
}

// NormalQuantile computes the inverse CDF of the standard normal distribution.
func NormalQuantile(p float64) float64 {
	return distuv.UnitNormal.Quantile(p)
}

// ZForConfidence returns the two-sided critical z for a confidence level given
// in percent, rounded to three decimals (95 -> 1.96, 99 -> 2.576).
func ZForConfidence(confidenceLevel float64) float64 {
	alpha := 1 - confidenceLevel/100
	z := NormalQuantile(1 - alpha/2)
	return math.Round(z*1000) / 1000
}

// ClassifySignificance maps a p-value onto the reporting levels.
func ClassifySignificance(pValue float64) stats.SignificanceLevel {
	switch {
	case pValue < 0.001:
		return stats.SignificanceHigh
	case pValue < 0.01:
		return stats.SignificanceMedium
	case pValue < 0.05:
		return stats.SignificanceLow
	default:
		return stats.SignificanceNone
	}
}

func clampProbability(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
