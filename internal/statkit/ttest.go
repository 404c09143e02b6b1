package statkit

import (
	"fmt"
	"math"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/core"
	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"

	mstats "github.com/montanaflynn/stats"
)

const (
	// zCritical95 is the fixed normal critical value used for the mean
	// difference interval, an approximation of the t critical value.
	zCritical95 = 1.96
	// significanceAlpha is the two-tailed decision threshold.
	significanceAlpha = 0.05
)

// TTest compares the means of two independent samples.
//
// The standard error is sqrt(v1/n1 + v2/n2) with unbiased variances, degrees
// of freedom are n1+n2-2, and the p-value comes from Student's t with those
// degrees of freedom. The effect size divides the mean difference by the root
// mean of the two variances.
func TTest(group1, group2 []float64) (*stats.TTestResult, error) {
	if err := ensureSample("group1", group1, 2); err != nil {
		return nil, err
	}
	if err := ensureSample("group2", group2, 2); err != nil {
		return nil, err
	}

	n1 := float64(len(group1))
	n2 := float64(len(group2))

	mean1, _ := mstats.Mean(group1)
	mean2, _ := mstats.Mean(group2)
	var1, _ := mstats.SampleVariance(group1)
	var2, _ := mstats.SampleVariance(group2)

	meanDifference := mean1 - mean2
	standardError := math.Sqrt(var1/n1 + var2/n2)
	df := len(group1) + len(group2) - 2

	if err := ensureFiniteResult("t-test", mean1, mean2, var1, var2, meanDifference, standardError); err != nil {
		return nil, err
	}

	var tStatistic, pValue, effectSize float64
	if standardError == 0 {
		if meanDifference != 0 {
			return nil, core.NewInvalidInputError(core.ErrZeroVariance, "both groups are constant with different means, t is undefined")
		}
		tStatistic, pValue, effectSize = 0, 1, 0
	} else {
		tStatistic = meanDifference / standardError
		pValue = TTestPValue(tStatistic, df)
		effectSize = meanDifference / math.Sqrt((var1+var2)/2)
	}
	if err := ensureFiniteResult("t-test", tStatistic, effectSize, zCritical95*standardError); err != nil {
		return nil, err
	}

	result := &stats.TTestResult{
		TStatistic:       tStatistic,
		PValue:           pValue,
		DegreesOfFreedom: df,
		Mean1:            mean1,
		Mean2:            mean2,
		MeanDifference:   meanDifference,
		StandardError:    standardError,
		ConfidenceInterval: stats.ConfidenceInterval{
			Lower: meanDifference - zCritical95*standardError,
			Upper: meanDifference + zCritical95*standardError,
		},
		EffectSize:  effectSize,
		Significant: pValue < significanceAlpha,
	}

	if result.Significant {
		result.Interpretation = fmt.Sprintf("There is a statistically significant difference between the groups (t=%.3f, df=%d, p=%.3f, d=%.2f).", tStatistic, df, pValue, effectSize)
	} else {
		result.Interpretation = fmt.Sprintf("No statistically significant difference was found between the groups (t=%.3f, df=%d, p=%.3f).", tStatistic, df, pValue)
	}

	return result, nil
}
