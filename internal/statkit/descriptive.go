package statkit

import (
	"fmt"
	"math"
	"sort"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"

	mstats "github.com/montanaflynn/stats"
)

// outlierFence is the IQR multiplier of the Tukey fences.
const outlierFence = 1.5

// Describe computes the descriptive summary of a sample.
//
// Quartiles are read at positions floor(n*0.25) and floor(n*0.75) of the
// sorted sample instead of being interpolated, and outliers are the values
// strictly outside [Q1-1.5*IQR, Q3+1.5*IQR], reported in input order.
func Describe(sample []float64) (*stats.DescriptiveSummary, error) {
	if err := ensureSample("sample", sample, 2); err != nil {
		return nil, err
	}

	n := len(sample)
	sorted := make([]float64, n)
	copy(sorted, sample)
	sort.Float64s(sorted)

	mean, _ := mstats.Mean(sorted)
	variance, _ := mstats.SampleVariance(sorted)
	mode, _ := mstats.Mode(sorted)

	median := sorted[n/2]
	if n%2 == 0 {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	q1 := sorted[int(math.Floor(float64(n)*0.25))]
	q3 := sorted[int(math.Floor(float64(n)*0.75))]
	iqr := q3 - q1
	lower := q1 - outlierFence*iqr
	upper := q3 + outlierFence*iqr

	if err := ensureFiniteResult("descriptive statistics", mean, variance, sorted[n-1]-sorted[0], iqr, lower, upper); err != nil {
		return nil, err
	}

	outliers := []float64{}
	for _, v := range sample {
		if v < lower || v > upper {
			outliers = append(outliers, v)
		}
	}

	summary := &stats.DescriptiveSummary{
		N:                 n,
		Mean:              mean,
		Median:            median,
		Mode:              append([]float64{}, mode...),
		Variance:          variance,
		StandardDeviation: math.Sqrt(variance),
		Min:               sorted[0],
		Max:               sorted[n-1],
		Range:             sorted[n-1] - sorted[0],
		Quartiles:         stats.Quartiles{Q1: q1, Q2: median, Q3: q3},
		IQR:               iqr,
		LowerFence:        lower,
		UpperFence:        upper,
		Outliers:          outliers,
	}
	summary.Interpretation = describeInterpretation(summary)

	return summary, nil
}

func describeInterpretation(s *stats.DescriptiveSummary) string {
	text := fmt.Sprintf("The data has a mean of %.2f and a standard deviation of %.2f (n=%d).", s.Mean, s.StandardDeviation, s.N)
	switch len(s.Outliers) {
	case 0:
		return text + " No significant outliers were detected."
	case 1:
		return text + " 1 outlier was detected."
	default:
		return text + fmt.Sprintf(" %d outliers were detected.", len(s.Outliers))
	}
}
