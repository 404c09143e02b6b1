package statkit

import (
	"fmt"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/core"
	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"

	mstats "github.com/montanaflynn/stats"
)

// CronbachAlpha computes the internal-consistency reliability of a scale.
// Rows of the matrix are items, columns are observations (respondents).
//
//	alpha = k/(k-1) * (1 - sum(item variances) / variance(total scores))
//
// Variances use the n-1 denominator. Per item it also reports the corrected
// item-total correlation (item against the sum of the other items) and the
// alpha obtained when the item is removed.
func CronbachAlpha(matrix stats.RatingMatrix) (*stats.ReliabilityResult, error) {
	if err := validateRatingMatrix(matrix); err != nil {
		return nil, err
	}

	k := matrix.Items()
	n := matrix.Observations()

	means := make([]float64, k)
	variances := make([]float64, k)
	totals := make([]float64, n)
	for i, item := range matrix {
		means[i], _ = mstats.Mean(item)
		variances[i], _ = mstats.SampleVariance(item)
		for j, v := range item {
			totals[j] += v
		}
	}
	sumItemVariances, _ := mstats.Sum(variances)
	totalVariance, _ := mstats.SampleVariance(totals)

	if err := ensureFiniteResult("reliability", sumItemVariances, totalVariance); err != nil {
		return nil, err
	}
	if totalVariance == 0 {
		return nil, core.NewInvalidInputError(core.ErrZeroVariance, "total scores have zero variance, alpha is undefined")
	}
	alpha := alphaCoefficient(k, sumItemVariances, totalVariance)

	itemStats := make([]stats.ItemStatistics, k)
	rest := make([]float64, n)
	for i, item := range matrix {
		for j := range totals {
			rest[j] = totals[j] - item[j]
		}

		var alphaIfDeleted *float64
		if k-1 >= 2 {
			restVariance, _ := mstats.SampleVariance(rest)
			if restVariance > 0 {
				a := alphaCoefficient(k-1, sumItemVariances-variances[i], restVariance)
				alphaIfDeleted = &a
			}
		}

		itemStats[i] = stats.ItemStatistics{
			Item:               i + 1,
			Mean:               means[i],
			Variance:           variances[i],
			CorrectedItemTotal: pearson(item, rest),
			AlphaIfDeleted:     alphaIfDeleted,
		}
	}

	band := ReliabilityBandFor(alpha)
	return &stats.ReliabilityResult{
		Alpha:          alpha,
		Items:          k,
		Observations:   n,
		ItemStatistics: itemStats,
		Reliability:    band,
		Interpretation: fmt.Sprintf("Cronbach's alpha is %.3f across %d items and %d observations, indicating %s reliability.", alpha, k, n, band),
	}, nil
}

func alphaCoefficient(k int, sumItemVariances, totalVariance float64) float64 {
	kf := float64(k)
	return (kf / (kf - 1)) * (1 - sumItemVariances/totalVariance)
}

// ReliabilityBandFor maps alpha onto the conventional reliability bands.
func ReliabilityBandFor(alpha float64) stats.ReliabilityBand {
	switch {
	case alpha >= 0.9:
		return stats.ReliabilityExcellent
	case alpha >= 0.8:
		return stats.ReliabilityGood
	case alpha >= 0.7:
		return stats.ReliabilityAcceptable
	case alpha >= 0.6:
		return stats.ReliabilityPoor
	default:
		return stats.ReliabilityUnacceptable
	}
}

func validateRatingMatrix(matrix stats.RatingMatrix) error {
	k := matrix.Items()
	if k < 2 {
		return core.NewInvalidInputError(core.ErrInsufficientData, "reliability needs at least 2 items, got %d", k)
	}
	n := matrix.Observations()
	if n < 2 {
		return core.NewInvalidInputError(core.ErrInsufficientData, "reliability needs at least 2 observations per item, got %d", n)
	}
	for i, item := range matrix {
		if len(item) != n {
			return core.NewInvalidInputError(core.ErrRaggedMatrix, "item %d has %d observations, expected %d", i+1, len(item), n)
		}
		if err := ensureFinite(fmt.Sprintf("item %d", i+1), item); err != nil {
			return err
		}
	}
	return nil
}
