package statkit

import (
	"fmt"
	"math"
	"strings"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/core"
	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"
)

const defaultProportion = 0.5

// SampleSize computes the number of respondents needed to estimate a
// proportion within the given margin of error:
//
//	n0 = z^2 * p * (1-p) / e^2
//	n  = N*n0 / ((N-1) + n0)   when a finite population N is given
//
// The result is rounded up and then inflated by the non-response buffer.
func SampleSize(params stats.SampleSizeParams) (*stats.SampleSizeResult, error) {
	if params.ConfidenceLevel <= 0 || params.ConfidenceLevel >= 100 {
		return nil, core.NewInvalidInputError(core.ErrInvalidInput, "confidence level must be within (0, 100), got %v", params.ConfidenceLevel)
	}
	if params.MarginOfError <= 0 || params.MarginOfError >= 100 {
		return nil, core.NewInvalidInputError(core.ErrInvalidInput, "margin of error must be within (0, 100), got %v", params.MarginOfError)
	}
	if params.PopulationSize < 0 {
		return nil, core.NewInvalidInputError(core.ErrInvalidInput, "population size cannot be negative, got %d", params.PopulationSize)
	}
	p := params.ExpectedProportion
	if p == 0 {
		p = defaultProportion
	}
	if p <= 0 || p >= 1 {
		return nil, core.NewInvalidInputError(core.ErrInvalidInput, "expected proportion must be within (0, 1), got %v", p)
	}

	z := ZForConfidence(params.ConfidenceLevel)
	e := params.MarginOfError / 100

	n0 := z * z * p * (1 - p) / (e * e)
	n := n0
	if params.PopulationSize > 0 {
		population := float64(params.PopulationSize)
		n = population * n0 / ((population - 1) + n0)
	}

	size := int(math.Ceil(n))
	adjusted := (size*(100+stats.NonResponseBufferPercent) + 99) / 100

	result := &stats.SampleSizeResult{
		ZScore:       z,
		Infinite:     n0,
		SampleSize:   size,
		AdjustedSize: adjusted,
	}
	result.Interpretation = sampleSizeInterpretation(result, params)
	return result, nil
}

func sampleSizeInterpretation(r *stats.SampleSizeResult, params stats.SampleSizeParams) string {
	var b strings.Builder
	fmt.Fprintf(&b, "With a sample of %d participants:\n\n", r.SampleSize)
	fmt.Fprintf(&b, "- Confidence level of %g%%: results would hold in %g of every 100 similar studies.\n", params.ConfidenceLevel, params.ConfidenceLevel)
	fmt.Fprintf(&b, "- Margin of error of ±%g%%: results may vary by up to %g percentage points.\n", params.MarginOfError, params.MarginOfError)
	if params.PopulationSize > 0 {
		share := float64(r.SampleSize) / float64(params.PopulationSize) * 100
		fmt.Fprintf(&b, "- Representativeness: the sample covers %.1f%% of the population.\n", share)
	}
	fmt.Fprintf(&b, "\nRecommendation: recruit %d participants to absorb a %d%% non-response rate.", r.AdjustedSize, stats.NonResponseBufferPercent)
	return b.String()
}
