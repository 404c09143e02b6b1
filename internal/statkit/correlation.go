package statkit

import (
	"fmt"
	"math"
	"strings"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/core"
	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/stats"

	mstats "github.com/montanaflynn/stats"
)

// Pearson returns the Pearson correlation of two paired samples.
// A sample with zero variance yields 0 rather than NaN.
func Pearson(x, y []float64) (float64, error) {
	if err := ensureSample("x", x, 2); err != nil {
		return 0, err
	}
	if err := ensureSample("y", y, 2); err != nil {
		return 0, err
	}
	if len(x) != len(y) {
		return 0, core.NewInvalidInputError(core.ErrLengthMismatch, "x has %d values, y has %d", len(x), len(y))
	}
	return pearson(x, y), nil
}

// unitTolerance is how far rounding may leave |r| from 1 on exactly linear data
const unitTolerance = 4 * 0x1p-52

// pearson assumes validated, equal-length input. Both samples are scaled
// by their largest magnitude first; r is scale invariant and the scaled
// moments cannot overflow.
func pearson(x, y []float64) float64 {
	sx, sy := scaled(x), scaled(y)
	if sx == nil || sy == nil {
		return 0
	}
	if equalValues(x, y) {
		if sd, _ := mstats.StandardDeviationPopulation(sx); sd == 0 {
			return 0
		}
		return 1
	}

	r, err := mstats.Pearson(sx, sy)
	if err != nil || math.IsNaN(r) {
		return 0
	}
	switch {
	case r >= 1-unitTolerance:
		return 1
	case r <= -1+unitTolerance:
		return -1
	}
	return r
}

// scaled divides data by its largest magnitude; nil when all values are zero.
func scaled(data []float64) []float64 {
	peak := 0.0
	for _, v := range data {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak == 0 {
		return nil
	}
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v / peak
	}
	return out
}

func equalValues(x, y []float64) bool {
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

// Correlate computes the Pearson correlation matrix of a variable set.
//
// The matrix is indexed in input order, symmetric, with 1 on the diagonal.
// Each unordered pair is tested for significance with a two-tailed t-test on
// r with n-2 degrees of freedom.
func Correlate(variables []stats.Variable) (*stats.CorrelationResult, error) {
	if err := validateVariables(variables); err != nil {
		return nil, err
	}

	k := len(variables)
	n := len(variables[0].Data)

	names := make([]string, k)
	matrix := make([][]float64, k)
	for i := range variables {
		names[i] = variables[i].Name
		matrix[i] = make([]float64, k)
		matrix[i][i] = 1
	}

	pairs := make([]stats.CorrelationPair, 0, k*(k-1)/2)
	significant := []stats.CorrelationPair{}
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			r := pearson(variables[i].Data, variables[j].Data)
			matrix[i][j] = r
			matrix[j][i] = r

			pValue := CorrelationPValue(r, n)
			pair := stats.CorrelationPair{
				Var1:         names[i],
				Var2:         names[j],
				Correlation:  r,
				PValue:       pValue,
				Significance: ClassifySignificance(pValue),
			}
			pairs = append(pairs, pair)
			if pair.Significance != stats.SignificanceNone {
				significant = append(significant, pair)
			}
		}
	}

	return &stats.CorrelationResult{
		Variables:      names,
		Matrix:         matrix,
		Pairs:          pairs,
		Significant:    significant,
		SampleSize:     n,
		Interpretation: fmt.Sprintf("Found %d statistically significant correlations among %d variable pairs.", len(significant), len(pairs)),
	}, nil
}

func validateVariables(variables []stats.Variable) error {
	if len(variables) < 2 {
		return core.NewInvalidInputError(core.ErrInsufficientData, "correlation needs at least 2 variables, got %d", len(variables))
	}

	seen := make(map[string]bool, len(variables))
	n := len(variables[0].Data)
	for i, v := range variables {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			return core.NewInvalidInputError(core.ErrInvalidInput, "variable %d has no name", i)
		}
		if seen[name] {
			return core.NewInvalidInputError(core.ErrInvalidInput, "duplicate variable name %q", name)
		}
		seen[name] = true

		if err := ensureSample(name, v.Data, 2); err != nil {
			return err
		}
		if len(v.Data) != n {
			return core.NewInvalidInputError(core.ErrLengthMismatch, "variable %q has %d observations, expected %d", name, len(v.Data), n)
		}
	}
	return nil
}
