// Package statkit implements the numeric routines behind instrument analysis:
// descriptive statistics, Pearson correlation matrices, two-sample t-tests,
// Cronbach's alpha, content validity indices and sample size planning.
//
// Every function is pure: inputs are never modified, nothing is cached between
// calls and the same input always yields the same result, so the package is
// safe for concurrent use. Malformed input is rejected before any computation
// with an error wrapping core.ErrInvalidInput.
package statkit

import (
	"math"

	"github.com/francisco-sereno/synapsis-bolt-sub001/domain/core"
)

// ensureFinite rejects NaN and infinities; label names the offending input in the error.
func ensureFinite(label string, data []float64) error {
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return core.NewInvalidInputError(core.ErrNonFinite, "%s[%d] = %v", label, i, v)
		}
	}
	return nil
}

// ensureSample checks that data has at least min finite values.
func ensureSample(label string, data []float64, min int) error {
	if len(data) == 0 {
		return core.NewInvalidInputError(core.ErrEmptySample, "%s", label)
	}
	if len(data) < min {
		return core.NewInvalidInputError(core.ErrInsufficientData, "%s needs at least %d values, got %d", label, min, len(data))
	}
	return ensureFinite(label, data)
}

// ensureFiniteResult rejects input whose intermediate statistics overflow
// float64 even though every value is finite.
func ensureFiniteResult(operation string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return core.NewInvalidInputError(core.ErrNonFinite, "%s overflows float64 for this input", operation)
		}
	}
	return nil
}
