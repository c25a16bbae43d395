// Package rng implements the discrete-distribution sampling the engine and
// follow-action use for weighted action/model/bin selection (spec.md §4.2,
// §4.4: "Draws a cell/bin/action by discrete distribution"). Callers own the
// *rand.Rand (per spec.md §5, "RNG state is owned by the engine and passed by
// reference; no action may create independent RNGs").
package rng

import "math/rand"

// SampleDiscrete draws an index in [0, len(weights)) with probability
// proportional to weights[i]. It returns (-1, false) if weights is empty or
// every weight is non-positive (mirrors spec.md's FAIL sentinel, modeled as a
// Go ok-bool per spec.md §9's design note on Maybe-typed sentinels).
func SampleDiscrete(r *rand.Rand, weights []float64) (int, bool) {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1, false
	}

	draw := r.Float64() * total
	cum := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cum += w
		if draw < cum {
			return i, true
		}
	}
	// Floating-point rounding: fall back to the last positive-weight index.
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i, true
		}
	}
	return -1, false
}

// UniformInt draws a uniform id in [0, n). Reports false for n <= 0.
func UniformInt(r *rand.Rand, n int) (int, bool) {
	if n <= 0 {
		return 0, false
	}
	return r.Intn(n), true
}
