// Package stats implements the statistical projection core: exponential
// weighting, rolling moment aggregation, and the distribution evaluators
// and selection heuristic used to price player prop markets.
package stats

import "math"

// DefaultDecayFactor controls how strongly recent games are favored.
const DefaultDecayFactor = 0.9

// ExponentialWeights returns a weight vector of length n, ordered oldest to
// newest, where the most recent observation carries the largest weight.
// Raw weight for the i-th-oldest of n observations is decay^(n-1-i); the
// vector is normalized to sum to 1. n <= 0 yields an empty vector.
func ExponentialWeights(n int, decay float64) []float64 {
	if n <= 0 {
		return nil
	}

	weights := make([]float64, n)
	total := 0.0
	for i := 0; i < n; i++ {
		w := math.Pow(decay, float64(n-1-i))
		weights[i] = w
		total += w
	}

	for i := range weights {
		weights[i] /= total
	}

	return weights
}

// WeightedMean computes the dot product of values and weights. The two
// slices must be aligned oldest to newest; mismatched lengths yield 0.
func WeightedMean(values, weights []float64) float64 {
	if len(values) == 0 || len(values) != len(weights) {
		return 0
	}

	mean := 0.0
	for i, v := range values {
		mean += v * weights[i]
	}
	return mean
}

// WeightedStd computes the population-style, weight-normalized standard
// deviation around a precomputed weighted mean. Fewer than 2 samples have
// no spread to estimate and return 0.
func WeightedStd(values, weights []float64, weightedMean float64) float64 {
	if len(values) < 2 || len(values) != len(weights) {
		return 0
	}

	variance := 0.0
	for i, v := range values {
		d := v - weightedMean
		variance += weights[i] * d * d
	}
	return math.Sqrt(variance)
}

// SimpleMean computes the unweighted arithmetic mean.
func SimpleMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SimpleStd computes the unweighted sample standard deviation. Undefined
// below 2 samples, in which case it returns 0.
func SimpleStd(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	mean := SimpleMean(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(n-1))
}
