// Package stats provides the descriptive statistics used by aggregation and feature engineering.
package stats

import (
	"math"
	"sort"
)

// Mean calculates the arithmetic mean. Returns 0 for no values.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// PopulationStd calculates standard deviation with an n denominator.
// A single value has std 0.
func PopulationStd(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	return math.Sqrt(sumSquares(values, mean) / float64(n))
}

// SampleStd calculates standard deviation with an n-1 denominator.
// Returns false when fewer than 2 values are given.
func SampleStd(values []float64, mean float64) (float64, bool) {
	n := len(values)
	if n < 2 {
		return 0, false
	}
	return math.Sqrt(sumSquares(values, mean) / float64(n-1)), true
}

// Median returns the middle value, averaging the two middle values for even counts.
// values is not modified.
func Median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return Percentile(sorted, 0.5)
}

// Percentile uses linear interpolation.
// sorted must be pre-sorted ASC; p is in [0,1] (0.10 = 10th percentile).
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

func sumSquares(values []float64, mean float64) float64 {
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum
}
