package oddsmath

import (
	"math"
	"sort"
)

// Median returns the middle value of the sample (mean of the two middle
// values for even sizes). NaN for an empty sample. The input is not mutated.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// SampleStdDev returns the sample standard deviation (n-1 denominator).
// Samples of size 0 or 1 have no spread and return 0.
func SampleStdDev(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	varSum := 0.0
	for _, v := range values {
		varSum += (v - mean) * (v - mean)
	}
	return math.Sqrt(varSum / float64(len(values)-1))
}
