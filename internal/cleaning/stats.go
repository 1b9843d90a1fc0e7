package cleaning

import (
	"math"
	"sort"
)

// Median returns the middle of values, or the mean of the two middle values
// for an even count. NaN values are ignored; an empty input yields NaN.
func Median(values []float64) float64 {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}

	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Mode returns the most frequent value. Ties go to the lexically smallest.
// ok is false when values is empty.
func Mode(values []string) (mode string, ok bool) {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	best := 0
	for v, c := range counts {
		if c > best || (c == best && v < mode) {
			mode, best = v, c
		}
	}
	return mode, best > 0
}
