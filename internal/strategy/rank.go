package strategy

import (
	"math"
	"sort"
)

// percentileRank returns each value's ordinal rank divided by the
// non-NaN count, so the last value in sort order scores 1.0. Ties share
// the average rank. With ascending, small values rank low; flip it to
// give small values the top score. NaN inputs rank zero so unreported
// fields sink instead of poisoning the sort.
func percentileRank(values []float64, ascending bool) []float64 {
	out := make([]float64, len(values))

	idx := make([]int, 0, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			idx = append(idx, i)
		}
	}
	n := len(idx)
	if n == 0 {
		return out
	}

	sort.SliceStable(idx, func(a, b int) bool {
		if ascending {
			return values[idx[a]] < values[idx[b]]
		}
		return values[idx[a]] > values[idx[b]]
	})

	for i := 0; i < n; {
		j := i
		for j+1 < n && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		// ordinal ranks are 1-based; tied values share the average
		avg := float64(i+j+2) / 2
		for k := i; k <= j; k++ {
			out[idx[k]] = avg / float64(n)
		}
		i = j + 1
	}
	return out
}

// medianOf returns the median of the non-NaN values, or NaN when none.
func medianOf(values []float64) float64 {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return math.NaN()
	}
	sort.Float64s(clean)
	mid := len(clean) / 2
	if len(clean)%2 == 1 {
		return clean[mid]
	}
	return (clean[mid-1] + clean[mid]) / 2
}
