package indicator

import "math"

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// RollingMax returns the trailing maximum of values over period using a
// monotonic index deque, O(n) total.
func RollingMax(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period < 1 {
		return out
	}
	deque := make([]int, 0, period)
	for i, v := range values {
		for len(deque) > 0 && values[deque[len(deque)-1]] <= v {
			deque = deque[:len(deque)-1]
		}
		deque = append(deque, i)
		if deque[0] <= i-period {
			deque = deque[1:]
		}
		if i >= period-1 {
			out[i] = values[deque[0]]
		}
	}
	return out
}

// RollingMin returns the trailing minimum of values over period.
func RollingMin(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period < 1 {
		return out
	}
	deque := make([]int, 0, period)
	for i, v := range values {
		for len(deque) > 0 && values[deque[len(deque)-1]] >= v {
			deque = deque[:len(deque)-1]
		}
		deque = append(deque, i)
		if deque[0] <= i-period {
			deque = deque[1:]
		}
		if i >= period-1 {
			out[i] = values[deque[0]]
		}
	}
	return out
}

// RollingStd returns the trailing sample standard deviation (n-1
// divisor) over period, via running sums of values and squares.
func RollingStd(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period < 2 {
		return out
	}
	var sum, sumSq float64
	for i, v := range values {
		sum += v
		sumSq += v * v
		if i >= period {
			old := values[i-period]
			sum -= old
			sumSq -= old * old
		}
		if i >= period-1 {
			p := float64(period)
			variance := (sumSq - sum*sum/p) / (p - 1)
			if variance < 0 {
				variance = 0
			}
			out[i] = math.Sqrt(variance)
		}
	}
	return out
}
