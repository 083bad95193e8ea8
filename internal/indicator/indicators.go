// Package indicator implements aligned-series technical indicators.
//
// Every function returns slices of the same length as its input, with
// math.NaN() at positions where the rolling window has not filled yet.
// Inputs are assumed to be same-length, time-ascending columns taken
// from one bar series; the functions perform no validation beyond the
// window guards (garbage in, garbage out).
package indicator

import "math"

// SMA returns the trailing arithmetic mean of values over period.
// Positions before period-1 are NaN. Runs in O(n) via a running sum.
func SMA(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period < 1 {
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA returns the exponential moving average with alpha = 2/(span+1),
// seeded with the first value, so it is defined from position 0.
func EMA(values []float64, span int) []float64 {
	if span < 1 {
		return nanSlice(len(values))
	}
	return EWM(values, 2/float64(span+1))
}

// EWM is the raw exponential smoothing recursion
// out[t] = alpha*values[t] + (1-alpha)*out[t-1], out[0] = values[0].
// KDJ uses it with the center-of-mass convention alpha = 1/m.
func EWM(values []float64, alpha float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// MACD returns the DIF, DEA and histogram sequences.
// DIF = EMA(fast) - EMA(slow), DEA = EMA(DIF, signalSpan),
// histogram = (DIF - DEA) * 2.
func MACD(closes []float64, fast, slow, signalSpan int) (dif, dea, hist []float64) {
	emaFast := EMA(closes, fast)
	emaSlow := EMA(closes, slow)
	dif = make([]float64, len(closes))
	for i := range dif {
		dif[i] = emaFast[i] - emaSlow[i]
	}
	dea = EMA(dif, signalSpan)
	hist = make([]float64, len(closes))
	for i := range hist {
		hist[i] = (dif[i] - dea[i]) * 2
	}
	return dif, dea, hist
}

// KDJ returns the K, D and J sequences over an n-bar RSV window with
// smoothing factors 1/m1 and 1/m2. RSV positions with an unfilled
// window, or where the window's high equals its low, default to 50,
// so K, D and J are defined from position 0.
func KDJ(highs, lows, closes []float64, n, m1, m2 int) (k, d, j []float64) {
	size := len(closes)
	if n < 1 || m1 < 1 || m2 < 1 {
		return nanSlice(size), nanSlice(size), nanSlice(size)
	}
	lowN := RollingMin(lows, n)
	highN := RollingMax(highs, n)

	rsv := make([]float64, size)
	for i := 0; i < size; i++ {
		rng := highN[i] - lowN[i]
		if i < n-1 || rng == 0 {
			rsv[i] = 50
			continue
		}
		rsv[i] = (closes[i] - lowN[i]) / rng * 100
	}

	k = EWM(rsv, 1/float64(m1))
	d = EWM(k, 1/float64(m2))
	j = make([]float64, size)
	for i := range j {
		j[i] = 3*k[i] - 2*d[i]
	}
	return k, d, j
}

// RSI returns the relative strength index using a simple rolling mean of
// gains and losses (not Wilder smoothing). A delta consumes one bar, so
// the first defined position is index period. A window with zero loss
// saturates to 100; a dead-flat window (zero gain and zero loss) stays
// NaN and is reported as neutral downstream.
func RSI(closes []float64, period int) []float64 {
	out := nanSlice(len(closes))
	if period < 1 || len(closes) <= period {
		return out
	}
	var gainSum, lossSum float64
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gainSum += delta
		} else {
			lossSum -= delta
		}
		if i > period {
			old := closes[i-period] - closes[i-period-1]
			if old > 0 {
				gainSum -= old
			} else {
				lossSum += old
			}
			// both sums are non-negative; shave off float drift
			gainSum = math.Max(gainSum, 0)
			lossSum = math.Max(lossSum, 0)
		}
		if i >= period {
			gain := gainSum / float64(period)
			loss := lossSum / float64(period)
			switch {
			case loss > 0:
				rs := gain / loss
				out[i] = 100 - 100/(1+rs)
			case gain > 0:
				out[i] = 100
			}
		}
	}
	return out
}

// Boll returns the upper, middle and lower Bollinger Bands: a period
// SMA of closes plus/minus width trailing sample standard deviations.
func Boll(closes []float64, period int, width float64) (upper, mid, lower []float64) {
	mid = SMA(closes, period)
	std := RollingStd(closes, period)
	upper = make([]float64, len(closes))
	lower = make([]float64, len(closes))
	for i := range closes {
		upper[i] = mid[i] + width*std[i]
		lower[i] = mid[i] - width*std[i]
	}
	return upper, mid, lower
}

// TrueRange returns the per-bar true range
// max(high-low, |high-prevClose|, |low-prevClose|); the first bar has
// no previous close and uses high-low alone.
func TrueRange(highs, lows, closes []float64) []float64 {
	tr := make([]float64, len(closes))
	for i := range closes {
		rng := highs[i] - lows[i]
		if i > 0 {
			rng = math.Max(rng, math.Abs(highs[i]-closes[i-1]))
			rng = math.Max(rng, math.Abs(lows[i]-closes[i-1]))
		}
		tr[i] = rng
	}
	return tr
}

// ATR returns the trailing simple mean of the true range over period.
func ATR(highs, lows, closes []float64, period int) []float64 {
	return SMA(TrueRange(highs, lows, closes), period)
}
