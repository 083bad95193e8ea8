// Package analyzer turns a daily bar series into indicator sequences,
// per-family signals and a composite 0-100 technical score.
//
// The pipeline is pure and synchronous: no I/O, no retained state, one
// independent Result per call. Callers that want to fan out across many
// instruments do so themselves (see internal/scanner).
package analyzer

import (
	"errors"
	"fmt"
	"math"

	"github.com/iasiv5/a-share-analyst/internal/indicator"
	"github.com/iasiv5/a-share-analyst/pkg/model"
)

// ErrEmptySeries is returned when Analyze receives no bars at all;
// every other degraded input yields a Result with insufficient-data
// signals instead of an error.
var ErrEmptySeries = errors.New("empty bar series")

// MALine is one moving-average sequence.
type MALine struct {
	Window int       `json:"window"`
	Values []float64 `json:"values"`
}

// Last returns the latest value of the line.
func (l MALine) Last() float64 { return last(l.Values) }

// MACDResult bundles the MACD sequences with their signal.
type MACDResult struct {
	DIF    []float64  `json:"dif"`
	DEA    []float64  `json:"dea"`
	Hist   []float64  `json:"hist"`
	Signal MACDSignal `json:"signal"`
}

// Last returns the latest DIF and DEA values.
func (r MACDResult) Last() (dif, dea float64) {
	return last(r.DIF), last(r.DEA)
}

// KDJResult bundles the K/D/J sequences with their signal.
type KDJResult struct {
	K      []float64 `json:"k"`
	D      []float64 `json:"d"`
	J      []float64 `json:"j"`
	Signal KDJSignal `json:"signal"`
}

// Last returns the latest K, D and J values.
func (r KDJResult) Last() (k, d, j float64) {
	return last(r.K), last(r.D), last(r.J)
}

// RSIResult bundles the RSI sequence with its signal.
type RSIResult struct {
	Values []float64 `json:"values"`
	Signal RSISignal `json:"signal"`
}

// Last returns the latest RSI value.
func (r RSIResult) Last() float64 { return last(r.Values) }

// SignalText renders the signal label; the neutral case carries the
// numeric value, e.g. 中性(52.3).
func (r RSIResult) SignalText() string {
	if r.Signal == RSINeutral {
		return fmt.Sprintf("中性(%.1f)", r.Last())
	}
	return string(r.Signal)
}

// BollResult bundles the band sequences with their signal.
type BollResult struct {
	Upper  []float64  `json:"upper"`
	Mid    []float64  `json:"mid"`
	Lower  []float64  `json:"lower"`
	Signal BollSignal `json:"signal"`
}

// Last returns the latest upper, middle and lower band values.
func (r BollResult) Last() (upper, mid, lower float64) {
	return last(r.Upper), last(r.Mid), last(r.Lower)
}

// ATRResult holds the average-true-range sequence.
type ATRResult struct {
	Values []float64 `json:"values"`
}

// Last returns the latest ATR value.
func (r ATRResult) Last() float64 { return last(r.Values) }

// Levels holds the rolling support/resistance window and the pivot of
// the latest bar, rounded to 2 decimals.
type Levels struct {
	Support    float64 `json:"support"`
	Resistance float64 `json:"resistance"`
	Pivot      float64 `json:"pivot"`
}

// Result is the full analysis bundle for one series. Sequences are
// aligned with the input bars; unfilled window positions are NaN.
type Result struct {
	Price     float64    `json:"price"`      // latest close, 2dp
	ChangePct float64    `json:"change_pct"` // vs prior close, 2dp; NaN with a single bar
	Trend     TrendState `json:"trend"`
	Levels    Levels     `json:"levels"`
	MA        []MALine   `json:"ma"`
	VolMA     []MALine   `json:"vol_ma"`
	MACD      MACDResult `json:"macd"`
	KDJ       KDJResult  `json:"kdj"`
	RSI       RSIResult  `json:"rsi"`
	Boll      BollResult `json:"boll"`
	ATR       ATRResult  `json:"atr"`
	Score     Score      `json:"score"`
}

// Analyze runs the indicator, signal and scoring pipeline over a
// time-ascending daily series. Short series degrade per family to
// insufficient-data signals and NaN values; only an empty series fails.
func Analyze(bars model.Series, cfg Config) (*Result, error) {
	if len(bars) == 0 {
		return nil, ErrEmptySeries
	}

	closes := bars.Closes()
	highs := bars.Highs()
	lows := bars.Lows()
	volumes := bars.Volumes()
	t := len(bars) - 1

	res := &Result{Price: round2(closes[t]), ChangePct: math.NaN()}
	if t > 0 {
		res.ChangePct = round2((closes[t]/closes[t-1] - 1) * 100)
	}

	for _, w := range cfg.MAWindows {
		res.MA = append(res.MA, MALine{Window: w, Values: indicator.SMA(closes, w)})
	}
	for _, w := range cfg.VolMAWindows {
		res.VolMA = append(res.VolMA, MALine{Window: w, Values: indicator.SMA(volumes, w)})
	}

	dif, dea, hist := indicator.MACD(closes, cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
	res.MACD = MACDResult{
		DIF:    dif,
		DEA:    dea,
		Hist:   hist,
		Signal: classifyMACD(dif, dea, cfg.MACDSlow),
	}

	k, d, j := indicator.KDJ(highs, lows, closes, cfg.KDJN, cfg.KDJM1, cfg.KDJM2)
	res.KDJ = KDJResult{K: k, D: d, J: j, Signal: classifyKDJ(k, d, cfg.KDJN)}

	rsi := indicator.RSI(closes, cfg.RSIPeriod)
	res.RSI = RSIResult{Values: rsi, Signal: classifyRSI(rsi, cfg.RSIPeriod+1)}

	upper, mid, lower := indicator.Boll(closes, cfg.BollPeriod, cfg.BollWidth)
	res.Boll = BollResult{
		Upper:  upper,
		Mid:    mid,
		Lower:  lower,
		Signal: classifyBoll(closes, upper, mid, lower, cfg.BollPeriod),
	}

	res.ATR = ATRResult{Values: indicator.ATR(highs, lows, closes, cfg.ATRPeriod)}

	maShort := indicator.SMA(closes, cfg.TrendShort)
	maLong := indicator.SMA(closes, cfg.TrendLong)
	res.Trend = classifyTrend(closes, maShort, maLong, cfg.TrendLong)

	res.Levels = Levels{
		Support:    round2(last(indicator.RollingMin(lows, cfg.LevelPeriod))),
		Resistance: round2(last(indicator.RollingMax(highs, cfg.LevelPeriod))),
		Pivot:      round2((highs[t] + lows[t] + closes[t]) / 3),
	}

	res.Score = scoreSignals(res.MACD.Signal, res.KDJ.Signal, res.RSI.Signal, res.Boll.Signal, res.Trend)
	return res, nil
}

func last(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	return values[len(values)-1]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
