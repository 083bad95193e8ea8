package analyzer

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/iasiv5/a-share-analyst/pkg/model"
)

// driftSeries builds n daily bars with a constant per-bar close drift,
// a fixed high/low envelope and constant volume.
func driftSeries(n int, start, driftPct float64) model.Series {
	bars := make(model.Series, n)
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	close := start
	for i := 0; i < n; i++ {
		open := close
		if i > 0 {
			open = bars[i-1].Close
		}
		bars[i] = model.Bar{
			Time:   base.AddDate(0, 0, i),
			Open:   open,
			High:   close * 1.01,
			Low:    close * 0.99,
			Close:  close,
			Volume: 1_000_000,
		}
		close *= 1 + driftPct/100
	}
	return bars
}

func flatSeries(n int, price float64) model.Series {
	bars := make(model.Series, n)
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		bars[i] = model.Bar{
			Time:   base.AddDate(0, 0, i),
			Open:   price,
			High:   price,
			Low:    price,
			Close:  price,
			Volume: 1_000_000,
		}
	}
	return bars
}

func TestAnalyzeEmptySeries(t *testing.T) {
	_, err := Analyze(nil, DefaultConfig())
	if !errors.Is(err, ErrEmptySeries) {
		t.Errorf("Expected ErrEmptySeries, got %v", err)
	}
}

func TestAnalyzeUptrendScenario(t *testing.T) {
	// 130 bars rising 0.5% per bar: a clean uptrend with a saturated
	// RSI. Expected contributions: MACD 多头强势 +15, KDJ 超买区域 0,
	// RSI 严重超买 -10, BOLL 中轨上方 +5, 趋势 上升 +15 -> 75.
	res, err := Analyze(driftSeries(130, 100, 0.5), DefaultConfig())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if res.Trend != TrendUp {
		t.Errorf("Expected %s, got %s", TrendUp, res.Trend)
	}
	if rsi := res.RSI.Last(); !(rsi > 50) {
		t.Errorf("Expected RSI above 50 in a steady uptrend, got %v", rsi)
	}
	if res.Score.Value < 65 {
		t.Errorf("Expected score >= 65 in a steady uptrend, got %d", res.Score.Value)
	}
	if res.MACD.Signal != MACDBullStrong {
		t.Errorf("Expected %s, got %s", MACDBullStrong, res.MACD.Signal)
	}
}

func TestAnalyzeDefinedAtFinalPosition(t *testing.T) {
	// 130 bars fill every default window, including MA120
	res, err := Analyze(driftSeries(130, 100, 0.5), DefaultConfig())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	check := func(label string, v float64) {
		t.Helper()
		if math.IsNaN(v) {
			t.Errorf("%s: expected a defined final value, got NaN", label)
		}
	}
	for _, line := range res.MA {
		check("MA", line.Values[len(line.Values)-1])
	}
	for _, line := range res.VolMA {
		check("VolMA", line.Values[len(line.Values)-1])
	}
	dif, dea := res.MACD.Last()
	check("DIF", dif)
	check("DEA", dea)
	k, d, j := res.KDJ.Last()
	check("K", k)
	check("D", d)
	check("J", j)
	check("RSI", res.RSI.Last())
	upper, mid, lower := res.Boll.Last()
	check("BOLL upper", upper)
	check("BOLL mid", mid)
	check("BOLL lower", lower)
	check("ATR", res.ATR.Last())
	check("support", res.Levels.Support)
	check("resistance", res.Levels.Resistance)
	check("pivot", res.Levels.Pivot)
}

func TestAnalyzeShortSeries(t *testing.T) {
	// 5 bars sit below every window: price and change stay defined,
	// every family reports insufficient data, and the bundle builds.
	res, err := Analyze(driftSeries(5, 10, 1), DefaultConfig())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if math.IsNaN(res.Price) {
		t.Error("Expected a defined price")
	}
	if math.IsNaN(res.ChangePct) {
		t.Error("Expected a defined change percent")
	}
	if res.MACD.Signal != MACDInsufficient {
		t.Errorf("Expected MACD %s, got %s", MACDInsufficient, res.MACD.Signal)
	}
	if res.KDJ.Signal != KDJInsufficient {
		t.Errorf("Expected KDJ %s, got %s", KDJInsufficient, res.KDJ.Signal)
	}
	if res.RSI.Signal != RSIInsufficient {
		t.Errorf("Expected RSI %s, got %s", RSIInsufficient, res.RSI.Signal)
	}
	if res.Boll.Signal != BollInsufficient {
		t.Errorf("Expected BOLL %s, got %s", BollInsufficient, res.Boll.Signal)
	}
	if res.Trend != TrendInsufficient {
		t.Errorf("Expected trend %s, got %s", TrendInsufficient, res.Trend)
	}
	if res.Score.Value != 50 || res.Score.Rating != RatingNeutral {
		t.Errorf("Expected a neutral 50 with nothing contributing, got %d/%s",
			res.Score.Value, res.Score.Rating)
	}
	// the 20-bar level window is unfilled, the single-bar pivot is not
	if !math.IsNaN(res.Levels.Support) || !math.IsNaN(res.Levels.Resistance) {
		t.Errorf("Expected NaN support/resistance, got %v/%v",
			res.Levels.Support, res.Levels.Resistance)
	}
	if math.IsNaN(res.Levels.Pivot) {
		t.Error("Expected a defined pivot")
	}
}

func TestAnalyzeSingleBar(t *testing.T) {
	res, err := Analyze(driftSeries(1, 10, 0), DefaultConfig())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if res.Price != 10 {
		t.Errorf("Expected price 10, got %v", res.Price)
	}
	if !math.IsNaN(res.ChangePct) {
		t.Errorf("Expected NaN change with a single bar, got %v", res.ChangePct)
	}
}

func TestAnalyzeMACDCrossAtKnownIndex(t *testing.T) {
	// 40 falling bars push DIF below DEA, 30 rising bars pull it back
	// up. Truncating the series at the first index where DIF exceeds
	// DEA must classify a fresh golden cross at that bar.
	bars := driftSeries(40, 100, -1)
	tail := driftSeries(31, bars[len(bars)-1].Close, 1.5)
	bars = append(bars, tail[1:]...)

	full, err := Analyze(bars, DefaultConfig())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	crossAt := -1
	for i := 1; i < len(full.MACD.DIF); i++ {
		if full.MACD.DIF[i] > full.MACD.DEA[i] && full.MACD.DIF[i-1] <= full.MACD.DEA[i-1] && i >= 40 {
			crossAt = i
			break
		}
	}
	if crossAt < 0 {
		t.Fatal("Expected a DIF/DEA cross after the reversal")
	}

	at, err := Analyze(bars[:crossAt+1], DefaultConfig())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if at.MACD.Signal != MACDGoldenCross {
		t.Errorf("Expected %s at index %d, got %s", MACDGoldenCross, crossAt, at.MACD.Signal)
	}

	before, err := Analyze(bars[:crossAt], DefaultConfig())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if before.MACD.Signal == MACDGoldenCross {
		t.Error("Expected no golden cross one bar before the crossing")
	}
}

func TestAnalyzeDeathCrossAtKnownIndex(t *testing.T) {
	bars := driftSeries(40, 100, 1)
	tail := driftSeries(31, bars[len(bars)-1].Close, -1.5)
	bars = append(bars, tail[1:]...)

	full, err := Analyze(bars, DefaultConfig())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	crossAt := -1
	for i := 1; i < len(full.MACD.DIF); i++ {
		if full.MACD.DIF[i] < full.MACD.DEA[i] && full.MACD.DIF[i-1] >= full.MACD.DEA[i-1] && i >= 40 {
			crossAt = i
			break
		}
	}
	if crossAt < 0 {
		t.Fatal("Expected a DIF/DEA cross after the reversal")
	}

	at, err := Analyze(bars[:crossAt+1], DefaultConfig())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if at.MACD.Signal != MACDDeathCross {
		t.Errorf("Expected %s at index %d, got %s", MACDDeathCross, crossAt, at.MACD.Signal)
	}
}

func TestAnalyzeFlatSeries(t *testing.T) {
	// a dead-flat series exercises every degenerate fallback at once:
	// KDJ pins at 50, RSI goes NaN-neutral, the bands collapse onto the
	// mid. The classifier outcome matches the reference behavior:
	// MACD 空头初现 -15, BOLL 中轨下方 -5 -> score 30.
	res, err := Analyze(flatSeries(130, 50), DefaultConfig())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	k, d, j := res.KDJ.Last()
	if k != 50 || d != 50 || j != 50 {
		t.Errorf("Expected K/D/J pinned at 50, got %v/%v/%v", k, d, j)
	}
	if res.KDJ.Signal != KDJNeutral {
		t.Errorf("Expected %s, got %s", KDJNeutral, res.KDJ.Signal)
	}
	if !math.IsNaN(res.RSI.Last()) {
		t.Errorf("Expected NaN RSI on a flat series, got %v", res.RSI.Last())
	}
	if res.RSI.Signal != RSINeutral {
		t.Errorf("Expected %s, got %s", RSINeutral, res.RSI.Signal)
	}
	if res.MACD.Signal != MACDBearEarly {
		t.Errorf("Expected %s, got %s", MACDBearEarly, res.MACD.Signal)
	}
	if res.Boll.Signal != BollBelowMid {
		t.Errorf("Expected %s, got %s", BollBelowMid, res.Boll.Signal)
	}
	if res.Trend != TrendSideways {
		t.Errorf("Expected %s, got %s", TrendSideways, res.Trend)
	}
	if res.Score.Value != 30 {
		t.Errorf("Expected score 30, got %d", res.Score.Value)
	}
}

func TestAnalyzeSequencesAligned(t *testing.T) {
	bars := driftSeries(70, 20, 0.3)
	res, err := Analyze(bars, DefaultConfig())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	n := len(bars)
	lengths := map[string]int{
		"dif":  len(res.MACD.DIF),
		"dea":  len(res.MACD.DEA),
		"hist": len(res.MACD.Hist),
		"k":    len(res.KDJ.K),
		"d":    len(res.KDJ.D),
		"j":    len(res.KDJ.J),
		"rsi":  len(res.RSI.Values),
		"up":   len(res.Boll.Upper),
		"mid":  len(res.Boll.Mid),
		"low":  len(res.Boll.Lower),
		"atr":  len(res.ATR.Values),
	}
	for label, got := range lengths {
		if got != n {
			t.Errorf("%s: expected length %d, got %d", label, n, got)
		}
	}
	for _, line := range res.MA {
		if len(line.Values) != n {
			t.Errorf("MA%d: expected length %d, got %d", line.Window, n, len(line.Values))
		}
	}
}
