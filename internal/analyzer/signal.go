package analyzer

// Signal labels are typed per indicator family so the scorer can switch
// on constants instead of matching substrings. The constant values are
// the Chinese display labels used throughout reports and the API.

// MACDSignal is the MACD family signal.
type MACDSignal string

const (
	MACDInsufficient MACDSignal = "数据不足"
	MACDGoldenCross  MACDSignal = "金叉买入"
	MACDDeathCross   MACDSignal = "死叉卖出"
	MACDBullStrong   MACDSignal = "多头强势"
	MACDBullEarly    MACDSignal = "多头初现"
	MACDBearStrong   MACDSignal = "空头强势"
	MACDBearEarly    MACDSignal = "空头初现"
)

// KDJSignal is the KDJ family signal.
type KDJSignal string

const (
	KDJInsufficient    KDJSignal = "数据不足"
	KDJOversoldGolden  KDJSignal = "超卖金叉-强买"
	KDJGoldenCross     KDJSignal = "金叉买入"
	KDJHighGolden      KDJSignal = "高位金叉"
	KDJOverboughtDeath KDJSignal = "超买死叉-强卖"
	KDJDeathCross      KDJSignal = "死叉卖出"
	KDJLowDeath        KDJSignal = "低位死叉"
	KDJOverbought      KDJSignal = "超买区域"
	KDJOversold        KDJSignal = "超卖区域"
	KDJNeutral         KDJSignal = "中性震荡"
)

// RSISignal is the RSI family signal. The neutral label is rendered
// with the numeric value attached, see RSIResult.SignalText.
type RSISignal string

const (
	RSIInsufficient     RSISignal = "数据不足"
	RSISevereOverbought RSISignal = "严重超买"
	RSIOverbought       RSISignal = "超买"
	RSISevereOversold   RSISignal = "严重超卖"
	RSIOversold         RSISignal = "超卖"
	RSINeutral          RSISignal = "中性"
)

// BollSignal is the Bollinger Band family signal.
type BollSignal string

const (
	BollInsufficient BollSignal = "数据不足"
	BollBreakUpper   BollSignal = "突破上轨-超买"
	BollBreakLower   BollSignal = "跌破下轨-超卖"
	BollAboveMid     BollSignal = "中轨上方-偏多"
	BollBelowMid     BollSignal = "中轨下方-偏空"
)

// TrendState is the dual moving-average trend classification.
type TrendState string

const (
	TrendInsufficient TrendState = "数据不足"
	TrendUp           TrendState = "上升趋势"
	TrendDown         TrendState = "下降趋势"
	TrendSideways     TrendState = "震荡整理"
)

// Rating is the composite score tier.
type Rating string

const (
	RatingStrongBuy  Rating = "强烈买入"
	RatingBuy        Rating = "买入"
	RatingNeutral    Rating = "中性"
	RatingSell       Rating = "卖出"
	RatingStrongSell Rating = "强烈卖出"
)

// classifyMACD reads the last two DIF/DEA points. minBars is the slow
// EMA span: below it the smoothing has not seen a full cycle and the
// signal reports insufficient data.
func classifyMACD(dif, dea []float64, minBars int) MACDSignal {
	t := len(dif) - 1
	if len(dif) < minBars || t < 1 {
		return MACDInsufficient
	}
	switch {
	case dif[t] > dea[t] && dif[t-1] <= dea[t-1]:
		return MACDGoldenCross
	case dif[t] < dea[t] && dif[t-1] >= dea[t-1]:
		return MACDDeathCross
	case dif[t] > dea[t]:
		if dif[t] > 0 {
			return MACDBullStrong
		}
		return MACDBullEarly
	default:
		if dif[t] < 0 {
			return MACDBearStrong
		}
		return MACDBearEarly
	}
}

// classifyKDJ reads the last two K/D points, refining a fresh cross by
// the K level at the cross.
func classifyKDJ(k, d []float64, minBars int) KDJSignal {
	t := len(k) - 1
	if len(k) < minBars || t < 1 {
		return KDJInsufficient
	}
	kv := k[t]
	switch {
	case k[t] > d[t] && k[t-1] <= d[t-1]:
		switch {
		case kv < 20:
			return KDJOversoldGolden
		case kv < 50:
			return KDJGoldenCross
		default:
			return KDJHighGolden
		}
	case k[t] < d[t] && k[t-1] >= d[t-1]:
		switch {
		case kv > 80:
			return KDJOverboughtDeath
		case kv > 50:
			return KDJDeathCross
		default:
			return KDJLowDeath
		}
	case kv > 80:
		return KDJOverbought
	case kv < 20:
		return KDJOversold
	default:
		return KDJNeutral
	}
}

// classifyRSI zones the latest value. A NaN value (dead-flat window)
// falls through to neutral.
func classifyRSI(values []float64, minBars int) RSISignal {
	t := len(values) - 1
	if len(values) < minBars || t < 0 {
		return RSIInsufficient
	}
	v := values[t]
	switch {
	case v > 80:
		return RSISevereOverbought
	case v > 70:
		return RSIOverbought
	case v < 20:
		return RSISevereOversold
	case v < 30:
		return RSIOversold
	default:
		return RSINeutral
	}
}

// classifyBoll positions the latest close against the bands.
func classifyBoll(closes, upper, mid, lower []float64, minBars int) BollSignal {
	t := len(closes) - 1
	if len(closes) < minBars || t < 0 {
		return BollInsufficient
	}
	switch {
	case closes[t] > upper[t]:
		return BollBreakUpper
	case closes[t] < lower[t]:
		return BollBreakLower
	case closes[t] > mid[t]:
		return BollAboveMid
	default:
		return BollBelowMid
	}
}

// classifyTrend compares the latest short and long close MAs and the
// close position relative to the short MA.
func classifyTrend(closes, maShort, maLong []float64, minBars int) TrendState {
	t := len(closes) - 1
	if len(closes) < minBars || t < 0 {
		return TrendInsufficient
	}
	switch {
	case maShort[t] > maLong[t] && closes[t] > maShort[t]:
		return TrendUp
	case maShort[t] < maLong[t] && closes[t] < maShort[t]:
		return TrendDown
	default:
		return TrendSideways
	}
}
