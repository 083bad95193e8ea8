package analyzer

// Score is the composite technical rating: an additive rule total
// clamped to [0,100], its tier and star count, and the per-family
// contributions that produced it.
type Score struct {
	Value  int              `json:"value"`
	Rating Rating           `json:"rating"`
	Stars  int              `json:"stars"`
	Detail []ScoreComponent `json:"detail"`
}

// ScoreComponent records one family's contribution to the total.
type ScoreComponent struct {
	Factor string `json:"factor"`
	Points int    `json:"points"`
}

const baseScore = 50

func macdPoints(s MACDSignal) int {
	switch s {
	case MACDGoldenCross, MACDBullStrong, MACDBullEarly:
		return 15
	case MACDDeathCross, MACDBearStrong, MACDBearEarly:
		return -15
	default:
		return 0
	}
}

func kdjPoints(s KDJSignal) int {
	switch s {
	case KDJOversoldGolden:
		return 15
	case KDJGoldenCross:
		return 10
	case KDJOverboughtDeath:
		return -15
	case KDJDeathCross:
		return -10
	default:
		// 高位金叉 and 低位死叉 score zero, same as the zones
		return 0
	}
}

func rsiPoints(s RSISignal) int {
	switch s {
	case RSISevereOversold, RSIOversold:
		return 10
	case RSISevereOverbought, RSIOverbought:
		return -10
	default:
		return 0
	}
}

func bollPoints(s BollSignal) int {
	switch s {
	case BollBreakLower:
		return 10
	case BollBreakUpper:
		return -10
	case BollAboveMid:
		return 5
	case BollBelowMid:
		return -5
	default:
		return 0
	}
}

func trendPoints(s TrendState) int {
	switch s {
	case TrendUp:
		return 15
	case TrendDown:
		return -15
	default:
		return 0
	}
}

func scoreSignals(macd MACDSignal, kdj KDJSignal, rsi RSISignal, boll BollSignal, trend TrendState) Score {
	detail := []ScoreComponent{
		{Factor: "MACD", Points: macdPoints(macd)},
		{Factor: "KDJ", Points: kdjPoints(kdj)},
		{Factor: "RSI", Points: rsiPoints(rsi)},
		{Factor: "BOLL", Points: bollPoints(boll)},
		{Factor: "趋势", Points: trendPoints(trend)},
	}

	total := baseScore
	for _, c := range detail {
		total += c.Points
	}
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	rating, stars := rate(total)
	return Score{Value: total, Rating: rating, Stars: stars, Detail: detail}
}

// rate maps a clamped score to its tier; boundaries are inclusive on
// the lower edge (exactly 80 is still a strong buy).
func rate(score int) (Rating, int) {
	switch {
	case score >= 80:
		return RatingStrongBuy, 5
	case score >= 65:
		return RatingBuy, 4
	case score >= 50:
		return RatingNeutral, 3
	case score >= 35:
		return RatingSell, 2
	default:
		return RatingStrongSell, 1
	}
}
