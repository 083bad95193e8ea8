package model

import "time"

// Bar represents a single daily candlestick (OHLCV data)
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"` // shares (手 reported by the exchange are converted on decode)
}

// Series is a time-ascending sequence of daily bars for one instrument.
type Series []Bar

// Closes extracts the close column.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Highs extracts the high column.
func (s Series) Highs() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low column.
func (s Series) Lows() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Low
	}
	return out
}

// Volumes extracts the volume column as floats for averaging.
func (s Series) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = float64(b.Volume)
	}
	return out
}

// Stock represents basic stock identity
type Stock struct {
	Code string `json:"code"` // 6-digit A-share code, e.g. 600519
	Name string `json:"name"`
}

// Quote is one row of the realtime spot table. Fields mirror the
// exchange snapshot: percentages are already in percent units,
// amounts in yuan, caps in yuan.
type Quote struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	ChangePct    float64 `json:"change_pct"`
	Change       float64 `json:"change"`
	Volume       int64   `json:"volume"` // shares
	Amount       float64 `json:"amount"` // turnover in yuan
	Amplitude    float64 `json:"amplitude"`
	High         float64 `json:"high"`
	Low          float64 `json:"low"`
	Open         float64 `json:"open"`
	PrevClose    float64 `json:"prev_close"`
	VolumeRatio  float64 `json:"volume_ratio"`
	TurnoverRate float64 `json:"turnover_rate"`
	PERatio      float64 `json:"pe_ratio"` // TTM, negative when loss-making
	PBRatio      float64 `json:"pb_ratio"`
	TotalCap     float64 `json:"total_cap"`
	FloatCap     float64 `json:"float_cap"`
}

// IndexQuote is a benchmark index snapshot.
type IndexQuote struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
	Volume    int64   `json:"volume"`
	Amount    float64 `json:"amount"`
}

// BoardQuote is a concept/industry board snapshot.
type BoardQuote struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	ChangePct  float64 `json:"change_pct"`
	MainInflow float64 `json:"main_inflow"` // net main-capital inflow, yuan
	Leader     string  `json:"leader"`      // leading stock name
	LeaderPct  float64 `json:"leader_pct"`
	UpCount    int     `json:"up_count"`
	DownCount  int     `json:"down_count"`
}

// LimitStock is one entry of the limit-up or limit-down pool.
type LimitStock struct {
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	ChangePct  float64 `json:"change_pct"`
	SealAmount float64 `json:"seal_amount"` // yuan locked on the limit order
	Streak     int     `json:"streak"`      // consecutive limit sessions
	FirstTime  string  `json:"first_time"`  // HHMMSS of first touch
	LastTime   string  `json:"last_time"`
	Industry   string  `json:"industry"`
}

// FundFlow is the per-stock money-flow snapshot for the latest session.
type FundFlow struct {
	Code       string  `json:"code"`
	MainNet    float64 `json:"main_net"` // yuan
	MainNetPct float64 `json:"main_net_pct"`
	SuperNet   float64 `json:"super_net"`
	LargeNet   float64 `json:"large_net"`
	MediumNet  float64 `json:"medium_net"`
	SmallNet   float64 `json:"small_net"`
}

// NorthFlow is the northbound (陆股通) net-flow snapshot in yuan.
type NorthFlow struct {
	Total    float64 `json:"total"`
	SHLink   float64 `json:"sh_link"`
	SZLink   float64 `json:"sz_link"`
	DateTime string  `json:"datetime"`
}
