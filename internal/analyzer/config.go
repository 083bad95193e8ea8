package analyzer

import "fmt"

// Config holds every window and smoothing span the engine uses.
// Pass DefaultConfig() unless a caller needs non-standard parameters.
type Config struct {
	MAWindows    []int // close moving-average windows
	VolMAWindows []int // volume moving-average windows

	MACDFast   int // fast EMA span
	MACDSlow   int // slow EMA span
	MACDSignal int // DEA smoothing span

	KDJN  int // RSV window
	KDJM1 int // K smoothing (alpha = 1/m1)
	KDJM2 int // D smoothing (alpha = 1/m2)

	RSIPeriod int

	BollPeriod int
	BollWidth  float64 // band distance in standard deviations

	ATRPeriod int

	TrendShort int // short trend MA window
	TrendLong  int // long trend MA window

	LevelPeriod int // support/resistance lookback
}

// DefaultConfig returns the standard A-share parameter set.
func DefaultConfig() Config {
	return Config{
		MAWindows:    []int{5, 10, 20, 60, 120},
		VolMAWindows: []int{5, 10, 20},
		MACDFast:     12,
		MACDSlow:     26,
		MACDSignal:   9,
		KDJN:         9,
		KDJM1:        3,
		KDJM2:        3,
		RSIPeriod:    14,
		BollPeriod:   20,
		BollWidth:    2,
		ATRPeriod:    14,
		TrendShort:   20,
		TrendLong:    60,
		LevelPeriod:  20,
	}
}

// Validate checks the configuration for usable values.
func (c Config) Validate() error {
	if len(c.MAWindows) == 0 {
		return fmt.Errorf("at least one MA window is required")
	}
	for _, w := range c.MAWindows {
		if w < 1 {
			return fmt.Errorf("invalid MA window %d", w)
		}
	}
	for _, w := range c.VolMAWindows {
		if w < 1 {
			return fmt.Errorf("invalid volume MA window %d", w)
		}
	}
	if c.MACDFast < 1 || c.MACDSlow < 1 || c.MACDSignal < 1 {
		return fmt.Errorf("MACD spans must be positive, got %d/%d/%d", c.MACDFast, c.MACDSlow, c.MACDSignal)
	}
	if c.MACDFast >= c.MACDSlow {
		return fmt.Errorf("MACD fast span %d must be below slow span %d", c.MACDFast, c.MACDSlow)
	}
	if c.KDJN < 1 || c.KDJM1 < 1 || c.KDJM2 < 1 {
		return fmt.Errorf("KDJ parameters must be positive, got %d/%d/%d", c.KDJN, c.KDJM1, c.KDJM2)
	}
	if c.RSIPeriod < 1 {
		return fmt.Errorf("invalid RSI period %d", c.RSIPeriod)
	}
	if c.BollPeriod < 2 {
		return fmt.Errorf("BOLL period %d too small for a sample deviation", c.BollPeriod)
	}
	if c.BollWidth <= 0 {
		return fmt.Errorf("invalid BOLL width %v", c.BollWidth)
	}
	if c.ATRPeriod < 1 {
		return fmt.Errorf("invalid ATR period %d", c.ATRPeriod)
	}
	if c.TrendShort < 1 || c.TrendLong < 1 {
		return fmt.Errorf("trend windows must be positive, got %d/%d", c.TrendShort, c.TrendLong)
	}
	if c.TrendShort >= c.TrendLong {
		return fmt.Errorf("trend short window %d must be below long window %d", c.TrendShort, c.TrendLong)
	}
	if c.LevelPeriod < 1 {
		return fmt.Errorf("invalid support/resistance period %d", c.LevelPeriod)
	}
	return nil
}
