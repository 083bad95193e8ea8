package strategy

import (
	"fmt"
	"math"

	"github.com/iasiv5/a-share-analyst/pkg/model"
)

// MultiFactorConfig holds the factor weights for the composite ranking
type MultiFactorConfig struct {
	ValueWeight      float64 `yaml:"value_weight"`
	MomentumWeight   float64 `yaml:"momentum_weight"`
	QualityWeight    float64 `yaml:"quality_weight"`
	SizeWeight       float64 `yaml:"size_weight"`
	VolatilityWeight float64 `yaml:"volatility_weight"`
	TopN             int     `yaml:"top_n"`
}

// DefaultMultiFactorConfig returns the default factor weights
func DefaultMultiFactorConfig() MultiFactorConfig {
	return MultiFactorConfig{
		ValueWeight:      0.25,
		MomentumWeight:   0.25,
		QualityWeight:    0.25,
		SizeWeight:       0.15,
		VolatilityWeight: 0.10,
		TopN:             20,
	}
}

// MultiFactorStrategy blends value, momentum, quality, size and
// volatility factor percentiles into one composite score. The size
// factor rewards proximity to the pool's median log market cap; the
// volatility factor rewards calm amplitude.
type MultiFactorStrategy struct {
	config MultiFactorConfig
}

// NewMultiFactorStrategy creates a multi-factor strategy
func NewMultiFactorStrategy(config MultiFactorConfig) *MultiFactorStrategy {
	return &MultiFactorStrategy{config: config}
}

// Name returns the strategy name
func (s *MultiFactorStrategy) Name() string {
	return "multifactor"
}

// Description returns a brief description
func (s *MultiFactorStrategy) Description() string {
	return "多因子综合选股: 估值/动量/质量/市值/波动"
}

// Run ranks the snapshot by the weighted factor composite.
func (s *MultiFactorStrategy) Run(quotes []model.Quote) []Pick {
	pool := FilterPool(quotes)
	if len(pool) == 0 {
		return nil
	}

	n := len(pool)
	pe := make([]float64, n)
	pb := make([]float64, n)
	chg := make([]float64, n)
	roe := make([]float64, n)
	logCap := make([]float64, n)
	amp := make([]float64, n)
	for i, q := range pool {
		pe[i] = q.PERatio
		pb[i] = q.PBRatio
		chg[i] = q.ChangePct
		roe[i] = impliedROE(q)
		logCap[i] = math.Log(q.TotalCap)
		amp[i] = q.Amplitude
	}

	medianLogCap := medianOf(logCap)
	size := make([]float64, n)
	for i := range logCap {
		// closest to the pool's typical size ranks highest
		size[i] = -math.Abs(logCap[i] - medianLogCap)
	}

	peRank := percentileRank(pe, false)
	pbRank := percentileRank(pb, false)
	chgRank := percentileRank(chg, true)
	roeRank := percentileRank(roe, true)
	sizeRank := percentileRank(size, true)
	ampRank := percentileRank(amp, false)

	picks := make([]Pick, 0, n)
	for i, q := range pool {
		value := 0.5*peRank[i] + 0.5*pbRank[i]
		momentum := chgRank[i]
		quality := roeRank[i]

		frac := s.config.ValueWeight*value +
			s.config.MomentumWeight*momentum +
			s.config.QualityWeight*quality +
			s.config.SizeWeight*sizeRank[i] +
			s.config.VolatilityWeight*ampRank[i]

		picks = append(picks, Pick{
			Code:      q.Code,
			Name:      q.Name,
			Price:     q.Price,
			ChangePct: q.ChangePct,
			Score:     frac * 100,
			Reason:    fmt.Sprintf("估值%.0f 动量%.0f 质量%.0f", value*100, momentum*100, quality*100),
			Details: map[string]float64{
				"value":      value,
				"momentum":   momentum,
				"quality":    quality,
				"size":       sizeRank[i],
				"volatility": ampRank[i],
			},
		})
	}
	return topPicks(picks, s.config.TopN)
}
