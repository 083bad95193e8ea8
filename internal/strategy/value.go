package strategy

import (
	"fmt"

	"github.com/iasiv5/a-share-analyst/pkg/model"
)

// ValueConfig holds parameters for the value ranking
type ValueConfig struct {
	PEWeight float64 `yaml:"pe_weight"`
	PBWeight float64 `yaml:"pb_weight"`
	TopN     int     `yaml:"top_n"`
}

// DefaultValueConfig returns the default weights
func DefaultValueConfig() ValueConfig {
	return ValueConfig{
		PEWeight: 0.5,
		PBWeight: 0.5,
		TopN:     20,
	}
}

// ValueStrategy ranks the pool by cheapness: double-low PE and PB.
type ValueStrategy struct {
	config ValueConfig
}

// NewValueStrategy creates a value strategy
func NewValueStrategy(config ValueConfig) *ValueStrategy {
	return &ValueStrategy{config: config}
}

// Name returns the strategy name
func (s *ValueStrategy) Name() string {
	return "value"
}

// Description returns a brief description
func (s *ValueStrategy) Description() string {
	return "低估值选股: 市盈率与市净率双低"
}

// Run ranks the snapshot by combined PE and PB percentiles.
func (s *ValueStrategy) Run(quotes []model.Quote) []Pick {
	pool := FilterPool(quotes)
	if len(pool) == 0 {
		return nil
	}

	pe := make([]float64, len(pool))
	pb := make([]float64, len(pool))
	for i, q := range pool {
		pe[i] = q.PERatio
		pb[i] = q.PBRatio
	}
	// descending ranks put the cheapest names on top
	peRank := percentileRank(pe, false)
	pbRank := percentileRank(pb, false)

	picks := make([]Pick, 0, len(pool))
	for i, q := range pool {
		frac := s.config.PEWeight*peRank[i] + s.config.PBWeight*pbRank[i]
		picks = append(picks, Pick{
			Code:      q.Code,
			Name:      q.Name,
			Price:     q.Price,
			ChangePct: q.ChangePct,
			Score:     frac * 100,
			Reason:    fmt.Sprintf("市盈率 %.1f 市净率 %.2f", q.PERatio, q.PBRatio),
			Details: map[string]float64{
				"pe": q.PERatio,
				"pb": q.PBRatio,
			},
		})
	}
	return topPicks(picks, s.config.TopN)
}
