package strategy

import (
	"fmt"

	"github.com/iasiv5/a-share-analyst/pkg/model"
)

// QualityConfig holds parameters for the quality ranking
type QualityConfig struct {
	ROEWeight float64 `yaml:"roe_weight"`
	CapWeight float64 `yaml:"cap_weight"`
	TopN      int     `yaml:"top_n"`
}

// DefaultQualityConfig returns the default weights
func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		ROEWeight: 0.7,
		CapWeight: 0.3,
		TopN:      20,
	}
}

// QualityStrategy ranks by implied return on equity with a small-cap
// tilt. The snapshot carries no fundamentals beyond PE and PB, so
// profitability is implied from the two multiples.
type QualityStrategy struct {
	config QualityConfig
}

// NewQualityStrategy creates a quality strategy
func NewQualityStrategy(config QualityConfig) *QualityStrategy {
	return &QualityStrategy{config: config}
}

// Name returns the strategy name
func (s *QualityStrategy) Name() string {
	return "quality"
}

// Description returns a brief description
func (s *QualityStrategy) Description() string {
	return "质量选股: 隐含ROE与市值稳健度"
}

// Run ranks the snapshot by implied ROE and market cap percentiles.
func (s *QualityStrategy) Run(quotes []model.Quote) []Pick {
	pool := FilterPool(quotes)
	if len(pool) == 0 {
		return nil
	}

	roe := make([]float64, len(pool))
	mcap := make([]float64, len(pool))
	for i, q := range pool {
		roe[i] = impliedROE(q)
		mcap[i] = q.TotalCap
	}
	roeRank := percentileRank(roe, true)
	capRank := percentileRank(mcap, false) // smaller caps rank high

	picks := make([]Pick, 0, len(pool))
	for i, q := range pool {
		frac := s.config.ROEWeight*roeRank[i] + s.config.CapWeight*capRank[i]
		picks = append(picks, Pick{
			Code:      q.Code,
			Name:      q.Name,
			Price:     q.Price,
			ChangePct: q.ChangePct,
			Score:     frac * 100,
			Reason:    fmt.Sprintf("隐含ROE %.1f%% 市值 %.0f亿", roe[i]*100, q.TotalCap/1e8),
			Details: map[string]float64{
				"implied_roe": roe[i],
				"total_cap":   q.TotalCap,
			},
		})
	}
	return topPicks(picks, s.config.TopN)
}

// impliedROE scores profitability from the two snapshot multiples.
// With PB near 1 this approximates PB/PE, the earnings yield on book;
// the 0.01 floor keeps near-zero products finite.
func impliedROE(q model.Quote) float64 {
	return 1 / (q.PERatio*q.PBRatio + 0.01)
}
