package strategy

import (
	"fmt"

	"github.com/iasiv5/a-share-analyst/pkg/model"
)

// MomentumConfig holds parameters for the momentum ranking
type MomentumConfig struct {
	ChangeWeight   float64 `yaml:"change_weight"`
	TurnoverWeight float64 `yaml:"turnover_weight"`
	TopN           int     `yaml:"top_n"`
}

// DefaultMomentumConfig returns the default weights
func DefaultMomentumConfig() MomentumConfig {
	return MomentumConfig{
		ChangeWeight:   0.7,
		TurnoverWeight: 0.3,
		TopN:           20,
	}
}

// MomentumStrategy ranks the pool by intraday strength: price change
// tempered by turnover, so heavily churned names rank below quieter
// gainers.
type MomentumStrategy struct {
	config MomentumConfig
}

// NewMomentumStrategy creates a momentum strategy
func NewMomentumStrategy(config MomentumConfig) *MomentumStrategy {
	return &MomentumStrategy{config: config}
}

// Name returns the strategy name
func (s *MomentumStrategy) Name() string {
	return "momentum"
}

// Description returns a brief description
func (s *MomentumStrategy) Description() string {
	return "动量选股: 涨幅与换手率共振"
}

// Run ranks the snapshot by change percent and turnover percentiles.
func (s *MomentumStrategy) Run(quotes []model.Quote) []Pick {
	pool := FilterPool(quotes)
	if len(pool) == 0 {
		return nil
	}

	chg := make([]float64, len(pool))
	turn := make([]float64, len(pool))
	for i, q := range pool {
		chg[i] = q.ChangePct
		turn[i] = q.TurnoverRate
	}
	chgRank := percentileRank(chg, true)
	turnRank := percentileRank(turn, false) // low turnover ranks high

	picks := make([]Pick, 0, len(pool))
	for i, q := range pool {
		frac := s.config.ChangeWeight*chgRank[i] + s.config.TurnoverWeight*turnRank[i]
		picks = append(picks, Pick{
			Code:      q.Code,
			Name:      q.Name,
			Price:     q.Price,
			ChangePct: q.ChangePct,
			Score:     frac * 100,
			Reason:    fmt.Sprintf("涨幅 %.2f%% 换手 %.2f%%", q.ChangePct, q.TurnoverRate),
			Details: map[string]float64{
				"change_pct": q.ChangePct,
				"turnover":   q.TurnoverRate,
			},
		})
	}
	return topPicks(picks, s.config.TopN)
}
