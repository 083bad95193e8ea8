package strategy

import (
	"fmt"

	"github.com/iasiv5/a-share-analyst/pkg/model"
)

// BreakoutConfig holds parameters for the volume breakout ranking
type BreakoutConfig struct {
	MinVolumeRatio  float64 `yaml:"min_volume_ratio"`
	MinChangePct    float64 `yaml:"min_change_pct"`
	VolumeWeight    float64 `yaml:"volume_weight"`
	ChangeWeight    float64 `yaml:"change_weight"`
	AmplitudeWeight float64 `yaml:"amplitude_weight"`
	TopN            int     `yaml:"top_n"`
}

// DefaultBreakoutConfig returns the default thresholds and weights
func DefaultBreakoutConfig() BreakoutConfig {
	return BreakoutConfig{
		MinVolumeRatio:  1.5,
		MinChangePct:    2.0,
		VolumeWeight:    0.4,
		ChangeWeight:    0.4,
		AmplitudeWeight: 0.2,
		TopN:            20,
	}
}

// BreakoutStrategy keeps rows moving up on expanded volume and ranks
// them by how convincing the expansion is.
type BreakoutStrategy struct {
	config BreakoutConfig
}

// NewBreakoutStrategy creates a breakout strategy
func NewBreakoutStrategy(config BreakoutConfig) *BreakoutStrategy {
	return &BreakoutStrategy{config: config}
}

// Name returns the strategy name
func (s *BreakoutStrategy) Name() string {
	return "breakout"
}

// Description returns a brief description
func (s *BreakoutStrategy) Description() string {
	return "放量突破选股: 量比放大且涨幅确认"
}

// Run ranks the whole pool, then keeps only rows clearing the volume
// and change thresholds. Percentiles are relative to the full pool,
// not the surviving rows.
func (s *BreakoutStrategy) Run(quotes []model.Quote) []Pick {
	pool := FilterPool(quotes)
	if len(pool) == 0 {
		return nil
	}

	vol := make([]float64, len(pool))
	chg := make([]float64, len(pool))
	amp := make([]float64, len(pool))
	for i, q := range pool {
		vol[i] = q.VolumeRatio
		chg[i] = q.ChangePct
		amp[i] = q.Amplitude
	}
	volRank := percentileRank(vol, true)
	chgRank := percentileRank(chg, true)
	ampRank := percentileRank(amp, false) // calm amplitude ranks high

	picks := make([]Pick, 0, len(pool))
	for i, q := range pool {
		// NaN volume ratio fails the comparison and drops out
		if !(q.VolumeRatio > s.config.MinVolumeRatio && q.ChangePct > s.config.MinChangePct) {
			continue
		}
		frac := s.config.VolumeWeight*volRank[i] +
			s.config.ChangeWeight*chgRank[i] +
			s.config.AmplitudeWeight*ampRank[i]
		picks = append(picks, Pick{
			Code:      q.Code,
			Name:      q.Name,
			Price:     q.Price,
			ChangePct: q.ChangePct,
			Score:     frac * 100,
			Reason:    fmt.Sprintf("量比 %.2f 涨幅 %.2f%%", q.VolumeRatio, q.ChangePct),
			Details: map[string]float64{
				"volume_ratio": q.VolumeRatio,
				"change_pct":   q.ChangePct,
				"amplitude":    q.Amplitude,
			},
		})
	}
	return topPicks(picks, s.config.TopN)
}
