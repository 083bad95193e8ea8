// Package strategy ranks realtime snapshot rows into stock picks.
// Strategies work on the spot table only; indicator-driven analysis of
// individual stocks lives in the analyzer package.
package strategy

import (
	"math"
	"sort"
	"strings"

	"github.com/iasiv5/a-share-analyst/pkg/model"
)

// Pick is one ranked row from a strategy run
type Pick struct {
	Code      string             `json:"code"`
	Name      string             `json:"name"`
	Price     float64            `json:"price"`
	ChangePct float64            `json:"change_pct"`
	Score     float64            `json:"score"`  // 0-100
	Reason    string             `json:"reason"` // Human readable reason
	Details   map[string]float64 `json:"details,omitempty"`
}

// Strategy defines the interface for ranking strategies
type Strategy interface {
	// Name returns the strategy name
	Name() string

	// Description returns a brief description
	Description() string

	// Run ranks the snapshot and returns the top picks
	Run(quotes []model.Quote) []Pick
}

// tradable reports whether a snapshot row can be ranked meaningfully.
// NaN fields come from suspended or unreported rows and always fail.
func tradable(q model.Quote) bool {
	// risk-warning and delisting names
	if strings.Contains(q.Name, "ST") || strings.Contains(q.Name, "退") {
		return false
	}
	// already on the limit board, nothing left to ride
	if math.IsNaN(q.ChangePct) || math.Abs(q.ChangePct) >= 9.9 {
		return false
	}
	// suspended
	if math.IsNaN(q.TurnoverRate) || q.TurnoverRate <= 0 {
		return false
	}
	// loss makers have no meaningful PE
	if math.IsNaN(q.PERatio) || q.PERatio <= 0 {
		return false
	}
	return true
}

// FilterPool returns the rankable subset of a snapshot.
func FilterPool(quotes []model.Quote) []model.Quote {
	out := make([]model.Quote, 0, len(quotes))
	for _, q := range quotes {
		if tradable(q) {
			out = append(out, q)
		}
	}
	return out
}

// topPicks sorts by score descending and keeps at most n entries.
// n <= 0 keeps everything.
func topPicks(picks []Pick, n int) []Pick {
	sort.SliceStable(picks, func(a, b int) bool {
		return picks[a].Score > picks[b].Score
	})
	if n > 0 && len(picks) > n {
		picks = picks[:n]
	}
	return picks
}
