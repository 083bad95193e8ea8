// Package history persists analysis results and strategy picks so past
// runs can be compared against later price action.
package history

import "time"

// AnalysisRecord is one scored analysis of one stock.
type AnalysisRecord struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Score     int       `json:"score"`
	Rating    string    `json:"rating"`
	Trend     string    `json:"trend"`
	CreatedAt time.Time `json:"created_at"`
}

// PickRecord is one strategy pick row.
type PickRecord struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Strategy  string    `json:"strategy"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Score     float64   `json:"score"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// Store records runs and reads them back, newest first.
type Store interface {
	SaveAnalysis(rec AnalysisRecord) error
	SavePicks(recs []PickRecord) error

	// RecentAnalyses returns up to n rows for one code, or across all
	// codes when code is empty.
	RecentAnalyses(code string, n int) ([]AnalysisRecord, error)

	// RecentPicks returns up to n rows for one strategy, or across all
	// strategies when strategy is empty.
	RecentPicks(strategy string, n int) ([]PickRecord, error)

	Close() error
}

// NoopStore discards everything; used with --no-db.
type NoopStore struct{}

func (NoopStore) SaveAnalysis(AnalysisRecord) error { return nil }
func (NoopStore) SavePicks([]PickRecord) error      { return nil }

func (NoopStore) RecentAnalyses(string, int) ([]AnalysisRecord, error) {
	return []AnalysisRecord{}, nil
}

func (NoopStore) RecentPicks(string, int) ([]PickRecord, error) {
	return []PickRecord{}, nil
}

func (NoopStore) Close() error { return nil }
