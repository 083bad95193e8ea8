package history

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL,
	code       TEXT NOT NULL,
	name       TEXT NOT NULL DEFAULT '',
	price      REAL NOT NULL,
	score      INTEGER NOT NULL,
	rating     TEXT NOT NULL,
	trend      TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_analyses_code ON analyses(code, created_at);

CREATE TABLE IF NOT EXISTS picks (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL,
	strategy   TEXT NOT NULL,
	code       TEXT NOT NULL,
	name       TEXT NOT NULL DEFAULT '',
	score      REAL NOT NULL,
	reason     TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_picks_strategy ON picks(strategy, created_at);
`

// SQLiteStore persists history in a single SQLite file. SQLite allows
// one writer at a time, so writes serialize through a mutex.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (and migrates) the history database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history db: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveAnalysis inserts one analysis row.
func (s *SQLiteStore) SaveAnalysis(rec AnalysisRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO analyses (run_id, code, name, price, score, rating, trend, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Code, rec.Name, rec.Price, rec.Score, rec.Rating, rec.Trend,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save analysis %s: %w", rec.Code, err)
	}
	return nil
}

// SavePicks inserts a batch of pick rows in one transaction.
func (s *SQLiteStore) SavePicks(recs []PickRecord) error {
	if len(recs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin picks tx: %w", err)
	}
	stmt, err := tx.Prepare(
		`INSERT INTO picks (run_id, strategy, code, name, score, reason, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare picks insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, rec := range recs {
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		if _, err := stmt.Exec(
			rec.RunID, rec.Strategy, rec.Code, rec.Name, rec.Score, rec.Reason,
			rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("save pick %s: %w", rec.Code, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit picks: %w", err)
	}
	return nil
}

// RecentAnalyses returns up to n analysis rows, newest first.
func (s *SQLiteStore) RecentAnalyses(code string, n int) ([]AnalysisRecord, error) {
	query := `SELECT id, run_id, code, name, price, score, rating, trend, created_at
		FROM analyses`
	args := []any{}
	if code != "" {
		query += " WHERE code = ?"
		args = append(args, code)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, n)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	out := []AnalysisRecord{}
	for rows.Next() {
		var rec AnalysisRecord
		var created string
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Code, &rec.Name,
			&rec.Price, &rec.Score, &rec.Rating, &rec.Trend, &created); err != nil {
			return nil, fmt.Errorf("scan analysis row: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// RecentPicks returns up to n pick rows, newest first.
func (s *SQLiteStore) RecentPicks(strategy string, n int) ([]PickRecord, error) {
	query := `SELECT id, run_id, strategy, code, name, score, reason, created_at
		FROM picks`
	args := []any{}
	if strategy != "" {
		query += " WHERE strategy = ?"
		args = append(args, strategy)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, n)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query picks: %w", err)
	}
	defer rows.Close()

	out := []PickRecord{}
	for rows.Next() {
		var rec PickRecord
		var created string
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Strategy, &rec.Code,
			&rec.Name, &rec.Score, &rec.Reason, &created); err != nil {
			return nil, fmt.Errorf("scan pick row: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, rec)
	}
	return out, rows.Err()
}
