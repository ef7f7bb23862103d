// Package storage provides SQLite-based persistence for CoinDash high scores
// and session telemetry.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const timeLayout = "2006-01-02 15:04:05"

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single high score record.
type ScoreEntry struct {
	ID        int64
	Preset    string // Difficulty preset the run was played on
	Score     int
	SessionID string
	CreatedAt time.Time
}

// SessionRecord is one telemetry row: an intermediate sample or the final
// record of a session.
type SessionRecord struct {
	ID             int64
	SessionID      string
	RecordedAt     time.Time
	Distance       float64
	Coins          int
	Jumps          int
	Score          int
	CompletionTime float64
	DeathCause     string
	Final          bool
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			preset TEXT NOT NULL,
			score INTEGER NOT NULL,
			session_id TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(preset, score DESC);

		CREATE TABLE IF NOT EXISTS session_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			recorded_at TEXT NOT NULL,
			distance REAL NOT NULL DEFAULT 0,
			coins INTEGER NOT NULL DEFAULT 0,
			jumps INTEGER NOT NULL DEFAULT 0,
			score INTEGER NOT NULL DEFAULT 0,
			completion_time REAL NOT NULL DEFAULT 0,
			death_cause TEXT NOT NULL DEFAULT '',
			final INTEGER NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_session_records_session ON session_records(session_id);
		CREATE INDEX IF NOT EXISTS idx_session_records_final ON session_records(final, recorded_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a finished run's score.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(preset string, score int, sessionID string) (int64, error) {
	result, err := s.db.Exec(
		"INSERT INTO scores (preset, score, session_id) VALUES (?, ?, ?)",
		preset, score, sessionID,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores for the given preset.
// An empty preset matches every preset. Results are ordered by score descending.
func (s *Store) TopScores(preset string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, preset, score, session_id, created_at
		 FROM scores
		 WHERE ? = '' OR preset = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		preset, preset, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Preset, &e.Score, &e.SessionID, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for the given preset.
// Returns 0 if no scores exist.
func (s *Store) HighScore(preset string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE ? = '' OR preset = ?",
		preset, preset,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all scores for the given preset, or every score when
// preset is empty.
func (s *Store) ClearScores(preset string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE ? = '' OR preset = ?", preset, preset)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// SaveSessionRecord appends a telemetry row.
func (s *Store) SaveSessionRecord(rec SessionRecord) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO session_records
		 (session_id, recorded_at, distance, coins, jumps, score, completion_time, death_cause, final)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID,
		rec.RecordedAt.UTC().Format(time.RFC3339Nano),
		rec.Distance,
		rec.Coins,
		rec.Jumps,
		rec.Score,
		rec.CompletionTime,
		rec.DeathCause,
		rec.Final,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SessionRecords returns every row of one session in insertion order.
func (s *Store) SessionRecords(sessionID string) ([]SessionRecord, error) {
	return s.queryRecords(
		`SELECT id, session_id, recorded_at, distance, coins, jumps, score, completion_time, death_cause, final
		 FROM session_records
		 WHERE session_id = ?
		 ORDER BY id ASC`,
		sessionID,
	)
}

// FinalRecords returns the most recent final records, newest first.
func (s *Store) FinalRecords(limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryRecords(
		`SELECT id, session_id, recorded_at, distance, coins, jumps, score, completion_time, death_cause, final
		 FROM session_records
		 WHERE final = 1
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

func (s *Store) queryRecords(query string, args ...any) ([]SessionRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session records: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		var r SessionRecord
		var recordedAt string
		if err := rows.Scan(
			&r.ID,
			&r.SessionID,
			&recordedAt,
			&r.Distance,
			&r.Coins,
			&r.Jumps,
			&r.Score,
			&r.CompletionTime,
			&r.DeathCause,
			&r.Final,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, recordedAt); err == nil {
			r.RecordedAt = t
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// SessionStats contains aggregated statistics over final session records.
type SessionStats struct {
	Sessions     int
	HighScore    int
	AvgScore     float64
	AvgDistance  float64
	AvgTime      float64
	TotalCoins   int64
	DeathCauses  map[string]int // Cause name to count; "" counts quits and completions
	LastRecorded time.Time
}

// GetSessionStats aggregates every final record. Averages are zero when no
// session has finished.
func (s *Store) GetSessionStats() (*SessionStats, error) {
	stats := &SessionStats{DeathCauses: make(map[string]int)}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(AVG(distance), 0), COALESCE(AVG(completion_time), 0), COALESCE(SUM(coins), 0)
		 FROM session_records WHERE final = 1`,
	).Scan(&stats.Sessions, &stats.HighScore, &stats.AvgScore, &stats.AvgDistance, &stats.AvgTime, &stats.TotalCoins)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get session stats: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT death_cause, COUNT(*) FROM session_records WHERE final = 1 GROUP BY death_cause`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get death causes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var cause string
		var n int
		if err := rows.Scan(&cause, &n); err != nil {
			return nil, fmt.Errorf("storage: cannot scan death cause row: %w", err)
		}
		stats.DeathCauses[cause] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	var last string
	err = s.db.QueryRow(
		`SELECT recorded_at FROM session_records WHERE final = 1 ORDER BY id DESC LIMIT 1`,
	).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("storage: cannot get last record: %w", err)
	}
	if err == nil {
		if t, perr := time.Parse(time.RFC3339Nano, last); perr == nil {
			stats.LastRecorded = t
		}
	}

	return stats, nil
}

// parseTime handles DATETIME columns returned as time.Time or string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse(timeLayout, t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
