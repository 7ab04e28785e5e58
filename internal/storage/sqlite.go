// Package storage provides SQLite-based persistence for the run history.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for run history.
type Store struct {
	db *sql.DB
}

// Outcomes a run is recorded with.
const (
	OutcomeWon       = "won"
	OutcomeLost      = "lost"
	OutcomeUndecided = "undecided"
	OutcomeError     = "error"
)

// RunEntry represents a single recorded run of a game.
type RunEntry struct {
	ID           int64
	GameID       string
	Seed         int64
	Difficulty   int
	PlaybackRate float64
	Outcome      string
	Frames       int
	CreatedAt    time.Time
}

// Summary contains aggregated results for a game.
type Summary struct {
	GameID     string
	Runs       int
	Won        int
	Lost       int
	Undecided  int
	Errors     int
	LastPlayed time.Time
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
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			seed INTEGER NOT NULL,
			difficulty INTEGER NOT NULL,
			playback_rate REAL NOT NULL,
			outcome TEXT NOT NULL,
			frames INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_game_id ON runs(game_id);
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

// SaveRun records a finished run.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(run RunEntry) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (game_id, seed, difficulty, playback_rate, outcome, frames)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.GameID, run.Seed, run.Difficulty, run.PlaybackRate, run.Outcome, run.Frames,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// RecentRuns retrieves the most recent runs of a game, newest first.
// An empty gameID returns runs of every game.
func (s *Store) RecentRuns(gameID string, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, game_id, seed, difficulty, playback_rate, outcome, frames, created_at
		 FROM runs
		 WHERE ? = '' OR game_id = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		gameID, gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var entries []RunEntry
	for rows.Next() {
		var e RunEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.GameID, &e.Seed, &e.Difficulty, &e.PlaybackRate, &e.Outcome, &e.Frames, &createdAt); err != nil {
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

// Summary returns aggregated outcomes for a game.
func (s *Store) Summary(gameID string) (*Summary, error) {
	sum := &Summary{GameID: gameID}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(outcome = 'won'), 0),
		        COALESCE(SUM(outcome = 'lost'), 0),
		        COALESCE(SUM(outcome = 'undecided'), 0),
		        COALESCE(SUM(outcome = 'error'), 0),
		        MAX(created_at)
		 FROM runs WHERE game_id = ?`,
		gameID,
	).Scan(&sum.Runs, &sum.Won, &sum.Lost, &sum.Undecided, &sum.Errors, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get summary: %w", err)
	}
	sum.LastPlayed = parseTime(lastPlayed)

	return sum, nil
}

// AllSummaries retrieves summaries for every game that has been run.
func (s *Store) AllSummaries() (map[string]*Summary, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*),
		        SUM(outcome = 'won'), SUM(outcome = 'lost'),
		        SUM(outcome = 'undecided'), SUM(outcome = 'error'),
		        MAX(created_at)
		 FROM runs
		 GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get summaries: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*Summary)
	for rows.Next() {
		var sum Summary
		var lastPlayed any
		if err := rows.Scan(&sum.GameID, &sum.Runs, &sum.Won, &sum.Lost, &sum.Undecided, &sum.Errors, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan summary row: %w", err)
		}
		sum.LastPlayed = parseTime(lastPlayed)
		out[sum.GameID] = &sum
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// ClearRuns deletes all runs for the given game.
func (s *Store) ClearRuns(gameID string) error {
	_, err := s.db.Exec("DELETE FROM runs WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
