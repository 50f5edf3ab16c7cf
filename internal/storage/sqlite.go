// Package storage provides SQLite-based persistence for level high scores
// and the plain-text name:score tables used for import and export.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Store manages the SQLite database connection for score persistence.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single high score record.
type ScoreEntry struct {
	ID        int64
	Level     string
	Player    string
	Score     int
	RunID     uuid.UUID // identifies the play session the score came from
	CreatedAt time.Time
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	dbPath, err := ExpandHome(dbPath)
	if err != nil {
		return nil, err
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
			level TEXT NOT NULL,
			player TEXT NOT NULL,
			score INTEGER NOT NULL,
			run_id TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_level ON scores(level);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(level, score DESC);
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

// SaveScore records a score for a level. A nil run id gets a fresh one.
// Returns the ID of the inserted record.
func (s *Store) SaveScore(level, player string, score int, runID uuid.UUID) (int64, error) {
	if runID == uuid.Nil {
		runID = uuid.New()
	}
	result, err := s.db.Exec(
		"INSERT INTO scores (level, player, score, run_id) VALUES (?, ?, ?, ?)",
		level, player, score, runID.String(),
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

// TopScores retrieves the top N scores for a level, highest first.
// Equal scores keep insertion order.
func (s *Store) TopScores(level string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT id, level, player, score, run_id, created_at
		 FROM scores
		 WHERE level = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		level, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var runID string
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Level, &e.Player, &e.Score, &runID, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if parsed, err := uuid.Parse(runID); err == nil {
			e.RunID = parsed
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score for a level.
// Returns 0 if no scores exist.
func (s *Store) HighScore(level string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM scores WHERE level = ?",
		level,
	).Scan(&score)

	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// ClearScores deletes all scores for a level.
func (s *Store) ClearScores(level string) error {
	_, err := s.db.Exec("DELETE FROM scores WHERE level = ?", level)
	if err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// ImportTable saves every entry of a name:score table under one run id.
// Returns the number of imported entries.
func (s *Store) ImportTable(level string, table *Table) (int, error) {
	runID := uuid.New()
	n := 0
	for _, e := range table.Entries() {
		if _, err := s.SaveScore(level, e.Name, e.Score, runID); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// ExportTable returns the top scores of a level as a name:score table.
func (s *Store) ExportTable(level string, limit int) (*Table, error) {
	entries, err := s.TopScores(level, limit)
	if err != nil {
		return nil, err
	}
	table := NewTable()
	for _, e := range entries {
		table.Add(e.Player, e.Score)
	}
	return table, nil
}

// LevelStats contains aggregated statistics for a level.
type LevelStats struct {
	Level      string
	Runs       int
	HighScore  int
	AvgScore   float64
	LastPlayed time.Time
}

// Stats retrieves aggregated statistics for every level with scores,
// ordered by level name.
func (s *Store) Stats() ([]LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level, COUNT(*), MAX(score), AVG(score), MAX(created_at)
		 FROM scores
		 GROUP BY level
		 ORDER BY level`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	defer rows.Close()

	var stats []LevelStats
	for rows.Next() {
		var st LevelStats
		var lastPlayed any
		if err := rows.Scan(&st.Level, &st.Runs, &st.HighScore, &st.AvgScore, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.LastPlayed = parseTime(lastPlayed)
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// ErrNoScores is returned by LastRun when a level has no scores.
var ErrNoScores = errors.New("storage: no scores recorded")

// LastRun returns the most recent score recorded for a level.
func (s *Store) LastRun(level string) (ScoreEntry, error) {
	var e ScoreEntry
	var runID string
	var createdAt any
	err := s.db.QueryRow(
		`SELECT id, level, player, score, run_id, created_at
		 FROM scores WHERE level = ? ORDER BY id DESC LIMIT 1`,
		level,
	).Scan(&e.ID, &e.Level, &e.Player, &e.Score, &runID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return e, ErrNoScores
	}
	if err != nil {
		return e, fmt.Errorf("storage: cannot query last run: %w", err)
	}
	if parsed, err := uuid.Parse(runID); err == nil {
		e.RunID = parsed
	}
	e.CreatedAt = parseTime(createdAt)
	return e, nil
}

// parseTime handles both time.Time and string datetime columns.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
