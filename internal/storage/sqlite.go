// Package storage provides SQLite-based persistence for verified solutions.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/beamforge/internal/verify"
)

// Store manages the SQLite database connection for solution persistence.
type Store struct {
	db *sql.DB
}

// Solution represents a single verified solution record.
type Solution struct {
	ID           int64
	SubmissionID string
	LevelID      string
	Player       string
	Cost         int
	Latency      int
	Ticks        uint64
	BoardHash    uint64
	Board        []byte // encoded board file
	CreatedAt    time.Time
}

// Open opens the solution database at path, creating it and its parent
// directories when missing, and brings the schema up to date. A leading ~
// is expanded to the home directory.
func Open(path string) (*Store, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create directory for %s: %w", path, err)
	}

	// The SSH sessions and the HTTP API write concurrently in serve mode.
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: connect %s: %w", path, err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}
	return s, nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("storage: expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// DefaultPath returns ~/.beamforge/solutions.db.
func DefaultPath() string {
	return filepath.Join("~", ".beamforge", "solutions.db")
}

// migrations are applied in order; PRAGMA user_version records how many ran.
var migrations = []string{
	`CREATE TABLE solutions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		submission_id TEXT NOT NULL UNIQUE,
		level_id TEXT NOT NULL,
		player TEXT NOT NULL,
		cost INTEGER NOT NULL,
		latency INTEGER NOT NULL,
		board_hash TEXT NOT NULL,
		board BLOB,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX idx_solutions_level ON solutions(level_id);
	CREATE INDEX idx_solutions_player ON solutions(player);`,

	`ALTER TABLE solutions ADD COLUMN ticks INTEGER NOT NULL DEFAULT 0;
	CREATE INDEX idx_solutions_best ON solutions(level_id, cost, latency);`,
}

// SchemaVersion returns the number of migrations applied to the database.
func (s *Store) SchemaVersion() (int, error) {
	var v int
	if err := s.db.QueryRow(`PRAGMA user_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("storage: read schema version: %w", err)
	}
	return v, nil
}

// migrate runs every migration newer than the recorded schema version, each
// in its own transaction.
func (s *Store) migrate() error {
	current, err := s.SchemaVersion()
	if err != nil {
		return err
	}
	for v := current; v < len(migrations); v++ {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(migrations[v]); err != nil {
			tx.Rollback()
			return fmt.Errorf("version %d: %w", v+1, err)
		}
		// PRAGMA does not take bind parameters.
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", v+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("version %d: %w", v+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("version %d: %w", v+1, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSolution records a verified solution.
// Returns the ID of the inserted record.
func (s *Store) SaveSolution(sol Solution) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO solutions
		 (submission_id, level_id, player, cost, latency, ticks, board_hash, board)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sol.SubmissionID,
		sol.LevelID,
		sol.Player,
		sol.Cost,
		sol.Latency,
		int64(sol.Ticks),
		formatHash(sol.BoardHash),
		sol.Board,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save solution: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const solutionColumns = `id, submission_id, level_id, player, cost, latency, ticks, board_hash, board, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSolution(row rowScanner) (Solution, error) {
	var sol Solution
	var ticks int64
	var hash string
	var createdAt any
	if err := row.Scan(
		&sol.ID,
		&sol.SubmissionID,
		&sol.LevelID,
		&sol.Player,
		&sol.Cost,
		&sol.Latency,
		&ticks,
		&hash,
		&sol.Board,
		&createdAt,
	); err != nil {
		return Solution{}, err
	}
	sol.Ticks = uint64(ticks)
	sol.BoardHash, _ = strconv.ParseUint(hash, 16, 64)
	sol.CreatedAt = parseTime(createdAt)
	return sol, nil
}

func (s *Store) querySolutions(query string, args ...any) ([]Solution, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query solutions: %w", err)
	}
	defer rows.Close()

	var out []Solution
	for rows.Next() {
		sol, err := scanSolution(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		out = append(out, sol)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return out, nil
}

// TopSolutions retrieves the best N solutions for the given level.
// Results are ordered by cost, then latency, then submission time.
func (s *Store) TopSolutions(levelID string, limit int) ([]Solution, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.querySolutions(
		`SELECT `+solutionColumns+`
		 FROM solutions
		 WHERE level_id = ?
		 ORDER BY cost ASC, latency ASC, id ASC
		 LIMIT ?`,
		levelID, limit,
	)
}

// PlayerSolutions retrieves the most recent solutions by a player.
func (s *Store) PlayerSolutions(player string, limit int) ([]Solution, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.querySolutions(
		`SELECT `+solutionColumns+`
		 FROM solutions
		 WHERE player = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		player, limit,
	)
}

// SolutionByID retrieves a solution by its submission ID.
// Returns nil if no such submission exists.
func (s *Store) SolutionByID(submissionID string) (*Solution, error) {
	sol, err := scanSolution(s.db.QueryRow(
		`SELECT `+solutionColumns+` FROM solutions WHERE submission_id = ?`,
		submissionID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query solution: %w", err)
	}
	return &sol, nil
}

// Completed returns the set of levels a player has solved.
func (s *Store) Completed(player string) (map[string]bool, error) {
	rows, err := s.db.Query(
		`SELECT DISTINCT level_id FROM solutions WHERE player = ?`,
		player,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query completed levels: %w", err)
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		done[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return done, nil
}

// ClearLevel deletes all solutions for the given level.
func (s *Store) ClearLevel(levelID string) error {
	_, err := s.db.Exec("DELETE FROM solutions WHERE level_id = ?", levelID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear solutions: %w", err)
	}
	return nil
}

// SaveVerified implements verify.SolutionSaver.
// This adapter allows the verifier to persist results without a direct storage dependency.
func (s *Store) SaveVerified(rec verify.Record) error {
	_, err := s.SaveSolution(Solution{
		SubmissionID: rec.SubmissionID,
		LevelID:      rec.LevelID,
		Player:       rec.Player,
		Cost:         rec.Cost,
		Latency:      rec.Latency,
		Ticks:        rec.Ticks,
		BoardHash:    rec.BoardHash,
		Board:        rec.Board,
	})
	return err
}

// Ensure Store implements SolutionSaver
var _ verify.SolutionSaver = (*Store)(nil)

// LevelStats contains aggregated statistics for a level.
type LevelStats struct {
	LevelID     string
	Solutions   int
	Players     int
	BestCost    int
	BestLatency int
	LastSolved  time.Time
}

// GetLevelStats retrieves aggregated statistics for a specific level.
func (s *Store) GetLevelStats(levelID string) (*LevelStats, error) {
	stats := &LevelStats{LevelID: levelID}

	var lastSolved any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COUNT(DISTINCT player), COALESCE(MIN(cost), 0), COALESCE(MIN(latency), 0), MAX(created_at)
		 FROM solutions WHERE level_id = ?`,
		levelID,
	).Scan(&stats.Solutions, &stats.Players, &stats.BestCost, &stats.BestLatency, &lastSolved)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get level stats: %w", err)
	}
	stats.LastSolved = parseTime(lastSolved)

	return stats, nil
}

// GetAllLevelStats retrieves statistics for every level with at least one solution.
func (s *Store) GetAllLevelStats() (map[string]*LevelStats, error) {
	rows, err := s.db.Query(
		`SELECT level_id, COUNT(*), COUNT(DISTINCT player), MIN(cost), MIN(latency), MAX(created_at)
		 FROM solutions
		 GROUP BY level_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all level stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*LevelStats)
	for rows.Next() {
		var ls LevelStats
		var lastSolved any
		if err := rows.Scan(&ls.LevelID, &ls.Solutions, &ls.Players, &ls.BestCost, &ls.BestLatency, &lastSolved); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		ls.LastSolved = parseTime(lastSolved)
		stats[ls.LevelID] = &ls
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// parseTime handles both time.Time and string datetime values.
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

func formatHash(h uint64) string {
	return fmt.Sprintf("%016x", h)
}
