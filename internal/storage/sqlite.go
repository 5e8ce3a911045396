// Package storage provides SQLite-based persistence for finished games.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tryangles/internal/core"
)

// DefaultPath is where results are stored unless --db says otherwise.
const DefaultPath = "~/.tryangles/results.db"

// Store manages the SQLite database connection for result persistence.
type Store struct {
	db *sql.DB
}

// Result is a single finished game.
type Result struct {
	ID           string // UUID
	GameID       string
	Width        int
	Height       int
	Moves        []string // lines in notation, e.g. "A1-C3"
	Winner       int      // 1 or 2; 0 for a draw
	EndReason    string   // "triangle" or "no_moves"
	Player1      string
	Player2      string
	DurationSecs int
	CreatedAt    time.Time
}

// ResultFromOutcome converts a game outcome into a storable result.
func ResultFromOutcome(o core.Outcome) Result {
	return Result{
		GameID:       o.GameID,
		Width:        o.Width,
		Height:       o.Height,
		Moves:        o.Moves,
		Winner:       o.Winner,
		EndReason:    o.Reason,
		Player1:      o.Players[0],
		Player2:      o.Players[1],
		DurationSecs: int(o.Duration / time.Second),
	}
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

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			moves TEXT NOT NULL DEFAULT '[]',
			move_count INTEGER NOT NULL DEFAULT 0,
			winner INTEGER NOT NULL DEFAULT 0,
			end_reason TEXT NOT NULL,
			player1 TEXT NOT NULL,
			player2 TEXT NOT NULL,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_results_game_id ON results(game_id);
		CREATE INDEX IF NOT EXISTS idx_results_created ON results(created_at DESC);
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

// SaveResult records a finished game. A missing ID is generated.
// Returns the ID of the stored record.
func (s *Store) SaveResult(r Result) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Moves == nil {
		r.Moves = []string{}
	}

	moves, err := sonic.MarshalString(r.Moves)
	if err != nil {
		return "", fmt.Errorf("storage: cannot encode moves: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO results
		 (id, game_id, width, height, moves, move_count, winner, end_reason, player1, player2, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.GameID,
		r.Width,
		r.Height,
		moves,
		len(r.Moves),
		r.Winner,
		r.EndReason,
		r.Player1,
		r.Player2,
		r.DurationSecs,
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save result: %w", err)
	}

	return r.ID, nil
}

// SaveOutcome records the outcome reported by a finished game.
func (s *Store) SaveOutcome(o core.Outcome) (string, error) {
	return s.SaveResult(ResultFromOutcome(o))
}

const resultColumns = `id, game_id, width, height, moves, winner, end_reason,
	player1, player2, duration_secs, created_at`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (Result, error) {
	var r Result
	var moves string
	var createdAt any

	if err := row.Scan(
		&r.ID,
		&r.GameID,
		&r.Width,
		&r.Height,
		&moves,
		&r.Winner,
		&r.EndReason,
		&r.Player1,
		&r.Player2,
		&r.DurationSecs,
		&createdAt,
	); err != nil {
		return r, err
	}

	if err := sonic.UnmarshalString(moves, &r.Moves); err != nil {
		return r, fmt.Errorf("storage: cannot decode moves of %s: %w", r.ID, err)
	}
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and string datetimes from the driver.
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

// ResultByID retrieves a result by its ID. Returns nil if it does not exist.
func (s *Store) ResultByID(id string) (*Result, error) {
	row := s.db.QueryRow(`SELECT `+resultColumns+` FROM results WHERE id = ?`, id)

	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query result: %w", err)
	}
	return &r, nil
}

// RecentResults retrieves the most recent results, newest first.
// An empty gameID returns results of every mode.
func (s *Store) RecentResults(gameID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE ? = '' OR game_id = ?
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		gameID, gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// ClearResults deletes all results for the given game.
// An empty gameID deletes everything.
func (s *Store) ClearResults(gameID string) (int64, error) {
	res, err := s.db.Exec("DELETE FROM results WHERE ? = '' OR game_id = ?", gameID, gameID)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot clear results: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot count deleted rows: %w", err)
	}
	return n, nil
}

// GameStats contains aggregated statistics for a game mode.
type GameStats struct {
	GameID      string
	GamesCount  int
	Player1Wins int
	Player2Wins int
	Draws       int
	AvgMoves    float64
	LongestGame int
	LastPlayed  time.Time
}

// GetGameStats retrieves aggregated statistics for a specific game mode.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*),
		        COALESCE(SUM(winner = 1), 0),
		        COALESCE(SUM(winner = 2), 0),
		        COALESCE(SUM(winner = 0), 0),
		        COALESCE(AVG(move_count), 0),
		        COALESCE(MAX(move_count), 0),
		        MAX(created_at)
		 FROM results WHERE game_id = ?`,
		gameID,
	).Scan(
		&stats.GamesCount,
		&stats.Player1Wins,
		&stats.Player2Wins,
		&stats.Draws,
		&stats.AvgMoves,
		&stats.LongestGame,
		&lastPlayed,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// GetAllGamesStats retrieves statistics for all game modes that have been played.
func (s *Store) GetAllGamesStats() (map[string]*GameStats, error) {
	rows, err := s.db.Query(
		`SELECT game_id, COUNT(*), SUM(winner = 1), SUM(winner = 2), SUM(winner = 0),
		        AVG(move_count), MAX(move_count), MAX(created_at)
		 FROM results
		 GROUP BY game_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all games stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*GameStats)
	for rows.Next() {
		var gs GameStats
		var lastPlayed any
		if err := rows.Scan(
			&gs.GameID,
			&gs.GamesCount,
			&gs.Player1Wins,
			&gs.Player2Wins,
			&gs.Draws,
			&gs.AvgMoves,
			&gs.LongestGame,
			&lastPlayed,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		gs.LastPlayed = parseTime(lastPlayed)
		stats[gs.GameID] = &gs
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}
