package main

import (
	"database/sql"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite match archive. The archive is additive history —
// it never feeds back into live match state.
type DB struct {
	conn *sql.DB
}

// MatchPlayerResult is one player's final line in a match
type MatchPlayerResult struct {
	Name      string
	District  string
	Ability   string
	Kills     int
	Placement int
}

// MatchResult is the snapshot recorded when a match ends
type MatchResult struct {
	Winner   string
	Duration float64 // seconds
	Players  []MatchPlayerResult
}

// MatchRow is a stored match summary
type MatchRow struct {
	ID           int64
	Winner       string
	Duration     float64
	Participants int
	CreatedAt    time.Time
}

// OpenDB opens (or creates) the SQLite database
func OpenDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates tables if they don't exist
func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		winner TEXT NOT NULL DEFAULT '',
		duration REAL NOT NULL DEFAULT 0,
		participants INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS match_players (
		match_id INTEGER NOT NULL REFERENCES matches(id),
		name TEXT NOT NULL,
		district TEXT NOT NULL DEFAULT '',
		ability TEXT NOT NULL DEFAULT '',
		kills INTEGER NOT NULL DEFAULT 0,
		placement INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_match_players_match ON match_players(match_id);
	`
	_, err := db.conn.Exec(schema)
	if err != nil {
		log.Printf("DB migration error: %v", err)
	}
	return err
}

// RecordMatch stores a completed match and its per-player placements
func (db *DB) RecordMatch(res MatchResult) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	r, err := tx.Exec(
		"INSERT INTO matches (winner, duration, participants) VALUES (?, ?, ?)",
		res.Winner, res.Duration, len(res.Players),
	)
	if err != nil {
		return err
	}
	matchID, err := r.LastInsertId()
	if err != nil {
		return err
	}

	for _, p := range res.Players {
		_, err = tx.Exec(
			"INSERT INTO match_players (match_id, name, district, ability, kills, placement) VALUES (?, ?, ?, ?, ?, ?)",
			matchID, p.Name, p.District, p.Ability, p.Kills, p.Placement,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RecentMatches returns the latest stored match summaries
func (db *DB) RecentMatches(limit int) ([]MatchRow, error) {
	rows, err := db.conn.Query(
		"SELECT id, winner, duration, participants, created_at FROM matches ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MatchRow
	for rows.Next() {
		var m MatchRow
		if err := rows.Scan(&m.ID, &m.Winner, &m.Duration, &m.Participants, &m.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// MatchPlayers returns the per-player lines of one stored match
func (db *DB) MatchPlayers(matchID int64) ([]MatchPlayerResult, error) {
	rows, err := db.conn.Query(
		"SELECT name, district, ability, kills, placement FROM match_players WHERE match_id = ? ORDER BY placement",
		matchID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MatchPlayerResult
	for rows.Next() {
		var p MatchPlayerResult
		if err := rows.Scan(&p.Name, &p.District, &p.Ability, &p.Kills, &p.Placement); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
