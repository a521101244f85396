// Package db opens the sqlite run log and keeps its schema current.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Register driver
)

// DB wraps the sql.DB connection.
type DB struct {
	*sql.DB
}

// Init opens the database and runs migrations.
func Init(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=30000;"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	d := &DB{db}
	// Enforce single connection to avoid SQLITE_BUSY errors during concurrent writes
	db.SetMaxOpenConns(1)

	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return d, nil
}

// PruneRuns removes runs (and their waypoints) started before now-olderThan.
// It returns the number of runs removed.
func (d *DB) PruneRuns(olderThan time.Duration) (int64, error) {
	deadline := time.Now().Add(-olderThan).UTC()
	res, err := d.Exec("DELETE FROM plan_run WHERE started_at < ?", deadline)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (d *DB) migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS plan_run (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			finished_at DATETIME,
			found BOOLEAN DEFAULT 0,
			cost REAL,
			node_count INTEGER,
			expanded INTEGER,
			generated INTEGER,
			pruned INTEGER,
			revisited INTEGER,
			relaxed INTEGER,
			error TEXT,
			origin_lat REAL,
			origin_lon REAL,
			origin_alt REAL
		);`,
		`CREATE TABLE IF NOT EXISTS plan_waypoint (
			run_id TEXT NOT NULL REFERENCES plan_run(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			node_index INTEGER,
			parent_index INTEGER,
			x REAL,
			y REAL,
			z REAL,
			heading REAL,
			vertical_speed REAL,
			speed REAL,
			g REAL,
			h REAL,
			lat REAL,
			lon REAL,
			PRIMARY KEY (run_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_plan_run_started ON plan_run(started_at);`,
	}

	for _, q := range queries {
		if _, err := d.Exec(q); err != nil {
			return fmt.Errorf("exec error: %w query: %s", err, q)
		}
	}

	return nil
}
