// Package store persists planning runs and their paths.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"trajplan/pkg/db"
	"trajplan/pkg/model"
)

// Store defines the repository interface.
// Consumers should depend on specific sub-interfaces when possible.
type Store interface {
	RunStore
	WaypointStore

	// Close closes the store connection.
	Close() error
}

// SQLiteStore implements Store.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new store.
func NewSQLiteStore(db *db.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Runs ---

const runColumns = `id, started_at, finished_at, found, cost, node_count, expanded, generated, pruned, revisited, relaxed, error, origin_lat, origin_lon, origin_alt`

func (s *SQLiteStore) SaveRun(ctx context.Context, run *model.Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	var finished sql.NullTime
	if !run.FinishedAt.IsZero() {
		finished = sql.NullTime{Time: run.FinishedAt.UTC(), Valid: true}
	}

	query := `INSERT INTO plan_run (` + runColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			finished_at = excluded.finished_at,
			found = excluded.found,
			cost = excluded.cost,
			node_count = excluded.node_count,
			expanded = excluded.expanded,
			generated = excluded.generated,
			pruned = excluded.pruned,
			revisited = excluded.revisited,
			relaxed = excluded.relaxed,
			error = excluded.error`

	_, err := s.db.ExecContext(ctx, query,
		run.ID, run.StartedAt.UTC(), finished, run.Found, run.Cost, run.NodeCount,
		run.Expanded, run.Generated, run.Pruned, run.Revisited, run.Relaxed, run.Error,
		run.OriginLat, run.OriginLon, run.OriginAlt,
	)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun returns nil without error when the run does not exist.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM plan_run WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*model.Run, error) {
	query := `SELECT ` + runColumns + ` FROM plan_run ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*model.Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*model.Run, error) {
	var r model.Run
	var finished sql.NullTime
	var errText sql.NullString
	var cost sql.NullFloat64
	var nodeCount, expanded, generated, pruned, revisited, relaxed sql.NullInt64

	err := row.Scan(
		&r.ID, &r.StartedAt, &finished, &r.Found, &cost, &nodeCount,
		&expanded, &generated, &pruned, &revisited, &relaxed, &errText,
		&r.OriginLat, &r.OriginLon, &r.OriginAlt,
	)
	if err != nil {
		return nil, err
	}

	if finished.Valid {
		r.FinishedAt = finished.Time
	}
	r.Error = errText.String
	r.Cost = cost.Float64
	r.NodeCount = int(nodeCount.Int64)
	r.Expanded = int(expanded.Int64)
	r.Generated = int(generated.Int64)
	r.Pruned = int(pruned.Int64)
	r.Revisited = int(revisited.Int64)
	r.Relaxed = int(relaxed.Int64)
	return &r, nil
}

// --- Waypoints ---

func (s *SQLiteStore) SaveWaypoints(ctx context.Context, runID string, wps []model.Waypoint) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM plan_waypoint WHERE run_id = ?", runID); err != nil {
		return fmt.Errorf("clear waypoints of %s: %w", runID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO plan_waypoint
		(run_id, seq, node_index, parent_index, x, y, z, heading, vertical_speed, speed, g, h, lat, lon)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, w := range wps {
		if _, err := stmt.ExecContext(ctx, runID, w.Seq, w.NodeIndex, w.ParentIndex,
			w.X, w.Y, w.Z, w.Heading, w.VerticalSpeed, w.Speed, w.G, w.H, w.Lat, w.Lon); err != nil {
			return fmt.Errorf("save waypoint %d of %s: %w", w.Seq, runID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) ListWaypoints(ctx context.Context, runID string) ([]model.Waypoint, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT seq, node_index, parent_index, x, y, z, heading, vertical_speed, speed, g, h, lat, lon
		FROM plan_waypoint WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wps []model.Waypoint
	for rows.Next() {
		var w model.Waypoint
		if err := rows.Scan(&w.Seq, &w.NodeIndex, &w.ParentIndex, &w.X, &w.Y, &w.Z,
			&w.Heading, &w.VerticalSpeed, &w.Speed, &w.G, &w.H, &w.Lat, &w.Lon); err != nil {
			return nil, err
		}
		wps = append(wps, w)
	}
	return wps, rows.Err()
}
