package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trajplan/pkg/db"
	"trajplan/pkg/model"
)

// setupTestStore creates a test database and store for each test.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	d, err := db.Init(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	s := NewSQLiteStore(d)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// =============================================================================
// RunStore Tests
// =============================================================================

func TestRunStore_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	run := &model.Run{
		StartedAt: time.Now().Add(-time.Second),
		OriginLat: 37.1,
		OriginLon: -76.4,
		OriginAlt: 3,
	}
	require.NoError(t, s.SaveRun(ctx, run))

	_, err := uuid.Parse(run.ID)
	require.NoError(t, err, "generated id is a uuid")

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Found)
	assert.True(t, got.FinishedAt.IsZero())
	assert.Equal(t, 37.1, got.OriginLat)
	assert.WithinDuration(t, run.StartedAt, got.StartedAt, time.Millisecond)

	// Finish the run
	run.FinishedAt = time.Now()
	run.Found = true
	run.Cost = 16
	run.NodeCount = 40
	run.Expanded = 12
	run.Generated = 36
	run.Pruned = 1
	run.Revisited = 4
	run.Relaxed = 2
	require.NoError(t, s.SaveRun(ctx, run))

	got, err = s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.True(t, got.Found)
	assert.Equal(t, 16.0, got.Cost)
	assert.Equal(t, 40, got.NodeCount)
	assert.Equal(t, 12, got.Expanded)
	assert.Equal(t, 36, got.Generated)
	assert.Equal(t, 1, got.Pruned)
	assert.Equal(t, 4, got.Revisited)
	assert.Equal(t, 2, got.Relaxed)
	assert.Empty(t, got.Error)
	assert.WithinDuration(t, run.FinishedAt, got.FinishedAt, time.Millisecond)
}

func TestRunStore_GetMissing(t *testing.T) {
	s := setupTestStore(t)
	got, err := s.GetRun(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRunStore_ListRuns(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	tests := []struct {
		name    string
		limit   int
		wantIDs []string
	}{
		{"all newest first", 0, []string{"c", "b", "a"}},
		{"limited", 2, []string{"c", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := setupTestStore(t)
			for i, id := range []string{"a", "b", "c"} {
				require.NoError(t, s.SaveRun(ctx, &model.Run{ID: id, StartedAt: now.Add(time.Duration(i) * time.Minute)}))
			}

			runs, err := s.ListRuns(ctx, tt.limit)
			require.NoError(t, err)
			var ids []string
			for _, r := range runs {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

// =============================================================================
// WaypointStore Tests
// =============================================================================

func TestWaypointStore(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	run := &model.Run{}
	require.NoError(t, s.SaveRun(ctx, run))

	wps := []model.Waypoint{
		{Seq: 0, NodeIndex: 0, ParentIndex: -1, Speed: 2, Lat: 37.1, Lon: -76.4},
		{Seq: 1, NodeIndex: 2, ParentIndex: 0, Y: 2, Heading: 0, Speed: 2, G: 2, H: 13, Lat: 37.10002, Lon: -76.4},
		{Seq: 2, NodeIndex: 5, ParentIndex: 2, X: -0.3, Y: 3.9, Z: 1, Heading: -10, VerticalSpeed: 1, Speed: 2, G: 4, H: 11},
	}
	require.NoError(t, s.SaveWaypoints(ctx, run.ID, wps))

	got, err := s.ListWaypoints(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, wps, got)

	// Saving again replaces the path
	require.NoError(t, s.SaveWaypoints(ctx, run.ID, wps[:1]))
	got, err = s.ListWaypoints(ctx, run.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// Unknown run is rejected by the foreign key
	assert.Error(t, s.SaveWaypoints(ctx, "missing", wps))

	got, err = s.ListWaypoints(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}
