package depgraph

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ngaerrors "nga/internal/errors"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "graph.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleGraph() *Graph {
	g := New()
	g.AddDependency("apps/shell/main.ts", "apps/shell/app.ts")
	g.AddDependency("apps/shell/app.ts", "libs/ui/index.ts")
	g.AddDependency("libs/ui/index.ts", "libs/ui/button.ts")
	g.AddDependency("libs/ui/button.ts", "libs/ui/index.ts")
	return g
}

func TestStore_SaveAndQuery(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	g := sampleGraph()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	snap := SnapshotOf(Run{
		ID:            "run-1",
		WorkspaceRoot: "/ws",
		Fingerprint:   "abc",
		StartedAt:     now,
		FinishedAt:    now.Add(time.Second),
	}, g, []FileRecord{
		{Path: "apps/shell/main.ts", Project: "shell", Kind: "other"},
		{Path: "apps/shell/app.ts", Project: "shell", Kind: "component"},
	})
	require.NoError(t, s.SaveRun(ctx, snap))

	run, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, 2, run.Files)
	assert.Equal(t, 4, run.Edges)
	assert.Equal(t, 1, run.Cycles)
	assert.True(t, run.FinishedAt.Equal(now.Add(time.Second)))

	deps, err := s.Dependencies(ctx, run.ID, "apps/shell/app.ts")
	require.NoError(t, err)
	assert.Equal(t, []string{"libs/ui/index.ts"}, deps)

	dependents, err := s.Dependents(ctx, run.ID, "libs/ui/index.ts")
	require.NoError(t, err)
	assert.Equal(t, []string{"apps/shell/app.ts", "libs/ui/button.ts"}, dependents)

	all, err := s.AllDependencies(ctx, run.ID, "apps/shell/main.ts")
	require.NoError(t, err)
	assert.Equal(t, g.AllDependencies("apps/shell/main.ts"), all)

	up, err := s.AllDependents(ctx, run.ID, "libs/ui/button.ts")
	require.NoError(t, err)
	assert.Equal(t, []string{"apps/shell/app.ts", "apps/shell/main.ts", "libs/ui/button.ts", "libs/ui/index.ts"}, up)

	cycles, err := s.Cycles(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, g.CircularDependencies(), cycles)

	files, err := s.Files(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "apps/shell/app.ts", files[0].Path)
}

func TestStore_LatestRunEmpty(t *testing.T) {
	s := openTestStore(t)

	_, err := s.LatestRun(context.Background())
	assert.True(t, errors.Is(err, ErrNoRuns))
}

func TestStore_LatestRunOrdering(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "new"} {
		snap := SnapshotOf(Run{
			ID:         id,
			StartedAt:  base,
			FinishedAt: base.Add(time.Duration(i) * time.Minute),
		}, New(), nil)
		require.NoError(t, s.SaveRun(ctx, snap))
	}

	run, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", run.ID)
}

func TestStore_DuplicateRunFails(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	snap := SnapshotOf(Run{ID: "dup"}, sampleGraph(), nil)

	require.NoError(t, s.SaveRun(ctx, snap))
	err := s.SaveRun(ctx, snap)
	require.Error(t, err)
	assert.Equal(t, ngaerrors.StoreFailed, ngaerrors.CodeOf(err))

	// The failed transaction left the first run intact.
	deps, err := s.Dependencies(ctx, "dup", "apps/shell/main.ts")
	require.NoError(t, err)
	assert.Equal(t, []string{"apps/shell/app.ts"}, deps)
}

func TestStore_UnknownFile(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.SaveRun(ctx, SnapshotOf(Run{ID: "r"}, sampleGraph(), nil)))

	deps, err := s.AllDependencies(ctx, "r", "nope.ts")
	require.NoError(t, err)
	assert.Empty(t, deps)
}
