package engine_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/engine"
	"github.com/runoshun/taskdag/internal/graph"
	"github.com/runoshun/taskdag/internal/infra/memstore"
	"github.com/runoshun/taskdag/internal/testutil"
)

func newCriticalPath(store domain.Store, logger domain.Logger) *engine.CriticalPath {
	return engine.NewCriticalPath(engine.NewAccessor(store, store), logger)
}

func TestCriticalPath_Chain(t *testing.T) {
	store := memstore.New()
	testutil.SeedProject(t, store, "p1", "A", "B", "C", "D")
	testutil.Link(t, store, "d1", "B", "A")
	testutil.Link(t, store, "d2", "C", "B")
	testutil.Link(t, store, "d3", "D", "C")

	path, err := newCriticalPath(store, nil).CriticalPath(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, path)
}

func TestCriticalPath_DisjointChains(t *testing.T) {
	store := memstore.New()
	testutil.SeedProject(t, store, "p1", "a1", "a2", "b1", "b2", "b3", "b4")
	testutil.Link(t, store, "d1", "a2", "a1")
	testutil.Link(t, store, "d2", "b2", "b1")
	testutil.Link(t, store, "d3", "b3", "b2")
	testutil.Link(t, store, "d4", "b4", "b3")

	path, err := newCriticalPath(store, nil).CriticalPath(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b2", "b3", "b4"}, path)
}

func TestCriticalPath_NoEdges(t *testing.T) {
	store := memstore.New()
	testutil.SeedProject(t, store, "p1", "t3", "t1", "t2")

	path, err := newCriticalPath(store, nil).CriticalPath(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, path)
}

func TestCriticalPath_NoTasks(t *testing.T) {
	store := memstore.New()
	testutil.SeedProject(t, store, "p1")

	report, err := newCriticalPath(store, nil).Report(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, report.Path)
	assert.NotNil(t, report.Path)
	assert.Nil(t, report.Anomaly)
}

func TestCriticalPath_Report(t *testing.T) {
	store := memstore.New()
	testutil.SeedProject(t, store, "p1", "A", "B", "C")
	for id, hours := range map[string]float64{"A": 2, "B": 3.5} {
		task, err := store.GetTask(context.Background(), id)
		require.NoError(t, err)
		task.EstimatedHours = &hours
		require.NoError(t, store.SaveTask(context.Background(), task))
	}
	testutil.Link(t, store, "d1", "B", "A")
	testutil.Link(t, store, "d2", "C", "B")

	report, err := newCriticalPath(store, nil).Report(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, report.Path)
	assert.Equal(t, 2, report.Length)
	assert.InDelta(t, 5.5, report.TotalHours, 1e-9)
	assert.Equal(t, []graph.Edge{
		{Task: "B", DependsOn: "A"},
		{Task: "C", DependsOn: "B"},
	}, report.Edges)
	require.Len(t, report.Nodes, 3)
	for i, n := range report.Nodes {
		assert.True(t, n.Critical)
		assert.Equal(t, i+1, n.Position)
		assert.Equal(t, "Task "+n.ID, n.Title)
	}
	assert.Nil(t, report.Nodes[2].EstimatedHours)
}

func TestCriticalPath_CycleIsAnomaly(t *testing.T) {
	store := memstore.New()
	testutil.SeedProject(t, store, "p1", "a", "b", "c", "d")
	// Written behind the engine's back.
	testutil.Link(t, store, "d1", "b", "a")
	testutil.Link(t, store, "d2", "c", "b")
	testutil.Link(t, store, "d3", "b", "c")
	testutil.Link(t, store, "d4", "d", "a")
	logger := &testutil.RecordingLogger{}

	report, err := newCriticalPath(store, logger).Report(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "d"}, report.Path)
	require.NotNil(t, report.Anomaly)
	assert.Equal(t, []string{"b", "c"}, report.Anomaly.Unresolved)
	assert.Contains(t, report.Anomaly.String(), "cycle through 2 task(s)")
	assert.True(t, logger.Has("WARN", "critical-path"))
}

func TestCriticalPath_ExecutionOrder(t *testing.T) {
	store := memstore.New()
	testutil.SeedProject(t, store, "p1", "design", "build", "docs", "ship")
	testutil.Link(t, store, "d1", "build", "design")
	testutil.Link(t, store, "d2", "ship", "build")
	testutil.Link(t, store, "d3", "ship", "docs")
	testutil.SetStatus(t, store, "design", domain.StatusDone)

	report, err := newCriticalPath(store, nil).ExecutionOrder(context.Background(), "p1")
	require.NoError(t, err)

	assert.Equal(t, []string{"design", "docs", "build", "ship"}, report.Order)
	assert.Equal(t, []string{"docs", "build"}, report.Ready)
	assert.Nil(t, report.Anomaly)
}

func TestCriticalPath_ConcurrentCallsAgree(t *testing.T) {
	store := memstore.New()
	testutil.SeedProject(t, store, "p1", "A", "B", "C")
	testutil.Link(t, store, "d1", "B", "A")
	testutil.Link(t, store, "d2", "C", "B")
	cp := newCriticalPath(store, nil)

	var wg sync.WaitGroup
	results := make([][]string, 16)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = cp.CriticalPath(context.Background(), "p1")
		}()
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, []string{"A", "B", "C"}, results[i])
	}
}

func TestCriticalPath_CancelledContext(t *testing.T) {
	store := memstore.New()
	testutil.SeedProject(t, store, "p1", "A")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newCriticalPath(store, nil).CriticalPath(ctx, "p1")
	assert.ErrorIs(t, err, context.Canceled)
}
