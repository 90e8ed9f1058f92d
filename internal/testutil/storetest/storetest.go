// Package storetest holds the behavior every domain.Store backend must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/testutil"
)

// Factory returns a fresh, initialized store for one subtest.
type Factory func(t *testing.T) domain.Store

// Run exercises the store contract against the backend built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("tasks", func(t *testing.T) { testTasks(t, newStore(t)) })
	t.Run("task not found", func(t *testing.T) { testTaskNotFound(t, newStore(t)) })
	t.Run("task update keeps dependencies", func(t *testing.T) { testTaskUpdateKeepsDependencies(t, newStore(t)) })
	t.Run("delete task cascades", func(t *testing.T) { testDeleteTaskCascades(t, newStore(t)) })
	t.Run("dependencies", func(t *testing.T) { testDependencies(t, newStore(t)) })
	t.Run("duplicate dependency", func(t *testing.T) { testDuplicateDependency(t, newStore(t)) })
	t.Run("delete dependency scoped to task", func(t *testing.T) { testDeleteDependencyScoped(t, newStore(t)) })
	t.Run("projects", func(t *testing.T) { testProjects(t, newStore(t)) })
	t.Run("delete project cascades", func(t *testing.T) { testDeleteProjectCascades(t, newStore(t)) })
	t.Run("insert needs both endpoints", func(t *testing.T) { testInsertNeedsEndpoints(t, newStore(t)) })
	t.Run("lock project", func(t *testing.T) { testLockProject(t, newStore(t)) })
	t.Run("canceled context", func(t *testing.T) { testCanceledContext(t, newStore(t)) })
}

func testTasks(t *testing.T, s domain.Store) {
	ctx := context.Background()
	require.NoError(t, s.SaveProject(ctx, testutil.NewTestProject("p1")))
	require.NoError(t, s.SaveProject(ctx, testutil.NewTestProject("p2")))

	hours := 2.5
	task := testutil.NewTestTask("t2", "p1", domain.StatusInProgress)
	task.Description = "write the parser"
	task.AssigneeID = "alice"
	task.Priority = domain.PriorityHigh
	task.EstimatedHours = &hours
	require.NoError(t, s.SaveTask(ctx, task))
	require.NoError(t, s.SaveTask(ctx, testutil.NewTestTask("t1", "p1", domain.StatusTodo)))
	require.NoError(t, s.SaveTask(ctx, testutil.NewTestTask("t3", "p2", domain.StatusDone)))

	got, err := s.GetTask(ctx, "t2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assertTask(t, task, got)

	tasks, err := s.ListTasksByProject(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2"}, taskIDs(tasks))

	tasks, err = s.ListTasksByProject(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	task.Title = "Renamed"
	task.EstimatedHours = nil
	task.Status = domain.StatusDone
	require.NoError(t, s.SaveTask(ctx, task))

	got, err = s.GetTask(ctx, "t2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Renamed", got.Title)
	assert.Equal(t, domain.StatusDone, got.Status)
	assert.Nil(t, got.EstimatedHours)
}

func testTaskNotFound(t *testing.T, s domain.Store) {
	ctx := context.Background()

	got, err := s.GetTask(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)

	deleted, err := s.DeleteTask(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func testTaskUpdateKeepsDependencies(t *testing.T, s domain.Store) {
	ctx := context.Background()
	testutil.SeedProject(t, s, "p1", "a", "b")
	testutil.Link(t, s, "d1", "a", "b")

	testutil.SetStatus(t, s, "b", domain.StatusDone)

	deps, err := s.ListDependenciesOf(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"d1"}, depIDs(deps))
}

func testDeleteTaskCascades(t *testing.T, s domain.Store) {
	ctx := context.Background()
	testutil.SeedProject(t, s, "p1", "a", "b", "c")
	testutil.Link(t, s, "d1", "a", "b")
	testutil.Link(t, s, "d2", "b", "c")
	testutil.Link(t, s, "d3", "a", "c")

	deleted, err := s.DeleteTask(ctx, "b")
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := s.GetTask(ctx, "b")
	require.NoError(t, err)
	assert.Nil(t, got)

	deps, err := s.ListDependenciesWhereTaskIn(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"d3"}, depIDs(deps))

	dependents, err := s.ListDependents(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, dependents)
}

func testDependencies(t *testing.T, s domain.Store) {
	ctx := context.Background()
	testutil.SeedProject(t, s, "p1", "a", "b", "c", "d")
	testutil.Link(t, s, "d2", "a", "c")
	testutil.Link(t, s, "d1", "a", "b")
	testutil.Link(t, s, "d3", "b", "c")
	testutil.Link(t, s, "d4", "d", "c")

	found, err := s.FindDependency(ctx, "a", "b")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "d1", found.ID)
	assert.Equal(t, "a", found.TaskID)
	assert.Equal(t, "b", found.DependsOnID)
	assert.True(t, testutil.FixedClock().Now().Equal(found.Created))

	found, err = s.FindDependency(ctx, "b", "a")
	require.NoError(t, err)
	assert.Nil(t, found, "edges are directed")

	of, err := s.ListDependenciesOf(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d2"}, depIDs(of))

	dependents, err := s.ListDependents(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"d2", "d3", "d4"}, depIDs(dependents))

	in, err := s.ListDependenciesWhereTaskIn(ctx, []string{"b", "d"})
	require.NoError(t, err)
	assert.Equal(t, []string{"d3", "d4"}, depIDs(in))

	in, err = s.ListDependenciesWhereTaskIn(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, in)
}

func testDuplicateDependency(t *testing.T, s domain.Store) {
	ctx := context.Background()
	testutil.SeedProject(t, s, "p1", "a", "b")
	testutil.Link(t, s, "d1", "a", "b")

	err := s.InsertDependency(ctx, &domain.Dependency{
		ID:          "d2",
		TaskID:      "a",
		DependsOnID: "b",
		Created:     testutil.FixedClock().Now(),
	})
	require.ErrorIs(t, err, domain.ErrDuplicateDependency)

	deps, err := s.ListDependenciesOf(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"d1"}, depIDs(deps))

	// The reverse direction is a different pair.
	testutil.Link(t, s, "d3", "b", "a")
}

func testDeleteDependencyScoped(t *testing.T, s domain.Store) {
	ctx := context.Background()
	testutil.SeedProject(t, s, "p1", "a", "b")
	testutil.Link(t, s, "d1", "a", "b")

	deleted, err := s.DeleteDependency(ctx, "d1", "b")
	require.NoError(t, err)
	assert.False(t, deleted, "edge belongs to a")

	deleted, err = s.DeleteDependency(ctx, "missing", "a")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = s.DeleteDependency(ctx, "d1", "a")
	require.NoError(t, err)
	assert.True(t, deleted)

	found, err := s.FindDependency(ctx, "a", "b")
	require.NoError(t, err)
	assert.Nil(t, found)

	// The pair is free again.
	testutil.Link(t, s, "d2", "a", "b")
}

func testInsertNeedsEndpoints(t *testing.T, s domain.Store) {
	ctx := context.Background()
	testutil.SeedProject(t, s, "p1", "a", "b")
	deleted, err := s.DeleteTask(ctx, "b")
	require.NoError(t, err)
	require.True(t, deleted)

	for _, dep := range []*domain.Dependency{
		{ID: "d1", TaskID: "a", DependsOnID: "b"},
		{ID: "d2", TaskID: "b", DependsOnID: "a"},
		{ID: "d3", TaskID: "ghost", DependsOnID: "a"},
	} {
		dep.Created = testutil.FixedClock().Now()
		err := s.InsertDependency(ctx, dep)
		require.ErrorIs(t, err, domain.ErrTaskNotFound, dep.ID)
	}

	deps, err := s.ListDependenciesWhereTaskIn(ctx, []string{"a", "b", "ghost"})
	require.NoError(t, err)
	assert.Empty(t, deps)
	deps, err = s.ListDependents(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, deps)
}

func testLockProject(t *testing.T, s domain.Store) {
	ctx := context.Background()

	unlock, err := s.LockProject(ctx, "p1")
	require.NoError(t, err)

	other, err := s.LockProject(ctx, "p2")
	require.NoError(t, err, "projects lock independently")
	other()

	waitCtx, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()
	_, err = s.LockProject(waitCtx, "p1")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	again, err := s.LockProject(ctx, "p1")
	require.NoError(t, err)
	again()

	canceled, cancelNow := context.WithCancel(ctx)
	cancelNow()
	_, err = s.LockProject(canceled, "p3")
	require.ErrorIs(t, err, context.Canceled)
}

func testProjects(t *testing.T, s domain.Store) {
	ctx := context.Background()

	p2 := testutil.NewTestProject("p2")
	p2.Description = "second"
	p2.OwnerID = "bob"
	p2.Status = domain.ProjectPlanning
	p2.Deadline = testutil.FixedClock().Now().AddDate(0, 1, 0)
	require.NoError(t, s.SaveProject(ctx, p2))
	require.NoError(t, s.SaveProject(ctx, testutil.NewTestProject("p1")))

	got, err := s.GetProject(ctx, "p2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Project p2", got.Name)
	assert.Equal(t, "second", got.Description)
	assert.Equal(t, "bob", got.OwnerID)
	assert.Equal(t, domain.ProjectPlanning, got.Status)
	assert.True(t, p2.Deadline.Equal(got.Deadline))
	assert.True(t, p2.Created.Equal(got.Created))

	first, err := s.GetProject(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.True(t, first.Deadline.IsZero())

	projects, err := s.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "p1", projects[0].ID)
	assert.Equal(t, "p2", projects[1].ID)

	p2.Status = domain.ProjectCompleted
	require.NoError(t, s.SaveProject(ctx, p2))
	got, err = s.GetProject(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectCompleted, got.Status)

	got, err = s.GetProject(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func testDeleteProjectCascades(t *testing.T, s domain.Store) {
	ctx := context.Background()
	testutil.SeedProject(t, s, "p1", "a", "b")
	testutil.SeedProject(t, s, "p2", "x", "y")
	testutil.Link(t, s, "d1", "a", "b")
	testutil.Link(t, s, "d2", "x", "y")

	deleted, err := s.DeleteProject(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := s.GetProject(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, got)

	tasks, err := s.ListTasksByProject(ctx, "p1")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	task, err := s.GetTask(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, task)

	deps, err := s.ListDependenciesWhereTaskIn(ctx, []string{"a", "b", "x", "y"})
	require.NoError(t, err)
	assert.Equal(t, []string{"d2"}, depIDs(deps))

	tasks, err = s.ListTasksByProject(ctx, "p2")
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, taskIDs(tasks))

	deleted, err = s.DeleteProject(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func testCanceledContext(t *testing.T, s domain.Store) {
	testutil.SeedProject(t, s, "p1", "a")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetTask(ctx, "a")
	require.Error(t, err)
	_, err = s.ListTasksByProject(ctx, "p1")
	require.Error(t, err)
	_, err = s.ListDependenciesOf(ctx, "a")
	require.Error(t, err)

	err = s.SaveTask(ctx, testutil.NewTestTask("b", "p1", domain.StatusTodo))
	require.Error(t, err)

	got, err := s.GetTask(context.Background(), "b")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func assertTask(t *testing.T, want, got *domain.Task) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.ProjectID, got.ProjectID)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Description, got.Description)
	assert.Equal(t, want.AssigneeID, got.AssigneeID)
	assert.Equal(t, want.Status, got.Status)
	assert.Equal(t, want.Priority, got.Priority)
	assert.Equal(t, want.EstimatedHours, got.EstimatedHours)
	assert.True(t, want.Created.Equal(got.Created), "created %v != %v", want.Created, got.Created)
	assert.True(t, want.Updated.Equal(got.Updated), "updated %v != %v", want.Updated, got.Updated)
}

func taskIDs(tasks []*domain.Task) []string {
	ids := make([]string, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	return ids
}

func depIDs(deps []*domain.Dependency) []string {
	ids := make([]string, len(deps))
	for i, d := range deps {
		ids[i] = d.ID
	}
	return ids
}
