package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/engine"
	"github.com/runoshun/taskdag/internal/testutil"
)

const launchPlan = `
project:
  name: Launch
  owner: alice
  deadline: 2025-03-01
tasks:
  - key: design
    title: Design API
    estimated_hours: 3
  - key: build
    title: Build API
    priority: high
    depends_on: [design]
  - key: ship
    title: Ship
    assignee: bob
    depends_on: [build, design]
`

// cyclicPlan closes a cycle with its last edge and repeats one edge.
const cyclicPlan = `
project:
  name: Loop
tasks:
  - key: a
    title: A
    depends_on: [c]
  - key: b
    title: B
    depends_on: [a, a]
  - key: c
    title: C
    depends_on: [b, c]
`

func newImportPlan(env *testEnv) *ImportPlan {
	return NewImportPlan(env.store, env.store, env.coordinator, env.ids, env.clock, env.logger)
}

func outcomes(edges []ImportedEdge) []engine.AddOutcome {
	out := make([]engine.AddOutcome, 0, len(edges))
	for _, e := range edges {
		out = append(out, e.Outcome)
	}
	return out
}

func TestImportPlan_Execute(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	out, err := newImportPlan(env).Execute(ctx, ImportPlanInput{Content: []byte(launchPlan)})

	require.NoError(t, err)
	assert.False(t, out.DryRun)
	assert.Equal(t, "Launch", out.Project.Name)
	assert.Equal(t, "alice", out.Project.OwnerID)
	assert.Equal(t, domain.ProjectPlanning, out.Project.Status)
	assert.True(t, out.Project.Deadline.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
	require.Len(t, out.Tasks, 3)
	require.Len(t, out.Edges, 3)
	assert.Empty(t, out.Rejected())

	tasks, err := env.store.ListTasksByProject(ctx, out.Project.ID)
	require.NoError(t, err)
	assert.Len(t, tasks, 3)

	byKey := make(map[string]*domain.Task)
	for _, it := range out.Tasks {
		byKey[it.Key] = it.Task
		assert.Equal(t, out.Project.ID, it.Task.ProjectID)
		assert.Equal(t, domain.StatusTodo, it.Task.Status)
	}
	assert.Equal(t, domain.PriorityHigh, byKey["build"].Priority)
	assert.Equal(t, "bob", byKey["ship"].AssigneeID)
	assert.InDelta(t, 3.0, byKey["design"].Estimate(), 0)

	prereqs, err := env.store.ListDependenciesOf(ctx, byKey["ship"].ID)
	require.NoError(t, err)
	assert.Len(t, prereqs, 2)

	path, err := env.cp.CriticalPath(ctx, out.Project.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{byKey["design"].ID, byKey["build"].ID, byKey["ship"].ID}, path)
	assert.True(t, env.logger.Has("INFO", "import"))
}

func TestImportPlan_Execute_RejectsCycleEdges(t *testing.T) {
	env := newTestEnv(t)

	out, err := newImportPlan(env).Execute(context.Background(), ImportPlanInput{Content: []byte(cyclicPlan)})

	require.NoError(t, err)
	assert.Equal(t, []engine.AddOutcome{
		engine.AddOutcomeAdded,         // a -> c
		engine.AddOutcomeAdded,         // b -> a
		engine.AddOutcomeAlreadyExists, // b -> a again
		engine.AddOutcomeWouldCycle,    // c -> b closes c -> b -> a -> c
		engine.AddOutcomeWouldCycle,    // c -> c
	}, outcomes(out.Edges))
	require.Len(t, out.Rejected(), 3)
	assert.Empty(t, out.Edges[0].Reason())
	assert.Equal(t, "dependency already exists", out.Edges[2].Reason())
	assert.Equal(t, "would create a circular dependency", out.Edges[3].Reason())
	assert.Equal(t, "task cannot depend on itself", out.Edges[4].Reason())

	report, err := env.cp.ExecutionOrder(context.Background(), out.Project.ID)
	require.NoError(t, err)
	assert.Nil(t, report.Anomaly)
	assert.Len(t, report.Order, 3)
}

func TestImportPlan_Execute_DryRunMatchesRealImport(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	uc := newImportPlan(env)

	dry, err := uc.Execute(ctx, ImportPlanInput{Content: []byte(cyclicPlan), DryRun: true})
	require.NoError(t, err)
	assert.True(t, dry.DryRun)
	assert.Empty(t, dry.Project.ID)
	for _, e := range dry.Edges {
		assert.Nil(t, e.Dependency)
	}
	projects, err := env.store.ListProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)

	imported, err := uc.Execute(ctx, ImportPlanInput{Content: []byte(cyclicPlan)})
	require.NoError(t, err)
	assert.Equal(t, outcomes(imported.Edges), outcomes(dry.Edges))
}

func TestImportPlan_Execute_InvalidPlan(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"empty", "  \n", domain.ErrEmptyFile},
		{"no tasks", "project:\n  name: x\n", domain.ErrNoTasksInFile},
		{"no name", "tasks:\n  - key: a\n    title: A\n", domain.ErrEmptyName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			_, err := newImportPlan(env).Execute(context.Background(), ImportPlanInput{Content: []byte(tt.content)})

			require.ErrorIs(t, err, tt.wantErr)
			projects, err := env.store.ListProjects(context.Background())
			require.NoError(t, err)
			assert.Empty(t, projects)
		})
	}

	t.Run("unknown key", func(t *testing.T) {
		env := newTestEnv(t)
		content := "project:\n  name: x\ntasks:\n  - key: a\n    title: A\n    depends_on: [zzz]\n"

		_, err := newImportPlan(env).Execute(context.Background(), ImportPlanInput{Content: []byte(content)})

		assert.ErrorContains(t, err, `unknown key "zzz"`)
	})
}

func TestImportPlan_Execute_StoreError(t *testing.T) {
	env := newTestEnv(t)
	boom := errors.New("boom")
	store := &testutil.FailingStore{Store: env.store, SaveTaskErr: boom}
	uc := NewImportPlan(store, store, env.coordinator, env.ids, env.clock, nil)

	_, err := uc.Execute(context.Background(), ImportPlanInput{Content: []byte(launchPlan)})

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `save task "design"`)
}
