package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func TestNewTask_Execute(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedProject(t, env.store, "p1")
	uc := NewNewTask(env.store, env.store, env.ids, env.clock, env.logger)

	out, err := uc.Execute(context.Background(), NewTaskInput{
		ProjectID:      "p1",
		Title:          "  Write docs ",
		Description:    "All of them",
		Priority:       "high",
		AssigneeID:     "bob",
		EstimatedHours: ptr(2.5),
	})

	require.NoError(t, err)
	task := out.Task
	assert.Equal(t, "id1", task.ID)
	assert.Equal(t, "p1", task.ProjectID)
	assert.Equal(t, "Write docs", task.Title)
	assert.Equal(t, domain.StatusTodo, task.Status)
	assert.Equal(t, domain.PriorityHigh, task.Priority)
	assert.InDelta(t, 2.5, task.Estimate(), 0)
	assert.Equal(t, env.clock.NowTime, task.Created)

	saved, err := env.store.GetTask(context.Background(), "id1")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "bob", saved.AssigneeID)
	assert.True(t, env.logger.Has("INFO", "task"))
}

func TestNewTask_Execute_DefaultPriority(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedProject(t, env.store, "p1")

	out, err := NewNewTask(env.store, env.store, env.ids, env.clock, nil).
		Execute(context.Background(), NewTaskInput{ProjectID: "p1", Title: "x"})

	require.NoError(t, err)
	assert.Equal(t, domain.PriorityMedium, out.Task.Priority)
	assert.Nil(t, out.Task.EstimatedHours)
}

func TestNewTask_Execute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   NewTaskInput
		wantErr error
	}{
		{"empty title", NewTaskInput{ProjectID: "p1", Title: " "}, domain.ErrEmptyTitle},
		{"invalid priority", NewTaskInput{ProjectID: "p1", Title: "x", Priority: "asap"}, domain.ErrInvalidPriority},
		{"negative estimate", NewTaskInput{ProjectID: "p1", Title: "x", EstimatedHours: ptr(-1.0)}, domain.ErrNegativeEstimate},
		{"missing project id", NewTaskInput{Title: "x"}, domain.ErrProjectRequired},
		{"unknown project", NewTaskInput{ProjectID: "nope", Title: "x"}, domain.ErrProjectNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			testutil.SeedProject(t, env.store, "p1")

			_, err := NewNewTask(env.store, env.store, env.ids, env.clock, nil).Execute(context.Background(), tt.input)

			require.ErrorIs(t, err, tt.wantErr)
			tasks, err := env.store.ListTasksByProject(context.Background(), "p1")
			require.NoError(t, err)
			assert.Empty(t, tasks)
		})
	}
}

func TestShowTask_Execute(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedProject(t, env.store, "p1", "a", "b", "c", "d")
	testutil.SetStatus(t, env.store, "a", domain.StatusDone)
	// c depends on a and b; d depends on c
	testutil.Link(t, env.store, "e2", "c", "b")
	testutil.Link(t, env.store, "e1", "c", "a")
	testutil.Link(t, env.store, "e3", "d", "c")

	out, err := NewShowTask(env.store, env.store, env.guard).Execute(context.Background(), ShowTaskInput{TaskID: "c"})

	require.NoError(t, err)
	assert.Equal(t, "c", out.Task.ID)
	require.Len(t, out.Prerequisites, 2)
	assert.Equal(t, "a", out.Prerequisites[0].Task.ID)
	assert.Equal(t, "e1", out.Prerequisites[0].Dependency.ID)
	assert.Equal(t, "b", out.Prerequisites[1].Task.ID)
	require.Len(t, out.Dependents, 1)
	assert.Equal(t, "d", out.Dependents[0].Task.ID)
	assert.Equal(t, []string{"b"}, out.Blocking)
}

func TestShowTask_Execute_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := NewShowTask(env.store, env.store, env.guard).Execute(context.Background(), ShowTaskInput{TaskID: "nope"})

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestListTasks_Execute(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedProject(t, env.store, "p1", "a", "b", "c")
	testutil.SeedProject(t, env.store, "p2", "z")
	testutil.SetStatus(t, env.store, "b", domain.StatusDone)
	ctx := context.Background()
	c, err := env.store.GetTask(ctx, "c")
	require.NoError(t, err)
	c.Priority = domain.PriorityUrgent
	c.AssigneeID = "carol"
	require.NoError(t, env.store.SaveTask(ctx, c))
	uc := NewListTasks(env.store, env.store)

	tests := []struct {
		name  string
		input ListTasksInput
		want  []string
	}{
		{"all", ListTasksInput{ProjectID: "p1"}, []string{"a", "b", "c"}},
		{"status", ListTasksInput{ProjectID: "p1", Status: "done"}, []string{"b"}},
		{"priority", ListTasksInput{ProjectID: "p1", Priority: "urgent"}, []string{"c"}},
		{"assignee", ListTasksInput{ProjectID: "p1", AssigneeID: "carol"}, []string{"c"}},
		{"no match", ListTasksInput{ProjectID: "p1", Status: "blocked"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := uc.Execute(ctx, tt.input)
			require.NoError(t, err)
			ids := make([]string, 0, len(out.Tasks))
			for _, task := range out.Tasks {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	t.Run("invalid status", func(t *testing.T) {
		_, err := uc.Execute(ctx, ListTasksInput{ProjectID: "p1", Status: "finished"})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("unknown project", func(t *testing.T) {
		_, err := uc.Execute(ctx, ListTasksInput{ProjectID: "nope"})
		assert.ErrorIs(t, err, domain.ErrProjectNotFound)
	})
}

func TestEditTask_Execute(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedProject(t, env.store, "p1", "a")
	env.clock.NowTime = env.clock.NowTime.Add(time.Minute)
	uc := NewEditTask(env.store, env.clock, env.logger)
	ctx := context.Background()

	out, err := uc.Execute(ctx, EditTaskInput{
		TaskID:         "a",
		Title:          ptr(" New title "),
		Priority:       ptr("low"),
		AssigneeID:     ptr("dave"),
		EstimatedHours: ptr(4.0),
	})

	require.NoError(t, err)
	assert.Equal(t, "New title", out.Task.Title)
	assert.Equal(t, domain.PriorityLow, out.Task.Priority)
	assert.Equal(t, "dave", out.Task.AssigneeID)
	assert.InDelta(t, 4.0, out.Task.Estimate(), 0)
	assert.Equal(t, domain.StatusTodo, out.Task.Status)
	assert.Equal(t, env.clock.NowTime, out.Task.Updated)

	out, err = uc.Execute(ctx, EditTaskInput{TaskID: "a", ClearEstimate: true})
	require.NoError(t, err)
	assert.Nil(t, out.Task.EstimatedHours)
}

func TestEditTask_Execute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   EditTaskInput
		wantErr error
	}{
		{"no fields", EditTaskInput{TaskID: "a"}, domain.ErrNoFieldsToUpdate},
		{"not found", EditTaskInput{TaskID: "nope", Title: ptr("x")}, domain.ErrTaskNotFound},
		{"empty title", EditTaskInput{TaskID: "a", Title: ptr("  ")}, domain.ErrEmptyTitle},
		{"invalid priority", EditTaskInput{TaskID: "a", Priority: ptr("someday")}, domain.ErrInvalidPriority},
		{"negative estimate", EditTaskInput{TaskID: "a", EstimatedHours: ptr(-2.0)}, domain.ErrNegativeEstimate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			testutil.SeedProject(t, env.store, "p1", "a")

			_, err := NewEditTask(env.store, env.clock, nil).Execute(context.Background(), tt.input)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdateTaskStatus_Execute_BlockedUntilPrerequisitesDone(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedProject(t, env.store, "p1", "a", "b")
	testutil.Link(t, env.store, "e1", "b", "a")
	uc := NewUpdateTaskStatus(env.store, env.guard, env.clock, env.logger)
	ctx := context.Background()

	_, err := uc.Execute(ctx, UpdateTaskStatusInput{TaskID: "b", Status: "done"})

	var blocked *TransitionBlockedError
	require.ErrorAs(t, err, &blocked)
	assert.Equal(t, "task has 1 incomplete dependencies", err.Error())
	assert.Equal(t, []string{"a"}, blocked.Blocking)
	assert.Equal(t, 1, blocked.Count)
	b, err := env.store.GetTask(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusTodo, b.Status)

	_, err = uc.Execute(ctx, UpdateTaskStatusInput{TaskID: "a", Status: "done"})
	require.NoError(t, err)

	out, err := uc.Execute(ctx, UpdateTaskStatusInput{TaskID: "b", Status: "done"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, out.Task.Status)
	assert.Equal(t, domain.StatusTodo, out.Previous)
}

func TestUpdateTaskStatus_Execute_NonDoneTargetsIgnorePrerequisites(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedProject(t, env.store, "p1", "a", "b")
	testutil.Link(t, env.store, "e1", "b", "a")
	uc := NewUpdateTaskStatus(env.store, env.guard, env.clock, nil)

	for _, status := range []string{"in_progress", "blocked", "todo"} {
		out, err := uc.Execute(context.Background(), UpdateTaskStatusInput{TaskID: "b", Status: status})
		require.NoError(t, err, status)
		assert.Equal(t, domain.Status(status), out.Task.Status)
	}
}

func TestUpdateTaskStatus_Execute_SameStatusIsNoop(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedProject(t, env.store, "p1", "a")
	env.clock.NowTime = env.clock.NowTime.Add(time.Hour)

	out, err := NewUpdateTaskStatus(env.store, env.guard, env.clock, nil).
		Execute(context.Background(), UpdateTaskStatusInput{TaskID: "a", Status: "todo"})

	require.NoError(t, err)
	assert.Equal(t, testutil.FixedClock().Now(), out.Task.Updated)
}

func TestUpdateTaskStatus_Execute_Errors(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedProject(t, env.store, "p1", "a")
	uc := NewUpdateTaskStatus(env.store, env.guard, env.clock, nil)
	ctx := context.Background()

	_, err := uc.Execute(ctx, UpdateTaskStatusInput{TaskID: "a", Status: ""})
	require.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = uc.Execute(ctx, UpdateTaskStatusInput{TaskID: "nope", Status: "done"})
	require.ErrorIs(t, err, domain.ErrTaskNotFound)

	boom := errors.New("boom")
	failing := &testutil.FailingStore{Store: env.store, SaveTaskErr: boom}
	_, err = NewUpdateTaskStatus(failing, env.guard, env.clock, nil).
		Execute(ctx, UpdateTaskStatusInput{TaskID: "a", Status: "in_progress"})
	assert.ErrorIs(t, err, boom)
}

func TestDeleteTask_Execute(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedProject(t, env.store, "p1", "a", "b", "c")
	testutil.Link(t, env.store, "e1", "b", "a")
	testutil.Link(t, env.store, "e2", "c", "b")
	ctx := context.Background()
	uc := NewDeleteTask(env.store, env.logger)

	out, err := uc.Execute(ctx, DeleteTaskInput{TaskID: "b"})

	require.NoError(t, err)
	assert.Equal(t, "b", out.Task.ID)
	deps, err := env.store.ListDependenciesWhereTaskIn(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Empty(t, deps)

	// c is no longer blocked once its prerequisite is gone.
	check, err := env.guard.CanTransitionToDone(ctx, "c")
	require.NoError(t, err)
	assert.True(t, check.Allowed)

	_, err = uc.Execute(ctx, DeleteTaskInput{TaskID: "b"})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}
