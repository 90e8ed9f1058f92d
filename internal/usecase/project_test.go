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

func TestCreateProject_Execute(t *testing.T) {
	env := newTestEnv(t)
	uc := NewCreateProject(env.store, env.ids, env.clock, env.logger)
	deadline := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	out, err := uc.Execute(context.Background(), CreateProjectInput{
		Name:        "  Launch  ",
		Description: "Ship it",
		OwnerID:     "alice",
		Deadline:    deadline,
	})

	require.NoError(t, err)
	assert.Equal(t, "id1", out.Project.ID)
	assert.Equal(t, "Launch", out.Project.Name)
	assert.Equal(t, domain.ProjectPlanning, out.Project.Status)
	assert.Equal(t, env.clock.NowTime, out.Project.Created)

	saved, err := env.store.GetProject(context.Background(), "id1")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "alice", saved.OwnerID)
	assert.True(t, saved.Deadline.Equal(deadline))
	assert.True(t, env.logger.Has("INFO", "project"))
}

func TestCreateProject_Execute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   CreateProjectInput
		wantErr error
	}{
		{"empty name", CreateProjectInput{Name: "   "}, domain.ErrEmptyName},
		{"invalid status", CreateProjectInput{Name: "x", Status: "archived"}, domain.ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			uc := NewCreateProject(env.store, env.ids, env.clock, nil)

			_, err := uc.Execute(context.Background(), tt.input)

			require.ErrorIs(t, err, tt.wantErr)
			projects, err := env.store.ListProjects(context.Background())
			require.NoError(t, err)
			assert.Empty(t, projects)
		})
	}
}

func TestCreateProject_Execute_SaveError(t *testing.T) {
	env := newTestEnv(t)
	boom := errors.New("disk full")
	store := &testutil.FailingStore{Store: env.store, SaveProjectErr: boom}
	uc := NewCreateProject(store, env.ids, env.clock, nil)

	_, err := uc.Execute(context.Background(), CreateProjectInput{Name: "x"})

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "save project")
}

func TestShowProject_Execute(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedProject(t, env.store, "p1", "a", "b", "c", "d")
	testutil.SetStatus(t, env.store, "a", domain.StatusDone)

	out, err := NewShowProject(env.store, env.store).Execute(context.Background(), ShowProjectInput{ProjectID: "p1"})

	require.NoError(t, err)
	assert.Equal(t, "p1", out.Project.ID)
	assert.Len(t, out.Tasks, 4)
	assert.Equal(t, domain.Progress{TotalTasks: 4, CompletedTasks: 1, Completion: 25}, out.Progress)
}

func TestShowProject_Execute_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := NewShowProject(env.store, env.store).Execute(context.Background(), ShowProjectInput{ProjectID: "nope"})

	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestListProjects_Execute(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, p := range []*domain.Project{
		testutil.NewTestProject("p2"),
		testutil.NewTestProject("p1"),
		testutil.NewTestProject("p3"),
	} {
		require.NoError(t, env.store.SaveProject(ctx, p))
	}
	held := testutil.NewTestProject("p3")
	held.Status = domain.ProjectOnHold
	held.OwnerID = "alice"
	require.NoError(t, env.store.SaveProject(ctx, held))
	owned := testutil.NewTestProject("p1")
	owned.OwnerID = "alice"
	require.NoError(t, env.store.SaveProject(ctx, owned))
	uc := NewListProjects(env.store)

	t.Run("all", func(t *testing.T) {
		out, err := uc.Execute(ctx, ListProjectsInput{})
		require.NoError(t, err)
		require.Len(t, out.Projects, 3)
		assert.Equal(t, "p1", out.Projects[0].ID)
		assert.Equal(t, "p3", out.Projects[2].ID)
	})

	t.Run("status filter", func(t *testing.T) {
		out, err := uc.Execute(ctx, ListProjectsInput{Status: "on_hold"})
		require.NoError(t, err)
		require.Len(t, out.Projects, 1)
		assert.Equal(t, "p3", out.Projects[0].ID)
	})

	t.Run("owner filter", func(t *testing.T) {
		out, err := uc.Execute(ctx, ListProjectsInput{OwnerID: "alice"})
		require.NoError(t, err)
		require.Len(t, out.Projects, 2)
		assert.Equal(t, "p1", out.Projects[0].ID)
		assert.Equal(t, "p3", out.Projects[1].ID)

		out, err = uc.Execute(ctx, ListProjectsInput{OwnerID: "bob"})
		require.NoError(t, err)
		assert.Empty(t, out.Projects)
	})

	t.Run("owner and status", func(t *testing.T) {
		out, err := uc.Execute(ctx, ListProjectsInput{OwnerID: "alice", Status: "active"})
		require.NoError(t, err)
		require.Len(t, out.Projects, 1)
		assert.Equal(t, "p1", out.Projects[0].ID)
	})

	t.Run("invalid filter", func(t *testing.T) {
		_, err := uc.Execute(ctx, ListProjectsInput{Status: "bogus"})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})
}

func TestEditProject_Execute(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedProject(t, env.store, "p1")
	env.clock.NowTime = env.clock.NowTime.Add(time.Hour)
	uc := NewEditProject(env.store, env.clock, env.logger)
	name := " Renamed "
	status := "completed"
	deadline := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	out, err := uc.Execute(context.Background(), EditProjectInput{
		ProjectID: "p1",
		Name:      &name,
		Status:    &status,
		Deadline:  &deadline,
	})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", out.Project.Name)
	assert.Equal(t, domain.ProjectCompleted, out.Project.Status)
	assert.True(t, out.Project.Deadline.Equal(deadline))
	assert.Equal(t, env.clock.NowTime, out.Project.Updated)

	out, err = uc.Execute(context.Background(), EditProjectInput{ProjectID: "p1", ClearDeadline: true})
	require.NoError(t, err)
	assert.True(t, out.Project.Deadline.IsZero())
}

func TestEditProject_Execute_Errors(t *testing.T) {
	empty := ""
	bad := "archived"
	tests := []struct {
		name    string
		input   EditProjectInput
		wantErr error
	}{
		{"no fields", EditProjectInput{ProjectID: "p1"}, domain.ErrNoFieldsToUpdate},
		{"not found", EditProjectInput{ProjectID: "nope", Name: &bad}, domain.ErrProjectNotFound},
		{"empty name", EditProjectInput{ProjectID: "p1", Name: &empty}, domain.ErrEmptyName},
		{"invalid status", EditProjectInput{ProjectID: "p1", Status: &bad}, domain.ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			testutil.SeedProject(t, env.store, "p1")

			_, err := NewEditProject(env.store, env.clock, nil).Execute(context.Background(), tt.input)

			require.ErrorIs(t, err, tt.wantErr)
			saved, err := env.store.GetProject(context.Background(), "p1")
			require.NoError(t, err)
			assert.Equal(t, "Project p1", saved.Name)
		})
	}
}

func TestDeleteProject_Execute(t *testing.T) {
	env := newTestEnv(t)
	testutil.SeedProject(t, env.store, "p1", "a", "b")
	testutil.Link(t, env.store, "d1", "b", "a")
	ctx := context.Background()
	uc := NewDeleteProject(env.store, env.logger)

	_, err := uc.Execute(ctx, DeleteProjectInput{ProjectID: "p1"})
	require.NoError(t, err)

	project, err := env.store.GetProject(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, project)
	task, err := env.store.GetTask(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, task)
	deps, err := env.store.ListDependents(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, deps)

	_, err = uc.Execute(ctx, DeleteProjectInput{ProjectID: "p1"})
	assert.ErrorIs(t, err, domain.ErrProjectNotFound)
}

func TestProjectProgress_Execute(t *testing.T) {
	env := newTestEnv(t)
	uc := NewProjectProgress(env.store, env.store)
	ctx := context.Background()

	t.Run("empty project", func(t *testing.T) {
		testutil.SeedProject(t, env.store, "empty")
		out, err := uc.Execute(ctx, ProjectProgressInput{ProjectID: "empty"})
		require.NoError(t, err)
		assert.Equal(t, domain.Progress{}, out.Progress)
	})

	t.Run("partially done", func(t *testing.T) {
		testutil.SeedProject(t, env.store, "p1", "a", "b", "c")
		testutil.SetStatus(t, env.store, "a", domain.StatusDone)
		testutil.SetStatus(t, env.store, "b", domain.StatusInProgress)

		out, err := uc.Execute(ctx, ProjectProgressInput{ProjectID: "p1"})

		require.NoError(t, err)
		assert.Equal(t, "p1", out.ProjectID)
		assert.Equal(t, 3, out.Progress.TotalTasks)
		assert.Equal(t, 1, out.Progress.CompletedTasks)
		assert.InDelta(t, 33.33, out.Progress.Completion, 0.01)
	})

	t.Run("list error", func(t *testing.T) {
		boom := errors.New("boom")
		store := &testutil.FailingStore{Store: env.store, ListTasksErr: boom}
		_, err := NewProjectProgress(store, store).Execute(ctx, ProjectProgressInput{ProjectID: "p1"})
		assert.ErrorIs(t, err, boom)
	})
}
