package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/runoshun/taskdag/internal/domain"
)

// NewTestProject returns a valid project created at FixedClock time.
func NewTestProject(id string) *domain.Project {
	now := FixedClock().Now()
	return &domain.Project{
		ID:      id,
		Name:    "Project " + id,
		Status:  domain.ProjectActive,
		Created: now,
		Updated: now,
	}
}

// NewTestTask returns a valid task of the project with the given status.
func NewTestTask(id, projectID string, status domain.Status) *domain.Task {
	now := FixedClock().Now()
	return &domain.Task{
		ID:        id,
		ProjectID: projectID,
		Title:     "Task " + id,
		Status:    status,
		Priority:  domain.PriorityMedium,
		Created:   now,
		Updated:   now,
	}
}

// SeedProject saves a project and one todo task per id.
func SeedProject(t testing.TB, s domain.Store, projectID string, taskIDs ...string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.SaveProject(ctx, NewTestProject(projectID)))
	for _, id := range taskIDs {
		require.NoError(t, s.SaveTask(ctx, NewTestTask(id, projectID, domain.StatusTodo)))
	}
}

// SetStatus updates the status of a stored task.
func SetStatus(t testing.TB, s domain.Store, taskID string, status domain.Status) {
	t.Helper()
	ctx := context.Background()
	task, err := s.GetTask(ctx, taskID)
	require.NoError(t, err)
	require.NotNil(t, task, "task %s", taskID)
	task.Status = status
	require.NoError(t, s.SaveTask(ctx, task))
}

// Link stores the edge "taskID depends on dependsOnID" with the given id,
// bypassing the engine.
func Link(t testing.TB, s domain.Store, id, taskID, dependsOnID string) {
	t.Helper()
	require.NoError(t, s.InsertDependency(context.Background(), &domain.Dependency{
		ID:          id,
		TaskID:      taskID,
		DependsOnID: dependsOnID,
		Created:     FixedClock().Now(),
	}))
}
