package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/usecase/shared"
)

// ShowProjectInput contains the parameters for showing a project.
type ShowProjectInput struct {
	ProjectID string
}

// ShowProjectOutput contains a project with its tasks.
type ShowProjectOutput struct {
	Project  *domain.Project
	Tasks    []*domain.Task
	Progress domain.Progress
}

// ShowProject is the use case for displaying a project.
type ShowProject struct {
	projects domain.ProjectStore
	tasks    domain.TaskStore
}

// NewShowProject creates a new ShowProject use case.
func NewShowProject(projects domain.ProjectStore, tasks domain.TaskStore) *ShowProject {
	return &ShowProject{projects: projects, tasks: tasks}
}

// Execute returns the project, its tasks ordered by id and its progress.
func (uc *ShowProject) Execute(ctx context.Context, in ShowProjectInput) (*ShowProjectOutput, error) {
	project, err := shared.GetProject(ctx, uc.projects, in.ProjectID)
	if err != nil {
		return nil, err
	}
	tasks, err := uc.tasks.ListTasksByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return &ShowProjectOutput{
		Project:  project,
		Tasks:    tasks,
		Progress: domain.ComputeProgress(tasks),
	}, nil
}
