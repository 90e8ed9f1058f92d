package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/usecase/shared"
)

// ProjectProgressInput contains the parameters for computing project progress.
type ProjectProgressInput struct {
	ProjectID string
}

// ProjectProgressOutput contains the completion figures of a project.
type ProjectProgressOutput struct {
	ProjectID string
	Progress  domain.Progress
}

// ProjectProgress is the use case for computing task completion of a project.
type ProjectProgress struct {
	projects domain.ProjectStore
	tasks    domain.TaskStore
}

// NewProjectProgress creates a new ProjectProgress use case.
func NewProjectProgress(projects domain.ProjectStore, tasks domain.TaskStore) *ProjectProgress {
	return &ProjectProgress{projects: projects, tasks: tasks}
}

// Execute counts done tasks against all tasks of the project.
func (uc *ProjectProgress) Execute(ctx context.Context, in ProjectProgressInput) (*ProjectProgressOutput, error) {
	project, err := shared.GetProject(ctx, uc.projects, in.ProjectID)
	if err != nil {
		return nil, err
	}
	tasks, err := uc.tasks.ListTasksByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return &ProjectProgressOutput{
		ProjectID: project.ID,
		Progress:  domain.ComputeProgress(tasks),
	}, nil
}
