package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdag/internal/domain"
)

// DeleteProjectInput contains the parameters for deleting a project.
type DeleteProjectInput struct {
	ProjectID string
}

// DeleteProjectOutput contains the result of deleting a project.
type DeleteProjectOutput struct{}

// DeleteProject is the use case for deleting a project with its tasks and dependencies.
type DeleteProject struct {
	projects domain.ProjectStore
	logger   domain.Logger
}

// NewDeleteProject creates a new DeleteProject use case.
func NewDeleteProject(projects domain.ProjectStore, logger domain.Logger) *DeleteProject {
	return &DeleteProject{projects: projects, logger: logger}
}

// Execute deletes the project. The store removes its tasks and edges with it.
func (uc *DeleteProject) Execute(ctx context.Context, in DeleteProjectInput) (*DeleteProjectOutput, error) {
	deleted, err := uc.projects.DeleteProject(ctx, in.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("delete project: %w", err)
	}
	if !deleted {
		return nil, fmt.Errorf("%w: %s", domain.ErrProjectNotFound, in.ProjectID)
	}

	if uc.logger != nil {
		uc.logger.Info(in.ProjectID, "project", "deleted")
	}

	return &DeleteProjectOutput{}, nil
}
