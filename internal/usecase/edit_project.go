package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/usecase/shared"
)

// EditProjectInput contains the parameters for editing a project.
// Only non-nil fields are updated.
// Fields are ordered to minimize memory padding.
type EditProjectInput struct {
	Name          *string
	Description   *string
	OwnerID       *string
	Status        *string
	Deadline      *time.Time
	ProjectID     string // Project to edit (required)
	ClearDeadline bool
}

// EditProjectOutput contains the updated project.
type EditProjectOutput struct {
	Project *domain.Project
}

// EditProject is the use case for editing a project.
type EditProject struct {
	projects domain.ProjectStore
	clock    domain.Clock
	logger   domain.Logger
}

// NewEditProject creates a new EditProject use case.
func NewEditProject(projects domain.ProjectStore, clock domain.Clock, logger domain.Logger) *EditProject {
	return &EditProject{projects: projects, clock: clock, logger: logger}
}

// Execute applies the requested changes.
func (uc *EditProject) Execute(ctx context.Context, in EditProjectInput) (*EditProjectOutput, error) {
	if in.Name == nil && in.Description == nil && in.OwnerID == nil && in.Status == nil &&
		in.Deadline == nil && !in.ClearDeadline {
		return nil, domain.ErrNoFieldsToUpdate
	}

	project, err := shared.GetProject(ctx, uc.projects, in.ProjectID)
	if err != nil {
		return nil, err
	}

	if name, ok := optionalString(in.Name); ok {
		project.Name = name
	}
	if in.Description != nil {
		project.Description = *in.Description
	}
	if owner, ok := optionalString(in.OwnerID); ok {
		project.OwnerID = owner
	}
	if in.Status != nil {
		status := domain.ProjectStatus(*in.Status)
		if !status.IsValid() {
			return nil, domain.ErrInvalidStatus
		}
		project.Status = status
	}
	switch {
	case in.ClearDeadline:
		project.Deadline = time.Time{}
	case in.Deadline != nil:
		project.Deadline = *in.Deadline
	}
	if err := project.Validate(); err != nil {
		return nil, err
	}
	project.Updated = uc.clock.Now()

	if err := uc.projects.SaveProject(ctx, project); err != nil {
		return nil, fmt.Errorf("save project: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(project.ID, "project", "updated")
	}

	return &EditProjectOutput{Project: project}, nil
}
