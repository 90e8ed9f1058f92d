package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/runoshun/taskdag/internal/domain"
)

// CreateProjectInput contains the parameters for creating a project.
// Fields are ordered to minimize memory padding.
type CreateProjectInput struct {
	Deadline    time.Time // Zero = no deadline
	Name        string    // Project name (required)
	Description string
	OwnerID     string
	Status      string // Empty = planning
}

// CreateProjectOutput contains the result of creating a project.
type CreateProjectOutput struct {
	Project *domain.Project
}

// CreateProject is the use case for creating a project.
type CreateProject struct {
	projects domain.ProjectStore
	ids      domain.IDGenerator
	clock    domain.Clock
	logger   domain.Logger
}

// NewCreateProject creates a new CreateProject use case.
func NewCreateProject(projects domain.ProjectStore, ids domain.IDGenerator, clock domain.Clock, logger domain.Logger) *CreateProject {
	return &CreateProject{
		projects: projects,
		ids:      ids,
		clock:    clock,
		logger:   logger,
	}
}

// Execute creates a project with the given input.
func (uc *CreateProject) Execute(ctx context.Context, in CreateProjectInput) (*CreateProjectOutput, error) {
	status, err := domain.ParseProjectStatus(in.Status)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	project := &domain.Project{
		ID:          uc.ids.NewID(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		OwnerID:     in.OwnerID,
		Status:      status,
		Deadline:    in.Deadline,
		Created:     now,
		Updated:     now,
	}
	if err := project.Validate(); err != nil {
		return nil, err
	}

	if err := uc.projects.SaveProject(ctx, project); err != nil {
		return nil, fmt.Errorf("save project: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(project.ID, "project", fmt.Sprintf("created: %q", project.Name))
	}

	return &CreateProjectOutput{Project: project}, nil
}
