package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/engine"
	"github.com/runoshun/taskdag/internal/usecase/shared"
)

// ShowCriticalPathInput contains the parameters for computing a critical path.
type ShowCriticalPathInput struct {
	ProjectID string
}

// ShowCriticalPathOutput contains the critical path report.
type ShowCriticalPathOutput struct {
	Project *domain.Project
	Report  *engine.CriticalPathReport
}

// ShowCriticalPath is the use case for the longest dependency chain of a project.
type ShowCriticalPath struct {
	projects domain.ProjectStore
	engine   *engine.CriticalPath
}

// NewShowCriticalPath creates a new ShowCriticalPath use case.
func NewShowCriticalPath(projects domain.ProjectStore, cp *engine.CriticalPath) *ShowCriticalPath {
	return &ShowCriticalPath{projects: projects, engine: cp}
}

// Execute computes the critical path of an existing project.
func (uc *ShowCriticalPath) Execute(ctx context.Context, in ShowCriticalPathInput) (*ShowCriticalPathOutput, error) {
	project, err := shared.GetProject(ctx, uc.projects, in.ProjectID)
	if err != nil {
		return nil, err
	}
	report, err := uc.engine.Report(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("critical path: %w", err)
	}
	return &ShowCriticalPathOutput{Project: project, Report: report}, nil
}
