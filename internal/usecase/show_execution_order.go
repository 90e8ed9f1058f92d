package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/engine"
	"github.com/runoshun/taskdag/internal/usecase/shared"
)

// ShowExecutionOrderInput contains the parameters for ordering a project's tasks.
type ShowExecutionOrderInput struct {
	ProjectID string
}

// ShowExecutionOrderOutput contains the ordering and the tasks it refers to.
type ShowExecutionOrderOutput struct {
	Project *domain.Project
	Report  *engine.OrderReport
	Tasks   map[string]*domain.Task
}

// ShowExecutionOrder is the use case for a prerequisite-first ordering of a project.
type ShowExecutionOrder struct {
	projects domain.ProjectStore
	tasks    domain.TaskStore
	engine   *engine.CriticalPath
}

// NewShowExecutionOrder creates a new ShowExecutionOrder use case.
func NewShowExecutionOrder(projects domain.ProjectStore, tasks domain.TaskStore, cp *engine.CriticalPath) *ShowExecutionOrder {
	return &ShowExecutionOrder{projects: projects, tasks: tasks, engine: cp}
}

// Execute computes the execution order of an existing project.
func (uc *ShowExecutionOrder) Execute(ctx context.Context, in ShowExecutionOrderInput) (*ShowExecutionOrderOutput, error) {
	project, err := shared.GetProject(ctx, uc.projects, in.ProjectID)
	if err != nil {
		return nil, err
	}
	report, err := uc.engine.ExecutionOrder(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("execution order: %w", err)
	}
	tasks, err := uc.tasks.ListTasksByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	byID := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}
	return &ShowExecutionOrderOutput{Project: project, Report: report, Tasks: byID}, nil
}
