package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/engine"
	"github.com/runoshun/taskdag/internal/usecase/shared"
)

// ShowTaskInput contains the parameters for showing a task.
type ShowTaskInput struct {
	TaskID string
}

// ShowTaskOutput contains a task and its place in the dependency graph.
type ShowTaskOutput struct {
	Task          *domain.Task
	Prerequisites []DependencyView // Edges where the task is the dependent
	Dependents    []DependencyView // Edges where the task is the prerequisite
	Blocking      []string         // Prerequisites that are not done
}

// ShowTask is the use case for displaying task details.
type ShowTask struct {
	tasks domain.TaskStore
	deps  domain.DependencyStore
	guard *engine.Guard
}

// NewShowTask creates a new ShowTask use case.
func NewShowTask(tasks domain.TaskStore, deps domain.DependencyStore, guard *engine.Guard) *ShowTask {
	return &ShowTask{tasks: tasks, deps: deps, guard: guard}
}

// Execute returns the task with both directions of its dependency edges.
func (uc *ShowTask) Execute(ctx context.Context, in ShowTaskInput) (*ShowTaskOutput, error) {
	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	prereqEdges, err := uc.deps.ListDependenciesOf(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("list dependencies: %w", err)
	}
	prereqs, err := resolveViews(ctx, uc.tasks, prereqEdges, func(d *domain.Dependency) string { return d.DependsOnID })
	if err != nil {
		return nil, err
	}

	dependentEdges, err := uc.deps.ListDependents(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("list dependents: %w", err)
	}
	dependents, err := resolveViews(ctx, uc.tasks, dependentEdges, func(d *domain.Dependency) string { return d.TaskID })
	if err != nil {
		return nil, err
	}

	blocking, err := uc.guard.BlockingTasks(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("check prerequisites: %w", err)
	}

	return &ShowTaskOutput{
		Task:          task,
		Prerequisites: prereqs,
		Dependents:    dependents,
		Blocking:      blocking,
	}, nil
}
