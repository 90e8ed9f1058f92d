package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdag/internal/domain"
)

// ListDependenciesInput contains the parameters for listing a task's prerequisites.
type ListDependenciesInput struct {
	TaskID string
}

// ListDependenciesOutput contains the task and its prerequisite edges.
type ListDependenciesOutput struct {
	Task         *domain.Task
	Dependencies []DependencyView // Task is the prerequisite of each edge
}

// ListDependencies is the use case for listing what a task depends on.
type ListDependencies struct {
	tasks domain.TaskStore
	deps  domain.DependencyStore
}

// NewListDependencies creates a new ListDependencies use case.
func NewListDependencies(tasks domain.TaskStore, deps domain.DependencyStore) *ListDependencies {
	return &ListDependencies{tasks: tasks, deps: deps}
}

// Execute returns the prerequisite edges ordered by prerequisite id.
func (uc *ListDependencies) Execute(ctx context.Context, in ListDependenciesInput) (*ListDependenciesOutput, error) {
	task, edges, err := listEdges(ctx, uc.tasks, in.TaskID, uc.deps.ListDependenciesOf)
	if err != nil {
		return nil, fmt.Errorf("list dependencies: %w", err)
	}
	views, err := resolveViews(ctx, uc.tasks, edges, func(d *domain.Dependency) string { return d.DependsOnID })
	if err != nil {
		return nil, fmt.Errorf("list dependencies: %w", err)
	}
	return &ListDependenciesOutput{Task: task, Dependencies: views}, nil
}

// ListDependentsInput contains the parameters for listing the tasks waiting on a task.
type ListDependentsInput struct {
	TaskID string
}

// ListDependentsOutput contains the task and the edges pointing at it.
type ListDependentsOutput struct {
	Task       *domain.Task
	Dependents []DependencyView // Task is the dependent of each edge
}

// ListDependents is the use case for listing what is blocked by a task.
type ListDependents struct {
	tasks domain.TaskStore
	deps  domain.DependencyStore
}

// NewListDependents creates a new ListDependents use case.
func NewListDependents(tasks domain.TaskStore, deps domain.DependencyStore) *ListDependents {
	return &ListDependents{tasks: tasks, deps: deps}
}

// Execute returns the dependent edges ordered by dependent id.
func (uc *ListDependents) Execute(ctx context.Context, in ListDependentsInput) (*ListDependentsOutput, error) {
	task, edges, err := listEdges(ctx, uc.tasks, in.TaskID, uc.deps.ListDependents)
	if err != nil {
		return nil, fmt.Errorf("list dependents: %w", err)
	}
	views, err := resolveViews(ctx, uc.tasks, edges, func(d *domain.Dependency) string { return d.TaskID })
	if err != nil {
		return nil, fmt.Errorf("list dependents: %w", err)
	}
	return &ListDependentsOutput{Task: task, Dependents: views}, nil
}
