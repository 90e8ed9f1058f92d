package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/usecase/shared"
)

// ListTasksInput contains the parameters for listing tasks.
// Empty filters match everything.
type ListTasksInput struct {
	ProjectID  string // Project to list (required)
	Status     string
	Priority   string
	AssigneeID string
}

// ListTasksOutput contains the listed tasks.
type ListTasksOutput struct {
	Tasks []*domain.Task
}

// ListTasks is the use case for listing the tasks of a project.
type ListTasks struct {
	projects domain.ProjectStore
	tasks    domain.TaskStore
}

// NewListTasks creates a new ListTasks use case.
func NewListTasks(projects domain.ProjectStore, tasks domain.TaskStore) *ListTasks {
	return &ListTasks{projects: projects, tasks: tasks}
}

// Execute returns the matching tasks ordered by id.
func (uc *ListTasks) Execute(ctx context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	var status domain.Status
	if in.Status != "" {
		s, err := domain.ParseStatus(in.Status)
		if err != nil {
			return nil, err
		}
		status = s
	}
	var priority domain.Priority
	if in.Priority != "" {
		p, err := domain.ParsePriority(in.Priority)
		if err != nil {
			return nil, err
		}
		priority = p
	}

	project, err := shared.GetProject(ctx, uc.projects, in.ProjectID)
	if err != nil {
		return nil, err
	}
	tasks, err := uc.tasks.ListTasksByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	filtered := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if status != "" && t.Status != status {
			continue
		}
		if priority != "" && t.Priority != priority {
			continue
		}
		if in.AssigneeID != "" && t.AssigneeID != in.AssigneeID {
			continue
		}
		filtered = append(filtered, t)
	}
	return &ListTasksOutput{Tasks: filtered}, nil
}
