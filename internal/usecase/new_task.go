package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/usecase/shared"
)

// NewTaskInput contains the parameters for creating a new task.
// Fields are ordered to minimize memory padding.
type NewTaskInput struct {
	EstimatedHours *float64 // nil = no estimate
	ProjectID      string   // Owning project (required)
	Title          string   // Task title (required)
	Description    string   // Task description (optional)
	Priority       string   // Empty = medium
	AssigneeID     string   // Empty = unassigned
}

// NewTaskOutput contains the result of creating a new task.
type NewTaskOutput struct {
	Task *domain.Task
}

// NewTask is the use case for creating a new task.
// A new task always starts in todo; status changes go through UpdateTaskStatus.
type NewTask struct {
	projects domain.ProjectStore
	tasks    domain.TaskStore
	ids      domain.IDGenerator
	clock    domain.Clock
	logger   domain.Logger
}

// NewNewTask creates a new NewTask use case.
func NewNewTask(projects domain.ProjectStore, tasks domain.TaskStore, ids domain.IDGenerator, clock domain.Clock, logger domain.Logger) *NewTask {
	return &NewTask{
		projects: projects,
		tasks:    tasks,
		ids:      ids,
		clock:    clock,
		logger:   logger,
	}
}

// Execute creates a new task with the given input.
func (uc *NewTask) Execute(ctx context.Context, in NewTaskInput) (*NewTaskOutput, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}
	priority, err := domain.ParsePriority(in.Priority)
	if err != nil {
		return nil, err
	}
	if err := validateEstimate(in.EstimatedHours); err != nil {
		return nil, err
	}
	if in.ProjectID == "" {
		return nil, domain.ErrProjectRequired
	}

	project, err := shared.GetProject(ctx, uc.projects, in.ProjectID)
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	task := &domain.Task{
		ID:             uc.ids.NewID(),
		ProjectID:      project.ID,
		Title:          title,
		Description:    in.Description,
		Status:         domain.StatusTodo,
		Priority:       priority,
		AssigneeID:     in.AssigneeID,
		EstimatedHours: in.EstimatedHours,
		Created:        now,
		Updated:        now,
	}

	if err := uc.tasks.SaveTask(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(project.ID, "task", fmt.Sprintf("created %s: %q", task.ID, title))
	}

	return &NewTaskOutput{Task: task}, nil
}
