package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/usecase/shared"
)

// EditTaskInput contains the parameters for editing a task.
// All fields except TaskID are optional. Only non-nil fields will be updated.
// Status is changed with UpdateTaskStatus, which consults the dependency guard.
// Fields are ordered to minimize memory padding.
type EditTaskInput struct {
	Title          *string
	Description    *string
	Priority       *string
	AssigneeID     *string
	EstimatedHours *float64
	TaskID         string // Task ID to edit (required)
	ClearEstimate  bool
}

// EditTaskOutput contains the result of editing a task.
type EditTaskOutput struct {
	Task *domain.Task
}

// EditTask is the use case for editing an existing task.
// It saves the whole record, so a concurrent UpdateTaskStatus on the same
// task may be overwritten (see engine.Guard).
type EditTask struct {
	tasks  domain.TaskStore
	clock  domain.Clock
	logger domain.Logger
}

// NewEditTask creates a new EditTask use case.
func NewEditTask(tasks domain.TaskStore, clock domain.Clock, logger domain.Logger) *EditTask {
	return &EditTask{tasks: tasks, clock: clock, logger: logger}
}

// Execute edits a task with the given input.
func (uc *EditTask) Execute(ctx context.Context, in EditTaskInput) (*EditTaskOutput, error) {
	if in.Title == nil && in.Description == nil && in.Priority == nil && in.AssigneeID == nil &&
		in.EstimatedHours == nil && !in.ClearEstimate {
		return nil, domain.ErrNoFieldsToUpdate
	}
	if err := validateEstimate(in.EstimatedHours); err != nil {
		return nil, err
	}

	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	if title, ok := optionalString(in.Title); ok {
		if title == "" {
			return nil, domain.ErrEmptyTitle
		}
		task.Title = title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Priority != nil {
		p, err := domain.ParsePriority(*in.Priority)
		if err != nil {
			return nil, err
		}
		task.Priority = p
	}
	if assignee, ok := optionalString(in.AssigneeID); ok {
		task.AssigneeID = assignee
	}
	switch {
	case in.ClearEstimate:
		task.EstimatedHours = nil
	case in.EstimatedHours != nil:
		h := *in.EstimatedHours
		task.EstimatedHours = &h
	}
	task.Updated = uc.clock.Now()

	if err := uc.tasks.SaveTask(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(task.ProjectID, "task", fmt.Sprintf("updated %s", task.ID))
	}

	return &EditTaskOutput{Task: task}, nil
}
