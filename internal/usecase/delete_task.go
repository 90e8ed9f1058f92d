package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/usecase/shared"
)

// DeleteTaskInput contains the parameters for deleting a task.
type DeleteTaskInput struct {
	TaskID string
}

// DeleteTaskOutput contains the result of deleting a task.
type DeleteTaskOutput struct {
	Task *domain.Task // The deleted task
}

// DeleteTask is the use case for deleting a task with every edge touching it.
type DeleteTask struct {
	tasks  domain.TaskStore
	logger domain.Logger
}

// NewDeleteTask creates a new DeleteTask use case.
func NewDeleteTask(tasks domain.TaskStore, logger domain.Logger) *DeleteTask {
	return &DeleteTask{tasks: tasks, logger: logger}
}

// Execute deletes the task.
func (uc *DeleteTask) Execute(ctx context.Context, in DeleteTaskInput) (*DeleteTaskOutput, error) {
	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}

	deleted, err := uc.tasks.DeleteTask(ctx, task.ID)
	if err != nil {
		return nil, fmt.Errorf("delete task: %w", err)
	}
	if !deleted {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, task.ID)
	}

	if uc.logger != nil {
		uc.logger.Info(task.ProjectID, "task", fmt.Sprintf("deleted %s", task.ID))
	}

	return &DeleteTaskOutput{Task: task}, nil
}
