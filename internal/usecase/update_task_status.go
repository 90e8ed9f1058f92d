package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/engine"
	"github.com/runoshun/taskdag/internal/usecase/shared"
)

// UpdateTaskStatusInput contains the parameters for changing a task's status.
type UpdateTaskStatusInput struct {
	TaskID string
	Status string
}

// UpdateTaskStatusOutput contains the updated task.
type UpdateTaskStatusOutput struct {
	Task     *domain.Task
	Previous domain.Status
}

// UpdateTaskStatus is the use case for moving a task between statuses.
// Moving to done requires every prerequisite to be done.
// The task is saved as a whole record without a lock; see engine.Guard for
// the concurrent write gap.
type UpdateTaskStatus struct {
	tasks  domain.TaskStore
	guard  *engine.Guard
	clock  domain.Clock
	logger domain.Logger
}

// NewUpdateTaskStatus creates a new UpdateTaskStatus use case.
func NewUpdateTaskStatus(tasks domain.TaskStore, guard *engine.Guard, clock domain.Clock, logger domain.Logger) *UpdateTaskStatus {
	return &UpdateTaskStatus{tasks: tasks, guard: guard, clock: clock, logger: logger}
}

// Execute checks the transition and saves the new status.
// A blocked move returns *TransitionBlockedError and leaves the task unchanged.
func (uc *UpdateTaskStatus) Execute(ctx context.Context, in UpdateTaskStatusInput) (*UpdateTaskStatusOutput, error) {
	target, err := domain.ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	task, err := shared.GetTask(ctx, uc.tasks, in.TaskID)
	if err != nil {
		return nil, err
	}
	previous := task.Status
	if previous == target {
		return &UpdateTaskStatusOutput{Task: task, Previous: previous}, nil
	}

	check, err := uc.guard.CanTransition(ctx, task.ID, target)
	if err != nil {
		return nil, fmt.Errorf("check transition: %w", err)
	}
	if !check.Allowed {
		if uc.logger != nil {
			uc.logger.Debug(task.ProjectID, "task",
				fmt.Sprintf("blocked %s -> %s: %d incomplete dependencies", task.ID, target, check.BlockingCount))
		}
		return nil, &TransitionBlockedError{
			TaskID:   task.ID,
			Blocking: check.Blocking,
			Count:    check.BlockingCount,
		}
	}

	task.Status = target
	task.Updated = uc.clock.Now()
	if err := uc.tasks.SaveTask(ctx, task); err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	if uc.logger != nil {
		uc.logger.Info(task.ProjectID, "task", fmt.Sprintf("status %s: %s -> %s", task.ID, previous, target))
	}

	return &UpdateTaskStatusOutput{Task: task, Previous: previous}, nil
}
