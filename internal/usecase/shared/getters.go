// Package shared holds lookups used by several use cases.
package shared

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdag/internal/domain"
)

// GetTask retrieves a task by ID and returns domain.ErrTaskNotFound if not found.
// This centralizes the common pattern of:
//
//	task, err := store.GetTask(ctx, taskID)
//	if err != nil { return nil, fmt.Errorf("get task: %w", err) }
//	if task == nil { return nil, domain.ErrTaskNotFound }
func GetTask(ctx context.Context, store domain.TaskStore, taskID string) (*domain.Task, error) {
	task, err := store.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, taskID)
	}
	return task, nil
}

// GetProject retrieves a project by ID and returns domain.ErrProjectNotFound if not found.
func GetProject(ctx context.Context, store domain.ProjectStore, projectID string) (*domain.Project, error) {
	project, err := store.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrProjectNotFound, projectID)
	}
	return project, nil
}
