package usecase

import (
	"context"
	"slices"
	"strings"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/usecase/shared"
)

// DependencyView is an edge together with the task on its far end.
// Task is nil when the edge points at a task that no longer exists.
type DependencyView struct {
	Dependency *domain.Dependency `json:"dependency"`
	Task       *domain.Task       `json:"task"`
}

// resolveViews loads the task at the far end of each edge, as chosen by other.
func resolveViews(ctx context.Context, tasks domain.TaskStore, deps []*domain.Dependency, other func(*domain.Dependency) string) ([]DependencyView, error) {
	views := make([]DependencyView, 0, len(deps))
	for _, d := range deps {
		task, err := tasks.GetTask(ctx, other(d))
		if err != nil {
			return nil, err
		}
		views = append(views, DependencyView{Dependency: d, Task: task})
	}
	slices.SortStableFunc(views, func(a, b DependencyView) int {
		return strings.Compare(other(a.Dependency), other(b.Dependency))
	})
	return views, nil
}

// listEdges loads a task and applies list to it.
func listEdges(ctx context.Context, tasks domain.TaskStore, taskID string,
	list func(context.Context, string) ([]*domain.Dependency, error),
) (*domain.Task, []*domain.Dependency, error) {
	task, err := shared.GetTask(ctx, tasks, taskID)
	if err != nil {
		return nil, nil, err
	}
	deps, err := list(ctx, task.ID)
	if err != nil {
		return nil, nil, err
	}
	return task, deps, nil
}
