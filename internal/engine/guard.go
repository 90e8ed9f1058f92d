package engine

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/runoshun/taskdag/internal/domain"
)

// TransitionCheck is the verdict of the transition guard.
// Fields are ordered to minimize memory padding.
type TransitionCheck struct {
	Blocking      []string // IDs of incomplete prerequisites, sorted
	BlockingCount int
	Allowed       bool
}

// Guard decides whether a task may move to done.
//
// The check is a snapshot read without a lock: a prerequisite may be moved
// out of done between the check and the caller's own status write.
// Task writes have the same gap. UpdateTaskStatus and EditTask read the task
// and save the whole record, so two concurrent writers to one task keep only
// the fields of the later save. The project lock covers dependency inserts only.
type Guard struct {
	tasks  domain.TaskStore
	deps   domain.DependencyStore
	logger domain.Logger
	opts   Options
}

// NewGuard creates a new Guard.
func NewGuard(tasks domain.TaskStore, deps domain.DependencyStore, logger domain.Logger, opts Options) *Guard {
	return &Guard{
		tasks:  tasks,
		deps:   deps,
		logger: orNop(logger),
		opts:   opts,
	}
}

// CanTransition checks a move of the task to target.
// Only transitions to done are restricted.
func (g *Guard) CanTransition(ctx context.Context, taskID string, target domain.Status) (TransitionCheck, error) {
	if target != domain.StatusDone {
		return TransitionCheck{Allowed: true}, nil
	}
	return g.CanTransitionToDone(ctx, taskID)
}

// CanTransitionToDone reports whether every prerequisite of the task is done.
func (g *Guard) CanTransitionToDone(ctx context.Context, taskID string) (TransitionCheck, error) {
	blocking, err := g.BlockingTasks(ctx, taskID)
	if err != nil {
		return TransitionCheck{}, err
	}
	return TransitionCheck{
		Allowed:       len(blocking) == 0,
		BlockingCount: len(blocking),
		Blocking:      blocking,
	}, nil
}

// BlockingTasks returns the ids of the task's prerequisites that are not done.
// An edge to a task that no longer exists is logged and does not block.
func (g *Guard) BlockingTasks(ctx context.Context, taskID string) ([]string, error) {
	var (
		task  *domain.Task
		edges []*domain.Dependency
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		t, err := g.tasks.GetTask(egCtx, taskID)
		if err != nil {
			return storeError("get task", err)
		}
		task = t
		return nil
	})
	eg.Go(func() error {
		es, err := g.deps.ListDependenciesOf(egCtx, taskID)
		if err != nil {
			return storeError("list dependencies", err)
		}
		edges = es
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, taskID)
	}

	prereqs := make([]*domain.Task, len(edges))
	eg, egCtx = errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.fetchLimit())
	for i, e := range edges {
		eg.Go(func() error {
			t, err := g.tasks.GetTask(egCtx, e.DependsOnID)
			if err != nil {
				return storeError("get prerequisite", err)
			}
			prereqs[i] = t
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	blocking := make([]string, 0, len(edges))
	for i, t := range prereqs {
		if t == nil {
			g.logger.Warn(task.ProjectID, "guard",
				fmt.Sprintf("task %s depends on missing task %s", taskID, edges[i].DependsOnID))
			continue
		}
		if !t.IsDone() {
			blocking = append(blocking, t.ID)
		}
	}
	slices.Sort(blocking)
	return slices.Compact(blocking), nil
}
