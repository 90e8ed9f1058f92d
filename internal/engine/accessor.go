// Package engine maintains the task dependency graph of a project.
//
// It checks proposed edges for cycles, guards transitions to done, computes
// critical paths and serializes edge insertion per project. All reads go
// through an Accessor, the only component that talks to the stores.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/graph"
)

// Snapshot is the dependency graph of one project at a point in time.
// It is read-only once returned and may be shared between goroutines.
type Snapshot struct {
	Graph     *graph.Graph
	tasks     map[string]*domain.Task
	ProjectID string
	// Dangling counts edges whose prerequisite is not a task of the project.
	Dangling int
}

// Task returns the task with the given id, or nil if it is not in the snapshot.
func (s *Snapshot) Task(id string) *domain.Task {
	return s.tasks[id]
}

// Tasks returns the tasks of the snapshot in id order.
func (s *Snapshot) Tasks() []*domain.Task {
	out := make([]*domain.Task, 0, len(s.tasks))
	for _, id := range s.Graph.Nodes() {
		out = append(out, s.tasks[id])
	}
	return out
}

// Accessor loads project-scoped graph snapshots from the stores.
type Accessor struct {
	tasks domain.TaskStore
	deps  domain.DependencyStore
}

// NewAccessor creates a new Accessor.
func NewAccessor(tasks domain.TaskStore, deps domain.DependencyStore) *Accessor {
	return &Accessor{tasks: tasks, deps: deps}
}

// LoadProject loads every task of the project and every edge whose endpoints
// both belong to it. Edges pointing outside the project are counted in
// Snapshot.Dangling and left out of the graph.
func (a *Accessor) LoadProject(ctx context.Context, projectID string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load project graph: %w", err)
	}

	tasks, err := a.tasks.ListTasksByProject(ctx, projectID)
	if err != nil {
		return nil, storeError("list tasks", err)
	}

	byID := make(map[string]*domain.Task, len(tasks))
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}

	snap := &Snapshot{ProjectID: projectID, tasks: byID}
	if len(ids) == 0 {
		snap.Graph = graph.New(nil, nil)
		return snap, nil
	}

	deps, err := a.deps.ListDependenciesWhereTaskIn(ctx, ids)
	if err != nil {
		return nil, storeError("list dependencies", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load project graph: %w", err)
	}

	edges := make([]graph.Edge, 0, len(deps))
	for _, d := range deps {
		if _, ok := byID[d.DependsOnID]; !ok {
			snap.Dangling++
			continue
		}
		edges = append(edges, graph.Edge{Task: d.TaskID, DependsOn: d.DependsOnID})
	}
	snap.Graph = graph.New(ids, edges)
	return snap, nil
}

// LoadForTask resolves the project of a task and loads its snapshot.
func (a *Accessor) LoadForTask(ctx context.Context, taskID string) (*Snapshot, error) {
	task, err := a.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	return a.LoadProject(ctx, task.ProjectID)
}

// getTask returns ErrTaskNotFound when the task is absent.
func (a *Accessor) getTask(ctx context.Context, id string) (*domain.Task, error) {
	task, err := a.tasks.GetTask(ctx, id)
	if err != nil {
		return nil, storeError("get task", err)
	}
	if task == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
	}
	return task, nil
}

// storeError tags a store failure as a data access failure.
// Context errors are passed through so callers can tell cancellation apart.
func storeError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrDataAccess, op, err)
}
