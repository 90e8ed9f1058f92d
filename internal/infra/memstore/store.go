// Package memstore provides an in-memory implementation of the stores.
// Records are copied on the way in and out so callers never share state with the store.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/infra/storelock"
)

// Ensure Store implements domain.Store.
var _ domain.Store = (*Store)(nil)

// Store keeps projects, tasks and dependencies in maps.
// Fields are ordered to minimize memory padding.
type Store struct {
	projects map[string]*domain.Project
	tasks    map[string]*domain.Task
	deps     map[string]*domain.Dependency
	pairs    map[pairKey]string // (task, dependsOn) -> dependency id
	locks    storelock.Table
	mu       sync.RWMutex
}

type pairKey struct {
	task      string
	dependsOn string
}

// New creates an empty store.
func New() *Store {
	return &Store{
		projects: make(map[string]*domain.Project),
		tasks:    make(map[string]*domain.Task),
		deps:     make(map[string]*domain.Dependency),
		pairs:    make(map[pairKey]string),
	}
}

// Initialize is a no-op for an in-memory store.
func (s *Store) Initialize() error { return nil }

// GetTask retrieves a task by ID.
func (s *Store) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	return t.Clone(), nil
}

// ListTasksByProject retrieves the tasks of a project ordered by ID.
func (s *Store) ListTasksByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Task, 0)
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			out = append(out, t.Clone())
		}
	}
	domain.SortTasks(out)
	return out, nil
}

// SaveTask creates or updates a task.
func (s *Store) SaveTask(ctx context.Context, task *domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task.Clone()
	return nil
}

// DeleteTask removes a task and every dependency touching it.
func (s *Store) DeleteTask(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return false, nil
	}
	s.deleteTaskLocked(id)
	return true, nil
}

func (s *Store) deleteTaskLocked(id string) {
	delete(s.tasks, id)
	for depID, d := range s.deps {
		if d.Touches(id) {
			delete(s.deps, depID)
			delete(s.pairs, pairKey{d.TaskID, d.DependsOnID})
		}
	}
}

// FindDependency returns the edge (taskID, dependsOnID), or nil if absent.
func (s *Store) FindDependency(ctx context.Context, taskID, dependsOnID string) (*domain.Dependency, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.pairs[pairKey{taskID, dependsOnID}]
	if !ok {
		return nil, nil
	}
	return s.deps[id].Clone(), nil
}

// ListDependenciesWhereTaskIn returns the edges whose dependent task is in ids.
func (s *Store) ListDependenciesWhereTaskIn(ctx context.Context, ids []string) ([]*domain.Dependency, error) {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return s.collect(ctx, func(d *domain.Dependency) bool {
		_, ok := set[d.TaskID]
		return ok
	})
}

// ListDependenciesOf returns the edges where taskID is the dependent.
func (s *Store) ListDependenciesOf(ctx context.Context, taskID string) ([]*domain.Dependency, error) {
	return s.collect(ctx, func(d *domain.Dependency) bool { return d.TaskID == taskID })
}

// ListDependents returns the edges where taskID is the prerequisite.
func (s *Store) ListDependents(ctx context.Context, taskID string) ([]*domain.Dependency, error) {
	return s.collect(ctx, func(d *domain.Dependency) bool { return d.DependsOnID == taskID })
}

func (s *Store) collect(ctx context.Context, match func(*domain.Dependency) bool) ([]*domain.Dependency, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Dependency, 0)
	for _, d := range s.deps {
		if match(d) {
			out = append(out, d.Clone())
		}
	}
	domain.SortDependencies(out)
	return out, nil
}

// InsertDependency persists a new edge.
func (s *Store) InsertDependency(ctx context.Context, dep *domain.Dependency) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range []string{dep.TaskID, dep.DependsOnID} {
		if _, ok := s.tasks[id]; !ok {
			return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
		}
	}
	key := pairKey{dep.TaskID, dep.DependsOnID}
	if _, dup := s.pairs[key]; dup {
		return domain.ErrDuplicateDependency
	}
	s.deps[dep.ID] = dep.Clone()
	s.pairs[key] = dep.ID
	return nil
}

// DeleteDependency removes the edge if it belongs to taskID.
func (s *Store) DeleteDependency(ctx context.Context, edgeID, taskID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.deps[edgeID]
	if !ok || d.TaskID != taskID {
		return false, nil
	}
	delete(s.deps, edgeID)
	delete(s.pairs, pairKey{d.TaskID, d.DependsOnID})
	return true, nil
}

// LockProject takes the project's insert lock. Handles are in-process only,
// so the lock table of this Store is the whole scope.
func (s *Store) LockProject(ctx context.Context, projectID string) (func(), error) {
	return s.locks.Lock(ctx, projectID)
}

// GetProject retrieves a project by ID.
func (s *Store) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, nil
	}
	return p.Clone(), nil
}

// ListProjects retrieves all projects ordered by ID.
func (s *Store) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p.Clone())
	}
	domain.SortProjects(out)
	return out, nil
}

// SaveProject creates or updates a project.
func (s *Store) SaveProject(ctx context.Context, project *domain.Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[project.ID] = project.Clone()
	return nil
}

// DeleteProject removes a project with its tasks and their dependencies.
func (s *Store) DeleteProject(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return false, nil
	}
	for taskID, t := range s.tasks {
		if t.ProjectID == id {
			s.deleteTaskLocked(taskID)
		}
	}
	delete(s.projects, id)
	return true, nil
}
