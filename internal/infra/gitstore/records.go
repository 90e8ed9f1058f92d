package gitstore

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdag/internal/domain"
)

// GetTask retrieves a task by ID.
func (s *Store) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var task domain.Task
	ok, err := s.get(kindTasks, id, &task)
	if err != nil || !ok {
		return nil, err
	}
	return &task, nil
}

// ListTasksByProject retrieves the tasks of a project ordered by ID.
func (s *Store) ListTasksByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	return s.tasksOf(projectID)
}

func (s *Store) tasksOf(projectID string) ([]*domain.Task, error) {
	tasks := make([]*domain.Task, 0)
	err := each(s, kindTasks, func(t *domain.Task) error {
		if t.ProjectID == projectID {
			tasks = append(tasks, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	domain.SortTasks(tasks)
	return tasks, nil
}

// SaveTask creates or updates a task.
func (s *Store) SaveTask(ctx context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.put(kindTasks, task.ID, task)
}

// DeleteTask removes a task and every dependency touching it.
// The dependency refs go first, so an interrupted delete never leaves an
// edge pointing at a removed task.
func (s *Store) DeleteTask(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(ctx); err != nil {
		return false, err
	}
	if err := s.removeDependencies(func(d *domain.Dependency) bool { return d.Touches(id) }); err != nil {
		return false, err
	}
	return s.remove(kindTasks, id)
}

func (s *Store) removeDependencies(match func(*domain.Dependency) bool) error {
	var ids []string
	err := each(s, kindDeps, func(d *domain.Dependency) error {
		if match(d) {
			ids = append(ids, d.ID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := s.remove(kindDeps, id); err != nil {
			return err
		}
	}
	return nil
}

// FindDependency returns the edge (taskID, dependsOnID), or nil if absent.
func (s *Store) FindDependency(ctx context.Context, taskID, dependsOnID string) (*domain.Dependency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	return s.findPair(taskID, dependsOnID)
}

func (s *Store) findPair(taskID, dependsOnID string) (*domain.Dependency, error) {
	var found *domain.Dependency
	err := each(s, kindDeps, func(d *domain.Dependency) error {
		if found == nil && d.TaskID == taskID && d.DependsOnID == dependsOnID {
			found = d
		}
		return nil
	})
	return found, err
}

// ListDependenciesWhereTaskIn returns the edges whose dependent task is in ids.
func (s *Store) ListDependenciesWhereTaskIn(ctx context.Context, ids []string) ([]*domain.Dependency, error) {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return s.listDependencies(ctx, func(d *domain.Dependency) bool { return set[d.TaskID] })
}

// ListDependenciesOf returns the edges where taskID is the dependent.
func (s *Store) ListDependenciesOf(ctx context.Context, taskID string) ([]*domain.Dependency, error) {
	return s.listDependencies(ctx, func(d *domain.Dependency) bool { return d.TaskID == taskID })
}

// ListDependents returns the edges where taskID is the prerequisite.
func (s *Store) ListDependents(ctx context.Context, taskID string) ([]*domain.Dependency, error) {
	return s.listDependencies(ctx, func(d *domain.Dependency) bool { return d.DependsOnID == taskID })
}

func (s *Store) listDependencies(ctx context.Context, match func(*domain.Dependency) bool) ([]*domain.Dependency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	deps := make([]*domain.Dependency, 0)
	err := each(s, kindDeps, func(d *domain.Dependency) error {
		if match(d) {
			deps = append(deps, d)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	domain.SortDependencies(deps)
	return deps, nil
}

// InsertDependency persists a new edge.
func (s *Store) InsertDependency(ctx context.Context, dep *domain.Dependency) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(ctx); err != nil {
		return err
	}

	for _, id := range []string{dep.TaskID, dep.DependsOnID} {
		var task domain.Task
		found, err := s.get(kindTasks, id, &task)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
		}
	}
	existing, err := s.findPair(dep.TaskID, dep.DependsOnID)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrDuplicateDependency
	}
	return s.put(kindDeps, dep.ID, dep)
}

// DeleteDependency removes the edge if it belongs to taskID.
func (s *Store) DeleteDependency(ctx context.Context, edgeID, taskID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(ctx); err != nil {
		return false, err
	}

	var dep domain.Dependency
	ok, err := s.get(kindDeps, edgeID, &dep)
	if err != nil || !ok || dep.TaskID != taskID {
		return false, err
	}
	return s.remove(kindDeps, edgeID)
}

// GetProject retrieves a project by ID.
func (s *Store) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var project domain.Project
	ok, err := s.get(kindProjects, id, &project)
	if err != nil || !ok {
		return nil, err
	}
	return &project, nil
}

// ListProjects retrieves all projects ordered by ID.
func (s *Store) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	projects := make([]*domain.Project, 0)
	err := each(s, kindProjects, func(p *domain.Project) error {
		projects = append(projects, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	domain.SortProjects(projects)
	return projects, nil
}

// SaveProject creates or updates a project.
func (s *Store) SaveProject(ctx context.Context, project *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.put(kindProjects, project.ID, project)
}

// DeleteProject removes a project with its tasks and their dependencies.
func (s *Store) DeleteProject(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ready(ctx); err != nil {
		return false, err
	}

	var project domain.Project
	ok, err := s.get(kindProjects, id, &project)
	if err != nil || !ok {
		return false, err
	}

	tasks, err := s.tasksOf(id)
	if err != nil {
		return false, err
	}
	inProject := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		inProject[t.ID] = true
	}
	if err := s.removeDependencies(func(d *domain.Dependency) bool {
		return inProject[d.TaskID] || inProject[d.DependsOnID]
	}); err != nil {
		return false, err
	}
	for _, t := range tasks {
		if _, err := s.remove(kindTasks, t.ID); err != nil {
			return false, err
		}
	}
	return s.remove(kindProjects, id)
}
