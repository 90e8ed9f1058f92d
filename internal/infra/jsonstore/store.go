// Package jsonstore provides a JSON file-based implementation of the stores.
// Every operation takes an flock on a sibling lock file, so several
// taskdag processes can share one store file. Dependency insert locks are
// separate flocked files, one per project, under "<store file>.locks".
package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/infra/storelock"
)

// storeData represents the JSON file structure.
// Fields are ordered to minimize memory padding.
type storeData struct {
	Projects     map[string]*domain.Project    `json:"projects"`
	Tasks        map[string]*domain.Task       `json:"tasks"`
	Dependencies map[string]*domain.Dependency `json:"dependencies"`
	Meta         meta                          `json:"meta"`
}

// meta contains store metadata.
type meta struct {
	Version int `json:"version"`
}

const currentVersion = 1

// Store implements domain.Store using a JSON file.
type Store struct {
	path     string
	lockPath string
	locksDir string
}

// Ensure Store implements domain.Store.
var _ domain.Store = (*Store)(nil)

// New creates a new Store for the given file path.
// The file must be created with Initialize before use.
func New(path string) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
		locksDir: path + ".locks",
	}
}

// GetTask retrieves a task by ID.
func (s *Store) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	var task *domain.Task
	err := s.withLock(ctx, func(data *storeData) error {
		if t, ok := data.Tasks[id]; ok {
			task = t
		}
		return nil
	})
	return task, err
}

// ListTasksByProject retrieves the tasks of a project ordered by ID.
func (s *Store) ListTasksByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	tasks := make([]*domain.Task, 0)
	err := s.withLock(ctx, func(data *storeData) error {
		for _, t := range data.Tasks {
			if t.ProjectID == projectID {
				tasks = append(tasks, t)
			}
		}
		return nil
	})
	domain.SortTasks(tasks)
	return tasks, err
}

// SaveTask creates or updates a task.
func (s *Store) SaveTask(ctx context.Context, task *domain.Task) error {
	return s.withLockWrite(ctx, func(data *storeData) error {
		data.Tasks[task.ID] = task
		return nil
	})
}

// DeleteTask removes a task and every dependency touching it.
func (s *Store) DeleteTask(ctx context.Context, id string) (bool, error) {
	var found bool
	err := s.withLockWrite(ctx, func(data *storeData) error {
		if _, found = data.Tasks[id]; found {
			data.deleteTask(id)
		}
		return nil
	})
	return found, err
}

func (d *storeData) deleteTask(id string) {
	delete(d.Tasks, id)
	for depID, dep := range d.Dependencies {
		if dep.Touches(id) {
			delete(d.Dependencies, depID)
		}
	}
}

// FindDependency returns the edge (taskID, dependsOnID), or nil if absent.
func (s *Store) FindDependency(ctx context.Context, taskID, dependsOnID string) (*domain.Dependency, error) {
	var found *domain.Dependency
	err := s.withLock(ctx, func(data *storeData) error {
		found = data.findPair(taskID, dependsOnID)
		return nil
	})
	return found, err
}

func (d *storeData) findPair(taskID, dependsOnID string) *domain.Dependency {
	for _, dep := range d.Dependencies {
		if dep.TaskID == taskID && dep.DependsOnID == dependsOnID {
			return dep
		}
	}
	return nil
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
	deps := make([]*domain.Dependency, 0)
	err := s.withLock(ctx, func(data *storeData) error {
		for _, d := range data.Dependencies {
			if match(d) {
				deps = append(deps, d)
			}
		}
		return nil
	})
	domain.SortDependencies(deps)
	return deps, err
}

// InsertDependency persists a new edge.
// The endpoint and pair checks and the write happen under the same exclusive lock.
func (s *Store) InsertDependency(ctx context.Context, dep *domain.Dependency) error {
	return s.withLockWrite(ctx, func(data *storeData) error {
		for _, id := range []string{dep.TaskID, dep.DependsOnID} {
			if _, ok := data.Tasks[id]; !ok {
				return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, id)
			}
		}
		if data.findPair(dep.TaskID, dep.DependsOnID) != nil {
			return domain.ErrDuplicateDependency
		}
		data.Dependencies[dep.ID] = dep
		return nil
	})
}

// DeleteDependency removes the edge if it belongs to taskID.
func (s *Store) DeleteDependency(ctx context.Context, edgeID, taskID string) (bool, error) {
	var found bool
	err := s.withLockWrite(ctx, func(data *storeData) error {
		if d, ok := data.Dependencies[edgeID]; ok && d.TaskID == taskID {
			delete(data.Dependencies, edgeID)
			found = true
		}
		return nil
	})
	return found, err
}

// LockProject takes the flock of the project's insert lock file.
func (s *Store) LockProject(ctx context.Context, projectID string) (func(), error) {
	if !s.IsInitialized() {
		return nil, domain.ErrNotInitialized
	}
	return storelock.File(ctx, storelock.FilePath(s.locksDir, projectID))
}

// GetProject retrieves a project by ID.
func (s *Store) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	var project *domain.Project
	err := s.withLock(ctx, func(data *storeData) error {
		if p, ok := data.Projects[id]; ok {
			project = p
		}
		return nil
	})
	return project, err
}

// ListProjects retrieves all projects ordered by ID.
func (s *Store) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	projects := make([]*domain.Project, 0)
	err := s.withLock(ctx, func(data *storeData) error {
		for _, p := range data.Projects {
			projects = append(projects, p)
		}
		return nil
	})
	domain.SortProjects(projects)
	return projects, err
}

// SaveProject creates or updates a project.
func (s *Store) SaveProject(ctx context.Context, project *domain.Project) error {
	return s.withLockWrite(ctx, func(data *storeData) error {
		data.Projects[project.ID] = project
		return nil
	})
}

// DeleteProject removes a project with its tasks and their dependencies.
// Everything is removed in one write of the file.
func (s *Store) DeleteProject(ctx context.Context, id string) (bool, error) {
	var found bool
	err := s.withLockWrite(ctx, func(data *storeData) error {
		if _, found = data.Projects[id]; !found {
			return nil
		}
		for taskID, t := range data.Tasks {
			if t.ProjectID == id {
				data.deleteTask(taskID)
			}
		}
		delete(data.Projects, id)
		return nil
	})
	return found, err
}

// IsInitialized checks if the store file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize creates an empty store file if it doesn't exist.
func (s *Store) Initialize() error {
	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return nil
	}

	return s.write(&storeData{
		Meta:         meta{Version: currentVersion},
		Projects:     make(map[string]*domain.Project),
		Tasks:        make(map[string]*domain.Task),
		Dependencies: make(map[string]*domain.Dependency),
	})
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(ctx context.Context, fn func(*storeData) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	return fn(data)
}

// withLockWrite executes fn with an exclusive (write) lock and writes the result.
// Nothing is written if fn fails or ctx is done before the write.
func (s *Store) withLockWrite(ctx context.Context, fn func(*storeData) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(data); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) read() (*storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var data storeData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	if data.Meta.Version > currentVersion {
		return nil, fmt.Errorf("store file version %d is newer than supported version %d", data.Meta.Version, currentVersion)
	}

	if data.Projects == nil {
		data.Projects = make(map[string]*domain.Project)
	}
	if data.Tasks == nil {
		data.Tasks = make(map[string]*domain.Task)
	}
	if data.Dependencies == nil {
		data.Dependencies = make(map[string]*domain.Dependency)
	}

	return &data, nil
}

func (s *Store) write(data *storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
