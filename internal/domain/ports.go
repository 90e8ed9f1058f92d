package domain

import (
	"context"
	"time"
)

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist. It is idempotent.
	Initialize() error
}

// TaskStore manages task persistence.
type TaskStore interface {
	// GetTask retrieves a task by ID. Returns nil if not found.
	GetTask(ctx context.Context, id string) (*Task, error)

	// ListTasksByProject retrieves all tasks of a project ordered by ID.
	ListTasksByProject(ctx context.Context, projectID string) ([]*Task, error)

	// SaveTask creates or updates a task.
	SaveTask(ctx context.Context, task *Task) error

	// DeleteTask removes a task together with every dependency touching it.
	// Returns false if the task did not exist.
	DeleteTask(ctx context.Context, id string) (bool, error)
}

// DependencyStore manages dependency edge persistence.
type DependencyStore interface {
	// FindDependency returns the edge (taskID, dependsOnID). Returns nil if absent.
	FindDependency(ctx context.Context, taskID, dependsOnID string) (*Dependency, error)

	// ListDependenciesWhereTaskIn returns every edge whose dependent task is in ids.
	ListDependenciesWhereTaskIn(ctx context.Context, ids []string) ([]*Dependency, error)

	// ListDependenciesOf returns the edges where taskID is the dependent.
	ListDependenciesOf(ctx context.Context, taskID string) ([]*Dependency, error)

	// ListDependents returns the edges where taskID is the prerequisite.
	ListDependents(ctx context.Context, taskID string) ([]*Dependency, error)

	// InsertDependency persists a new edge.
	// Returns ErrDuplicateDependency if the (TaskID, DependsOnID) pair already exists
	// and ErrTaskNotFound if either endpoint is missing at write time.
	InsertDependency(ctx context.Context, dep *Dependency) error

	// DeleteDependency removes the edge with edgeID if it belongs to taskID.
	// Returns false if no such edge exists.
	DeleteDependency(ctx context.Context, edgeID, taskID string) (bool, error)

	// LockProject takes the dependency insert lock of a project and returns
	// the function that releases it. Every handle on the same store shares
	// the lock, including handles held by other processes. The wait ends
	// when ctx is done.
	LockProject(ctx context.Context, projectID string) (func(), error)
}

// ProjectStore manages project persistence.
type ProjectStore interface {
	// GetProject retrieves a project by ID. Returns nil if not found.
	GetProject(ctx context.Context, id string) (*Project, error)

	// ListProjects retrieves all projects ordered by ID.
	ListProjects(ctx context.Context) ([]*Project, error)

	// SaveProject creates or updates a project.
	SaveProject(ctx context.Context, project *Project) error

	// DeleteProject removes a project with all of its tasks and their dependencies.
	// Returns false if the project did not exist.
	DeleteProject(ctx context.Context, id string) (bool, error)
}

// Store bundles every persistence port. All backends implement it.
type Store interface {
	StoreInitializer
	TaskStore
	DependencyStore
	ProjectStore
}

// IDGenerator produces opaque identifiers for new records.
type IDGenerator interface {
	// NewID returns a fresh unique identifier.
	NewID() string
}

// Logger writes operational log entries.
// projectID scopes an entry to a project log; empty means global only.
type Logger interface {
	Debug(projectID, category, msg string)
	Info(projectID, category, msg string)
	Warn(projectID, category, msg string)
	Error(projectID, category, msg string)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults + global + project).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
