package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrProjectNotFound     = errors.New("project not found")
	ErrDependencyNotFound  = errors.New("dependency not found")
	ErrDuplicateDependency = errors.New("dependency already exists")
	ErrSelfDependency      = errors.New("task cannot depend on itself")
	ErrNotInitialized      = errors.New("taskdag not initialized (run 'taskdag init' first)")
	ErrAlreadyInitialized  = errors.New("taskdag already initialized")
	ErrEmptyTitle          = errors.New("title cannot be empty")
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrProjectRequired     = errors.New("project id is required")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidPriority     = errors.New("invalid priority")
	ErrNegativeEstimate    = errors.New("estimated hours must not be negative")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
	ErrConfigExists        = errors.New("config file already exists")
	ErrEmptyFile           = errors.New("file is empty")
	ErrNoTasksInFile       = errors.New("no tasks found in file")
	ErrUnknownStoreDriver  = errors.New("unknown store driver")
	ErrLockTimeout         = errors.New("timed out waiting for project lock")

	// ErrDataAccess marks failures of the underlying stores.
	// Errors returned by the engine for store failures satisfy errors.Is(err, ErrDataAccess).
	ErrDataAccess = errors.New("data access failure")
)
