// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/runoshun/taskdag/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// FixedClock returns a MockClock stopped at 2025-01-02 03:04:05 UTC.
func FixedClock() *MockClock {
	return &MockClock{NowTime: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)}
}

// SequenceIDs is a domain.IDGenerator yielding Prefix1, Prefix2, ...
// It is safe for concurrent use.
type SequenceIDs struct {
	Prefix string
	mu     sync.Mutex
	n      int
}

// NewSequenceIDs creates a generator with the given prefix.
func NewSequenceIDs(prefix string) *SequenceIDs {
	return &SequenceIDs{Prefix: prefix}
}

// NewID returns the next id in the sequence.
func (s *SequenceIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s%d", s.Prefix, s.n)
}

// LogEntry is a single entry captured by RecordingLogger.
type LogEntry struct {
	Level     string
	ProjectID string
	Category  string
	Msg       string
}

// RecordingLogger is a domain.Logger that keeps every entry in memory.
type RecordingLogger struct {
	entries []LogEntry
	mu      sync.Mutex
}

// Entries returns a copy of the captured entries.
func (l *RecordingLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogEntry(nil), l.entries...)
}

// Has reports whether an entry with the level and category was captured.
func (l *RecordingLogger) Has(level, category string) bool {
	for _, e := range l.Entries() {
		if e.Level == level && e.Category == category {
			return true
		}
	}
	return false
}

func (l *RecordingLogger) add(level, projectID, category, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, ProjectID: projectID, Category: category, Msg: msg})
}

// Debug records a debug entry.
func (l *RecordingLogger) Debug(projectID, category, msg string) {
	l.add("DEBUG", projectID, category, msg)
}

// Info records an info entry.
func (l *RecordingLogger) Info(projectID, category, msg string) {
	l.add("INFO", projectID, category, msg)
}

// Warn records a warning entry.
func (l *RecordingLogger) Warn(projectID, category, msg string) {
	l.add("WARN", projectID, category, msg)
}

// Error records an error entry.
func (l *RecordingLogger) Error(projectID, category, msg string) {
	l.add("ERROR", projectID, category, msg)
}

// FailingStore wraps a domain.Store and fails selected operations.
// A nil error field passes the call through to the wrapped store.
// Fields are ordered to minimize memory padding.
type FailingStore struct {
	domain.Store
	GetTaskErr        error
	ListTasksErr      error
	SaveTaskErr       error
	DeleteTaskErr     error
	FindDependencyErr error
	ListDepsErr       error
	InsertErr         error
	DeleteDepErr      error
	LockErr           error
	GetProjectErr     error
	SaveProjectErr    error
	ListDepsHook      func() // called before ListDependenciesWhereTaskIn
	InsertDependencyN int    // successful inserts
	mu                sync.Mutex
}

// GetTask fails with GetTaskErr when set.
func (f *FailingStore) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	if f.GetTaskErr != nil {
		return nil, f.GetTaskErr
	}
	return f.Store.GetTask(ctx, id)
}

// ListTasksByProject fails with ListTasksErr when set.
func (f *FailingStore) ListTasksByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Store.ListTasksByProject(ctx, projectID)
}

// SaveTask fails with SaveTaskErr when set.
func (f *FailingStore) SaveTask(ctx context.Context, task *domain.Task) error {
	if f.SaveTaskErr != nil {
		return f.SaveTaskErr
	}
	return f.Store.SaveTask(ctx, task)
}

// DeleteTask fails with DeleteTaskErr when set.
func (f *FailingStore) DeleteTask(ctx context.Context, id string) (bool, error) {
	if f.DeleteTaskErr != nil {
		return false, f.DeleteTaskErr
	}
	return f.Store.DeleteTask(ctx, id)
}

// FindDependency fails with FindDependencyErr when set.
func (f *FailingStore) FindDependency(ctx context.Context, taskID, dependsOnID string) (*domain.Dependency, error) {
	if f.FindDependencyErr != nil {
		return nil, f.FindDependencyErr
	}
	return f.Store.FindDependency(ctx, taskID, dependsOnID)
}

// ListDependenciesWhereTaskIn runs ListDepsHook, then fails with ListDepsErr when set.
func (f *FailingStore) ListDependenciesWhereTaskIn(ctx context.Context, ids []string) ([]*domain.Dependency, error) {
	if f.ListDepsHook != nil {
		f.ListDepsHook()
	}
	if f.ListDepsErr != nil {
		return nil, f.ListDepsErr
	}
	return f.Store.ListDependenciesWhereTaskIn(ctx, ids)
}

// ListDependenciesOf fails with ListDepsErr when set.
func (f *FailingStore) ListDependenciesOf(ctx context.Context, taskID string) ([]*domain.Dependency, error) {
	if f.ListDepsErr != nil {
		return nil, f.ListDepsErr
	}
	return f.Store.ListDependenciesOf(ctx, taskID)
}

// InsertDependency fails with InsertErr when set and counts successful inserts.
func (f *FailingStore) InsertDependency(ctx context.Context, dep *domain.Dependency) error {
	if f.InsertErr != nil {
		return f.InsertErr
	}
	if err := f.Store.InsertDependency(ctx, dep); err != nil {
		return err
	}
	f.mu.Lock()
	f.InsertDependencyN++
	f.mu.Unlock()
	return nil
}

// Inserts returns the number of successful inserts.
func (f *FailingStore) Inserts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.InsertDependencyN
}

// DeleteDependency fails with DeleteDepErr when set.
func (f *FailingStore) DeleteDependency(ctx context.Context, edgeID, taskID string) (bool, error) {
	if f.DeleteDepErr != nil {
		return false, f.DeleteDepErr
	}
	return f.Store.DeleteDependency(ctx, edgeID, taskID)
}

// LockProject fails with LockErr when set.
func (f *FailingStore) LockProject(ctx context.Context, projectID string) (func(), error) {
	if f.LockErr != nil {
		return nil, f.LockErr
	}
	return f.Store.LockProject(ctx, projectID)
}

// GetProject fails with GetProjectErr when set.
func (f *FailingStore) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	if f.GetProjectErr != nil {
		return nil, f.GetProjectErr
	}
	return f.Store.GetProject(ctx, id)
}

// SaveProject fails with SaveProjectErr when set.
func (f *FailingStore) SaveProject(ctx context.Context, project *domain.Project) error {
	if f.SaveProjectErr != nil {
		return f.SaveProjectErr
	}
	return f.Store.SaveProject(ctx, project)
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config       *domain.Config
	GlobalConfig *domain.Config
	LoadErr      error
}

// NewMockConfigLoader creates a loader returning the default configuration.
func NewMockConfigLoader() *MockConfigLoader {
	return &MockConfigLoader{
		Config:       domain.NewDefaultConfig(),
		GlobalConfig: domain.NewDefaultConfig(),
	}
}

// Load returns the configured merged configuration.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Config, nil
}

// LoadGlobal returns the configured global configuration.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.GlobalConfig, nil
}
