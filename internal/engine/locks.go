package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/runoshun/taskdag/internal/domain"
)

// ProjectLocks is a table of per-project mutual exclusion scopes.
// Entries exist only while a lock is held or awaited.
type ProjectLocks struct {
	entries map[string]*lockEntry
	mu      sync.Mutex
}

type lockEntry struct {
	sem  *semaphore.Weighted
	refs int
}

// NewProjectLocks creates an empty lock table.
func NewProjectLocks() *ProjectLocks {
	return &ProjectLocks{entries: make(map[string]*lockEntry)}
}

// Acquire locks the project and returns the function that unlocks it.
// The wait ends when ctx is done or, if timeout is positive, after timeout,
// in which case the error wraps domain.ErrLockTimeout.
func (l *ProjectLocks) Acquire(ctx context.Context, projectID string, timeout time.Duration) (func(), error) {
	e := l.ref(projectID)

	waitCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := e.sem.Acquire(waitCtx, 1); err != nil {
		l.unref(projectID, e)
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: project %s after %s", domain.ErrLockTimeout, projectID, timeout)
		}
		return nil, fmt.Errorf("lock project %s: %w", projectID, err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			e.sem.Release(1)
			l.unref(projectID, e)
		})
	}, nil
}

// Len returns the number of projects with a held or awaited lock.
func (l *ProjectLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *ProjectLocks) ref(projectID string) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[projectID]
	if !ok {
		e = &lockEntry{sem: semaphore.NewWeighted(1)}
		l.entries[projectID] = e
	}
	e.refs++
	return e
}

func (l *ProjectLocks) unref(projectID string, e *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, projectID)
	}
}
