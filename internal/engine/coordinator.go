package engine

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/runoshun/taskdag/internal/domain"
)

// AddOutcome is the result kind of an edge insertion.
type AddOutcome int

// Edge insertion outcomes.
const (
	AddOutcomeAdded AddOutcome = iota
	AddOutcomeAlreadyExists
	AddOutcomeCrossProject
	AddOutcomeWouldCycle
)

func (o AddOutcome) String() string {
	switch o {
	case AddOutcomeAdded:
		return "added"
	case AddOutcomeAlreadyExists:
		return "already_exists"
	case AddOutcomeCrossProject:
		return "cross_project"
	case AddOutcomeWouldCycle:
		return "would_cycle"
	default:
		return fmt.Sprintf("AddOutcome(%d)", int(o))
	}
}

// AddResult is returned by AddDependency.
type AddResult struct {
	// Dependency is the new edge for Added, the existing edge for AlreadyExists,
	// and nil otherwise.
	Dependency *domain.Dependency
	Outcome    AddOutcome
}

// RemoveOutcome is the result kind of an edge removal.
type RemoveOutcome int

// Edge removal outcomes.
const (
	RemoveOutcomeRemoved RemoveOutcome = iota
	RemoveOutcomeNotFound
)

func (o RemoveOutcome) String() string {
	switch o {
	case RemoveOutcomeRemoved:
		return "removed"
	case RemoveOutcomeNotFound:
		return "not_found"
	default:
		return fmt.Sprintf("RemoveOutcome(%d)", int(o))
	}
}

// RemoveResult is returned by RemoveDependency.
type RemoveResult struct {
	Outcome RemoveOutcome
}

// Coordinator applies edge mutations.
//
// Insertions into the same project are serialized from graph load to edge
// write, so two insertions can never both pass a cycle check against a
// snapshot that misses the other's edge. Two locks are held: the
// Coordinator's own lock table, then the store's project lock
// (DependencyStore.LockProject), which also covers other Coordinators and
// other processes on the same store. Removals are not serialized.
type Coordinator struct {
	tasks    domain.TaskStore
	deps     domain.DependencyStore
	accessor *Accessor
	detector *CycleDetector
	locks    *ProjectLocks
	ids      domain.IDGenerator
	clock    domain.Clock
	logger   domain.Logger
	opts     Options
}

// NewCoordinator creates a new Coordinator with its own lock table.
func NewCoordinator(
	tasks domain.TaskStore,
	deps domain.DependencyStore,
	accessor *Accessor,
	ids domain.IDGenerator,
	clock domain.Clock,
	logger domain.Logger,
	opts Options,
) *Coordinator {
	return &Coordinator{
		tasks:    tasks,
		deps:     deps,
		accessor: accessor,
		detector: NewCycleDetector(accessor),
		locks:    NewProjectLocks(),
		ids:      ids,
		clock:    clock,
		logger:   orNop(logger),
		opts:     opts,
	}
}

// AddDependency records that taskID depends on dependsOnID.
//
// Rejections are outcomes, not errors. Errors are returned for a missing
// task (domain.ErrTaskNotFound), store failures (domain.ErrDataAccess),
// lock timeouts (domain.ErrLockTimeout) and cancellation. Nothing is
// written unless the outcome is AddOutcomeAdded.
func (c *Coordinator) AddDependency(ctx context.Context, taskID, dependsOnID string) (AddResult, error) {
	if taskID == dependsOnID {
		c.logger.Debug("", "dependency", fmt.Sprintf("rejected self dependency of %s", taskID))
		return AddResult{Outcome: AddOutcomeWouldCycle}, nil
	}

	task, prereq, err := c.loadPair(ctx, taskID, dependsOnID)
	if err != nil {
		return AddResult{}, err
	}
	if task.ProjectID != prereq.ProjectID {
		c.logger.Debug(task.ProjectID, "dependency",
			fmt.Sprintf("rejected %s -> %s: prerequisite in project %s", taskID, dependsOnID, prereq.ProjectID))
		return AddResult{Outcome: AddOutcomeCrossProject}, nil
	}
	projectID := task.ProjectID

	unlock, err := c.locks.Acquire(ctx, projectID, c.opts.LockTimeout)
	if err != nil {
		return AddResult{}, err
	}
	defer unlock()

	unlockStore, err := c.lockStore(ctx, projectID)
	if err != nil {
		return AddResult{}, err
	}
	defer unlockStore()

	existing, err := c.deps.FindDependency(ctx, taskID, dependsOnID)
	if err != nil {
		return AddResult{}, storeError("find dependency", err)
	}
	if existing != nil {
		return AddResult{Outcome: AddOutcomeAlreadyExists, Dependency: existing}, nil
	}

	snap, err := c.accessor.LoadProject(ctx, projectID)
	if err != nil {
		return AddResult{}, err
	}
	if c.detector.Check(snap, taskID, dependsOnID) {
		c.logger.Debug(projectID, "dependency",
			fmt.Sprintf("rejected %s -> %s: would create a cycle", taskID, dependsOnID))
		return AddResult{Outcome: AddOutcomeWouldCycle}, nil
	}

	if err := ctx.Err(); err != nil {
		return AddResult{}, fmt.Errorf("add dependency: %w", err)
	}
	dep := &domain.Dependency{
		ID:          c.ids.NewID(),
		TaskID:      taskID,
		DependsOnID: dependsOnID,
		Created:     c.clock.Now(),
	}
	if err := c.deps.InsertDependency(ctx, dep); err != nil {
		if errors.Is(err, domain.ErrDuplicateDependency) {
			return c.alreadyExists(ctx, taskID, dependsOnID)
		}
		if errors.Is(err, domain.ErrTaskNotFound) {
			// deleted since loadPair
			return AddResult{}, fmt.Errorf("insert dependency: %w", err)
		}
		return AddResult{}, storeError("insert dependency", err)
	}

	c.logger.Info(projectID, "dependency", fmt.Sprintf("added %s: %s depends on %s", dep.ID, taskID, dependsOnID))
	return AddResult{Outcome: AddOutcomeAdded, Dependency: dep}, nil
}

// RemoveDependency deletes the edge edgeID if it belongs to taskID.
func (c *Coordinator) RemoveDependency(ctx context.Context, taskID, edgeID string) (RemoveResult, error) {
	removed, err := c.deps.DeleteDependency(ctx, edgeID, taskID)
	if err != nil {
		return RemoveResult{}, storeError("delete dependency", err)
	}
	if !removed {
		return RemoveResult{Outcome: RemoveOutcomeNotFound}, nil
	}
	c.logger.Info("", "dependency", fmt.Sprintf("removed %s from task %s", edgeID, taskID))
	return RemoveResult{Outcome: RemoveOutcomeRemoved}, nil
}

// lockStore takes the store's project lock, bounded by the lock timeout.
func (c *Coordinator) lockStore(ctx context.Context, projectID string) (func(), error) {
	waitCtx := ctx
	if c.opts.LockTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, c.opts.LockTimeout)
		defer cancel()
	}
	unlock, err := c.deps.LockProject(waitCtx, projectID)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: project %s after %s", domain.ErrLockTimeout, projectID, c.opts.LockTimeout)
		}
		return nil, storeError("lock project", err)
	}
	return unlock, nil
}

// loadPair reads both endpoints of a proposed edge concurrently.
func (c *Coordinator) loadPair(ctx context.Context, taskID, dependsOnID string) (*domain.Task, *domain.Task, error) {
	var task, prereq *domain.Task
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		t, err := c.accessor.getTask(egCtx, taskID)
		task = t
		return err
	})
	eg.Go(func() error {
		t, err := c.accessor.getTask(egCtx, dependsOnID)
		prereq = t
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	return task, prereq, nil
}

// alreadyExists resolves an insert that lost to the store's uniqueness constraint.
func (c *Coordinator) alreadyExists(ctx context.Context, taskID, dependsOnID string) (AddResult, error) {
	existing, err := c.deps.FindDependency(ctx, taskID, dependsOnID)
	if err != nil {
		return AddResult{}, storeError("find dependency", err)
	}
	return AddResult{Outcome: AddOutcomeAlreadyExists, Dependency: existing}, nil
}
