package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/engine"
)

// AddDependencyInput contains the parameters for adding a dependency.
type AddDependencyInput struct {
	TaskID      string // The dependent task
	DependsOnID string // The prerequisite task
}

// AddDependencyOutput contains the engine's verdict on the new edge.
type AddDependencyOutput struct {
	Dependency  *domain.Dependency // New edge for Added, existing edge for AlreadyExists
	TaskID      string
	DependsOnID string
	Outcome     engine.AddOutcome
}

// Added reports whether the edge was written.
func (o *AddDependencyOutput) Added() bool {
	return o.Outcome == engine.AddOutcomeAdded
}

// Err returns a *DependencyRejectedError describing a rejection, or nil when the edge was added.
func (o *AddDependencyOutput) Err() error {
	if o.Outcome == engine.AddOutcomeAdded {
		return nil
	}
	return &DependencyRejectedError{
		TaskID:      o.TaskID,
		DependsOnID: o.DependsOnID,
		Reason:      rejectionReason(o.Outcome, o.TaskID == o.DependsOnID),
	}
}

// rejectionReason describes why an edge was not added.
func rejectionReason(outcome engine.AddOutcome, self bool) string {
	switch outcome {
	case engine.AddOutcomeAlreadyExists:
		return "dependency already exists"
	case engine.AddOutcomeCrossProject:
		return "tasks belong to different projects"
	case engine.AddOutcomeWouldCycle:
		if self {
			return "task cannot depend on itself"
		}
		return "would create a circular dependency"
	default:
		return outcome.String()
	}
}

// AddDependency is the use case for adding a dependency edge.
type AddDependency struct {
	coordinator *engine.Coordinator
}

// NewAddDependency creates a new AddDependency use case.
func NewAddDependency(coordinator *engine.Coordinator) *AddDependency {
	return &AddDependency{coordinator: coordinator}
}

// Execute asks the coordinator to add "TaskID depends on DependsOnID".
// Rejected edges are reported through the output, not as errors.
func (uc *AddDependency) Execute(ctx context.Context, in AddDependencyInput) (*AddDependencyOutput, error) {
	result, err := uc.coordinator.AddDependency(ctx, in.TaskID, in.DependsOnID)
	if err != nil {
		return nil, fmt.Errorf("add dependency: %w", err)
	}
	return &AddDependencyOutput{
		Dependency:  result.Dependency,
		TaskID:      in.TaskID,
		DependsOnID: in.DependsOnID,
		Outcome:     result.Outcome,
	}, nil
}
