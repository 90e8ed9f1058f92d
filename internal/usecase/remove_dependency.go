package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdag/internal/engine"
)

// RemoveDependencyInput contains the parameters for removing a dependency.
type RemoveDependencyInput struct {
	TaskID string // The dependent task owning the edge
	EdgeID string
}

// RemoveDependencyOutput contains the result of the removal.
type RemoveDependencyOutput struct {
	Outcome engine.RemoveOutcome
}

// Removed reports whether an edge was deleted.
func (o *RemoveDependencyOutput) Removed() bool {
	return o.Outcome == engine.RemoveOutcomeRemoved
}

// RemoveDependency is the use case for removing a dependency edge.
type RemoveDependency struct {
	coordinator *engine.Coordinator
}

// NewRemoveDependency creates a new RemoveDependency use case.
func NewRemoveDependency(coordinator *engine.Coordinator) *RemoveDependency {
	return &RemoveDependency{coordinator: coordinator}
}

// Execute removes the edge if it belongs to the task.
func (uc *RemoveDependency) Execute(ctx context.Context, in RemoveDependencyInput) (*RemoveDependencyOutput, error) {
	result, err := uc.coordinator.RemoveDependency(ctx, in.TaskID, in.EdgeID)
	if err != nil {
		return nil, fmt.Errorf("remove dependency: %w", err)
	}
	return &RemoveDependencyOutput{Outcome: result.Outcome}, nil
}
