// Package usecase contains application use cases.
package usecase

import (
	"fmt"
	"strings"

	"github.com/runoshun/taskdag/internal/domain"
)

// TransitionBlockedError is returned when a task cannot move to done
// because some of its prerequisites are not done yet.
type TransitionBlockedError struct {
	TaskID   string
	Blocking []string // IDs of the incomplete prerequisites
	Count    int
}

func (e *TransitionBlockedError) Error() string {
	return fmt.Sprintf("task has %d incomplete dependencies", e.Count)
}

// DependencyRejectedError describes an edge the engine refused to add.
// See AddDependencyOutput.Err.
type DependencyRejectedError struct {
	TaskID      string
	DependsOnID string
	Reason      string
}

func (e *DependencyRejectedError) Error() string {
	return fmt.Sprintf("cannot add dependency %s -> %s: %s", e.TaskID, e.DependsOnID, e.Reason)
}

// optionalString trims s and reports whether it was set.
func optionalString(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return strings.TrimSpace(*s), true
}

func validateEstimate(hours *float64) error {
	if hours != nil && *hours < 0 {
		return domain.ErrNegativeEstimate
	}
	return nil
}
