// Package domain contains core business entities and interfaces.
package domain

import (
	"strings"
	"time"
)

// Task represents a unit of work inside a project.
// A task refers to its project by id only.
// Fields are ordered to minimize memory padding.
type Task struct {
	Created        time.Time `json:"created" yaml:"created"`
	Updated        time.Time `json:"updated" yaml:"updated"`
	EstimatedHours *float64  `json:"estimatedHours,omitempty" yaml:"estimatedHours,omitempty"` // nil = no estimate
	ID             string    `json:"id" yaml:"id"`
	ProjectID      string    `json:"projectID" yaml:"projectID"`
	Title          string    `json:"title" yaml:"title"`                                 // Title (required)
	Description    string    `json:"description,omitempty" yaml:"description,omitempty"` // Description (optional)
	AssigneeID     string    `json:"assigneeID,omitempty" yaml:"assigneeID,omitempty"`   // Assigned user (empty = unassigned)
	Status         Status    `json:"status" yaml:"status"`
	Priority       Priority  `json:"priority" yaml:"priority"`
}

// IsDone reports whether the task has reached the terminal done state.
func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

// Estimate returns the estimated hours, or 0 when no estimate is set.
func (t *Task) Estimate() float64 {
	if t.EstimatedHours == nil {
		return 0
	}
	return *t.EstimatedHours
}

// Clone returns a copy of the task that shares no pointers with the original.
func (t *Task) Clone() *Task {
	c := *t
	if t.EstimatedHours != nil {
		h := *t.EstimatedHours
		c.EstimatedHours = &h
	}
	return &c
}

// Validate checks the fields a stored task must always satisfy.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if t.ProjectID == "" {
		return ErrProjectRequired
	}
	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}
	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}
	if t.EstimatedHours != nil && *t.EstimatedHours < 0 {
		return ErrNegativeEstimate
	}
	return nil
}

// SortTasks orders tasks by id, the order every store and the engine use.
func SortTasks(tasks []*Task) {
	slicesSortByID(tasks, func(t *Task) string { return t.ID })
}
