package domain

import "time"

// Dependency is a directed edge: TaskID cannot become done until DependsOnID is done.
// Edges are unique per (TaskID, DependsOnID) pair and never point at their own task.
type Dependency struct {
	Created     time.Time `json:"created" yaml:"created"`
	ID          string    `json:"id" yaml:"id"`
	TaskID      string    `json:"taskID" yaml:"taskID"`           // The dependent task
	DependsOnID string    `json:"dependsOnID" yaml:"dependsOnID"` // The prerequisite task
}

// Clone returns a copy of the dependency.
func (d *Dependency) Clone() *Dependency {
	c := *d
	return &c
}

// Touches reports whether either endpoint of the edge is the given task.
func (d *Dependency) Touches(taskID string) bool {
	return d.TaskID == taskID || d.DependsOnID == taskID
}

// SortDependencies orders edges by id.
func SortDependencies(deps []*Dependency) {
	slicesSortByID(deps, func(d *Dependency) string { return d.ID })
}
