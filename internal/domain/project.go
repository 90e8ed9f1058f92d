package domain

import (
	"slices"
	"strings"
	"time"
)

// Project owns a set of tasks and the dependency edges between them.
// Fields are ordered to minimize memory padding.
type Project struct {
	Created     time.Time     `json:"created" yaml:"created"`
	Updated     time.Time     `json:"updated" yaml:"updated"`
	Deadline    time.Time     `json:"deadline,omitempty" yaml:"deadline,omitempty"` // Zero = no deadline
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	OwnerID     string        `json:"ownerID,omitempty" yaml:"ownerID,omitempty"`
	Status      ProjectStatus `json:"status" yaml:"status"`
}

// Clone returns a copy of the project.
func (p *Project) Clone() *Project {
	c := *p
	return &c
}

// Validate checks the fields a stored project must always satisfy.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if !p.Status.IsValid() {
		return ErrInvalidStatus
	}
	return nil
}

// Progress summarizes task completion within a project.
type Progress struct {
	Completion     float64 `json:"completion"` // Percent of tasks done (0 for an empty project)
	TotalTasks     int     `json:"totalTasks"`
	CompletedTasks int     `json:"completedTasks"`
}

// ComputeProgress derives completion figures from a task list.
func ComputeProgress(tasks []*Task) Progress {
	p := Progress{TotalTasks: len(tasks)}
	for _, t := range tasks {
		if t.IsDone() {
			p.CompletedTasks++
		}
	}
	if p.TotalTasks > 0 {
		p.Completion = float64(p.CompletedTasks) / float64(p.TotalTasks) * 100
	}
	return p
}

// SortProjects orders projects by id.
func SortProjects(projects []*Project) {
	slicesSortByID(projects, func(p *Project) string { return p.ID })
}

func slicesSortByID[T any](items []T, id func(T) string) {
	slices.SortFunc(items, func(a, b T) int {
		return strings.Compare(id(a), id(b))
	})
}
