package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdag/internal/domain"
)

// ListProjectsInput contains the parameters for listing projects.
type ListProjectsInput struct {
	Status  string // Filter by status (empty = all)
	OwnerID string // Filter by owner (empty = all)
}

// ListProjectsOutput contains the listed projects.
type ListProjectsOutput struct {
	Projects []*domain.Project
}

// ListProjects is the use case for listing projects.
type ListProjects struct {
	projects domain.ProjectStore
}

// NewListProjects creates a new ListProjects use case.
func NewListProjects(projects domain.ProjectStore) *ListProjects {
	return &ListProjects{projects: projects}
}

// Execute returns the projects ordered by id. Both filters apply together.
func (uc *ListProjects) Execute(ctx context.Context, in ListProjectsInput) (*ListProjectsOutput, error) {
	var filter domain.ProjectStatus
	if in.Status != "" {
		filter = domain.ProjectStatus(in.Status)
		if !filter.IsValid() {
			return nil, domain.ErrInvalidStatus
		}
	}

	projects, err := uc.projects.ListProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	if filter != "" || in.OwnerID != "" {
		kept := projects[:0]
		for _, p := range projects {
			if filter != "" && p.Status != filter {
				continue
			}
			if in.OwnerID != "" && p.OwnerID != in.OwnerID {
				continue
			}
			kept = append(kept, p)
		}
		projects = kept
	}
	return &ListProjectsOutput{Projects: projects}, nil
}
