package tui

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdag/internal/app"
	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/engine"
	"github.com/runoshun/taskdag/internal/usecase"
)

// Board is a snapshot of one project as shown by the TUI.
type Board struct {
	Project  *domain.Project
	Anomaly  *engine.Anomaly
	Critical map[string]bool // task ids on the critical path
	Ready    map[string]bool // task ids whose prerequisites are all done
	Tasks    []*domain.Task  // prerequisite-first order
	Path     []string        // critical path, first prerequisite first
	Progress domain.Progress
}

// LoadBoard reads a project with its execution order and critical path.
// Tasks left out of the order by a cycle anomaly are appended in id order.
func LoadBoard(ctx context.Context, c *app.Container, projectID string) (*Board, error) {
	order, err := c.ShowExecutionOrderUseCase().Execute(ctx, usecase.ShowExecutionOrderInput{ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	cp, err := c.ShowCriticalPathUseCase().Execute(ctx, usecase.ShowCriticalPathInput{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("critical path: %w", err)
	}
	progress, err := c.ProjectProgressUseCase().Execute(ctx, usecase.ProjectProgressInput{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("progress: %w", err)
	}

	b := &Board{
		Project:  order.Project,
		Anomaly:  order.Report.Anomaly,
		Critical: make(map[string]bool, len(cp.Report.Path)),
		Ready:    make(map[string]bool, len(order.Report.Ready)),
		Tasks:    make([]*domain.Task, 0, len(order.Tasks)),
		Path:     cp.Report.Path,
		Progress: progress.Progress,
	}
	for _, id := range cp.Report.Path {
		b.Critical[id] = true
	}
	for _, id := range order.Report.Ready {
		b.Ready[id] = true
	}

	placed := make(map[string]bool, len(order.Tasks))
	for _, id := range order.Report.Order {
		if t := order.Tasks[id]; t != nil {
			b.Tasks = append(b.Tasks, t)
			placed[id] = true
		}
	}
	var rest []*domain.Task
	for id, t := range order.Tasks {
		if !placed[id] {
			rest = append(rest, t)
		}
	}
	domain.SortTasks(rest)
	b.Tasks = append(b.Tasks, rest...)

	return b, nil
}
