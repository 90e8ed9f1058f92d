package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/graph"
)

// Anomaly describes graph data that should not exist given the engine's
// invariants. It degrades a result instead of failing it.
type Anomaly struct {
	// Unresolved lists tasks on or behind a cycle. They are excluded from results.
	Unresolved []string `json:"unresolved,omitempty"`
	// Dangling counts edges pointing at tasks outside the project.
	Dangling int `json:"dangling,omitempty"`
}

func (a *Anomaly) String() string {
	var parts []string
	if len(a.Unresolved) > 0 {
		parts = append(parts, fmt.Sprintf("cycle through %d task(s): %s",
			len(a.Unresolved), strings.Join(a.Unresolved, ", ")))
	}
	if a.Dangling > 0 {
		parts = append(parts, fmt.Sprintf("%d dependency edge(s) outside the project", a.Dangling))
	}
	return strings.Join(parts, "; ")
}

func newAnomaly(unresolved []string, dangling int) *Anomaly {
	if len(unresolved) == 0 && dangling == 0 {
		return nil
	}
	return &Anomaly{Unresolved: unresolved, Dangling: dangling}
}

// PathNode is a critical path entry enriched with task attributes.
// Fields are ordered to minimize memory padding.
type PathNode struct {
	EstimatedHours *float64        `json:"estimatedHours,omitempty"`
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Status         domain.Status   `json:"status"`
	Priority       domain.Priority `json:"priority"`
	AssigneeID     string          `json:"assigneeID,omitempty"`
	Position       int             `json:"position"`
	Critical       bool            `json:"critical"`
}

// CriticalPathReport is the critical path of a project with presentation data.
// Fields are ordered to minimize memory padding.
type CriticalPathReport struct {
	Anomaly    *Anomaly     `json:"anomaly,omitempty"`
	ProjectID  string       `json:"projectID"`
	Path       []string     `json:"path"`
	Nodes      []PathNode   `json:"nodes"`
	Edges      []graph.Edge `json:"edges"` // consecutive path nodes; Task depends on DependsOn
	TotalHours float64      `json:"totalHours"`
	Length     int          `json:"length"` // edges on the path
}

// OrderReport is a topological execution order of a project.
type OrderReport struct {
	Anomaly   *Anomaly `json:"anomaly,omitempty"`
	ProjectID string   `json:"projectID"`
	Order     []string `json:"order"`
	// Ready lists tasks that are not done and whose prerequisites are all done.
	Ready []string `json:"ready"`
}

// CriticalPath computes the longest dependency chains of projects.
// Concurrent requests for the same project share one graph load.
type CriticalPath struct {
	accessor *Accessor
	logger   domain.Logger
	loads    singleflight.Group
}

// NewCriticalPath creates a new CriticalPath engine.
func NewCriticalPath(accessor *Accessor, logger domain.Logger) *CriticalPath {
	return &CriticalPath{
		accessor: accessor,
		logger:   orNop(logger),
	}
}

// CriticalPath returns the task ids of the project's longest dependency
// chain, first prerequisite first. It is empty for a project without tasks.
func (c *CriticalPath) CriticalPath(ctx context.Context, projectID string) ([]string, error) {
	report, err := c.Report(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return report.Path, nil
}

// Report computes the critical path with its nodes, edges and estimate.
func (c *CriticalPath) Report(ctx context.Context, projectID string) (*CriticalPathReport, error) {
	snap, err := c.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	path := snap.Graph.LongestPath()
	report := &CriticalPathReport{
		ProjectID: projectID,
		Path:      path.Nodes,
		Length:    path.Length,
		Nodes:     make([]PathNode, 0, len(path.Nodes)),
		Edges:     make([]graph.Edge, 0, path.Length),
		Anomaly:   newAnomaly(path.Unresolved, snap.Dangling),
	}
	if report.Path == nil {
		report.Path = []string{}
	}
	for i, id := range path.Nodes {
		t := snap.Task(id)
		report.Nodes = append(report.Nodes, PathNode{
			ID:             t.ID,
			Title:          t.Title,
			Status:         t.Status,
			Priority:       t.Priority,
			AssigneeID:     t.AssigneeID,
			EstimatedHours: t.EstimatedHours,
			Position:       i + 1,
			Critical:       true,
		})
		report.TotalHours += t.Estimate()
		if i > 0 {
			report.Edges = append(report.Edges, graph.Edge{Task: id, DependsOn: path.Nodes[i-1]})
		}
	}
	c.warnAnomaly(projectID, "critical-path", report.Anomaly)
	return report, nil
}

// ExecutionOrder returns an order in which the project's tasks can be done.
func (c *CriticalPath) ExecutionOrder(ctx context.Context, projectID string) (*OrderReport, error) {
	snap, err := c.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	order := snap.Graph.TopologicalOrder()
	report := &OrderReport{
		ProjectID: projectID,
		Order:     order.Sorted,
		Ready:     []string{},
		Anomaly:   newAnomaly(order.Unresolved, snap.Dangling),
	}
	for _, id := range order.Sorted {
		if snap.Task(id).IsDone() {
			continue
		}
		ready := true
		for _, p := range snap.Graph.Prerequisites(id) {
			if !snap.Task(p).IsDone() {
				ready = false
				break
			}
		}
		if ready {
			report.Ready = append(report.Ready, id)
		}
	}
	c.warnAnomaly(projectID, "order", report.Anomaly)
	return report, nil
}

// load shares one snapshot between concurrent callers for the same project.
// A caller whose shared load failed only because the leading caller was
// cancelled loads again on its own context.
func (c *CriticalPath) load(ctx context.Context, projectID string) (*Snapshot, error) {
	ch := c.loads.DoChan(projectID, func() (any, error) {
		return c.accessor.LoadProject(ctx, projectID)
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load project graph: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			if isContextErr(res.Err) && ctx.Err() == nil {
				return c.accessor.LoadProject(ctx, projectID)
			}
			return nil, res.Err
		}
		snap, _ := res.Val.(*Snapshot)
		return snap, nil
	}
}

func (c *CriticalPath) warnAnomaly(projectID, category string, a *Anomaly) {
	if a == nil {
		return
	}
	c.logger.Warn(projectID, category, "consistency anomaly: "+a.String())
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
