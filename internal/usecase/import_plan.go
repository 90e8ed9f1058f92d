package usecase

import (
	"context"
	"fmt"

	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/engine"
	"github.com/runoshun/taskdag/internal/graph"
)

// ImportPlanInput contains the parameters for importing a plan file.
type ImportPlanInput struct {
	Content []byte // YAML plan
	DryRun  bool   // If true, parse and validate without writing anything
}

// ImportedTask is a plan entry and the task created for it.
// In dry-run mode Task has no ID.
type ImportedTask struct {
	Task *domain.Task
	Key  string
}

// ImportedEdge is a depends_on entry of the plan and the engine's verdict.
// Fields are ordered to minimize memory padding.
type ImportedEdge struct {
	Dependency   *domain.Dependency // Nil in dry-run mode and for rejected edges
	TaskKey      string
	DependsOnKey string
	Outcome      engine.AddOutcome
}

// Reason describes why the edge was rejected. It is empty for added edges.
func (e ImportedEdge) Reason() string {
	if e.Outcome == engine.AddOutcomeAdded {
		return ""
	}
	return rejectionReason(e.Outcome, e.TaskKey == e.DependsOnKey)
}

// ImportPlanOutput contains the result of an import.
type ImportPlanOutput struct {
	Project *domain.Project
	Tasks   []ImportedTask
	Edges   []ImportedEdge
	DryRun  bool
}

// Rejected returns the edges that were not added.
func (o *ImportPlanOutput) Rejected() []ImportedEdge {
	var rejected []ImportedEdge
	for _, e := range o.Edges {
		if e.Outcome != engine.AddOutcomeAdded {
			rejected = append(rejected, e)
		}
	}
	return rejected
}

// ImportPlan is the use case for creating a project, its tasks and their
// dependencies from a plan file. Edges go through the dependency engine, so
// an edge closing a cycle is reported and skipped rather than failing the import.
type ImportPlan struct {
	projects    domain.ProjectStore
	tasks       domain.TaskStore
	coordinator *engine.Coordinator
	ids         domain.IDGenerator
	clock       domain.Clock
	logger      domain.Logger
}

// NewImportPlan creates a new ImportPlan use case.
func NewImportPlan(
	projects domain.ProjectStore,
	tasks domain.TaskStore,
	coordinator *engine.Coordinator,
	ids domain.IDGenerator,
	clock domain.Clock,
	logger domain.Logger,
) *ImportPlan {
	return &ImportPlan{
		projects:    projects,
		tasks:       tasks,
		coordinator: coordinator,
		ids:         ids,
		clock:       clock,
		logger:      logger,
	}
}

// Execute imports the plan.
func (uc *ImportPlan) Execute(ctx context.Context, in ImportPlanInput) (*ImportPlanOutput, error) {
	plan, err := domain.ParsePlan(in.Content)
	if err != nil {
		return nil, err
	}
	deadline, err := plan.Project.ParseDeadline()
	if err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	project := &domain.Project{
		Name:        plan.Project.Name,
		Description: plan.Project.Description,
		OwnerID:     plan.Project.Owner,
		Deadline:    deadline,
		Status:      domain.ProjectPlanning,
		Created:     now,
		Updated:     now,
	}
	out := &ImportPlanOutput{
		Project: project,
		Tasks:   make([]ImportedTask, 0, len(plan.Tasks)),
		DryRun:  in.DryRun,
	}
	for _, pt := range plan.Tasks {
		priority, _ := domain.ParsePriority(pt.Priority) // validated by ParsePlan
		out.Tasks = append(out.Tasks, ImportedTask{
			Key: pt.Key,
			Task: &domain.Task{
				Title:          pt.Title,
				Description:    pt.Description,
				Status:         domain.StatusTodo,
				Priority:       priority,
				AssigneeID:     pt.Assignee,
				EstimatedHours: pt.EstimatedHours,
				Created:        now,
				Updated:        now,
			},
		})
	}

	if in.DryRun {
		out.Edges = simulateEdges(plan)
		return out, nil
	}

	project.ID = uc.ids.NewID()
	if err := uc.projects.SaveProject(ctx, project); err != nil {
		return nil, fmt.Errorf("save project: %w", err)
	}

	idByKey := make(map[string]string, len(out.Tasks))
	for _, it := range out.Tasks {
		it.Task.ID = uc.ids.NewID()
		it.Task.ProjectID = project.ID
		if err := uc.tasks.SaveTask(ctx, it.Task); err != nil {
			return nil, fmt.Errorf("save task %q: %w", it.Key, err)
		}
		idByKey[it.Key] = it.Task.ID
	}

	for _, pt := range plan.Tasks {
		for _, depKey := range pt.DependsOn {
			result, err := uc.coordinator.AddDependency(ctx, idByKey[pt.Key], idByKey[depKey])
			if err != nil {
				return nil, fmt.Errorf("add dependency %q -> %q: %w", pt.Key, depKey, err)
			}
			edge := ImportedEdge{TaskKey: pt.Key, DependsOnKey: depKey, Outcome: result.Outcome}
			if result.Outcome == engine.AddOutcomeAdded {
				edge.Dependency = result.Dependency
			}
			out.Edges = append(out.Edges, edge)
		}
	}

	if uc.logger != nil {
		uc.logger.Info(project.ID, "import", fmt.Sprintf("imported %q: %d tasks, %d edges, %d rejected",
			project.Name, len(out.Tasks), len(out.Edges), len(out.Rejected())))
	}

	return out, nil
}

// simulateEdges replays the plan's edges in file order against an in-memory
// graph keyed by plan keys, producing the outcomes a real import would.
func simulateEdges(plan *domain.Plan) []ImportedEdge {
	keys := make([]string, 0, len(plan.Tasks))
	for _, pt := range plan.Tasks {
		keys = append(keys, pt.Key)
	}

	var (
		accepted []graph.Edge
		seen     = make(map[graph.Edge]bool)
		edges    []ImportedEdge
	)
	for _, pt := range plan.Tasks {
		for _, depKey := range pt.DependsOn {
			e := graph.Edge{Task: pt.Key, DependsOn: depKey}
			outcome := engine.AddOutcomeAdded
			switch {
			case pt.Key == depKey:
				outcome = engine.AddOutcomeWouldCycle
			case seen[e]:
				outcome = engine.AddOutcomeAlreadyExists
			case graph.New(keys, accepted).WouldCycle(pt.Key, depKey):
				outcome = engine.AddOutcomeWouldCycle
			default:
				accepted = append(accepted, e)
				seen[e] = true
			}
			edges = append(edges, ImportedEdge{TaskKey: pt.Key, DependsOnKey: depKey, Outcome: outcome})
		}
	}
	return edges
}
