package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskdag/internal/app"
	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/usecase"
)

type importTaskView struct {
	Task *domain.Task `json:"task"`
	Key  string       `json:"key"`
}

type importEdgeView struct {
	Dependency   *domain.Dependency `json:"dependency,omitempty"`
	TaskKey      string             `json:"task"`
	DependsOnKey string             `json:"dependsOn"`
	Outcome      string             `json:"outcome"`
	Reason       string             `json:"reason,omitempty"`
}

type importView struct {
	Project *domain.Project  `json:"project"`
	Tasks   []importTaskView `json:"tasks"`
	Edges   []importEdgeView `json:"edges"`
	DryRun  bool             `json:"dryRun"`
}

// newImportCommand creates the import command.
func newImportCommand(c *app.Container) *cobra.Command {
	var opts struct {
		DryRun bool
		JSON   bool
	}

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Create a project from a YAML plan",
		Long: `Create a project, its tasks and their dependencies from a YAML plan.
Use "-" to read the plan from stdin.

Dependencies go through the same checks as 'taskdag dep add': an edge
that would create a cycle is reported and skipped, the rest is imported.

File format:
  project:
    name: Launch
    description: First release
    owner: alice
    deadline: 2025-03-01
  tasks:
    - key: design
      title: Design API
      estimated_hours: 3
    - key: build
      title: Build API
      priority: high
      depends_on: [design]

Examples:
  # Import a plan
  taskdag import plan.yaml

  # Validate a plan without writing anything
  taskdag import plan.yaml --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			out, err := c.ImportPlanUseCase().Execute(cmd.Context(), usecase.ImportPlanInput{
				Content: content,
				DryRun:  opts.DryRun,
			})
			if err != nil {
				return err
			}

			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), newImportView(out))
			}
			printImport(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Validate and report without writing")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return content, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return content, nil
}

func newImportView(out *usecase.ImportPlanOutput) importView {
	v := importView{
		Project: out.Project,
		Tasks:   make([]importTaskView, 0, len(out.Tasks)),
		Edges:   make([]importEdgeView, 0, len(out.Edges)),
		DryRun:  out.DryRun,
	}
	for _, t := range out.Tasks {
		v.Tasks = append(v.Tasks, importTaskView{Key: t.Key, Task: t.Task})
	}
	for _, e := range out.Edges {
		v.Edges = append(v.Edges, importEdgeView{
			Dependency:   e.Dependency,
			TaskKey:      e.TaskKey,
			DependsOnKey: e.DependsOnKey,
			Outcome:      e.Outcome.String(),
			Reason:       e.Reason(),
		})
	}
	return v
}

func printImport(w io.Writer, out *usecase.ImportPlanOutput) {
	st := newStyles(w)
	rejected := out.Rejected()
	added := len(out.Edges) - len(rejected)

	if out.DryRun {
		_, _ = fmt.Fprintf(w, "Dry run: would import project %q\n", out.Project.Name)
	} else {
		_, _ = fmt.Fprintf(w, "Imported project %q (%s)\n", out.Project.Name, out.Project.ID)
	}
	_, _ = fmt.Fprintf(w, "  %d tasks, %d dependencies\n", len(out.Tasks), added)

	for _, t := range out.Tasks {
		if out.DryRun {
			_, _ = fmt.Fprintf(w, "  - %s: %s\n", t.Key, t.Task.Title)
		} else {
			_, _ = fmt.Fprintf(w, "  - %s: %s %s\n", t.Key, t.Task.Title, st.Muted.Render("("+t.Task.ID+")"))
		}
	}

	if len(rejected) > 0 {
		_, _ = fmt.Fprintln(w, st.Warning.Render(fmt.Sprintf("Skipped %d dependencies:", len(rejected))))
		for _, e := range rejected {
			_, _ = fmt.Fprintf(w, "  - %s -> %s: %s\n", e.TaskKey, e.DependsOnKey, e.Reason())
		}
	}
}
