package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskdag/internal/app"
	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/engine"
	"github.com/runoshun/taskdag/internal/usecase"
)

// newProjectCommand creates the project command group.
func newProjectCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"p"},
		Short:   "Manage projects",
	}

	cmd.AddCommand(
		newProjectNewCommand(c),
		newProjectListCommand(c),
		newProjectShowCommand(c),
		newProjectEditCommand(c),
		newProjectRmCommand(c),
		newProjectProgressCommand(c),
		newProjectCriticalPathCommand(c),
		newProjectOrderCommand(c),
	)

	return cmd
}

func newProjectNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Name        string
		Description string
		Owner       string
		Deadline    string
		Status      string
	}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a project",
		Long: `Create a project.

Examples:
  taskdag project new --name "Launch" --deadline 2025-03-01
  taskdag project new --name "Backlog" --status active --owner alice`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.CreateProjectInput{
				Name:        opts.Name,
				Description: opts.Description,
				OwnerID:     opts.Owner,
				Status:      opts.Status,
			}
			if opts.Deadline != "" {
				d, err := parseDate(opts.Deadline)
				if err != nil {
					return err
				}
				input.Deadline = d
			}

			out, err := c.CreateProjectUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created project %s: %s\n", out.Project.ID, out.Project.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "Project name (required)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "Project description")
	cmd.Flags().StringVar(&opts.Owner, "owner", "", "Owner id")
	cmd.Flags().StringVar(&opts.Deadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Initial status (planning, active, on_hold, completed, cancelled)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Status string
		Owner  string
		JSON   bool
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListProjectsUseCase().Execute(cmd.Context(), usecase.ListProjectsInput{
				Status:  opts.Status,
				OwnerID: opts.Owner,
			})
			if err != nil {
				return err
			}
			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), out.Projects)
			}
			printProjectList(cmd.OutOrStdout(), out.Projects)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&opts.Owner, "owner", "", "Filter by owner id")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")

	return cmd
}

func printProjectList(w io.Writer, projects []*domain.Project) {
	if len(projects) == 0 {
		_, _ = fmt.Fprintln(w, "No projects found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tOWNER\tDEADLINE")
	for _, p := range projects {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Status, orDash(p.OwnerID), formatDate(p.Deadline))
	}
	_ = tw.Flush()
}

type projectShowView struct {
	Project  *domain.Project `json:"project"`
	Tasks    []*domain.Task  `json:"tasks"`
	Progress domain.Progress `json:"progress"`
}

func newProjectShowCommand(c *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show project details and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.ShowProjectUseCase().Execute(cmd.Context(), usecase.ShowProjectInput{ProjectID: args[0]})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), projectShowView{
					Project:  out.Project,
					Tasks:    out.Tasks,
					Progress: out.Progress,
				})
			}
			printProjectShow(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")

	return cmd
}

func printProjectShow(w io.Writer, out *usecase.ShowProjectOutput) {
	st := newStyles(w)
	p := out.Project

	_, _ = fmt.Fprintf(w, "%s %s\n", st.Title.Render(p.Name), st.Muted.Render("("+p.ID+")"))
	_, _ = fmt.Fprintf(w, "Status:   %s\n", p.Status)
	_, _ = fmt.Fprintf(w, "Owner:    %s\n", orDash(p.OwnerID))
	_, _ = fmt.Fprintf(w, "Deadline: %s\n", formatDate(p.Deadline))
	_, _ = fmt.Fprintf(w, "Progress: %s\n", formatProgress(out.Progress))
	_, _ = fmt.Fprintf(w, "Created:  %s\n", formatTime(p.Created))
	if p.Description != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", p.Description)
	}

	_, _ = fmt.Fprintln(w)
	if len(out.Tasks) == 0 {
		_, _ = fmt.Fprintln(w, "No tasks.")
		return
	}
	printTaskTable(w, out.Tasks)
}

func newProjectEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Name          string
		Description   string
		Owner         string
		Status        string
		Deadline      string
		ClearDeadline bool
	}

	cmd := &cobra.Command{
		Use:   "edit <project-id>",
		Short: "Edit a project",
		Long: `Edit a project. Only the given flags are changed.

Examples:
  taskdag project edit p1 --status active
  taskdag project edit p1 --clear-deadline`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.EditProjectInput{ProjectID: args[0], ClearDeadline: opts.ClearDeadline}
			flags := cmd.Flags()
			if flags.Changed("name") {
				input.Name = &opts.Name
			}
			if flags.Changed("description") {
				input.Description = &opts.Description
			}
			if flags.Changed("owner") {
				input.OwnerID = &opts.Owner
			}
			if flags.Changed("status") {
				input.Status = &opts.Status
			}
			if flags.Changed("deadline") {
				d, err := parseDate(opts.Deadline)
				if err != nil {
					return err
				}
				input.Deadline = &d
			}

			out, err := c.EditProjectUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s\n", out.Project.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "New name")
	cmd.Flags().StringVar(&opts.Description, "description", "", "New description")
	cmd.Flags().StringVar(&opts.Owner, "owner", "", "New owner id")
	cmd.Flags().StringVar(&opts.Status, "status", "", "New status")
	cmd.Flags().StringVar(&opts.Deadline, "deadline", "", "New deadline (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&opts.ClearDeadline, "clear-deadline", false, "Remove the deadline")
	cmd.MarkFlagsMutuallyExclusive("deadline", "clear-deadline")

	return cmd
}

func newProjectRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <project-id>",
		Short: "Delete a project with its tasks and dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.DeleteProjectUseCase().Execute(cmd.Context(), usecase.DeleteProjectInput{ProjectID: args[0]}); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", args[0])
			return nil
		},
	}
}

type progressView struct {
	ProjectID string `json:"projectID"`
	domain.Progress
}

func newProjectProgressCommand(c *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "progress <project-id>",
		Short: "Show task completion of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.ProjectProgressUseCase().Execute(cmd.Context(), usecase.ProjectProgressInput{ProjectID: args[0]})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), progressView{ProjectID: out.ProjectID, Progress: out.Progress})
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", out.ProjectID, formatProgress(out.Progress))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")

	return cmd
}

func newProjectCriticalPathCommand(c *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "critical-path <project-id>",
		Aliases: []string{"cp"},
		Short:   "Show the longest dependency chain of a project",
		Long: `Show the critical path: the longest chain of dependencies in a project,
first prerequisite first. Chain length counts dependency edges; estimated
hours are summed for information only.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.ShowCriticalPathUseCase().Execute(cmd.Context(), usecase.ShowCriticalPathInput{ProjectID: args[0]})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out.Report)
			}
			printCriticalPath(cmd.OutOrStdout(), out.Project, out.Report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")

	return cmd
}

func printCriticalPath(w io.Writer, project *domain.Project, report *engine.CriticalPathReport) {
	st := newStyles(w)

	if len(report.Nodes) == 0 {
		_, _ = fmt.Fprintf(w, "Project %q has no tasks.\n", project.Name)
		printAnomaly(w, st, report.Anomaly)
		return
	}

	header := fmt.Sprintf("Critical path of %q: %d tasks, %d edges, %s estimated",
		project.Name, len(report.Nodes), report.Length, formatHours(&report.TotalHours))
	_, _ = fmt.Fprintln(w, st.Title.Render(header))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, n := range report.Nodes {
		_, _ = fmt.Fprintf(tw, "  %d.\t%s\t%s\t%s\t%s\n", n.Position, n.ID, n.Title, formatHours(n.EstimatedHours), st.status(n.Status))
	}
	_ = tw.Flush()
	printAnomaly(w, st, report.Anomaly)
}

func newProjectOrderCommand(c *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "order <project-id>",
		Short: "Show an order in which the tasks can be done",
		Long: `Show a topological order of the project's tasks: every task comes after
all of its prerequisites. Tasks that can be started now are marked ready.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.ShowExecutionOrderUseCase().Execute(cmd.Context(), usecase.ShowExecutionOrderInput{ProjectID: args[0]})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out.Report)
			}
			printExecutionOrder(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")

	return cmd
}

func printExecutionOrder(w io.Writer, out *usecase.ShowExecutionOrderOutput) {
	st := newStyles(w)
	report := out.Report

	if len(report.Order) == 0 {
		_, _ = fmt.Fprintf(w, "Project %q has no tasks.\n", out.Project.Name)
		printAnomaly(w, st, report.Anomaly)
		return
	}

	ready := make(map[string]bool, len(report.Ready))
	for _, id := range report.Ready {
		ready[id] = true
	}

	_, _ = fmt.Fprintln(w, st.Title.Render(fmt.Sprintf("Execution order of %q:", out.Project.Name)))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, id := range report.Order {
		t := out.Tasks[id]
		if t == nil {
			continue
		}
		mark := ""
		if ready[id] {
			mark = "  " + st.Critical.Render("ready")
		}
		_, _ = fmt.Fprintf(tw, "  %d.\t%s\t%s\t%s%s\n", i+1, id, t.Title, st.status(t.Status), mark)
	}
	_ = tw.Flush()
	printAnomaly(w, st, report.Anomaly)
}

func printAnomaly(w io.Writer, st styles, a *engine.Anomaly) {
	if a == nil {
		return
	}
	_, _ = fmt.Fprintln(w, st.Warning.Render("Warning: "+a.String()))
}
