package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskdag/internal/app"
	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/usecase"
)

// newTaskCommand creates the task command group.
func newTaskCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"t"},
		Short:   "Manage tasks",
	}

	cmd.AddCommand(
		newTaskNewCommand(c),
		newTaskListCommand(c),
		newTaskShowCommand(c),
		newTaskEditCommand(c),
		newTaskStatusCommand(c),
		newTaskRmCommand(c),
	)

	return cmd
}

func newTaskNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Estimate    float64
		Project     string
		Title       string
		Description string
		Priority    string
		Assignee    string
	}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a task",
		Long: `Create a task in a project. The task starts in 'todo'.

Examples:
  taskdag task new --project p1 --title "Design API"
  taskdag task new --project p1 --title "Build API" --priority high --estimate 6`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input := usecase.NewTaskInput{
				ProjectID:   opts.Project,
				Title:       opts.Title,
				Description: opts.Description,
				Priority:    opts.Priority,
				AssigneeID:  opts.Assignee,
			}
			if cmd.Flags().Changed("estimate") {
				input.EstimatedHours = &opts.Estimate
			}

			out, err := c.NewTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created task %s: %s\n", out.Task.ID, out.Task.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Project, "project", "", "Project id (required)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "Task title (required)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "Task description")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "Priority (low, medium, high, urgent; default medium)")
	cmd.Flags().StringVar(&opts.Assignee, "assignee", "", "Assignee id")
	cmd.Flags().Float64Var(&opts.Estimate, "estimate", 0, "Estimated hours")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTaskListCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Project  string
		Status   string
		Priority string
		Assignee string
		JSON     bool
	}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the tasks of a project",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := c.ListTasksUseCase().Execute(cmd.Context(), usecase.ListTasksInput{
				ProjectID:  opts.Project,
				Status:     opts.Status,
				Priority:   opts.Priority,
				AssigneeID: opts.Assignee,
			})
			if err != nil {
				return err
			}
			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), out.Tasks)
			}
			if len(out.Tasks) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
				return nil
			}
			printTaskTable(cmd.OutOrStdout(), out.Tasks)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Project, "project", "", "Project id (required)")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "Filter by priority")
	cmd.Flags().StringVar(&opts.Assignee, "assignee", "", "Filter by assignee")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Output in JSON format")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

// printTaskTable renders tasks in a table. The status badge is the last
// column so color codes do not disturb the alignment.
func printTaskTable(w io.Writer, tasks []*domain.Task) {
	st := newStyles(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTITLE\tPRIORITY\tASSIGNEE\tESTIMATE\tSTATUS")
	for _, t := range tasks {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Title, t.Priority, orDash(t.AssigneeID), formatHours(t.EstimatedHours), st.status(t.Status))
	}
	_ = tw.Flush()
}

type taskShowView struct {
	Task          *domain.Task             `json:"task"`
	Prerequisites []usecase.DependencyView `json:"prerequisites"`
	Dependents    []usecase.DependencyView `json:"dependents"`
	Blocking      []string                 `json:"blocking"`
}

func newTaskShowCommand(c *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show task details and dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.ShowTaskUseCase().Execute(cmd.Context(), usecase.ShowTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}
			if asJSON {
				v := taskShowView{
					Task:          out.Task,
					Prerequisites: out.Prerequisites,
					Dependents:    out.Dependents,
					Blocking:      out.Blocking,
				}
				if v.Blocking == nil {
					v.Blocking = []string{}
				}
				return writeJSON(cmd.OutOrStdout(), v)
			}
			printTaskShow(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")

	return cmd
}

func printTaskShow(w io.Writer, out *usecase.ShowTaskOutput) {
	st := newStyles(w)
	t := out.Task

	_, _ = fmt.Fprintf(w, "%s %s\n", st.Title.Render(t.Title), st.Muted.Render("("+t.ID+")"))
	_, _ = fmt.Fprintf(w, "Project:  %s\n", t.ProjectID)
	_, _ = fmt.Fprintf(w, "Status:   %s\n", st.status(t.Status))
	_, _ = fmt.Fprintf(w, "Priority: %s\n", t.Priority)
	_, _ = fmt.Fprintf(w, "Assignee: %s\n", orDash(t.AssigneeID))
	_, _ = fmt.Fprintf(w, "Estimate: %s\n", formatHours(t.EstimatedHours))
	_, _ = fmt.Fprintf(w, "Created:  %s\n", formatTime(t.Created))
	_, _ = fmt.Fprintf(w, "Updated:  %s\n", formatTime(t.Updated))
	if t.Description != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", t.Description)
	}

	_, _ = fmt.Fprintf(w, "\n%s\n", st.Label.Render("Depends on:"))
	printDependencyViews(w, st, out.Prerequisites)

	_, _ = fmt.Fprintf(w, "\n%s\n", st.Label.Render("Required by:"))
	printDependencyViews(w, st, out.Dependents)

	if len(out.Blocking) > 0 {
		_, _ = fmt.Fprintf(w, "\n%s %s\n",
			st.Error.Render(fmt.Sprintf("Blocked by %d incomplete dependencies:", len(out.Blocking))),
			strings.Join(out.Blocking, ", "))
	}
}

func newTaskEditCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Estimate      float64
		Title         string
		Description   string
		Priority      string
		Assignee      string
		ClearEstimate bool
	}

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Edit a task",
		Long: `Edit a task. Only the given flags are changed.
Use 'taskdag task status' to change the status.

Examples:
  taskdag task edit t1 --title "New title"
  taskdag task edit t1 --priority urgent --assignee bob
  taskdag task edit t1 --clear-estimate`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := usecase.EditTaskInput{TaskID: args[0], ClearEstimate: opts.ClearEstimate}
			flags := cmd.Flags()
			if flags.Changed("title") {
				input.Title = &opts.Title
			}
			if flags.Changed("description") {
				input.Description = &opts.Description
			}
			if flags.Changed("priority") {
				input.Priority = &opts.Priority
			}
			if flags.Changed("assignee") {
				input.AssigneeID = &opts.Assignee
			}
			if flags.Changed("estimate") {
				input.EstimatedHours = &opts.Estimate
			}

			out, err := c.EditTaskUseCase().Execute(cmd.Context(), input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", out.Task.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Title, "title", "", "New title")
	cmd.Flags().StringVar(&opts.Description, "description", "", "New description")
	cmd.Flags().StringVar(&opts.Priority, "priority", "", "New priority")
	cmd.Flags().StringVar(&opts.Assignee, "assignee", "", "New assignee id (empty to unassign)")
	cmd.Flags().Float64Var(&opts.Estimate, "estimate", 0, "New estimated hours")
	cmd.Flags().BoolVar(&opts.ClearEstimate, "clear-estimate", false, "Remove the estimate")
	cmd.MarkFlagsMutuallyExclusive("estimate", "clear-estimate")

	return cmd
}

func newTaskStatusCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "status <task-id> <status>",
		Short: "Change the status of a task",
		Long: `Change the status of a task to todo, in_progress, done or blocked.

A task can only be marked done when every task it depends on is done.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.UpdateTaskStatusUseCase().Execute(cmd.Context(), usecase.UpdateTaskStatusInput{
				TaskID: args[0],
				Status: args[1],
			})
			if err != nil {
				var blocked *usecase.TransitionBlockedError
				if errors.As(err, &blocked) {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Blocked by: %s\n", strings.Join(blocked.Blocking, ", "))
				}
				return err
			}

			if out.Previous == out.Task.Status {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s is already %s\n", out.Task.ID, out.Task.Status)
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Task %s: %s -> %s\n", out.Task.ID, out.Previous, out.Task.Status)
			return nil
		},
	}
}

func newTaskRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task-id>",
		Short: "Delete a task and its dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.DeleteTaskUseCase().Execute(cmd.Context(), usecase.DeleteTaskInput{TaskID: args[0]})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s: %s\n", out.Task.ID, out.Task.Title)
			return nil
		},
	}
}
