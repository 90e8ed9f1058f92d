package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskdag/internal/app"
	"github.com/runoshun/taskdag/internal/domain"
	"github.com/runoshun/taskdag/internal/usecase"
)

// newDepCommand creates the dep command group.
func newDepCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dep",
		Aliases: []string{"d"},
		Short:   "Manage task dependencies",
		Long: `Manage dependency edges between tasks of the same project.

'taskdag dep add B A' records that B depends on A: B cannot be marked
done until A is done. Edges that would create a cycle are rejected.`,
	}

	cmd.AddCommand(
		newDepAddCommand(c),
		newDepRmCommand(c),
		newDepListCommand(c),
		newDepDependentsCommand(c),
	)

	return cmd
}

func newDepAddCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "add <task-id> <depends-on-id>",
		Short: "Make a task depend on another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.AddDependencyUseCase().Execute(cmd.Context(), usecase.AddDependencyInput{
				TaskID:      args[0],
				DependsOnID: args[1],
			})
			if err != nil {
				return err
			}
			if err := out.Err(); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added dependency %s: %s depends on %s\n",
				out.Dependency.ID, out.TaskID, out.DependsOnID)
			return nil
		},
	}
}

func newDepRmCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task-id> <edge-id>",
		Short: "Remove a dependency of a task",
		Long: `Remove a dependency edge. The edge must belong to the given task,
that is, the task must be its dependent side. Edge ids are shown by
'taskdag dep list <task-id>'.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.RemoveDependencyUseCase().Execute(cmd.Context(), usecase.RemoveDependencyInput{
				TaskID: args[0],
				EdgeID: args[1],
			})
			if err != nil {
				return err
			}
			if !out.Removed() {
				return fmt.Errorf("%w: %s on task %s", domain.ErrDependencyNotFound, args[1], args[0])
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed dependency %s\n", args[1])
			return nil
		},
	}
}

func newDepListCommand(c *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list <task-id>",
		Short: "List the tasks a task depends on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.ListDependenciesUseCase().Execute(cmd.Context(), usecase.ListDependenciesInput{TaskID: args[0]})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out.Dependencies)
			}
			printDependencyViews(cmd.OutOrStdout(), newStyles(cmd.OutOrStdout()), out.Dependencies)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")

	return cmd
}

func newDepDependentsCommand(c *app.Container) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "dependents <task-id>",
		Short: "List the tasks that depend on a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := c.ListDependentsUseCase().Execute(cmd.Context(), usecase.ListDependentsInput{TaskID: args[0]})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out.Dependents)
			}
			printDependencyViews(cmd.OutOrStdout(), newStyles(cmd.OutOrStdout()), out.Dependents)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")

	return cmd
}

// printDependencyViews renders edges with the task on their far end.
func printDependencyViews(w io.Writer, st styles, views []usecase.DependencyView) {
	if len(views) == 0 {
		_, _ = fmt.Fprintln(w, "  (none)")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, v := range views {
		if v.Task == nil {
			_, _ = fmt.Fprintf(tw, "  %s\t%s\n", v.Dependency.ID, st.Muted.Render("(missing task)"))
			continue
		}
		_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", v.Dependency.ID, v.Task.ID, v.Task.Title, st.status(v.Task.Status))
	}
	_ = tw.Flush()
}
