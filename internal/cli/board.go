package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/runoshun/taskdag/internal/app"
	"github.com/runoshun/taskdag/internal/tui"
	"github.com/runoshun/taskdag/internal/usecase"
)

// launchBoardFunc starts the interactive board. Tests replace it.
var launchBoardFunc = func(c *app.Container, projectID string) error {
	p := tea.NewProgram(tui.New(c, projectID), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// newBoardCommand creates the board command.
func newBoardCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "board <project-id>",
		Short: "Open the interactive board of a project",
		Long: `Open an interactive board listing the project's tasks in execution order.

Tasks on the critical path are marked, and tasks whose prerequisites are
all done are marked ready. Status keys (t, s, d, b) go through the same
checks as 'taskdag task status'. Press ? for all keys.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Fail before taking over the terminal.
			if _, err := c.ShowProjectUseCase().Execute(cmd.Context(), usecase.ShowProjectInput{ProjectID: args[0]}); err != nil {
				return err
			}
			return launchBoardFunc(c, args[0])
		},
	}
}
