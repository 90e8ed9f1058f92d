// Package cli provides the command-line interface for taskdag.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/runoshun/taskdag/internal/app"
	"github.com/runoshun/taskdag/internal/domain"
)

// Command group IDs.
const (
	groupSetup   = "setup"
	groupProject = "project"
	groupTask    = "task"
)

// EnvDataDir overrides the default data directory.
const EnvDataDir = "TASKDAG_DIR"

// DataDir resolves the data directory from the command line, the environment
// and the working directory, in that order of precedence.
// It only looks at --data-dir; every other argument is left to cobra.
func DataDir(args []string, cwd string) string {
	fs := pflag.NewFlagSet("data-dir", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	dir := fs.String("data-dir", "", "")
	_ = fs.Parse(args)

	switch {
	case *dir != "":
		return absPath(*dir, cwd)
	case os.Getenv(EnvDataDir) != "":
		return absPath(os.Getenv(EnvDataDir), cwd)
	default:
		return filepath.Join(cwd, domain.DefaultDataDirName)
	}
}

func absPath(path, cwd string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cwd, path)
}

// NewRootCommand creates the root command for taskdag.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:   "taskdag",
		Short: "Task dependency graph CLI",
		Long: `taskdag tracks tasks within projects and the dependencies between them.

A task cannot be marked done until every task it depends on is done.
Edges that would create a cycle are rejected, and the critical path
(the longest dependency chain) of a project can be shown at any time.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c == nil || c.AppConfig == nil {
				return nil
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
	}

	// Resolved by DataDir before the container is built; declared here for help and parsing.
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "Data directory (default ./"+domain.DefaultDataDirName+", env "+EnvDataDir+")")

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupProject, Title: "Project Management:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
	)

	initCmd := newInitCommand(c)
	initCmd.GroupID = groupSetup

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	importCmd := newImportCommand(c)
	importCmd.GroupID = groupProject

	projectCmd := newProjectCommand(c)
	projectCmd.GroupID = groupProject

	boardCmd := newBoardCommand(c)
	boardCmd.GroupID = groupProject

	taskCmd := newTaskCommand(c)
	taskCmd.GroupID = groupTask

	depCmd := newDepCommand(c)
	depCmd.GroupID = groupTask

	root.AddCommand(
		initCmd,
		configCmd,
		importCmd,
		projectCmd,
		boardCmd,
		taskCmd,
		depCmd,
	)

	return root
}
