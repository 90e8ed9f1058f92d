package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/taskdag/internal/app"
	"github.com/runoshun/taskdag/internal/usecase"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the taskdag data directory",
		Long: `Initialize the taskdag data directory.

This command creates the data directory (default ./.taskdag) with:
- config.toml: commented configuration template (kept if present)
- logs/: directory for log files
- the store configured by [store] (store.json by default)

Running init again is harmless.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitStoreUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitStoreInput{
				DataDir: c.Config.DataDir,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "Initialized taskdag in %s\n", out.DataDir)
			if out.ConfigCreated {
				_, _ = fmt.Fprintf(w, "Created config: %s\n", out.ConfigPath)
			}
			return nil
		},
	}
}
