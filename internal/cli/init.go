package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskboard/internal/config"
	"github.com/mesh-intelligence/taskboard/internal/models"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize taskboard storage",
		Long:  "Create the configuration file and the database, applying the schema.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The config file is written while loading; opening the store
			// creates the database and applies the schema.
			err := a.withStore(func(*models.Manager) error { return nil })
			if err != nil {
				return fmt.Errorf("initialize storage: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config: %s\n", config.Path(a.configDir))
			fmt.Fprintf(out, "Database: %s\n", a.cfg.DBPath)
			fmt.Fprintln(out, "Taskboard initialized successfully")
			return nil
		},
	}
}
