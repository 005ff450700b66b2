package cmd

import (
	"github.com/spf13/cobra"

	"haligen/internal/config"
	"haligen/internal/installer"
	"haligen/internal/state"
)

// cleanupCmd removes utilities haligen installed into its temporary directory.
var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove temporarily installed utilities. Run once the HAL is complete.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := config.NewAppContext(configPath)
		if err != nil {
			return &usageError{err: err}
		}
		return installer.RemoveInstallDir(app.InstallDir, state.Open(app.StatePath))
	},
}
