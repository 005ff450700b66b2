package cmd

import (
	"github.com/spf13/cobra"

	"haligen/internal/logger"
)

// Version is reported by `haligen --version`.
const Version = "0.1.0"

// debug flag indicates whether debug logging should be enabled.
var debug bool

// noColor disables colored output, e.g. when logs are redirected to a file.
var noColor bool

// configPath points at an optional YAML config file. Empty means <app dir>/config.yaml.
var configPath string

// rootCmd is the base command for the CLI tool `haligen`.
var rootCmd = &cobra.Command{
	Use:     "haligen",
	Short:   "Ada HAL crate generator for microcontrollers",
	Version: Version,

	// Errors are reported once by Execute, which also picks the exit status.
	SilenceErrors: true,
	SilenceUsage:  true,

	// PersistentPreRun runs before any subcommand and sets up logging.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(debug, noColor)
	},
}

// Execute runs the CLI and returns the process exit status.
func Execute() int {
	return exitCode(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default <user config dir>/haligen/config.yaml)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(cleanupCmd)
}
