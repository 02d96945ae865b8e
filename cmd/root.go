package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"loom/pkg/logging"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
)

var (
	logLevelFlag string
	noColorFlag  bool
)

// rootCmd represents the base command for the loom application.
var rootCmd = &cobra.Command{
	Use:   "loom",
	Short: "Project one assistant configuration into every editor",
	Long: `loom reads a single declarative document (loom.yaml) describing
skills, MCP servers, rules, prompts, and hooks, and projects it into the
native configuration layout of each supported editor.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.ParseLevel(logLevelFlag), cmd.ErrOrStderr())
	},
}

// SetVersion sets the version for the root command. Called from main to
// inject the build-time version.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "loom version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitCodeError)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newEditorsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
