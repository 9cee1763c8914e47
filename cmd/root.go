package cmd

import (
	"context"
	"errors"

	"github.com/gnzdotmx/lessonflowai/internal/config"
	"github.com/gnzdotmx/lessonflowai/internal/production"
	"github.com/gnzdotmx/lessonflowai/internal/utils"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Process exit codes
const (
	ExitOK            = 0
	ExitUsage         = 1
	ExitFatalSetup    = 2
	ExitLessonsFailed = 3
)

var (
	// verbosityLevel is the command-line flag for setting the log level
	verbosityLevel string
	// configPath is the optional YAML configuration file
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "lessonflowai",
	Short: "Produce and publish AI-generated video lessons",
	Long: `LessonFlowAI works through a content plan of lessons: for each pending lesson it
generates the script, narration, slides and videos, publishes a long-form video and a
short to YouTube, and records the published id in the plan.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set the global log level based on the flag
		utils.SetLogLevel(utils.LogLevelFromString(verbosityLevel))

		if err := godotenv.Load(); err != nil {
			utils.LogDebug("No .env file found - using environment variables")
		} else {
			utils.LogVerbose("Loaded environment variables from .env file")
		}
	},
}

// Execute runs the command line with ctx as the root context
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// ExitCode maps an error returned by Execute to the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case production.IsFatal(err):
		return ExitFatalSetup
	case errors.Is(err, production.ErrLessonsFailed):
		return ExitLessonsFailed
	default:
		return ExitUsage
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}

func init() {
	// Initialize global flags
	rootCmd.PersistentFlags().StringVarP(&verbosityLevel, "log-level", "l", "normal",
		"Set the logging verbosity level: quiet, normal, verbose, debug")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to the YAML configuration file (default "+config.DefaultConfigFile+" when present)")
}
