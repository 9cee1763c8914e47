package cmd

import (
	"context"
	"fmt"

	"github.com/gnzdotmx/lessonflowai/internal/config"
	"github.com/gnzdotmx/lessonflowai/internal/production"
	"github.com/gnzdotmx/lessonflowai/internal/utils"
	"github.com/gnzdotmx/lessonflowai/internal/validator"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Produce and publish the next pending lessons",
	Long: `Run the orchestrator once: load or create the content plan, then produce and publish
up to run.quotaPerRun pending lessons, saving the plan after each one.

Exit status: 0 success or nothing pending, 1 usage or configuration error,
2 fatal setup error, 3 finished with failed lessons.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// Validate that external dependencies are installed
		if err := validator.ValidateExternalTools(validator.RequiredTools, nil); err != nil {
			return &production.FatalSetupError{Stage: "dependencies", Err: err}
		}

		return runOnce(cmd.Context(), cfg)
	},
}

// runOnce builds the orchestrator and runs it a single time
func runOnce(ctx context.Context, cfg *config.Config) error {
	orchestrator, release, err := buildOrchestrator(ctx, cfg)
	if err != nil {
		return &production.FatalSetupError{Stage: "setup", Err: err}
	}
	defer release()

	summary, err := orchestrator.Run(ctx)
	if production.IsFatal(err) {
		utils.LogError("Run aborted: %v", err)
		return err
	}
	if err != nil {
		return fmt.Errorf("run %s: %w", summary.RunID, err)
	}
	utils.LogSuccess("Run %s completed", summary.RunID)
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)
}
