package cmd

import (
	"fmt"
	"strings"

	"github.com/gnzdotmx/lessonflowai/internal/config"
	"github.com/gnzdotmx/lessonflowai/internal/services/narration"
	"github.com/gnzdotmx/lessonflowai/internal/utils"
	"github.com/gnzdotmx/lessonflowai/internal/validator"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate environment setup",
	Long:  `Check the configuration, the external tools and the environment variables a run needs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		utils.LogInfo("Validating environment...")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		utils.LogSuccess("Configuration: OK")

		required, optional := toolsFor(cfg)
		if err := validator.ValidateExternalTools(required, optional); err != nil {
			return fmt.Errorf("external tools validation failed: %w", err)
		}
		utils.LogSuccess("External tools: OK")

		if err := validator.ValidateEnvVars(cfg.RequiredEnvVars()); err != nil {
			return fmt.Errorf("environment variables validation failed: %w", err)
		}
		utils.LogSuccess("Environment variables: OK")

		utils.LogSuccess("Environment validation completed successfully")
		return nil
	},
}

// toolsFor makes edge-tts required when the command narration engine runs it
func toolsFor(cfg *config.Config) (required, optional []validator.ExternalTool) {
	required = append(required, validator.RequiredTools...)
	if cfg.Narration.Engine == config.EngineCommand {
		command := cfg.Narration.Command
		if command == "" {
			command = narration.DefaultCommand
		}
		if fields := strings.Fields(command); len(fields) > 0 && fields[0] == validator.EdgeTTS.Name {
			return append(required, validator.EdgeTTS), nil
		}
	}
	return required, []validator.ExternalTool{validator.EdgeTTS}
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
