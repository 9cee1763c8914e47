package cmd

import (
	"fmt"

	"github.com/gnzdotmx/lessonflowai/internal/services/youtube"
	"github.com/gnzdotmx/lessonflowai/internal/utils"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize YouTube uploads",
	Long: `Open the Google consent page, receive the authorization on a local callback server
and store the token so later runs can upload without interaction.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		oauthCfg, err := youtube.OAuthConfig(cfg.YouTube)
		if err != nil {
			return err
		}
		storage, err := utils.NewTokenStorage(cfg.YouTube.TokenDir)
		if err != nil {
			return fmt.Errorf("failed to initialize token storage: %w", err)
		}

		token, err := youtube.Authorize(cmd.Context(), oauthCfg, storage, cfg.YouTube.CallbackPort)
		if err != nil {
			return err
		}
		if token.RefreshToken == "" {
			utils.LogWarning("Google returned no refresh token; the stored token will expire")
		}
		utils.LogSuccess("YouTube authorization stored")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(authCmd)
}
