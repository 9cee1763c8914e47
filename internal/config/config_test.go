package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gnzdotmx/lessonflowai/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"*.wav", "concat_*.txt", "narration_*.txt", "*.part"}, cfg.Run.CleanupPatterns)
	assert.Empty(t, cfg.Video.BackgroundMusic)
	assert.Equal(t, 0.15, cfg.Video.MusicVolume)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "zero quota", mutate: func(c *Config) { c.Run.QuotaPerRun = 0 }, wantErr: "run.quotaPerRun"},
		{name: "negative lesson cooldown", mutate: func(c *Config) { c.Run.InterLessonCooldown = -time.Second }, wantErr: "run.interLessonCooldown"},
		{name: "negative upload cooldown", mutate: func(c *Config) { c.Run.InterUploadCooldown = -time.Second }, wantErr: "run.interUploadCooldown"},
		{name: "empty workspace", mutate: func(c *Config) { c.Run.WorkspaceDir = " " }, wantErr: "run.workspaceDir"},
		{name: "empty plan file", mutate: func(c *Config) { c.Run.PlanFile = "" }, wantErr: "run.planFile"},
		{name: "title budget too large", mutate: func(c *Config) { c.Channel.ShortTitleMaxLength = 95 }, wantErr: "channel.shortTitleMaxLength"},
		{name: "unknown provider", mutate: func(c *Config) { c.Content.Provider = "bard" }, wantErr: "content.provider"},
		{name: "unknown engine", mutate: func(c *Config) { c.Narration.Engine = "gtts" }, wantErr: "narration.engine"},
		{name: "bad privacy", mutate: func(c *Config) { c.YouTube.PrivacyStatus = "secret" }, wantErr: "youtube.privacyStatus"},
		{name: "zero fps", mutate: func(c *Config) { c.Video.FPS = 0 }, wantErr: "video.fps"},
		{name: "music too loud", mutate: func(c *Config) { c.Video.MusicVolume = 1.5 }, wantErr: "video.musicVolume"},
		{name: "negative music volume", mutate: func(c *Config) { c.Video.MusicVolume = -0.1 }, wantErr: "video.musicVolume"},
		{name: "missing font", mutate: func(c *Config) { c.Render.FontFile = "/nope/font.ttf" }, wantErr: "render.fontFile"},
		{name: "openai provider", mutate: func(c *Config) { c.Content.Provider = ProviderOpenAI }},
		{name: "command engine", mutate: func(c *Config) { c.Narration.Engine = EngineCommand }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var vErr *utils.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantErr, vErr.Field)
		})
	}
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	t.Setenv("LESSONFLOW_QUOTA_PER_RUN", "")
	t.Setenv("LESSONFLOW_WORKSPACE_DIR", "")
	t.Setenv("LESSONFLOW_PLAN_FILE", "/tmp/plan-from-env.json")
	t.Setenv("GOOGLE_API_KEY", "g-key")

	path := filepath.Join(t.TempDir(), "lessonflow.yaml")
	yamlContent := `run:
  quotaPerRun: 3
  interLessonCooldown: 2m
  interUploadCooldown: 45s
  workspaceDir: media
channel:
  presenter: Ada
youtube:
  privacyStatus: unlisted
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Run.QuotaPerRun)
	assert.Equal(t, 2*time.Minute, cfg.Run.InterLessonCooldown)
	assert.Equal(t, 45*time.Second, cfg.Run.InterUploadCooldown)
	assert.Equal(t, "media", cfg.Run.WorkspaceDir)
	assert.Equal(t, "/tmp/plan-from-env.json", cfg.Run.PlanFile)
	assert.Equal(t, "Ada", cfg.Channel.Presenter)
	assert.Equal(t, "AI for Developers", cfg.Channel.Series, "unset keys keep defaults")
	assert.Equal(t, "unlisted", cfg.YouTube.PrivacyStatus)
	assert.Equal(t, "g-key", cfg.Content.GoogleAPIKey)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("run: [unterminated"), 0644))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("invalid quota from env", func(t *testing.T) {
		t.Setenv("LESSONFLOW_QUOTA_PER_RUN", "many")
		path := filepath.Join(t.TempDir(), "ok.yaml")
		require.NoError(t, os.WriteFile(path, []byte("run:\n  quotaPerRun: 1\n"), 0644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestApplyEnv_Credentials(t *testing.T) {
	env := map[string]string{
		"YOUTUBE_CLIENT_SECRETS": "/secrets/client.json",
		"YOUTUBE_REFRESH_TOKEN":  "r",
		"AWS_REGION":             "eu-west-1",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.applyEnv(lookup))
	assert.Equal(t, "/secrets/client.json", cfg.YouTube.Credentials)
	assert.Equal(t, "r", cfg.YouTube.RefreshToken)
	assert.Equal(t, "eu-west-1", cfg.Narration.Region)
	assert.Equal(t, "eu-west-1", cfg.Archive.Region)

	cfg = Default()
	cfg.YouTube.Credentials = "/from/yaml.json"
	require.NoError(t, cfg.applyEnv(lookup))
	assert.Equal(t, "/secrets/client.json", cfg.YouTube.Credentials, "YOUTUBE_CLIENT_SECRETS overrides the yaml path")
}

func TestApplyEnv_IgnoresServiceAccountCredentials(t *testing.T) {
	env := map[string]string{
		"GOOGLE_APPLICATION_CREDENTIALS": "/secrets/service-account.json",
		"YOUTUBE_CLIENT_ID":              "id",
		"YOUTUBE_CLIENT_SECRET":          "secret",
		"YOUTUBE_REFRESH_TOKEN":          "r",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.applyEnv(lookup))
	assert.Empty(t, cfg.YouTube.Credentials)
	assert.Equal(t, "id", cfg.YouTube.ClientID)
	assert.Equal(t, "secret", cfg.YouTube.ClientSecret)
	assert.Equal(t, []string{"GOOGLE_API_KEY", "YOUTUBE_CLIENT_ID", "YOUTUBE_CLIENT_SECRET", "YOUTUBE_REFRESH_TOKEN"}, cfg.RequiredEnvVars())
}

func TestRequiredEnvVars(t *testing.T) {
	cfg := Default()
	assert.Equal(t, []string{"GOOGLE_API_KEY", "YOUTUBE_CLIENT_ID", "YOUTUBE_CLIENT_SECRET", "YOUTUBE_REFRESH_TOKEN"}, cfg.RequiredEnvVars())

	cfg.Content.Provider = ProviderOpenAI
	cfg.YouTube.Credentials = "client.json"
	assert.Equal(t, []string{"OPENAI_API_KEY"}, cfg.RequiredEnvVars())
}
