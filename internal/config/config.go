// Package config holds the run configuration of lessonflowai.
// Values come from an optional YAML file, then environment variables, then defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gnzdotmx/lessonflowai/internal/utils"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when --config is not given and the file exists
const DefaultConfigFile = "lessonflow.yaml"

// Content providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Narration engines
const (
	EnginePolly   = "polly"
	EngineCommand = "command"
)

// Config is the complete configuration handed to the orchestrator and its collaborators
type Config struct {
	Run       RunConfig       `yaml:"run"`
	Channel   ChannelConfig   `yaml:"channel"`
	Content   ContentConfig   `yaml:"content"`
	Narration NarrationConfig `yaml:"narration"`
	Render    RenderConfig    `yaml:"render"`
	Video     VideoConfig     `yaml:"video"`
	YouTube   YouTubeConfig   `yaml:"youtube"`
	Archive   ArchiveConfig   `yaml:"archive"`
}

// RunConfig controls scheduling of one orchestrator run
type RunConfig struct {
	QuotaPerRun         int           `yaml:"quotaPerRun"`         // max pending lessons attempted per run
	InterLessonCooldown time.Duration `yaml:"interLessonCooldown"` // wait between two lessons of the same run
	InterUploadCooldown time.Duration `yaml:"interUploadCooldown"` // wait between the long and short upload of a lesson
	WorkspaceDir        string        `yaml:"workspaceDir"`        // where media artifacts are written
	PlanFile            string        `yaml:"planFile"`            // the persisted content plan
	CleanupPatterns     []string      `yaml:"cleanupPatterns"`     // transient files removed at the end of a run
}

// ChannelConfig is the branding used in scripts, slides and upload metadata
type ChannelConfig struct {
	Presenter           string `yaml:"presenter"`
	Series              string `yaml:"series"`
	BrandHashtag        string `yaml:"brandHashtag"`
	ShortTitleMaxLength int    `yaml:"shortTitleMaxLength"`
	ShortTitlePrefix    string `yaml:"shortTitlePrefix"`
	DefaultHashtags     string `yaml:"defaultHashtags"`
}

// ContentConfig selects and tunes the text generation backend
type ContentConfig struct {
	Provider       string        `yaml:"provider"`
	Model          string        `yaml:"model"`
	Temperature    float32       `yaml:"temperature"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
	CurriculumSize int           `yaml:"curriculumSize"`
	GoogleAPIKey   string        `yaml:"-"`
	OpenAIAPIKey   string        `yaml:"-"`
}

// NarrationConfig selects the text-to-speech engine
type NarrationConfig struct {
	Engine  string `yaml:"engine"`
	Voice   string `yaml:"voice"`
	Region  string `yaml:"region"`
	Command string `yaml:"command"`
}

// RenderConfig is the look of slides and thumbnails
type RenderConfig struct {
	FontFile   string `yaml:"fontFile"`
	Background string `yaml:"background"`
	Foreground string `yaml:"foreground"`
	Accent     string `yaml:"accent"`
}

// VideoConfig tunes ffmpeg assembly
type VideoConfig struct {
	FPS             int     `yaml:"fps"`
	MinSlideSeconds float64 `yaml:"minSlideSeconds"`
	BackgroundMusic string  `yaml:"backgroundMusic"` // optional track looped under the narration
	MusicVolume     float64 `yaml:"musicVolume"`     // 0..1 gain applied to the music
}

// YouTubeConfig holds upload settings and credentials locations
type YouTubeConfig struct {
	Credentials   string `yaml:"credentials"`
	PrivacyStatus string `yaml:"privacyStatus"`
	CategoryID    string `yaml:"categoryId"`
	TokenDir      string `yaml:"tokenDir"`
	CallbackPort  int    `yaml:"callbackPort"`
	ClientID      string `yaml:"-"`
	ClientSecret  string `yaml:"-"`
	RefreshToken  string `yaml:"-"`
}

// ArchiveConfig enables copying published videos to S3. An empty bucket disables it.
type ArchiveConfig struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
	Region string `yaml:"region"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Run: RunConfig{
			QuotaPerRun:         1,
			InterLessonCooldown: 60 * time.Second,
			InterUploadCooldown: 30 * time.Second,
			WorkspaceDir:        "output",
			PlanFile:            "content_plan.json",
			CleanupPatterns:     []string{"*.wav", "concat_*.txt", "narration_*.txt", "*.part"},
		},
		Channel: ChannelConfig{
			Presenter:           "Chaitanya",
			Series:              "AI for Developers",
			BrandHashtag:        "#AIforDevelopers",
			ShortTitleMaxLength: 90,
			ShortTitlePrefix:    "AI Quick Tip",
			DefaultHashtags:     "#AI #Developer #LearnAI",
		},
		Content: ContentConfig{
			Provider:       ProviderGemini,
			Temperature:    0.7,
			RequestTimeout: 2 * time.Minute,
			CurriculumSize: 30,
		},
		Narration: NarrationConfig{
			Engine: EnginePolly,
			Voice:  "Matthew",
			Region: "us-east-1",
		},
		Render: RenderConfig{
			Background: "#0C111D",
			Foreground: "#FFFFFF",
			Accent:     "#4F8CFF",
		},
		Video: VideoConfig{
			FPS:             24,
			MinSlideSeconds: 2,
			MusicVolume:     0.15,
		},
		YouTube: YouTubeConfig{
			PrivacyStatus: "private",
			CategoryID:    "28",
			CallbackPort:  8080,
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (optional when path is the default
// file name and it is absent) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigFile
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
		utils.LogVerbose("Loaded configuration from %s", path)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, target *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*target = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup("LESSONFLOW_QUOTA_PER_RUN"); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return &utils.ValidationError{Field: "LESSONFLOW_QUOTA_PER_RUN", Message: "must be an integer", Err: err}
		}
		c.Run.QuotaPerRun = n
	}
	str("LESSONFLOW_WORKSPACE_DIR", &c.Run.WorkspaceDir)
	str("LESSONFLOW_PLAN_FILE", &c.Run.PlanFile)

	str("GOOGLE_API_KEY", &c.Content.GoogleAPIKey)
	str("OPENAI_API_KEY", &c.Content.OpenAIAPIKey)

	str("AWS_REGION", &c.Narration.Region)
	str("TTS_COMMAND", &c.Narration.Command)

	str("YOUTUBE_CLIENT_SECRETS", &c.YouTube.Credentials)
	str("YOUTUBE_CLIENT_ID", &c.YouTube.ClientID)
	str("YOUTUBE_CLIENT_SECRET", &c.YouTube.ClientSecret)
	str("YOUTUBE_REFRESH_TOKEN", &c.YouTube.RefreshToken)

	if c.Archive.Region == "" {
		c.Archive.Region = c.Narration.Region
	}

	return nil
}

// Validate checks the values the orchestrator relies on
func (c *Config) Validate() error {
	if c.Run.QuotaPerRun < 1 {
		return &utils.ValidationError{Field: "run.quotaPerRun", Message: fmt.Sprintf("must be at least 1, got %d", c.Run.QuotaPerRun)}
	}
	if c.Run.InterLessonCooldown < 0 {
		return &utils.ValidationError{Field: "run.interLessonCooldown", Message: "must not be negative"}
	}
	if c.Run.InterUploadCooldown < 0 {
		return &utils.ValidationError{Field: "run.interUploadCooldown", Message: "must not be negative"}
	}
	if strings.TrimSpace(c.Run.WorkspaceDir) == "" {
		return &utils.ValidationError{Field: "run.workspaceDir", Message: "is required"}
	}
	if strings.TrimSpace(c.Run.PlanFile) == "" {
		return &utils.ValidationError{Field: "run.planFile", Message: "is required"}
	}

	// YouTube rejects titles over 100 characters; the short title adds " #Shorts"
	if c.Channel.ShortTitleMaxLength < 1 || c.Channel.ShortTitleMaxLength > 92 {
		return &utils.ValidationError{Field: "channel.shortTitleMaxLength", Message: "must be between 1 and 92"}
	}

	switch c.Content.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return &utils.ValidationError{Field: "content.provider", Message: fmt.Sprintf("unknown provider %q", c.Content.Provider)}
	}
	if c.Content.CurriculumSize < 1 {
		return &utils.ValidationError{Field: "content.curriculumSize", Message: "must be at least 1"}
	}

	switch c.Narration.Engine {
	case EnginePolly, EngineCommand:
	default:
		return &utils.ValidationError{Field: "narration.engine", Message: fmt.Sprintf("unknown engine %q", c.Narration.Engine)}
	}

	switch c.YouTube.PrivacyStatus {
	case "private", "unlisted", "public":
	default:
		return &utils.ValidationError{Field: "youtube.privacyStatus", Message: fmt.Sprintf("invalid privacy status: %s", c.YouTube.PrivacyStatus)}
	}

	if c.Video.FPS <= 0 {
		return &utils.ValidationError{Field: "video.fps", Message: "must be positive"}
	}
	if c.Video.MinSlideSeconds < 0 {
		return &utils.ValidationError{Field: "video.minSlideSeconds", Message: "must not be negative"}
	}
	if c.Video.MusicVolume < 0 || c.Video.MusicVolume > 1 {
		return &utils.ValidationError{Field: "video.musicVolume", Message: fmt.Sprintf("must be between 0 and 1, got %g", c.Video.MusicVolume)}
	}

	if c.Render.FontFile != "" {
		if err := utils.ValidateExistingFile("render.fontFile", c.Render.FontFile, []string{".ttf"}); err != nil {
			return err
		}
	}

	return nil
}

// RequiredEnvVars lists the environment variables the selected providers need
func (c *Config) RequiredEnvVars() []string {
	var vars []string
	switch c.Content.Provider {
	case ProviderGemini:
		vars = append(vars, "GOOGLE_API_KEY")
	case ProviderOpenAI:
		vars = append(vars, "OPENAI_API_KEY")
	}
	if c.YouTube.Credentials == "" {
		vars = append(vars, "YOUTUBE_CLIENT_ID", "YOUTUBE_CLIENT_SECRET", "YOUTUBE_REFRESH_TOKEN")
	}
	return vars
}
