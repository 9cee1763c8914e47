package cmd

import (
	"context"
	"fmt"

	"github.com/gnzdotmx/lessonflowai/internal/config"
	"github.com/gnzdotmx/lessonflowai/internal/plan"
	"github.com/gnzdotmx/lessonflowai/internal/production"
	"github.com/gnzdotmx/lessonflowai/internal/services/archive"
	"github.com/gnzdotmx/lessonflowai/internal/services/chatgpt"
	"github.com/gnzdotmx/lessonflowai/internal/services/content"
	"github.com/gnzdotmx/lessonflowai/internal/services/gemini"
	"github.com/gnzdotmx/lessonflowai/internal/services/narration"
	"github.com/gnzdotmx/lessonflowai/internal/services/slides"
	"github.com/gnzdotmx/lessonflowai/internal/services/video"
	"github.com/gnzdotmx/lessonflowai/internal/services/youtube"
	"github.com/gnzdotmx/lessonflowai/internal/utils"
)

// newGenerator is swapped in tests to keep runs off the network
var newGenerator = connectGenerator

// connectGenerator connects the configured LLM provider. The returned func releases the client.
func connectGenerator(ctx context.Context, cfg *config.Config) (*content.Generator, func(), error) {
	switch cfg.Content.Provider {
	case config.ProviderOpenAI:
		svc, err := chatgpt.NewChatGPTService(cfg.Content.OpenAIAPIKey, chatgpt.CompletionOptions{
			Model:          cfg.Content.Model,
			Temperature:    cfg.Content.Temperature,
			RequestTimeout: cfg.Content.RequestTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		return content.NewGenerator(svc, cfg), func() {}, nil
	case config.ProviderGemini:
		svc, err := gemini.NewService(ctx, cfg.Content.GoogleAPIKey, gemini.Options{
			Model:          cfg.Content.Model,
			Temperature:    cfg.Content.Temperature,
			RequestTimeout: cfg.Content.RequestTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		release := func() {
			if err := svc.Close(); err != nil {
				utils.LogWarning("Failed to close Gemini client: %v", err)
			}
		}
		return content.NewGenerator(svc, cfg), release, nil
	default:
		return nil, nil, fmt.Errorf("unknown content provider %q", cfg.Content.Provider)
	}
}

// buildOrchestrator wires every collaborator of a production run. Nothing here talks to
// YouTube: the publisher authenticates on its first upload.
func buildOrchestrator(ctx context.Context, cfg *config.Config) (*production.Orchestrator, func(), error) {
	generator, release, err := newGenerator(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	fail := func(err error) (*production.Orchestrator, func(), error) {
		release()
		return nil, nil, err
	}

	narrator, err := narration.New(cfg.Narration)
	if err != nil {
		return fail(err)
	}
	renderer, err := slides.NewRenderer(cfg.Render, cfg.Channel)
	if err != nil {
		return fail(err)
	}
	collaborators := production.Collaborators{
		Content:   generator,
		Narrator:  narrator,
		Renderer:  renderer,
		Assembler: video.NewAssembler(cfg.Video),
		Publisher: youtube.NewChannelPublisher(cfg.YouTube),
	}
	archiver, err := archive.New(cfg.Archive)
	if err != nil {
		return fail(err)
	}
	if archiver != nil {
		collaborators.Archiver = archiver
		utils.LogVerbose("Archiving published videos to s3://%s", cfg.Archive.Bucket)
	}

	producer, err := production.NewProducer(production.ProducerConfig{
		WorkspaceDir:        cfg.Run.WorkspaceDir,
		InterUploadCooldown: cfg.Run.InterUploadCooldown,
		Channel:             cfg.Channel,
	}, collaborators)
	if err != nil {
		return fail(err)
	}

	store := plan.NewStore(cfg.Run.PlanFile, generator)
	return production.NewOrchestrator(cfg.Run, store, producer, nil), release, nil
}
