package production

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gnzdotmx/lessonflowai/internal/config"
	"github.com/gnzdotmx/lessonflowai/internal/plan"
	"github.com/gnzdotmx/lessonflowai/internal/utils"
)

// ProducerConfig is the part of the configuration the single-lesson sequence reads
type ProducerConfig struct {
	WorkspaceDir        string
	InterUploadCooldown time.Duration
	Channel             config.ChannelConfig
}

// Collaborators are the external capabilities a Producer drives. Archiver is optional.
type Collaborators struct {
	Content   ContentProvider
	Narrator  Narrator
	Renderer  SlideRenderer
	Assembler Assembler
	Publisher Publisher
	Waiter    Waiter
	Archiver  Archiver
}

// Producer runs content → narration → slides → video → publish for one lesson
type Producer struct {
	cfg ProducerConfig
	c   Collaborators
	now func() time.Time
}

// variantArtifacts are the files produced for one video variant
type variantArtifacts struct {
	video     string
	thumbnail string
}

// NewProducer creates a Producer. Every collaborator except the Archiver is required.
func NewProducer(cfg ProducerConfig, c Collaborators) (*Producer, error) {
	switch {
	case c.Content == nil:
		return nil, errors.New("content provider is required")
	case c.Narrator == nil:
		return nil, errors.New("narrator is required")
	case c.Renderer == nil:
		return nil, errors.New("slide renderer is required")
	case c.Assembler == nil:
		return nil, errors.New("video assembler is required")
	case c.Publisher == nil:
		return nil, errors.New("publisher is required")
	}
	if c.Waiter == nil {
		c.Waiter = SleepWaiter{}
	}
	return &Producer{cfg: cfg, c: c, now: time.Now}, nil
}

// Produce runs the whole sequence for lesson and returns the long-form video id.
// The lesson only succeeds when both the long-form and the short-form uploads succeed.
func (p *Producer) Produce(ctx context.Context, lesson plan.Lesson) (string, error) {
	key := ArtifactKey(p.now(), lesson)
	utils.LogInfo("▶️ Starting production for lesson %q (%s)", lesson.Title, key)

	content, err := p.c.Content.LessonContent(ctx, lesson.Title)
	if err != nil {
		return "", fmt.Errorf("content generation failed: %w", err)
	}
	if content == nil || len(content.LongFormSlides) == 0 {
		return "", errors.New("content generation returned no long-form slides")
	}
	utils.LogVerbose("Generated %d long-form slides", len(content.LongFormSlides))

	long, err := p.produceLong(ctx, lesson, content, key)
	if err != nil {
		return "", fmt.Errorf("long-form production failed: %w", err)
	}

	highlight := ShortHighlight(content.ShortFormHighlight, lesson.Title, p.cfg.Channel.ShortTitlePrefix)
	short, err := p.produceShort(ctx, lesson, highlight, key)
	if err != nil {
		return "", fmt.Errorf("short-form production failed: %w", err)
	}

	utils.LogInfo("📤 Uploading long-form video")
	hashtags := Hashtags(content.Hashtags, p.cfg.Channel.DefaultHashtags)
	longID, err := p.c.Publisher.Publish(ctx, Upload{
		VideoPath:     long.video,
		Title:         LongTitle(lesson.Title),
		Description:   LongDescription(p.cfg.Channel, lesson.Title, hashtags),
		Tags:          LongTags(lesson.Title),
		ThumbnailPath: long.thumbnail,
	})
	if err != nil {
		return "", fmt.Errorf("long-form upload failed: %w", err)
	}
	if longID == "" {
		return "", fmt.Errorf("long-form upload failed: %w", ErrNotPublished)
	}
	utils.LogSuccess("Long-form video published: %s", utils.Highlight(watchURL+longID))
	p.archive(ctx, long.video)

	utils.LogInfo("⏳ Waiting %s before uploading the short", p.cfg.InterUploadCooldown)
	if err := p.c.Waiter.Wait(ctx, p.cfg.InterUploadCooldown); err != nil {
		return "", fmt.Errorf("interrupted before short upload (long-form %s already published): %w", longID, err)
	}

	shortID, err := p.c.Publisher.Publish(ctx, Upload{
		VideoPath:     short.video,
		Title:         ShortTitle(content.ShortFormHighlight, lesson.Title, p.cfg.Channel.ShortTitlePrefix, p.cfg.Channel.ShortTitleMaxLength),
		Description:   ShortDescription(p.cfg.Channel, longID),
		Tags:          ShortTags(),
		ThumbnailPath: short.thumbnail,
	})
	if err == nil && shortID == "" {
		err = ErrNotPublished
	}
	if err != nil {
		return "", fmt.Errorf("short-form upload failed (long-form %s already published): %w", longID, err)
	}
	utils.LogSuccess("Short video published: %s", utils.Highlight(watchURL+shortID))
	p.archive(ctx, short.video)

	return longID, nil
}

func (p *Producer) produceLong(ctx context.Context, lesson plan.Lesson, content *LessonContent, key string) (*variantArtifacts, error) {
	ws := p.cfg.WorkspaceDir

	utils.LogInfo("🎤 Synthesizing long-form narration")
	script := LongScript(p.cfg.Channel, lesson.Title, content.LongFormSlides)
	audio, err := p.c.Narrator.Synthesize(ctx, script, filepath.Join(ws, fmt.Sprintf("long_audio_%s.mp3", key)))
	if err != nil {
		return nil, fmt.Errorf("narration failed: %w", err)
	}

	slidesDir := filepath.Join(ws, fmt.Sprintf("slides_long_%s", key))
	if err := utils.EnsureDir(slidesDir); err != nil {
		return nil, err
	}

	slides := PresentationSlides(p.cfg.Channel, lesson, content.LongFormSlides)
	utils.LogInfo("🖼️ Rendering %d slides", len(slides))
	images := make([]string, 0, len(slides))
	for i, slide := range slides {
		path, err := p.c.Renderer.RenderSlide(ctx, slidesDir, SlideSpec{
			Variant: VariantLong,
			Slide:   slide,
			Number:  i + 1,
			Total:   len(slides),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to render slide %d: %w", i+1, err)
		}
		images = append(images, path)
	}

	thumb, err := p.c.Renderer.RenderThumbnail(ctx, filepath.Join(ws, fmt.Sprintf("thumb_long_%s.png", key)), VariantLong, lesson.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to render thumbnail: %w", err)
	}

	video := filepath.Join(ws, fmt.Sprintf("long_video_%s.mp4", key))
	utils.LogInfo("🎥 Assembling long-form video %s", video)
	if err := p.c.Assembler.Assemble(ctx, images, audio, video, VariantLong); err != nil {
		return nil, fmt.Errorf("video assembly failed: %w", err)
	}

	return &variantArtifacts{video: video, thumbnail: thumb}, nil
}

func (p *Producer) produceShort(ctx context.Context, lesson plan.Lesson, highlight, key string) (*variantArtifacts, error) {
	ws := p.cfg.WorkspaceDir

	utils.LogInfo("🎤 Synthesizing short narration")
	audio, err := p.c.Narrator.Synthesize(ctx, highlight, filepath.Join(ws, fmt.Sprintf("short_audio_%s.mp3", key)))
	if err != nil {
		return nil, fmt.Errorf("narration failed: %w", err)
	}

	slidesDir := filepath.Join(ws, fmt.Sprintf("slides_short_%s", key))
	if err := utils.EnsureDir(slidesDir); err != nil {
		return nil, err
	}

	image, err := p.c.Renderer.RenderSlide(ctx, slidesDir, SlideSpec{
		Variant: VariantShort,
		Slide:   ShortSlide(p.cfg.Channel, highlight),
		Number:  1,
		Total:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render short slide: %w", err)
	}

	thumbTitle := "Quick Tip: " + strings.TrimSpace(lesson.Title)
	thumb, err := p.c.Renderer.RenderThumbnail(ctx, filepath.Join(ws, fmt.Sprintf("thumb_short_%s.png", key)), VariantShort, thumbTitle)
	if err != nil {
		return nil, fmt.Errorf("failed to render thumbnail: %w", err)
	}

	video := filepath.Join(ws, fmt.Sprintf("short_video_%s.mp4", key))
	utils.LogInfo("🎥 Assembling short video %s", video)
	if err := p.c.Assembler.Assemble(ctx, []string{image}, audio, video, VariantShort); err != nil {
		return nil, fmt.Errorf("video assembly failed: %w", err)
	}

	return &variantArtifacts{video: video, thumbnail: thumb}, nil
}

// archive copies a published video to long-term storage; failures never fail the lesson
func (p *Producer) archive(ctx context.Context, path string) {
	if p.c.Archiver == nil {
		return
	}
	if err := p.c.Archiver.Archive(ctx, path); err != nil {
		utils.LogWarning("Failed to archive %s: %v", filepath.Base(path), err)
	}
}
