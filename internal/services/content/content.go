// Package content turns a language model into the curriculum and lesson content providers.
// It owns the prompts and the parsing of the JSON the model answers with; the model itself
// is any Completer (Gemini or OpenAI).
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gnzdotmx/lessonflowai/internal/config"
	"github.com/gnzdotmx/lessonflowai/internal/plan"
	"github.com/gnzdotmx/lessonflowai/internal/production"
	"github.com/gnzdotmx/lessonflowai/internal/utils"
)

// Completer sends a single prompt to a language model and returns the text of its answer
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator implements plan.Curriculum and production.ContentProvider on top of a Completer
type Generator struct {
	llm            Completer
	curriculumSize int
	channel        config.ChannelConfig
}

var (
	_ plan.Curriculum            = (*Generator)(nil)
	_ production.ContentProvider = (*Generator)(nil)
)

// NewGenerator creates a Generator
func NewGenerator(llm Completer, cfg *config.Config) *Generator {
	return &Generator{
		llm:            llm,
		curriculumSize: cfg.Content.CurriculumSize,
		channel:        cfg.Channel,
	}
}

type curriculumResponse struct {
	Lessons []struct {
		Chapter plan.Ident `json:"chapter"`
		Part    plan.Ident `json:"part"`
		Title   string     `json:"title"`
	} `json:"lessons"`
}

// GenerateCurriculum asks the model for the ordered list of lessons of the series
func (g *Generator) GenerateCurriculum(ctx context.Context) ([]plan.Lesson, error) {
	utils.LogInfo("🤖 Generating a %d-lesson curriculum for %q", g.curriculumSize, g.channel.Series)

	answer, err := g.llm.Complete(ctx, curriculumPrompt(g.channel.Series, g.curriculumSize))
	if err != nil {
		return nil, fmt.Errorf("curriculum request failed: %w", err)
	}

	var resp curriculumResponse
	if err := decodeJSON(answer, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse curriculum: %w", err)
	}

	lessons := make([]plan.Lesson, 0, len(resp.Lessons))
	for i, l := range resp.Lessons {
		title := strings.TrimSpace(l.Title)
		if title == "" {
			utils.LogWarning("Skipping curriculum entry %d without a title", i+1)
			continue
		}
		chapter, part := l.Chapter, l.Part
		if chapter.IsZero() {
			chapter = plan.IntIdent(1)
		}
		if part.IsZero() {
			part = plan.IntIdent(i + 1)
		}
		lessons = append(lessons, plan.Lesson{
			Chapter: chapter,
			Part:    part,
			Title:   title,
			Status:  plan.StatusPending,
		})
	}
	if len(lessons) == 0 {
		return nil, errors.New("curriculum contains no lessons")
	}

	utils.LogSuccess("Curriculum generated with %d lessons", len(lessons))
	return lessons, nil
}

type lessonResponse struct {
	LongFormSlides     []production.Slide `json:"long_form_slides"`
	ShortFormHighlight string             `json:"short_form_highlight"`
	Hashtags           json.RawMessage    `json:"hashtags"`
}

// LessonContent asks the model for the slides, short highlight and hashtags of one lesson
func (g *Generator) LessonContent(ctx context.Context, title string) (*production.LessonContent, error) {
	utils.LogInfo("🤖 Generating lesson content for %q", title)

	answer, err := g.llm.Complete(ctx, lessonPrompt(g.channel, title))
	if err != nil {
		return nil, fmt.Errorf("lesson content request failed: %w", err)
	}

	var resp lessonResponse
	if err := decodeJSON(answer, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse lesson content: %w", err)
	}

	content := &production.LessonContent{
		ShortFormHighlight: strings.TrimSpace(resp.ShortFormHighlight),
		Hashtags:           parseHashtags(resp.Hashtags),
	}
	for _, s := range resp.LongFormSlides {
		s.Title = strings.TrimSpace(s.Title)
		s.Content = strings.TrimSpace(s.Content)
		if s.Content == "" {
			continue
		}
		content.LongFormSlides = append(content.LongFormSlides, s)
	}
	if len(content.LongFormSlides) == 0 {
		return nil, errors.New("lesson content has no long-form slides")
	}

	utils.LogVerbose("Lesson content: %d slides, highlight %d chars", len(content.LongFormSlides), len(content.ShortFormHighlight))
	return content, nil
}

// decodeJSON reads the first JSON object in a model answer, ignoring code fences and chatter around it
func decodeJSON(answer string, v interface{}) error {
	text := strings.TrimSpace(answer)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return errors.New("no JSON object in model answer")
	}

	if err := json.Unmarshal([]byte(text[start:end+1]), v); err != nil {
		utils.LogDebug("Unparseable model answer:\n%s", answer)
		return err
	}
	return nil
}

// parseHashtags accepts either a single string or a list of strings
func parseHashtags(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.Join(strings.Fields(s), " ")
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		tags := make([]string, 0, len(list))
		for _, tag := range list {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if !strings.HasPrefix(tag, "#") {
				tag = "#" + tag
			}
			tags = append(tags, strings.ReplaceAll(tag, " ", ""))
		}
		return strings.Join(tags, " ")
	}
	return ""
}
