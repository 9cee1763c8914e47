// Package narration converts scripts into MP3 narration, either with Amazon Polly or with an
// external text-to-speech command such as edge-tts.
package narration

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/gnzdotmx/lessonflowai/internal/config"
	"github.com/gnzdotmx/lessonflowai/internal/production"
)

// New returns the narrator selected by cfg.Engine
func New(cfg config.NarrationConfig) (production.Narrator, error) {
	switch cfg.Engine {
	case config.EnginePolly:
		sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.Region)})
		if err != nil {
			return nil, fmt.Errorf("failed to create AWS session: %w", err)
		}
		return NewPollyNarrator(sess, cfg.Voice), nil
	case config.EngineCommand:
		narrator, err := NewCommandNarrator(cfg.Command, cfg.Voice)
		if err != nil {
			return nil, err
		}
		return narrator, nil
	default:
		return nil, fmt.Errorf("unknown narration engine %q", cfg.Engine)
	}
}

var sentencePattern = regexp.MustCompile(`[.!?]*[^.!?]*(?:[.!?]+|$)\s*`)

// SplitScript breaks script into chunks of at most maxChars characters, cutting between
// sentences where possible, then between words, and only inside a word when it alone is too long.
func SplitScript(script string, maxChars int) []string {
	script = strings.Join(strings.Fields(script), " ")
	if script == "" {
		return nil
	}
	if maxChars <= 0 || utf8.RuneCountInString(script) <= maxChars {
		return []string{script}
	}

	var chunks []string
	var current strings.Builder
	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}
	add := func(piece string) {
		if current.Len() > 0 && utf8.RuneCountInString(current.String())+utf8.RuneCountInString(strings.TrimRight(piece, " ")) > maxChars {
			flush()
		}
		current.WriteString(piece)
	}

	for _, sentence := range sentencePattern.FindAllString(script, -1) {
		if sentence == "" {
			continue
		}
		if utf8.RuneCountInString(strings.TrimSpace(sentence)) <= maxChars {
			add(sentence)
			continue
		}
		for _, word := range strings.Fields(sentence) {
			for utf8.RuneCountInString(word) > maxChars {
				flush()
				r := []rune(word)
				chunks = append(chunks, string(r[:maxChars]))
				word = string(r[maxChars:])
			}
			add(word + " ")
		}
	}
	flush()
	return chunks
}
