// Package gemini implements a text Completer backed by Google's Gemini models
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gnzdotmx/lessonflowai/internal/utils"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-1.5-flash"

// Options tunes the generation requests
type Options struct {
	Model          string
	Temperature    float32
	RequestTimeout time.Duration
}

// generator is the part of *genai.GenerativeModel the service calls
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Service sends prompts to a Gemini model
type Service struct {
	client  *genai.Client
	model   generator
	timeout time.Duration
}

// NewService creates a Gemini client for apiKey. Close must be called when done.
func NewService(ctx context.Context, apiKey string, opts Options) (*Service, error) {
	if apiKey == "" {
		return nil, errors.New("GOOGLE_API_KEY environment variable is not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	name := opts.Model
	if name == "" {
		name = DefaultModel
	}
	model := client.GenerativeModel(name)
	model.SetTemperature(opts.Temperature)
	model.ResponseMIMEType = "application/json"

	utils.LogVerbose("Gemini model %s ready", name)
	return &Service{client: client, model: model, timeout: opts.RequestTimeout}, nil
}

// Complete sends prompt to the model and returns the concatenated text parts of the answer
func (s *Service) Complete(ctx context.Context, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	utils.LogDebug("Gemini answered in %s", time.Since(start).Round(time.Millisecond))

	text := responseText(resp)
	if text == "" {
		return "", errors.New("no response from Gemini")
	}
	return text, nil
}

// Close releases the underlying client
func (s *Service) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return strings.TrimSpace(b.String())
}
