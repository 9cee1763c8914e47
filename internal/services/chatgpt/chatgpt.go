// Package chatgpt implements a text Completer backed by OpenAI chat models
package chatgpt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gnzdotmx/lessonflowai/internal/utils"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when no model is configured
const DefaultModel = openai.GPT4oMini

const systemPrompt = "You are a senior software engineer who writes developer education content. You always answer with valid JSON only."

// CompletionOptions contains the parameters for a ChatGPT completion request
type CompletionOptions struct {
	Model          string
	Temperature    float32
	MaxTokens      int
	RequestTimeout time.Duration
}

// chatClient is the part of *openai.Client the service calls
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ChatGPTService provides a centralized way to interact with OpenAI's chat API
type ChatGPTService struct {
	client chatClient
	opts   CompletionOptions
}

// NewChatGPTService creates a new ChatGPT service instance
func NewChatGPTService(apiKey string, opts CompletionOptions) (*ChatGPTService, error) {
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable is not set")
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}

	return &ChatGPTService{
		client: openai.NewClient(apiKey),
		opts:   opts,
	}, nil
}

// CompleteMessages sends a chat completion request and returns the raw response
func (s *ChatGPTService) CompleteMessages(ctx context.Context, messages []openai.ChatCompletionMessage) (*openai.ChatCompletionResponse, error) {
	// Create a timeout context if RequestTimeout is specified
	if s.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.RequestTimeout)
		defer cancel()
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.opts.Model,
		Messages:    messages,
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("API error (status %d): %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}

	// Check if there are any choices in the response
	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from ChatGPT")
	}

	utils.LogDebug("ChatGPT used %d tokens", resp.Usage.TotalTokens)
	return &resp, nil
}

// Complete sends prompt as the user message and returns the content of the first choice
func (s *ChatGPTService) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.CompleteMessages(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	})
	if err != nil {
		return "", err
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("empty response from ChatGPT")
	}
	return content, nil
}
