package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	resp     *genai.GenerateContentResponse
	err      error
	deadline bool
	prompt   string
}

func (m *stubModel) GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	_, m.deadline = ctx.Deadline()
	if len(parts) > 0 {
		if text, ok := parts[0].(genai.Text); ok {
			m.prompt = string(text)
		}
	}
	return m.resp, m.err
}

func answer(parts ...genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: parts}},
		},
	}
}

func TestComplete(t *testing.T) {
	model := &stubModel{resp: answer(genai.Text(`{"lessons":`), genai.Blob{MIMEType: "image/png"}, genai.Text(` []}`))}
	svc := &Service{model: model, timeout: time.Minute}

	text, err := svc.Complete(context.Background(), "plan the course")
	require.NoError(t, err)
	assert.Equal(t, `{"lessons": []}`, text)
	assert.Equal(t, "plan the course", model.prompt)
	assert.True(t, model.deadline, "request timeout is applied")
}

func TestComplete_Errors(t *testing.T) {
	tests := []struct {
		name  string
		model *stubModel
	}{
		{name: "request error", model: &stubModel{err: errors.New("429 resource exhausted")}},
		{name: "nil response", model: &stubModel{}},
		{name: "no candidates", model: &stubModel{resp: &genai.GenerateContentResponse{}}},
		{name: "blocked candidate", model: &stubModel{resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &Service{model: tt.model}
			_, err := svc.Complete(context.Background(), "x")
			assert.Error(t, err)
			assert.False(t, tt.model.deadline, "no timeout configured")
		})
	}
}

func TestNewService_RequiresKey(t *testing.T) {
	_, err := NewService(context.Background(), "", Options{})
	assert.Error(t, err)
}

func TestClose_NoClient(t *testing.T) {
	assert.NoError(t, (&Service{}).Close())
}
