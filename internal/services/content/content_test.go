package content

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gnzdotmx/lessonflowai/internal/config"
	"github.com/gnzdotmx/lessonflowai/internal/plan"
	"github.com/gnzdotmx/lessonflowai/internal/production"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func newTestGenerator(llm Completer) *Generator {
	cfg := config.Default()
	cfg.Content.CurriculumSize = 3
	return NewGenerator(llm, cfg)
}

func TestGenerateCurriculum(t *testing.T) {
	llm := &mockCompleter{}
	answer := "Here is your plan:\n```json\n" + `{
  "lessons": [
    {"chapter": 1, "part": 1, "title": " What is an LLM "},
    {"chapter": 1, "part": 2, "title": ""},
    {"chapter": "2", "title": "Prompting"}
  ]
}` + "\n```"
	llm.On("Complete", mock.Anything, mock.MatchedBy(func(p string) bool {
		return containsAll(p, "AI for Developers", "exactly 3 lessons")
	})).Return(answer, nil)

	lessons, err := newTestGenerator(llm).GenerateCurriculum(context.Background())
	require.NoError(t, err)
	require.Len(t, lessons, 2)

	assert.Equal(t, "What is an LLM", lessons[0].Title)
	assert.Equal(t, "1", lessons[0].Chapter.String())
	assert.Equal(t, plan.StatusPending, lessons[0].Status)
	assert.Equal(t, "2", lessons[1].Chapter.String())
	assert.Equal(t, "3", lessons[1].Part.String(), "missing part falls back to the position")
	llm.AssertExpectations(t)
}

func TestGenerateCurriculum_Errors(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		err    error
	}{
		{name: "request fails", err: errors.New("401 unauthorized")},
		{name: "no json", answer: "I cannot help with that."},
		{name: "broken json", answer: `{"lessons": [{"title": "x"`},
		{name: "empty", answer: `{"lessons": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &mockCompleter{}
			llm.On("Complete", mock.Anything, mock.Anything).Return(tt.answer, tt.err)
			_, err := newTestGenerator(llm).GenerateCurriculum(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestLessonContent(t *testing.T) {
	llm := &mockCompleter{}
	llm.On("Complete", mock.Anything, mock.MatchedBy(func(p string) bool {
		return containsAll(p, `"Vector search"`, "Chaitanya", "long_form_slides")
	})).Return(`{
  "long_form_slides": [
    {"title": "Idea", "content": " Store embeddings. "},
    {"title": "Empty", "content": "   "},
    {"title": "Query", "content": "Find nearest neighbours."}
  ],
  "short_form_highlight": "  Search by meaning, not keywords. ",
  "hashtags": "#AI   #VectorDB"
}`, nil)

	content, err := newTestGenerator(llm).LessonContent(context.Background(), "Vector search")
	require.NoError(t, err)
	assert.Equal(t, []production.Slide{
		{Title: "Idea", Content: "Store embeddings."},
		{Title: "Query", Content: "Find nearest neighbours."},
	}, content.LongFormSlides)
	assert.Equal(t, "Search by meaning, not keywords.", content.ShortFormHighlight)
	assert.Equal(t, "#AI #VectorDB", content.Hashtags)
}

func TestLessonContent_NoSlides(t *testing.T) {
	llm := &mockCompleter{}
	llm.On("Complete", mock.Anything, mock.Anything).
		Return(`{"long_form_slides": [{"title": "x", "content": ""}], "short_form_highlight": "tip"}`, nil)

	_, err := newTestGenerator(llm).LessonContent(context.Background(), "Tokens")
	assert.Error(t, err)
}

func TestParseHashtags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "absent", raw: "", want: ""},
		{name: "string", raw: `"#AI #Go"`, want: "#AI #Go"},
		{name: "list", raw: `["AI", "#Go", " ", "machine learning"]`, want: "#AI #Go #machinelearning"},
		{name: "number", raw: `42`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseHashtags([]byte(tt.raw)))
		})
	}
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
