package advisor

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiGeneratorRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := NewGeminiGenerator(context.Background(), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key is required")
}

func TestExtractText(t *testing.T) {
	t.Parallel()

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("Hello "), genai.Text("world")}}},
			{Content: nil},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("!")}}},
		},
	}
	assert.Equal(t, "Hello world!", extractText(resp))

	assert.Equal(t, "", extractText(&genai.GenerateContentResponse{}))
}
