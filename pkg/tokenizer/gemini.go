package tokenizer

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiCounter asks the Gemini API for exact token counts of the chat model.
type GeminiCounter struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

var _ Counter = &GeminiCounter{}

func NewGeminiCounter(ctx context.Context, apiKey, modelName string) (*GeminiCounter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini tokenizer: api key is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini tokenizer: create client: %w", err)
	}
	return &GeminiCounter{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

func (g *GeminiCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	resp, err := g.model.CountTokens(ctx, genai.Text(text))
	if err != nil {
		return 0, fmt.Errorf("gemini count tokens: %w", err)
	}
	return int(resp.TotalTokens), nil
}

func (g *GeminiCounter) Close() error {
	return g.client.Close()
}
