package tokenizer

import (
	"context"
	"fmt"
)

// Counter reports how many tokens a text occupies in the model's context.
type Counter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// NewCounter builds a counter for the configured provider: "gemini" or "tiktoken".
func NewCounter(ctx context.Context, provider, apiKey, model, encoding string) (Counter, error) {
	switch provider {
	case "gemini":
		return NewGeminiCounter(ctx, apiKey, model)
	case "tiktoken", "":
		return NewTiktokenCounter(encoding)
	default:
		return nil, fmt.Errorf("unsupported tokenizer provider: %s", provider)
	}
}
