package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-pdfstudy-be/pkg/llm"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiProvider struct {
	client    *genai.Client
	modelName string
}

// Ensure GeminiProvider implements LLMProvider
var _ llm.LLMProvider = &GeminiProvider{}

func NewGeminiProvider(ctx context.Context, apiKey, modelName string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &GeminiProvider{client: client, modelName: modelName}, nil
}

func (g *GeminiProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.Apply(llm.Options{Temperature: 0.7, Model: g.modelName}, opts...)
	if len(history) == 0 {
		return "", errors.New("gemini: empty conversation")
	}

	model := g.client.GenerativeModel(options.Model)
	model.SetTemperature(float32(options.Temperature))
	if options.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(options.MaxTokens))
	}

	system, turns := llm.SplitSystem(history, options.SystemPrompt)
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if len(turns) == 0 {
		return "", errors.New("gemini: conversation has no user message")
	}

	chat := model.StartChat()
	for _, msg := range turns[:len(turns)-1] {
		chat.History = append(chat.History, &genai.Content{
			Role:  role(msg.Role),
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	last := turns[len(turns)-1]
	resp, err := chat.SendMessage(ctx, genai.Text(last.Content))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	return parseResponse(resp)
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return g.Chat(ctx, []llm.Message{llm.UserMessage(prompt)}, opts...)
}

func (g *GeminiProvider) Close() error {
	return g.client.Close()
}

func role(r string) string {
	if r == llm.RoleAssistant {
		return "model"
	}
	return "user"
}

func parseResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("gemini: no candidates in response")
	}
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String(), nil
}
