package rag

import (
	"context"
	"errors"
	"strings"

	"ai-pdfstudy-be/pkg/llm"
	"ai-pdfstudy-be/pkg/rag/prompt"

	"github.com/google/uuid"
)

var ErrEmptyAnswer = errors.New("model returned an empty answer")

// Chain answers a question about one document: it retrieves passages, puts
// them in the system instruction, and sends the prior conversation plus the
// question to the model.
type Chain struct {
	retriever *Retriever
	llm       llm.LLMProvider
}

func NewChain(retriever *Retriever, provider llm.LLMProvider) *Chain {
	return &Chain{retriever: retriever, llm: provider}
}

func (c *Chain) Answer(ctx context.Context, documentID uuid.UUID, history []llm.Message, query string) (string, error) {
	chunks, err := c.retriever.Retrieve(ctx, documentID, query)
	if err != nil {
		return "", err
	}

	passages := make([]string, len(chunks))
	for i, ch := range chunks {
		passages[i] = ch.Content
	}

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, llm.UserMessage(query))

	answer, err := c.llm.Chat(ctx, messages, llm.WithSystemPrompt(prompt.QA(passages)))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return "", ErrEmptyAnswer
	}
	return answer, nil
}
