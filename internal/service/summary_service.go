package service

import (
	"context"
	"fmt"

	"ai-pdfstudy-be/internal/dto"
	"ai-pdfstudy-be/internal/pkg/logger"
	"ai-pdfstudy-be/pkg/chunking"
	"ai-pdfstudy-be/pkg/events"
	"ai-pdfstudy-be/pkg/llm"
	"ai-pdfstudy-be/pkg/rag/prompt"
	"ai-pdfstudy-be/pkg/textstats"
)

type ISummaryService interface {
	Summarize(ctx context.Context, owner, file string) (*dto.SummaryResponse, error)
}

type summaryService struct {
	textLoader     TextLoader
	policy         chunking.Policy
	llmProvider    llm.LLMProvider
	concurrency    int
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewSummaryService(
	textLoader TextLoader,
	policy chunking.Policy,
	llmProvider llm.LLMProvider,
	concurrency int,
	eventPublisher events.Publisher,
	log logger.ILogger,
) ISummaryService {
	return &summaryService{
		textLoader:     textLoader,
		policy:         policy,
		llmProvider:    llmProvider,
		concurrency:    concurrency,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *summaryService) Summarize(ctx context.Context, owner, file string) (*dto.SummaryResponse, error) {
	text, err := s.textLoader.LoadText(ctx, owner, file)
	if err != nil {
		return nil, err
	}

	groups := s.policy.Groups(text)
	summaries, err := generateGroups(ctx, groups, s.concurrency, func(ctx context.Context, group chunking.Group) (string, error) {
		out, err := s.llmProvider.Chat(ctx,
			[]llm.Message{llm.UserMessage(group.Text())},
			llm.WithSystemPrompt(prompt.Summary()),
			llm.WithMaxTokens(prompt.GenerationMaxOutputTokens),
			llm.WithTemperature(prompt.GenerationTemperature),
		)
		if err != nil {
			return "", fmt.Errorf("summarize %s: %w", group.Label, err)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("SUMMARY", "Generated summary", map[string]interface{}{
		"owner":  owner,
		"file":   file,
		"groups": len(groups),
	})
	publishEvent(ctx, s.eventPublisher, s.logger, events.New(events.TypeSummaryGenerated, map[string]interface{}{
		"owner":  owner,
		"file":   file,
		"groups": len(groups),
	}))

	return &dto.SummaryResponse{
		SummarizedText: summaries,
		Statistics:     textstats.Compute(text),
	}, nil
}
