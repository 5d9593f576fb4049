package service

import (
	"context"
	"fmt"

	"ai-pdfstudy-be/internal/dto"
	"ai-pdfstudy-be/internal/pkg/logger"
	"ai-pdfstudy-be/pkg/chunking"
	"ai-pdfstudy-be/pkg/events"
	"ai-pdfstudy-be/pkg/llm"
	"ai-pdfstudy-be/pkg/pdfgen"
	"ai-pdfstudy-be/pkg/rag/prompt"
)

type IQuizService interface {
	GenerateQuiz(ctx context.Context, request *dto.GenerateQuizRequest) (*dto.QuizDocument, error)
}

type quizService struct {
	textLoader     TextLoader
	policy         chunking.Policy
	llmProvider    llm.LLMProvider
	concurrency    int
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewQuizService(
	textLoader TextLoader,
	policy chunking.Policy,
	llmProvider llm.LLMProvider,
	concurrency int,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IQuizService {
	return &quizService{
		textLoader:     textLoader,
		policy:         policy,
		llmProvider:    llmProvider,
		concurrency:    concurrency,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *quizService) GenerateQuiz(ctx context.Context, request *dto.GenerateQuizRequest) (*dto.QuizDocument, error) {
	text, err := s.textLoader.LoadText(ctx, request.Username, request.File)
	if err != nil {
		return nil, err
	}

	systemPrompt := prompt.Quiz(request.QuestionTypes)
	groups := s.policy.Groups(text)
	blocks, err := generateGroups(ctx, groups, s.concurrency, func(ctx context.Context, group chunking.Group) (string, error) {
		out, err := s.llmProvider.Chat(ctx,
			[]llm.Message{llm.UserMessage(prompt.QuizBlock(group.Text()))},
			llm.WithSystemPrompt(systemPrompt),
			llm.WithMaxTokens(prompt.GenerationMaxOutputTokens),
			llm.WithTemperature(prompt.GenerationTemperature),
		)
		if err != nil {
			return "", fmt.Errorf("generate questions for %s: %w", group.Label, err)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	content, err := pdfgen.RenderQuiz(blocks)
	if err != nil {
		return nil, err
	}

	s.logger.Info("QUIZ", "Generated quiz PDF", map[string]interface{}{
		"owner":         request.Username,
		"file":          request.File,
		"groups":        len(groups),
		"questionTypes": request.QuestionTypes,
	})
	publishEvent(ctx, s.eventPublisher, s.logger, events.New(events.TypeQuizGenerated, map[string]interface{}{
		"owner":  request.Username,
		"file":   request.File,
		"groups": len(groups),
	}))

	return &dto.QuizDocument{
		FileName: pdfgen.QuizFileName(request.File),
		Content:  content,
	}, nil
}
