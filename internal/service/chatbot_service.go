package service

import (
	"context"
	"errors"

	"ai-pdfstudy-be/internal/dto"
	"ai-pdfstudy-be/internal/pkg/logger"
	"ai-pdfstudy-be/pkg/conversation"
	"ai-pdfstudy-be/pkg/events"
	"ai-pdfstudy-be/pkg/llm"
	"ai-pdfstudy-be/pkg/rag/session"

	"github.com/google/uuid"
)

// FailedAnswer is returned in place of a model answer when the turn could
// not be completed. The turn is not recorded.
const FailedAnswer = "An error occurred..."

// Answerer produces a grounded answer for a document.
type Answerer interface {
	Answer(ctx context.Context, documentID uuid.UUID, history []llm.Message, query string) (string, error)
}

type IChatbotService interface {
	SelectDocument(ctx context.Context, owner, file string) (*dto.SelectDocumentResponse, error)
	GetModelResponse(ctx context.Context, request *dto.ModelResponseRequest) (*dto.ModelResponseResponse, error)
	GetSession(ctx context.Context, owner string) (*dto.SessionResponse, error)
}

type chatbotService struct {
	sessionManager *session.Manager
	budget         *conversation.Manager
	answerer       Answerer
	eventPublisher events.Publisher
	logger         logger.ILogger
}

func NewChatbotService(
	sessionManager *session.Manager,
	budget *conversation.Manager,
	answerer Answerer,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IChatbotService {
	return &chatbotService{
		sessionManager: sessionManager,
		budget:         budget,
		answerer:       answerer,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (cs *chatbotService) SelectDocument(ctx context.Context, owner, file string) (*dto.SelectDocumentResponse, error) {
	sess, err := cs.sessionManager.Select(ctx, owner, file)
	if err != nil {
		return nil, err
	}
	cs.logger.Info("CHATBOT", "Document ready for questions", map[string]interface{}{
		"owner":   owner,
		"file":    file,
		"session": sess.ID,
	})
	return &dto.SelectDocumentResponse{Status: "OK"}, nil
}

func (cs *chatbotService) GetModelResponse(ctx context.Context, request *dto.ModelResponseRequest) (*dto.ModelResponseResponse, error) {
	sess, err := cs.sessionManager.RequireReady(request.Username)
	if err != nil {
		return nil, err
	}

	var (
		result  *conversation.Result
		turnErr error
	)
	sess.RunTurn(func(window conversation.Window) (conversation.Window, bool) {
		exchange, err := cs.budget.Prepare(ctx, window, request.Query, request.History, request.UsedTokens)
		if err != nil {
			turnErr = err
			return window, false
		}

		answer, err := cs.answerer.Answer(ctx, sess.DocumentID, exchange.Messages, exchange.Query)
		if err != nil {
			turnErr = err
			return window, false
		}

		result, turnErr = cs.budget.Complete(ctx, exchange, answer)
		if turnErr != nil {
			return window, false
		}
		return result.Window, true
	})

	if turnErr != nil {
		if isClientError(turnErr) {
			return nil, turnErr
		}
		cs.logger.Error("CHATBOT", "Failed to answer query", map[string]interface{}{
			"owner": request.Username,
			"file":  sess.File,
			"error": turnErr.Error(),
		})
		return &dto.ModelResponseResponse{
			Response:   FailedAnswer,
			UsedTokens: request.UsedTokens,
		}, nil
	}

	if result.Truncated {
		publishEvent(ctx, cs.eventPublisher, cs.logger, events.New(events.TypeConversationTruncated, map[string]interface{}{
			"owner":      request.Username,
			"file":       sess.File,
			"usedTokens": result.UsedTokens,
			"turns":      result.Window.Len(),
		}))
	}

	return &dto.ModelResponseResponse{
		Response:       result.Answer,
		UsedTokens:     result.UsedTokens,
		UpdatedHistory: result.UpdatedHistory,
	}, nil
}

func (cs *chatbotService) GetSession(_ context.Context, owner string) (*dto.SessionResponse, error) {
	snap := cs.sessionManager.Current(owner).Snapshot()
	return &snap, nil
}

// isClientError reports failures caused by the request itself, which are
// surfaced instead of the generic failed answer.
func isClientError(err error) bool {
	return conversation.IsCapacityError(err) ||
		errors.Is(err, conversation.ErrHistoryMisaligned) ||
		errors.Is(err, conversation.ErrNegativeUsage) ||
		errors.Is(err, conversation.ErrHistoryWindowMismatch)
}
