package serverutils

import (
	"errors"

	"ai-pdfstudy-be/pkg/conversation"
	"ai-pdfstudy-be/pkg/rag/session"
	"ai-pdfstudy-be/pkg/storage"
	"ai-pdfstudy-be/pkg/store"

	"github.com/gofiber/fiber/v2"
)

func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		code, message := StatusFor(err)
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}

// StatusFor maps domain errors to an HTTP status and client message.
func StatusFor(err error) (int, string) {
	var fiberErr *fiber.Error
	var validationErr *ValidationError

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, validationErr.Error()
	case conversation.IsCapacityError(err):
		return fiber.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, conversation.ErrHistoryMisaligned),
		errors.Is(err, conversation.ErrNegativeUsage),
		errors.Is(err, conversation.ErrHistoryWindowMismatch),
		errors.Is(err, storage.ErrInvalidName):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, session.ErrNoDocumentSelected),
		errors.Is(err, session.ErrDocumentIndexing):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, store.ErrIndexingFailed):
		return fiber.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, storage.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, storage.ErrFetch):
		return fiber.StatusBadGateway, err.Error()
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}
