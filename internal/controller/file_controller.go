package controller

import (
	"errors"
	"io"
	"os"

	"ai-pdfstudy-be/pkg/storage"

	"github.com/gofiber/fiber/v2"
)

// FileOpener serves objects behind signed download tokens.
type FileOpener interface {
	Open(owner, file, token string) (*os.File, error)
}

type IFileController interface {
	RegisterRoutes(r fiber.Router)
	Download(ctx *fiber.Ctx) error
}

type fileController struct {
	opener FileOpener
}

func NewFileController(opener FileOpener) IFileController {
	return &fileController{
		opener: opener,
	}
}

func (c *fileController) RegisterRoutes(r fiber.Router) {
	r.Get("files/:owner/:file", c.Download)
}

func (c *fileController) Download(ctx *fiber.Ctx) error {
	f, err := c.opener.Open(ctx.Params("owner"), ctx.Params("file"), ctx.Query("token"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
			return err
		}
		return fiber.NewError(fiber.StatusForbidden, "invalid or expired download link")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	return ctx.Send(data)
}
