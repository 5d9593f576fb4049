package controller

import (
	"ai-pdfstudy-be/internal/dto"
	"ai-pdfstudy-be/internal/pkg/serverutils"
	"ai-pdfstudy-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	CheckFiles(ctx *fiber.Ctx) error
	FetchFiles(ctx *fiber.Ctx) error
	Upload(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{
		documentService: documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	r.Get("check_files", c.CheckFiles)
	r.Get("fetch_files", c.FetchFiles)
	r.Post("upload_file", c.Upload)
}

func (c *documentController) CheckFiles(ctx *fiber.Ctx) error {
	var query dto.OwnerQuery
	if err := ctx.QueryParser(&query); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	res, err := c.documentService.CheckFiles(ctx.UserContext(), query.Username)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *documentController) FetchFiles(ctx *fiber.Ctx) error {
	var query dto.OwnerQuery
	if err := ctx.QueryParser(&query); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	res, err := c.documentService.FetchFiles(ctx.UserContext(), query.Username)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

// Upload always answers 200; the outcome is carried in the status text.
func (c *documentController) Upload(ctx *fiber.Ctx) error {
	owner := ctx.Query("username")
	file, err := ctx.FormFile("upload")
	if err != nil || owner == "" {
		return ctx.JSON(dto.UploadFileResponse{Status: service.StatusUploadFailed})
	}
	return ctx.JSON(c.documentService.Upload(ctx.UserContext(), owner, file))
}
