package controller

import (
	"ai-pdfstudy-be/internal/dto"
	"ai-pdfstudy-be/internal/pkg/serverutils"
	"ai-pdfstudy-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISummaryController interface {
	RegisterRoutes(r fiber.Router)
	GenerateSummary(ctx *fiber.Ctx) error
}

type summaryController struct {
	summaryService service.ISummaryService
}

func NewSummaryController(summaryService service.ISummaryService) ISummaryController {
	return &summaryController{
		summaryService: summaryService,
	}
}

func (c *summaryController) RegisterRoutes(r fiber.Router) {
	r.Get("generate_summary", c.GenerateSummary)
}

func (c *summaryController) GenerateSummary(ctx *fiber.Ctx) error {
	var query dto.DocumentQuery
	if err := ctx.QueryParser(&query); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	res, err := c.summaryService.Summarize(ctx.UserContext(), query.Username, query.File)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
