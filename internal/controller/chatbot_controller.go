package controller

import (
	"ai-pdfstudy-be/internal/dto"
	"ai-pdfstudy-be/internal/pkg/serverutils"
	"ai-pdfstudy-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	SelectDocument(ctx *fiber.Ctx) error
	GetModelResponse(ctx *fiber.Ctx) error
	GetSession(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService service.IChatbotService
}

func NewChatbotController(chatbotService service.IChatbotService) IChatbotController {
	return &chatbotController{
		chatbotService: chatbotService,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	r.Post("signal_doc_qa_selection", c.SelectDocument)
	r.Post("get_model_response", c.GetModelResponse)
	r.Get("qa_session", c.GetSession)
}

func (c *chatbotController) SelectDocument(ctx *fiber.Ctx) error {
	var req dto.SelectDocumentRequest
	if err := ctx.QueryParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	// Indexing can outlive a dropped connection, but the caller waits for it.
	res, err := c.chatbotService.SelectDocument(ctx.UserContext(), req.Username, req.File)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatbotController) GetModelResponse(ctx *fiber.Ctx) error {
	var req dto.ModelResponseRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Username == "" {
		req.Username = ctx.Query("username")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatbotService.GetModelResponse(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *chatbotController) GetSession(ctx *fiber.Ctx) error {
	var query dto.OwnerQuery
	if err := ctx.QueryParser(&query); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	res, err := c.chatbotService.GetSession(ctx.UserContext(), query.Username)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}
