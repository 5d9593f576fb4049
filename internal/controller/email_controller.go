package controller

import (
	"ai-pdfstudy-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IEmailController interface {
	RegisterRoutes(r fiber.Router)
	CheckValidity(ctx *fiber.Ctx) error
}

type emailController struct {
	emailService service.IEmailService
}

func NewEmailController(emailService service.IEmailService) IEmailController {
	return &emailController{
		emailService: emailService,
	}
}

func (c *emailController) RegisterRoutes(r fiber.Router) {
	r.Get("check-email-validity", c.CheckValidity)
}

func (c *emailController) CheckValidity(ctx *fiber.Ctx) error {
	return ctx.JSON(c.emailService.CheckValidity(ctx.UserContext(), ctx.Query("email")))
}
