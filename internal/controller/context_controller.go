package controller

import (
	"moodflix-be/internal/dto"
	"moodflix-be/internal/pkg/serverutils"
	"moodflix-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IContextController interface {
	RegisterRoutes(r fiber.Router)
	GetContext(ctx *fiber.Ctx) error
	PostContext(ctx *fiber.Ctx) error
}

type contextController struct {
	service service.IContextService
}

func NewContextController(service service.IContextService) IContextController {
	return &contextController{service: service}
}

func (c *contextController) RegisterRoutes(r fiber.Router) {
	r.Get("/context", c.GetContext)
	r.Post("/context", c.PostContext)
}

func (c *contextController) GetContext(ctx *fiber.Ctx) error {
	var req dto.ContextRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid query: "+err.Error())
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}
	return c.respond(ctx, &req)
}

func (c *contextController) PostContext(ctx *fiber.Ctx) error {
	var req dto.ContextRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}
	return c.respond(ctx, &req)
}

func (c *contextController) respond(ctx *fiber.Ctx, req *dto.ContextRequest) error {
	res, err := c.service.GetContext(ctx.UserContext(), req, ctx.IP())
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
