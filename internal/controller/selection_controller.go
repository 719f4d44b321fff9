package controller

import (
	"moodflix-be/internal/dto"
	"moodflix-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISelectionController interface {
	RegisterRoutes(r fiber.Router)
	LogSelection(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type selectionController struct {
	selectionService service.ISelectionService
	consumerService  service.IConsumerService
}

func NewSelectionController(selectionService service.ISelectionService, consumerService service.IConsumerService) ISelectionController {
	return &selectionController{
		selectionService: selectionService,
		consumerService:  consumerService,
	}
}

func (c *selectionController) RegisterRoutes(r fiber.Router) {
	r.Post("/log-selection", c.LogSelection)
	r.Get("/selections/stats", c.Stats)
}

func (c *selectionController) LogSelection(ctx *fiber.Ctx) error {
	var req dto.LogSelectionRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.selectionService.Log(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *selectionController) Stats(ctx *fiber.Ctx) error {
	if c.consumerService == nil {
		return fiber.ErrServiceUnavailable
	}
	return ctx.JSON(c.consumerService.Stats())
}
