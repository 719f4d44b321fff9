package controller

import (
	"moodflix-be/internal/dto"
	"moodflix-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IRecommendController interface {
	RegisterRoutes(r fiber.Router)
	Recommend(ctx *fiber.Ctx) error
}

type recommendController struct {
	service service.IRecommendService
}

func NewRecommendController(service service.IRecommendService) IRecommendController {
	return &recommendController{service: service}
}

func (c *recommendController) RegisterRoutes(r fiber.Router) {
	r.Post("/recommend", c.Recommend)
}

func (c *recommendController) Recommend(ctx *fiber.Ctx) error {
	var req dto.RecommendRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Recommend(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
