package controller

import (
	"moodflix-be/internal/dto"
	"moodflix-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IEmotionController interface {
	RegisterRoutes(r fiber.Router)
	DetectEmotion(ctx *fiber.Ctx) error
	EstimateVoice(ctx *fiber.Ctx) error
}

type emotionController struct {
	emotionService service.IEmotionService
	voiceService   service.IVoiceService
}

func NewEmotionController(emotionService service.IEmotionService, voiceService service.IVoiceService) IEmotionController {
	return &emotionController{
		emotionService: emotionService,
		voiceService:   voiceService,
	}
}

func (c *emotionController) RegisterRoutes(r fiber.Router) {
	r.Post("/emotion", c.DetectEmotion)
	r.Post("/voice", c.EstimateVoice)
}

func (c *emotionController) DetectEmotion(ctx *fiber.Ctx) error {
	var req dto.EmotionRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.emotionService.Detect(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *emotionController) EstimateVoice(ctx *fiber.Ctx) error {
	var req dto.VoiceRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.voiceService.Estimate(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
