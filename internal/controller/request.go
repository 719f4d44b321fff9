package controller

import (
	"moodflix-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// parseBody decodes and validates a request body. An empty body leaves req at its
// zero value before validation.
func parseBody(ctx *fiber.Ctx, req interface{}) error {
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
		}
	}
	return serverutils.ValidateRequest(req)
}
