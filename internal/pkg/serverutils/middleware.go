package serverutils

import (
	"errors"
	"time"

	"moodflix-be/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// ErrorHandlerMiddleware renders errors returned by handlers as JSON envelopes.
func ErrorHandlerMiddleware(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fe *fiber.Error
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		code = fiber.StatusBadRequest
		return ctx.Status(code).JSON(Response{Success: false, Code: code, Message: ve.Error(), Data: ve.Fields})
	case errors.As(err, &fe):
		code = fe.Code
		message = fe.Message
	case errors.Is(err, ErrBadRequest):
		code = fiber.StatusBadRequest
		message = err.Error()
	}
	return ctx.Status(code).JSON(ErrorResponse(code, message))
}

// RequestLogger stamps a request id and logs one line per request.
func RequestLogger(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		id := ctx.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Set(RequestIDHeader, id)
		ctx.Locals("request_id", id)

		err := ctx.Next()
		if err != nil {
			if herr := ctx.App().ErrorHandler(ctx, err); herr != nil {
				_ = ctx.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := ctx.Response().StatusCode()
		details := map[string]interface{}{
			"request_id": id,
			"method":     ctx.Method(),
			"path":       ctx.Path(),
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
		}
		if status >= fiber.StatusInternalServerError {
			details["error"] = errString(err)
			log.Error("HTTP", "request failed", details)
		} else {
			log.Info("HTTP", "request", details)
		}
		return nil
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
