package serverutils

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"ai-reportdraft-be/pkg/guide"
	"ai-reportdraft-be/pkg/orchestrator"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func SuccessResponse(message string, data interface{}) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(message string) Response {
	return Response{
		Success: false,
		Message: message,
		Data:    nil,
	}
}

// ErrorHandlerMiddleware maps errors returned by handlers onto the
// response envelope. Domain sentinels get their proper status codes;
// everything else is a 500 with the message passed through.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError

		var fiberErr *fiber.Error
		var validationErrs validator.ValidationErrors
		switch {
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
		case errors.As(err, &validationErrs):
			status = fiber.StatusBadRequest
		case errors.Is(err, orchestrator.ErrSessionNotFound):
			status = fiber.StatusNotFound
		case errors.Is(err, orchestrator.ErrUnknownSection):
			status = fiber.StatusNotFound
		case errors.Is(err, guide.ErrUnparsableGuide):
			status = fiber.StatusBadRequest
		}

		return ctx.Status(status).JSON(ErrorResponse(err.Error()))
	}
}
