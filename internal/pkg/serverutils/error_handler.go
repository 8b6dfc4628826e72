package serverutils

import (
	"errors"

	"notealog/internal/pkg/logger"
	"notealog/pkg/domain"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error onto the HTTP status the API answers with.
func StatusFor(err error) int {
	var fiberErr *fiber.Error
	var validationErr *ValidationError

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateName):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrInvalidName), errors.Is(err, domain.ErrReservedFolder):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrRemoteUnavailable), errors.Is(err, domain.ErrMalformedResponse):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware renders every error returned by a handler as the
// standard envelope.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := StatusFor(err)
		message := err.Error()

		if code >= fiber.StatusInternalServerError {
			log.Error("HTTP", "request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"status": code,
				"error":  message,
			})
			if code == fiber.StatusInternalServerError {
				message = "internal server error"
			}
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
