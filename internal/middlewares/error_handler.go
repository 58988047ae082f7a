package middlewares

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/lexikon-app/lexikon/internal/handlers/api"
)

// ErrorHandler turns errors that escaped the handlers into the localized
// JSON error envelope. Anything unexpected is logged and reported as a 500.
func ErrorHandler(ctx *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	switch code {
	case fiber.StatusBadRequest:
		return api.ErrorResponse(ctx, code, api.MsgInvalidRequest)
	case fiber.StatusUnauthorized:
		return api.ErrorResponse(ctx, code, api.MsgUnauthorized)
	case fiber.StatusForbidden:
		return api.ErrorResponse(ctx, code, api.MsgForbidden)
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return api.ErrorResponse(ctx, code, api.MsgNotFound)
	default:
		slog.Error("unhandled error", "path", ctx.Path(), "code", code, "error", err)
		return api.ErrorResponse(ctx, fiber.StatusInternalServerError, api.MsgInternalError)
	}
}
