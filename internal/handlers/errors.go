package handlers

import (
	"errors"

	"github.com/arnold/coachly-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// fail maps a domain error onto a status and a fiber.Map body.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var dErr *models.Error
	if !errors.As(err, &dErr) {
		h.log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	switch dErr.Code {
	case models.CodeInvalid:
		if len(dErr.Fields) > 0 {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  dErr.Message,
				"fields": dErr.Fields,
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": dErr.Message})
	case models.CodeUnauthorized:
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": dErr.Message})
	case models.CodeForbidden:
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not allowed"})
	case models.CodeNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": dErr.Message})
	case models.CodeConflict:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": dErr.Message})
	case models.CodeUnavailable:
		h.log.Warn("dependency unavailable", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": dErr.Message})
	default:
		h.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// ErrorHandler is the fiber fallback for errors returned by middleware.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "Internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code, msg = fe.Code, fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
}
