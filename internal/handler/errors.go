package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/xinv4sionx/marketplace/server/internal/apperr"
	"github.com/xinv4sionx/marketplace/server/internal/logger"
)

// ErrorHandler renders every error as {"error": message}. Service errors keep
// their own status; anything unexpected becomes a 500 without details.
func ErrorHandler(log logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		msg := "Internal Server Error"

		var fe *fiber.Error
		if e, ok := apperr.As(err); ok {
			status, msg = e.Status(), e.Message
		} else if errors.As(err, &fe) {
			status, msg = fe.Code, fe.Message
		}
		if status >= fiber.StatusInternalServerError {
			log.WithError(err).Error("unhandled error", map[string]interface{}{
				"path": c.Path(),
			})
		}
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
}
