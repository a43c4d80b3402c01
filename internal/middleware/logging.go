// Package middleware holds the Fiber handlers that run around every route.
package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/xinv4sionx/marketplace/server/internal/apperr"
	"github.com/xinv4sionx/marketplace/server/internal/logger"
	"github.com/xinv4sionx/marketplace/server/internal/metrics"
)

// Logging records one structured log line and the Prometheus request
// metrics for every request.
func Logging(log logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		// The app's ErrorHandler writes the response after this returns,
		// so the status has to be derived from err.
		status := c.Response().StatusCode()
		if err != nil {
			status = statusOf(err)
		}
		route := c.Route().Path

		metrics.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(elapsed.Seconds())

		fields := map[string]interface{}{
			"method":     c.Method(),
			"path":       c.Path(),
			"route":      route,
			"status":     status,
			"durationMs": elapsed.Milliseconds(),
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			l := log
			if err != nil {
				l = log.WithError(err)
			}
			l.Error("request failed", fields)
		case status >= fiber.StatusBadRequest:
			log.Warn("request rejected", fields)
		default:
			log.Info("request handled", fields)
		}
		return err
	}
}

func statusOf(err error) int {
	if e, ok := apperr.As(err); ok {
		return e.Status()
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}
