package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger is anything that can report whether its backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
	cache Pinger
}

// NewHealthHandler takes the catalog store and the optional session cache;
// a nil cache is reported as not configured.
func NewHealthHandler(store, cache Pinger) *HealthHandler {
	return &HealthHandler{store: store, cache: cache}
}

func (h *HealthHandler) Register(r fiber.Router) {
	r.Get("/health", h.health)
}

func (h *HealthHandler) health(c *fiber.Ctx) error {
	store := h.check(c.UserContext(), h.store)
	cache := h.check(c.UserContext(), h.cache)

	status, code := "ok", fiber.StatusOK
	if store == "error" || cache == "error" {
		status, code = "degraded", fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(fiber.Map{
		"status": status,
		"deps": fiber.Map{
			"store": store,
			"redis": cache,
		},
	})
}

func (h *HealthHandler) check(ctx context.Context, p Pinger) string {
	if p == nil {
		return "not_configured"
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return "error"
	}
	return "connected"
}
