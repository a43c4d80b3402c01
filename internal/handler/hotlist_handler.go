package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/xinv4sionx/marketplace/server/internal/service"
)

type HotlistHandler struct {
	svc service.HotlistService
}

func NewHotlistHandler(svc service.HotlistService) *HotlistHandler {
	return &HotlistHandler{svc: svc}
}

func (h *HotlistHandler) Register(r fiber.Router) {
	r.Get("/hotlist", h.list)
}

// list handles GET /hotlist?town=Nairobi
func (h *HotlistHandler) list(c *fiber.Ctx) error {
	items, err := h.svc.List(c.UserContext(), c.Query("town"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": items})
}
