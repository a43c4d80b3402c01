package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/xinv4sionx/marketplace/server/internal/apperr"
	"github.com/xinv4sionx/marketplace/server/internal/middleware"
	"github.com/xinv4sionx/marketplace/server/internal/models"
	"github.com/xinv4sionx/marketplace/server/internal/service"
)

// ChatHandler wires HTTP → ChatService.
type ChatHandler struct {
	svc         service.ChatService
	requireAuth fiber.Handler
}

// NewChatHandler returns a struct pointer so you can call Register on it.
func NewChatHandler(svc service.ChatService, requireAuth fiber.Handler) *ChatHandler {
	return &ChatHandler{svc: svc, requireAuth: requireAuth}
}

// Register mounts the /ai endpoint on the supplied router group.
func (h *ChatHandler) Register(r fiber.Router) {
	r.Post("/ai", h.authenticate, h.ask)
}

// authenticate runs the shared auth check but reports a failed identity
// lookup the way the widget expects, as an unavailable assistant.
func (h *ChatHandler) authenticate(c *fiber.Ctx) error {
	err := h.requireAuth(c)
	if e, ok := apperr.As(err); ok && e.Code == apperr.CodeStorageFailed {
		return unavailable(c)
	}
	return err
}

// ask handles POST /ai  { "question": "...", "mode": "pro", "role"?, "sellerId"? }
func (h *ChatHandler) ask(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFrom(c)

	var req models.AskRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
		}
	}

	reply, err := h.svc.Ask(c.UserContext(), sess.User, req)
	if err != nil {
		// The chat widget only reads "reply", so keep that shape on failure.
		if e, ok := apperr.As(err); ok && e.Code == apperr.CodeAssistantUnavailable {
			return unavailable(c)
		}
		return err
	}
	return c.JSON(fiber.Map{"reply": reply})
}

func unavailable(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"reply": service.UnavailableReply})
}
