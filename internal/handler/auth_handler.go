package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/xinv4sionx/marketplace/server/internal/middleware"
	"github.com/xinv4sionx/marketplace/server/internal/models"
	"github.com/xinv4sionx/marketplace/server/internal/service"
)

// AuthHandler wires HTTP → AuthService.
type AuthHandler struct {
	svc         service.AuthService
	requireAuth fiber.Handler
}

func NewAuthHandler(svc service.AuthService, requireAuth fiber.Handler) *AuthHandler {
	return &AuthHandler{svc: svc, requireAuth: requireAuth}
}

func (h *AuthHandler) Register(r fiber.Router) {
	r.Post("/signup", h.signup)
	r.Post("/login", h.login)
	r.Post("/logout", h.requireAuth, h.logout)
	r.Get("/me", h.requireAuth, h.me)
}

// signup handles POST /signup  { "phone", "password", "name", "role", "storeName"?, "town"? }
func (h *AuthHandler) signup(c *fiber.Ctx) error {
	var req models.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	resp, err := h.svc.Signup(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// login handles POST /login  { "phone", "password" }
func (h *AuthHandler) login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	resp, err := h.svc.Login(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFrom(c)
	if err := h.svc.Logout(c.UserContext(), sess); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFrom(c)
	u := sess.User
	return c.JSON(models.ProfileResponse{
		ID:           u.ID,
		Role:         u.Role,
		Name:         u.Name,
		StoreName:    u.StoreName,
		Town:         u.Town,
		Availability: u.Availability,
	})
}
