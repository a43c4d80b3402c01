package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/xinv4sionx/marketplace/server/internal/middleware"
	"github.com/xinv4sionx/marketplace/server/internal/service"
)

// RegisterRoutes mounts the JSON API under /api.
func RegisterRoutes(app *fiber.App,
	authSvc service.AuthService,
	sellerSvc service.SellerService,
	hotlistSvc service.HotlistService,
	chatSvc service.ChatService,
) {
	api := app.Group("/api")
	requireAuth := middleware.Auth(authSvc)

	NewAuthHandler(authSvc, requireAuth).Register(api)
	NewSellerHandler(sellerSvc, requireAuth).Register(api)
	NewHotlistHandler(hotlistSvc).Register(api)
	NewChatHandler(chatSvc, requireAuth).Register(api)
}
