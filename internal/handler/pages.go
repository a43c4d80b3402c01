package handler

import (
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// dashboards maps the friendly page routes to files in the frontend dir.
var dashboards = map[string]string{
	"/buyer":           "buyer_dashboard.html",
	"/seller":          "seller_dashboard.html",
	"/hotlist":         "hotlist.html",
	"/product-manager": "product_manager.html",
}

// RegisterPages serves uploaded images, the static frontend and the
// Prometheus endpoint. Call it after RegisterRoutes so /api wins.
func RegisterPages(app *fiber.App, frontendDir, uploadsDir string) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Static("/uploads", uploadsDir)

	for route, file := range dashboards {
		p := filepath.Join(frontendDir, file)
		app.Get(route, func(c *fiber.Ctx) error {
			return c.SendFile(p)
		})
	}
	app.Static("/", frontendDir)
}
