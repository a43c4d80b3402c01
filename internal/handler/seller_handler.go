package handler

import (
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/xinv4sionx/marketplace/server/internal/middleware"
	"github.com/xinv4sionx/marketplace/server/internal/models"
	"github.com/xinv4sionx/marketplace/server/internal/service"
)

// SellerHandler wires HTTP → SellerService.
type SellerHandler struct {
	svc         service.SellerService
	requireAuth fiber.Handler
}

func NewSellerHandler(svc service.SellerService, requireAuth fiber.Handler) *SellerHandler {
	return &SellerHandler{svc: svc, requireAuth: requireAuth}
}

func (h *SellerHandler) Register(r fiber.Router) {
	g := r.Group("/seller", h.requireAuth)
	g.Post("/availability", h.availability)
	g.Post("/product", h.product)
}

// availability handles POST /seller/availability  { "status"?, "backAt"? }
func (h *SellerHandler) availability(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFrom(c)

	var req models.AvailabilityRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
	}
	a, err := h.svc.SetAvailability(c.UserContext(), sess.User, req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "availability": a})
}

// product handles the multipart POST /seller/product with up to two
// "images" parts next to the title, price, category, town and
// availableNow fields.
func (h *SellerHandler) product(c *fiber.Ctx) error {
	sess, _ := middleware.SessionFrom(c)

	in, err := productInput(c)
	if err != nil {
		return err
	}
	p, err := h.svc.AddProduct(c.UserContext(), sess.User, in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "product": p})
}

// productInput reads the upload form. A request that is not multipart at
// all yields an empty input so the service reports what is missing.
func productInput(c *fiber.Ctx) (models.ProductInput, error) {
	form, err := c.MultipartForm()
	if errors.Is(err, fasthttp.ErrNoMultipartForm) {
		return models.ProductInput{}, nil
	}
	if err != nil {
		return models.ProductInput{}, fiber.NewError(fiber.StatusBadRequest, "Upload failed")
	}
	return models.ProductInput{
		Title:        formValue(form, "title"),
		Price:        formValue(form, "price"),
		Category:     formValue(form, "category"),
		Town:         formValue(form, "town"),
		AvailableNow: formValue(form, "availableNow"),
		Images:       form.File["images"],
	}, nil
}

func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}
