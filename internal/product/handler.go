package product

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/gift-store-backend/internal/httpx"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/products", h.getProducts)
	app.Get("/api/products/:id<int>", h.getProduct)
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router, requireAuth fiber.Handler) {
	app.Post("/api/products", requireAuth, h.createProduct)
	app.Put("/api/products/:id<int>", requireAuth, h.updateProduct)
	app.Delete("/api/products/:id<int>", requireAuth, h.deleteProduct)
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	products, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(products)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}

	p, err := h.service.GetActive(c.UserContext(), id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(p)
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	var in Input
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid JSON body"})
	}

	created, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}

	var patch Patch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid JSON body"})
	}

	updated, err := h.service.Update(c.UserContext(), id, patch)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": "product deleted"})
}

func mapError(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	}
	if errors.Is(err, ErrIDConflict) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "concurrent create, please retry"})
	}
	return err
}
