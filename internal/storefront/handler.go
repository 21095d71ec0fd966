package storefront

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/gift-store-backend/internal/catalog"
	"github.com/wichananm65/gift-store-backend/internal/product"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/store", h.getStore)
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router, requireAuth fiber.Handler) {
	app.Post("/api/store", requireAuth, h.create)
	app.Put("/api/store", requireAuth, h.update)
	app.Delete("/api/store", requireAuth, h.delete)
}

func (h *Handler) getStore(c *fiber.Ctx) error {
	agg, err := h.service.Snapshot(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(agg)
}

func (h *Handler) create(c *fiber.Ctx) error {
	var m Mutation
	if err := c.BodyParser(&m); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid JSON body"})
	}
	res, err := h.service.Create(c.UserContext(), m)
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func (h *Handler) update(c *fiber.Ctx) error {
	var m Mutation
	if err := c.BodyParser(&m); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid JSON body"})
	}
	if m.Type != TypeSettings && m.ID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "id is required"})
	}
	res, err := h.service.Update(c.UserContext(), m)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(res)
}

func (h *Handler) delete(c *fiber.Ctx) error {
	id := c.QueryInt("id")
	if id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "id is required"})
	}
	res, err := h.service.Delete(c.UserContext(), c.Query("type"), id)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(res)
}

func mapError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrUnknownType), errors.Is(err, ErrInvalidData):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, product.ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, product.ErrIDConflict), errors.Is(err, catalog.ErrIDConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "concurrent create, please retry"})
	}
	return err
}
