package catalog

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wichananm65/gift-store-backend/internal/httpx"
)

// Handler serves the read side of catalog sections. Writes go through the
// aggregate store endpoint.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/catalog", h.getItems)
	app.Get("/api/catalog/:id<int>", h.getItem)
}

func (h *Handler) getItems(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *Handler) getItem(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return err
	}
	it, err := h.service.GetActive(c.UserContext(), id)
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "catalog item not found"})
	}
	if err != nil {
		return err
	}
	return c.JSON(it)
}
