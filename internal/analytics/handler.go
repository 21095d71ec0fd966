package analytics

import (
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

// RegisterPublicRoutes exposes event collection to the storefront.
func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Post("/api/analytics", h.recordEvent)
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router, requireAuth fiber.Handler) {
	app.Get("/api/analytics", requireAuth, h.getSummary)
}

func (h *Handler) recordEvent(c *fiber.Ctx) error {
	var in EventInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid JSON body"})
	}
	e, err := h.service.Record(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(e)
}

func (h *Handler) getSummary(c *fiber.Ctx) error {
	days := c.QueryInt("days", DefaultDays)
	sum, err := h.service.Summary(c.UserContext(), days)
	if err != nil {
		return err
	}
	return c.JSON(sum)
}
