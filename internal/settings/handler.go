package settings

import (
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/settings", h.getSettings)
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router, requireAuth fiber.Handler) {
	app.Put("/api/settings", requireAuth, h.updateSettings)
}

func (h *Handler) getSettings(c *fiber.Ctx) error {
	s, err := h.service.Get(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(s)
}

func (h *Handler) updateSettings(c *fiber.Ctx) error {
	var patch Patch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid JSON body"})
	}
	updated, err := h.service.Update(c.UserContext(), patch)
	if err != nil {
		return err
	}
	return c.JSON(updated)
}
