package seo

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
	app.Get("/api/seo", h.getSnapshots)
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router, requireAuth fiber.Handler) {
	app.Post("/api/seo", requireAuth, h.audit)
}

// getSnapshots returns the latest snapshot per path, or the history of a
// single path when ?path= is given.
func (h *Handler) getSnapshots(c *fiber.Ctx) error {
	if path := c.Query("path"); path != "" {
		history, err := h.service.History(c.UserContext(), path, c.QueryInt("limit", DefaultHistory))
		if err != nil {
			return err
		}
		return c.JSON(history)
	}
	latest, err := h.service.Latest(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(latest)
}

func (h *Handler) audit(c *fiber.Ctx) error {
	var in AuditInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid JSON body"})
	}
	snap, err := h.service.Audit(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(snap)
}
