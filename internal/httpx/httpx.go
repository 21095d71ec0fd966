// Package httpx holds the fiber plumbing shared by every resource handler.
package httpx

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/wichananm65/gift-store-backend/internal/validation"
)

// ErrorHandler turns errors returned by handlers into JSON responses.
// Unexpected errors become a generic 500; the raw error is only exposed
// outside production.
func ErrorHandler(production bool, log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": verrs})
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
		}

		log.WithFields(logrus.Fields{"method": c.Method(), "path": c.Path()}).WithError(err).Error("unhandled error")
		body := fiber.Map{"message": "internal server error"}
		if !production {
			body["detail"] = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
}

// NoStore disables client and proxy caching for every response.
func NoStore() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate, proxy-revalidate")
		c.Set(fiber.HeaderPragma, "no-cache")
		c.Set(fiber.HeaderExpires, "0")
		return c.Next()
	}
}

// BodyLimit rejects payloads larger than max bytes with 413 before any
// handler parses them.
func BodyLimit(max int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if n := c.Request().Header.ContentLength(); n > max {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"message": "payload too large, limit is " + strconv.Itoa(max) + " bytes",
			})
		}
		if len(c.Request().Body()) > max {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"message": "payload too large, limit is " + strconv.Itoa(max) + " bytes",
			})
		}
		return c.Next()
	}
}

// ParamID reads a positive integer route parameter.
func ParamID(c *fiber.Ctx, name string) (int, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
