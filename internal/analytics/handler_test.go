package analytics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestAnalyticsRoutes(t *testing.T) {
	app := fiber.New()
	h := NewHandler(NewService(NewInMemoryRepository(0)))
	h.RegisterPublicRoutes(app)
	h.RegisterProtectedRoutes(app, func(c *fiber.Ctx) error {
		if c.Get("X-Admin") == "" {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.Next()
	})

	req := httptest.NewRequest("POST", "/api/analytics", strings.NewReader(`{"type":"page_view","path":"/"}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}

	res2, _ := app.Test(httptest.NewRequest("GET", "/api/analytics", nil))
	if res2.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res2.StatusCode)
	}

	req3 := httptest.NewRequest("GET", "/api/analytics?days=1", nil)
	req3.Header.Set("X-Admin", "1")
	res3, _ := app.Test(req3)
	if res3.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res3.StatusCode)
	}
}
