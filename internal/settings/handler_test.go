package settings

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestSettingsRoutes(t *testing.T) {
	app := fiber.New()
	h := NewHandler(NewService(NewInMemoryRepository()))
	h.RegisterPublicRoutes(app)
	h.RegisterProtectedRoutes(app, func(c *fiber.Ctx) error {
		if c.Get("X-Admin") == "" {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.Next()
	})

	req := httptest.NewRequest("PUT", "/api/settings", strings.NewReader(`{"whatsappNumber":"11987654321"}`))
	req.Header.Set("Content-Type", "application/json")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}

	req2 := httptest.NewRequest("PUT", "/api/settings", strings.NewReader(`{"socialMedia":{"instagram":"@loja"}}`))
	req2.Header.Set("Content-Type", "application/json")
	req2.Header.Set("X-Admin", "1")
	if res2, _ := app.Test(req2); res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res2.StatusCode)
	}

	req3 := httptest.NewRequest("PUT", "/api/settings", strings.NewReader(`{"whatsappNumber":"11987654321"}`))
	req3.Header.Set("Content-Type", "application/json")
	req3.Header.Set("X-Admin", "1")
	app.Test(req3)

	res4, _ := app.Test(httptest.NewRequest("GET", "/api/settings", nil))
	var s Settings
	if err := json.NewDecoder(res4.Body).Decode(&s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if s.WhatsappNumber != "11987654321" || s.SocialMedia.Instagram != "@loja" {
		t.Fatalf("merge lost fields: %+v", s)
	}
}
