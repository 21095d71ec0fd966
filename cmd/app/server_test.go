package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/wichananm65/gift-store-backend/internal/auth"
	"github.com/wichananm65/gift-store-backend/internal/config"
	"github.com/wichananm65/gift-store-backend/internal/logging"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return config.Config{
		Env:                config.EnvDevelopment,
		Backends:           []string{"memory"},
		JWTSecret:          "test-secret",
		AdminUsername:      "admin",
		AdminPasswordHash:  hash,
		SessionTTL:         time.Hour,
		MaxBodyBytes:       1 << 10,
		CORSOrigins:        "*",
		LoginRatePerMinute: 5,
	}
}

func makeTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := testConfig(t)
	log := logging.Discard()
	ctx := context.Background()

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	return newServer(cfg, log, store.repositories(ctx, log), auth.NewLoginLimiter(cfg.LoginRatePerMinute))
}

func TestServer_HealthAndMetrics(t *testing.T) {
	app := makeTestApp(t)

	res, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	if res.Header.Get("Pragma") != "no-cache" {
		t.Fatalf("expected no-cache headers, got %v", res.Header)
	}

	res, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), "giftstore_http_requests_total") {
		t.Fatalf("metrics output missing request counter")
	}
}

func TestServer_AdminFlow(t *testing.T) {
	app := makeTestApp(t)

	res, err := app.Test(httptest.NewRequest("POST", "/api/store", strings.NewReader(`{"type":"product","data":{}}`)))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without session, got %d", res.StatusCode)
	}

	login := httptest.NewRequest("POST", "/api/auth", strings.NewReader(`{"action":"login","username":"admin","password":"s3cret"}`))
	login.Header.Set("Content-Type", "application/json")
	res, err = app.Test(login)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 on login, got %d", res.StatusCode)
	}
	var session string
	for _, c := range res.Cookies() {
		if c.Name == auth.CookieName {
			session = c.Value
		}
	}
	if session == "" {
		t.Fatalf("login did not set the session cookie")
	}

	create := httptest.NewRequest("POST", "/api/store", strings.NewReader(`{"type":"product","data":{"name":"Caneca Mágica","price":19.9,"category":"canecas"}}`))
	create.Header.Set("Content-Type", "application/json")
	create.Header.Set("Cookie", auth.CookieName+"="+session)
	res, err = app.Test(create)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", res.StatusCode)
	}

	res, err = app.Test(httptest.NewRequest("GET", "/api/products/1", nil))
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	body, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(body), `"slug":"caneca-magica"`) {
		t.Fatalf("unexpected product body: %s", body)
	}
}

func TestServer_RejectsOversizedBody(t *testing.T) {
	app := makeTestApp(t)

	// served over net/http so the middleware sees the body instead of
	// fasthttp's own reader limit
	srv := httptest.NewServer(adaptor.FiberApp(app))
	defer srv.Close()

	payload := `{"type":"product","data":{"description":"` + strings.Repeat("x", 4<<10) + `"}}`
	res, err := http.Post(srv.URL+"/api/store", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != fiber.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", res.StatusCode)
	}
}

func TestOpenStorage_UnknownBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backends = []string{"memory", "redis"}
	if _, err := openStorage(context.Background(), cfg, logging.Discard()); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestOpenStorage_SkipsUnconfiguredBackends(t *testing.T) {
	cfg := testConfig(t)
	cfg.Backends = []string{"postgres", "mongo"}
	store, err := openStorage(context.Background(), cfg, logging.Discard())
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	if len(store.backends) != 1 || store.backends[0] != "memory" {
		t.Fatalf("expected memory fallback, got %v", store.backends)
	}
}

func TestHashPasswordCommand(t *testing.T) {
	var out bytes.Buffer
	hashPasswordCmd.SetIn(strings.NewReader("s3cret\n"))
	hashPasswordCmd.SetOut(&out)
	if err := hashPasswordCmd.RunE(hashPasswordCmd, nil); err != nil {
		t.Fatalf("hash-password: %v", err)
	}
	if !strings.HasPrefix(out.String(), "$2") {
		t.Fatalf("expected bcrypt hash, got %q", out.String())
	}
}
