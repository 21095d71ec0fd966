package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	service      *Service
	limiter      *LoginLimiter
	cookieSecure bool
	log          logrus.FieldLogger
}

func NewHandler(s *Service, limiter *LoginLimiter, cookieSecure bool, log logrus.FieldLogger) *Handler {
	return &Handler{service: s, limiter: limiter, cookieSecure: cookieSecure, log: log}
}

type authRequest struct {
	Action   string `json:"action"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Post("/api/auth", h.handle)
}

func (h *Handler) handle(c *fiber.Ctx) error {
	var req authRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid JSON body"})
	}

	switch req.Action {
	case "login":
		return h.login(c, req)
	case "logout":
		h.clearCookie(c)
		return c.JSON(fiber.Map{"authenticated": false})
	case "check":
		_, err := h.service.Verify(c.Cookies(CookieName))
		return c.JSON(fiber.Map{"authenticated": err == nil})
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "action must be login, logout or check"})
	}
}

func (h *Handler) login(c *fiber.Ctx, req authRequest) error {
	ip := c.IP()
	if h.limiter.Blocked(ip) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "too many login attempts, try again later"})
	}

	session, err := h.service.Login(req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		h.limiter.Fail(ip)
		h.log.WithField("ip", ip).Warn("failed admin login")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid username or password"})
	}
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(h.service.TTL().Seconds()),
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.JSON(fiber.Map{"authenticated": true})
}

func (h *Handler) clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
