package server

import (
	"errors"
	"log/slog"
	"strings"

	"codelearn/internal/middleware"
	"codelearn/models"

	"github.com/gofiber/fiber/v2"
)

const authCookieName = "token"

// requestToken returns the bearer token from the Authorization header,
// falling back to the auth cookie.
func requestToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.Cookies(authCookieName)
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := s.authService.Authenticate(c.UserContext(), requestToken(c))
		if err != nil {
			return respondServiceError(c, err)
		}

		c.Locals("userID", user.ID)
		c.Locals("user", user)
		c.SetUserContext(middleware.WithUserID(c.UserContext(), user.ID))
		return c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is presented and
// otherwise lets the request through as anonymous.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := requestToken(c)
		if token == "" {
			return c.Next()
		}

		user, err := s.authService.Authenticate(c.UserContext(), token)
		if err != nil {
			if !errors.Is(err, models.ErrUnauthorized) {
				slog.WarnContext(c.UserContext(), "optional auth lookup failed", slog.String("error", err.Error()))
			}
			return c.Next()
		}

		c.Locals("userID", user.ID)
		c.Locals("user", user)
		c.SetUserContext(middleware.WithUserID(c.UserContext(), user.ID))
		return c.Next()
	}
}

// principal returns who the request is acting as.
func principal(c *fiber.Ctx) models.Principal {
	if uid, ok := c.Locals("userID").(uint); ok {
		return models.UserPrincipal(uid)
	}
	return models.Anonymous()
}
