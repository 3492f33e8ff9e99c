package middleware

import (
	"context"
	"strings"

	"go-retail-admin/internal/apperr"
	"go-retail-admin/internal/session"

	"github.com/gofiber/fiber/v2"
)

const sessionKey = "session"

// Authenticator resolves a bearer token into a live session
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*session.Session, error)
}

// RequireAuth validates the JWT against its server-side session and stores the session
// in the request context for downstream handlers.
func RequireAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get Authorization header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return WriteError(c, apperr.Auth("missing authorization token"))
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return WriteError(c, apperr.Auth("invalid authorization format, use: Bearer <token>"))
		}

		sess, err := auth.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			return WriteError(c, err)
		}

		c.Locals(sessionKey, sess)
		c.Locals("user_id", sess.UserID)
		c.Locals("user_email", sess.Profile.Email)
		c.Locals("user_name", sess.Actor().Name)

		return c.Next()
	}
}

// RequireAdmin rejects sessions whose profile role is not admin. Must run after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := CurrentSession(c)
		if sess == nil || !sess.IsAdmin() {
			return WriteError(c, apperr.PermissionDenied("admin access required"))
		}
		return c.Next()
	}
}

// CurrentSession returns the session stored by RequireAuth, or nil on public routes.
func CurrentSession(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(sessionKey).(*session.Session)
	return sess
}
