package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"storefront/auth"
)

const sessionKey = "session"

type Authenticator interface {
	Authenticate(token string) (auth.Session, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// session for the handlers behind it.
func RequireAuth(a Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
		}

		session, err := a.Authenticate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
		}

		c.Locals(sessionKey, session)
		return c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin(c *fiber.Ctx) error {
	session, ok := SessionFrom(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Unauthorized"})
	}
	if err := auth.RequireAdmin(session); err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Forbidden"})
	}
	return c.Next()
}

func SessionFrom(c *fiber.Ctx) (auth.Session, bool) {
	s, ok := c.Locals(sessionKey).(auth.Session)
	return s, ok
}
