package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/xinv4sionx/marketplace/server/internal/service"
)

const sessionKey = "session"

// Auth rejects requests without a valid bearer token and stores the
// resolved session for downstream handlers.
func Auth(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimSpace(strings.Replace(c.Get(fiber.HeaderAuthorization), "Bearer ", "", 1))
		sess, err := svc.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}
		c.Locals(sessionKey, sess)
		return c.Next()
	}
}

// SessionFrom returns the session stored by Auth.
func SessionFrom(c *fiber.Ctx) (service.Session, bool) {
	sess, ok := c.Locals(sessionKey).(service.Session)
	return sess, ok
}
