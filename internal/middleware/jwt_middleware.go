package middleware

import (
	"strings"

	"socialfeed/internal/apperrors"
	"socialfeed/internal/models"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// Authenticator resolves a bearer token to the caller's identity.
type Authenticator interface {
	Authenticate(token string) (models.Identity, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return apperrors.Unauthorized("Unauthorized: missing token")
		}

		identity, err := auth.Authenticate(token)
		if err != nil {
			return err
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// Expected format: "Bearer <token>"
func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// IdentityFrom returns the identity stored by AuthRequired.
func IdentityFrom(c *fiber.Ctx) (models.Identity, bool) {
	identity, ok := c.Locals(identityKey).(models.Identity)
	return identity, ok
}
