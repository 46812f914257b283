package middleware

import (
	"socialfeed/internal/apperrors"
	"socialfeed/internal/policy"

	"github.com/gofiber/fiber/v2"
)

// AdminRequired rejects callers without the admin role. It must run after AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFrom(c)
		if !ok {
			return apperrors.Unauthorized("Unauthorized: missing token")
		}
		if !policy.IsAdmin(identity) {
			return apperrors.Forbidden("Forbidden")
		}
		return c.Next()
	}
}
