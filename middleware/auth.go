// middleware/auth.go
package middleware

import (
	"log"

	"loyalty-rewards-system/models"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by UserContextMiddleware.
const (
	LocalMemberID = "member_id"
	LocalRole     = "role"
)

// UserContextMiddleware extracts the identity resolved by the Gateway
// (X-User-ID, X-User-Role). The raw role string is parsed into a typed Role
// exactly once here; every mutating handler uses only this identity, never a
// caller-supplied member id.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		memberID := c.Get("X-User-ID")
		if memberID == "" {
			log.Printf("❌ [USER_CTX] X-User-ID missing on secured route: %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "missing X-User-ID — request must come through gateway with auth context",
			})
		}

		role, ok := models.ParseRole(c.Get("X-User-Role"))
		if !ok {
			role = models.RoleCustomer
		}

		c.Locals(LocalMemberID, memberID)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// RequireRole gates a route group on the typed role resolved at
// authentication.
func RequireRole(required models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalRole).(models.Role)
		if role != required {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "insufficient role for this operation",
			})
		}
		return c.Next()
	}
}

// MemberID returns the authenticated member id from the request context.
func MemberID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalMemberID).(string)
	return id
}
