package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/student-portal-api/internal/utils"
)

// Audiences accepted by WithAuth.
const (
	AuthRoleAny     = "any"
	AuthRoleStudent = RoleStudent
	AuthRoleStaff   = "staff"
)

// AuthOptions configures the WithAuth helper.
type AuthOptions struct {
	Role        string
	RequireUser bool
}

// WithAuth guards a single handler instead of a whole group. A named audience
// always implies an authenticated user; staff covers teachers and administrators.
func WithAuth(handler fiber.Handler, opts AuthOptions) fiber.Handler {
	audience := normalizeRoleValue(opts.Role)
	if audience == "" {
		audience = AuthRoleAny
	}
	requireUser := opts.RequireUser || audience != AuthRoleAny

	return func(c *fiber.Ctx) error {
		if requireUser && !hasUser(c) {
			return utils.Fail(c, fiber.StatusUnauthorized, "authentication required", nil)
		}

		role := normalizeRoleValue(c.Locals("user_role"))
		switch audience {
		case AuthRoleAny:
		case AuthRoleStaff:
			if !isStaff(role) {
				return utils.Fail(c, fiber.StatusForbidden, "staff access required", nil)
			}
		default:
			if role != audience {
				return utils.Fail(c, fiber.StatusForbidden, "insufficient permissions", nil)
			}
		}

		return handler(c)
	}
}

func hasUser(c *fiber.Ctx) bool {
	switch v := c.Locals("user_id").(type) {
	case uint:
		return v != 0
	case int:
		return v > 0
	case string:
		return v != "" && v != "0"
	default:
		return false
	}
}
