package middleware

// roles.go: role-based access control middleware.
// The app has three roles: admin, manager, user. Only course administration is
// restricted; scorecards and friends are scoped to their owner instead.

import "github.com/gofiber/fiber/v2"

// RequireRole returns a middleware handler that allows only users whose role matches one
// of the provided roles, and answers 403 Forbidden otherwise:
//
//	api.Post("/courses", middleware.RequireRole("admin", "manager"), handlers.CreateCourse(...))
//
// RequireRole must be used AFTER Auth, which is what populates the role in c.Locals.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole, ok := c.Locals(LocalUserRole).(string)
		if !ok || userRole == "" {
			// 403 rather than 401: the caller may be authenticated but still lack a role.
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "forbidden",
			})
		}

		for _, role := range roles {
			if userRole == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "insufficient permissions",
		})
	}
}
