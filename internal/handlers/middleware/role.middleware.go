package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireManager gates routes that change rooms or stay statuses. Editors can
// read the board but cannot transition stays or create inventory.
func (m *Middleware) RequireManager() fiber.Handler {
	log := m.log.Function("RequireManager")

	return func(c *fiber.Ctx) error {
		admin := GetAdmin(c)
		if admin == nil {
			log.Info("admin not found in context")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		if !admin.CanManage() {
			log.Info("insufficient role", "adminID", admin.ID, "role", admin.Role)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Manager access required",
			})
		}

		return c.Next()
	}
}
