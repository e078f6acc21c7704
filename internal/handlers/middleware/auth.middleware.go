package middleware

import (
	"context"
	"strings"

	"innkeep/internal/models"
	"innkeep/internal/services"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
)

// AuthContextKey is used to store auth info in context
type AuthContextKey string

const (
	AdminKey      AuthContextKey = "admin"
	AdminKeyFiber string         = "Admin" // Fiber context key (string)
)

// RequireAuth validates the session token and loads the admin it belongs to.
func (m *Middleware) RequireAuth(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.New("middleware").TraceFromContext(c.Context()).Function("RequireAuth")

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			log.Info("missing authorization header")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header required",
			})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			log.Info("invalid authorization header format")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid authorization header format",
			})
		}

		token := tokenParts[1]
		if token == "" {
			log.Info("empty token")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token required",
			})
		}

		admin, err := authService.ValidateToken(c.Context(), token)
		if err != nil {
			log.Info("token validation failed", "error", err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		// Store admin in Fiber context
		c.Locals(AdminKeyFiber, admin)

		// Add to Go context for services (preserve trace ID from TraceID middleware)
		ctx := context.WithValue(c.UserContext(), AdminKey, admin)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// GetAdmin extracts the authenticated admin from Fiber context
func GetAdmin(c *fiber.Ctx) *models.Admin {
	admin, ok := c.Locals(AdminKeyFiber).(*models.Admin)
	if !ok {
		return nil
	}
	return admin
}
