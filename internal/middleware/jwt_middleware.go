package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"homemart/internal/services"
)

const (
	localUserID   = "user_id"
	localUsername = "username"
)

// AuthRequired guards staff routes: it rejects requests without a valid
// "Bearer <token>" Authorization header and stores the staff identity in
// the request locals.
func AuthRequired(authService *services.AuthService, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scheme, token, ok := strings.Cut(c.Get(fiber.HeaderAuthorization), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
				"error":   services.ErrInvalidToken.Error(),
			})
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			logger.Debug("Rejected staff token", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		c.Locals(localUserID, claims["user_id"])
		c.Locals(localUsername, claims["username"])
		return c.Next()
	}
}

// StaffUsername returns the username of the authenticated staff member, or
// "" outside AuthRequired.
func StaffUsername(c *fiber.Ctx) string {
	name, _ := c.Locals(localUsername).(string)
	return name
}
