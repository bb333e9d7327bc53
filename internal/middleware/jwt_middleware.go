package middleware

import (
	"log"
	"strings"

	"sepatu/internal/models"
	"sepatu/internal/services"

	"github.com/gofiber/fiber/v2"
)

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// AdminRequired checks for a valid JWT with the admin role and stores the
// admin identity in the request context.
func AdminRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		role, _ := claims["role"].(string)
		if role != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin privileges required",
			})
		}

		c.Locals("admin_id", claims["admin_id"])
		c.Locals("username", claims["username"])
		return c.Next()
	}
}

// UserRequired checks for a valid JWT carrying a verified customer email and
// stores it in the request context for user-scoped order queries.
func UserRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		email, _ := claims["email"].(string)
		if email == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "User email not found in token",
			})
		}

		c.Locals("user_email", email)
		return c.Next()
	}
}
