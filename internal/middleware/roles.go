package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/trainsapp/trains-backend/internal/dto"
)

// HasRole reports whether a decoded role claim satisfies one of the required
// roles. Plain function so the check is testable without a request context.
func HasRole(role string, required ...string) bool {
	for _, r := range required {
		if role == r {
			return true
		}
	}
	return false
}

// RoleRequired gates an operation on the role claim of the already-verified
// access token. Must run after JWTProtected.
func RoleRequired(required ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, err := GetRole(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if !HasRole(role, required...) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Insufficient role",
			})
		}
		return c.Next()
	}
}
