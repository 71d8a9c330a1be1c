package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/trainsapp/trains-backend/internal/config"
	"github.com/trainsapp/trains-backend/internal/dto"

	jwtware "github.com/gofiber/contrib/jwt"
)

// JWTProtected validates the bearer access token: signature via the jwt
// middleware, then issuer and audience against the configured values. The
// decoded token stays in c.Locals("user") for downstream handlers.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTAccessSecret)},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok || !validIssuerAudience(token, cfg) {
				return unauthorized(c)
			}
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c)
		},
	})
}

func validIssuerAudience(token *jwt.Token, cfg *config.Config) bool {
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return false
	}
	iss, err := claims.GetIssuer()
	if err != nil || iss != cfg.JWTIssuer {
		return false
	}
	aud, err := claims.GetAudience()
	if err != nil {
		return false
	}
	for _, a := range aud {
		if a == cfg.JWTAudience {
			return true
		}
	}
	return false
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error:   true,
		Message: "Unauthorized: invalid or expired token",
	})
}
