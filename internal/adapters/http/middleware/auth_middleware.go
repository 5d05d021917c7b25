package middleware

import (
	"errors"
	"strings"

	"carbon-registry/internal/pkg/ability"
	"carbon-registry/internal/pkg/jwt"
	"carbon-registry/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthMiddleware
const (
	LocalUserID  = "userID"
	LocalClaims  = "claims"
	LocalAbility = "ability"
)

// AuthMiddleware validates the bearer token and binds the caller's ability
func AuthMiddleware(secret string, policy *ability.Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Try Authorization header first, then cookie
		var accessToken string
		authHeader := c.Get("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			accessToken = strings.TrimPrefix(authHeader, "Bearer ")
		}
		if accessToken == "" {
			accessToken = c.Cookies("access_token")
		}

		// 2. No token found
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 3. Validate token
		claims, err := jwt.ValidateAccessToken(accessToken, secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		// 4. Set user info and ability in context
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalClaims, claims)
		c.Locals(LocalAbility, policy.For(ability.Subject{
			UserID:      claims.UserID,
			Role:        claims.Role,
			CompanyID:   claims.CompanyID,
			CompanyRole: claims.CompanyRole,
			Country:     claims.Country,
		}))

		return c.Next()
	}
}

// Require rejects callers whose ability grants no rule for the action.
// Row-level conditions are still applied by the handler.
func Require(action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		a, ok := c.Locals(LocalAbility).(*ability.Ability)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		if !a.Can(action) {
			return response.Forbidden(c, "You don't have permission to access this resource")
		}
		return c.Next()
	}
}
