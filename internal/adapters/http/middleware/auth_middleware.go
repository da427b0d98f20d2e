package middleware

import (
	"strings"

	"lms-loanapi/internal/config"
	"lms-loanapi/internal/core/domain"
	"lms-loanapi/internal/pkg/jwt"
	"lms-loanapi/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := extractToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if err == jwt.ErrTokenExpired {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)
		c.Locals("role", claims.Role)
		if claims.CustomerID != nil {
			c.Locals("customerID", *claims.CustomerID)
		}

		return c.Next()
	}
}

// extractToken reads the access token from the cookie first, then the
// Authorization header.
func extractToken(c *fiber.Ctx) string {
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// Principal builds the acting principal from the validated token claims.
// Only meaningful after AuthMiddleware has run.
func Principal(c *fiber.Ctx) domain.Principal {
	userID, _ := c.Locals("userID").(uint)
	username, _ := c.Locals("username").(string)
	role, _ := c.Locals("role").(string)
	return domain.Principal{
		UserID:   userID,
		Username: username,
		Role:     domain.Role(role),
	}
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only ADMIN role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(string(domain.RoleAdmin))
}
