package middleware

import (
	"errors"
	"strings"

	"gadgethub-api/internal/config"
	"gadgethub-api/internal/core/domain"
	"gadgethub-api/internal/pkg/jwt"
	"gadgethub-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Context keys set by AuthMiddleware
const (
	LocalUserID = "userID"
	LocalEmail  = "email"
	LocalRole   = "role"
	LocalBranch = "branch"
)

func bearerToken(c *fiber.Ctx) string {
	// cookie first, then Authorization header
	if token := c.Cookies("access_token"); token != "" {
		return token
	}
	authHeader := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// AuthMiddleware creates authentication middleware
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := bearerToken(c)
		if accessToken == "" {
			return response.Unauthorized(c, "Access token required")
		}

		claims, err := jwt.ValidateAccessToken(accessToken, cfg.JWT.Secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return response.Unauthorized(c, "Access token expired")
			}
			return response.Unauthorized(c, "Invalid access token")
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalRole, domain.Role(claims.Role))
		c.Locals(LocalBranch, claims.Branch)

		return c.Next()
	}
}

// ActorFrom returns the authenticated caller
func ActorFrom(c *fiber.Ctx) (domain.Actor, bool) {
	id, ok := c.Locals(LocalUserID).(uint)
	if !ok {
		return domain.Actor{}, false
	}
	role, _ := c.Locals(LocalRole).(domain.Role)
	branch, _ := c.Locals(LocalBranch).(string)
	return domain.Actor{ID: id, Role: role, Branch: branch}, true
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(domain.Role)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// RootOnly allows only the head office account
func RootOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleRoot)
}
