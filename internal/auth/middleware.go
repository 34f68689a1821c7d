package auth

import (
	"fmt"
	"strings"

	"consignment-backend/internal/config"
	"consignment-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUsernameKey = "username"
	CtxUserRoleKey = "user_role"
	CtxCompanyKey  = "company"
)

// Caller: the request-scoped identity every handler works from. No handler
// reads session state from anywhere else.
type Caller struct {
	UserID   uint
	Username string
	Role     models.UserRole
	Company  string
}

// CanSeeAllCompanies mirrors models.User.CanSeeAllCompanies for the
// token-derived identity.
func (cl Caller) CanSeeAllCompanies() bool {
	if cl.Role == models.RoleAdmin {
		return true
	}
	return cl.Role == models.RoleManager && cl.Company == models.GlobalCompany
}

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing Authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization format must be 'Bearer <token>'")
		}

		tokenStr := parts[1]

		token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid or expired token")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Could not parse token claims")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUsernameKey, claims.Username)
		c.Locals(CtxUserRoleKey, claims.Role)
		c.Locals(CtxCompanyKey, claims.Company)

		return c.Next()
	}
}

// CallerFromContext rebuilds the Caller from the locals the middleware set.
func CallerFromContext(c *fiber.Ctx) (Caller, error) {
	userID, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok {
		return Caller{}, fiber.NewError(fiber.StatusForbidden, "Could not read user identity")
	}
	role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
	if !ok {
		return Caller{}, fiber.NewError(fiber.StatusForbidden, "Could not read user role")
	}
	username, _ := c.Locals(CtxUsernameKey).(string)
	company, _ := c.Locals(CtxCompanyKey).(string)

	return Caller{UserID: userID, Username: username, Role: role, Company: company}, nil
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Could not read user role")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "You are not allowed to perform this action")
	}
}
