// middleware/auth.go
package middleware

import (
	"context"
	"strings"

	"padel-club-api/models"
	"padel-club-api/services"

	"github.com/gofiber/fiber/v2"
)

const currentUserKey = "current_user"

// Role is a capability a route may require.
type Role int

const (
	RoleMember Role = iota
	RoleAdmin
)

// UserResolver turns a bearer token into the acting user.
type UserResolver interface {
	ResolveCurrentUser(ctx context.Context, token string) (*models.User, error)
}

// Authenticate resolves the bearer token and stores the user for handlers.
// Every failure is reported as 401 with a Bearer challenge.
func Authenticate(resolver UserResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return &services.Error{Kind: services.KindUnauthorized, Message: "Not authenticated"}
		}

		user, err := resolver.ResolveCurrentUser(c.UserContext(), strings.TrimSpace(token))
		if err != nil {
			return err
		}
		c.Locals(currentUserKey, user)
		return c.Next()
	}
}

// Requires gates a route on a capability of the authenticated user. It must
// run after Authenticate.
func Requires(role Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return &services.Error{Kind: services.KindUnauthorized, Message: "Not authenticated"}
		}
		if role == RoleAdmin {
			if err := services.RequireAdmin(user); err != nil {
				return err
			}
		}
		return c.Next()
	}
}

// CurrentUser returns the user stored by Authenticate, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(currentUserKey).(*models.User)
	return u
}
