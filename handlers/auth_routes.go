// handlers/auth_routes.go
package handlers

import (
	"padel-club-api/services"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes exposes the form-encoded login endpoint.
func SetupAuthRoutes(app *fiber.App, auth *services.AuthService) {
	app.Post("/auth/login", func(c *fiber.Ctx) error {
		username := c.FormValue("username")
		password := c.FormValue("password")
		if username == "" || password == "" {
			return validationError("username and password are required")
		}
		token, err := auth.Authenticate(c.UserContext(), username, password)
		if err != nil {
			return err
		}
		return c.JSON(token)
	})
}
