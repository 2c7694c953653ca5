// handlers/home_routes.go
package handlers

import (
	"padel-club-api/middleware"
	"padel-club-api/services"

	"github.com/gofiber/fiber/v2"
)

func SetupHomeRoutes(app *fiber.App, authn fiber.Handler, home *services.HomeService) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to the padel club API"})
	})

	app.Get("/home/summary", authn, func(c *fiber.Ctx) error {
		out, err := home.Summary(c.UserContext(), middleware.CurrentUser(c))
		if err != nil {
			return err
		}
		return c.JSON(out)
	})
}
