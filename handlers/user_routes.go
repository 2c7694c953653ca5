// handlers/user_routes.go
package handlers

import (
	"padel-club-api/middleware"
	"padel-club-api/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, authn fiber.Handler, users *services.UserService, reg *services.RegistrationService) {
	group := app.Group("/users", authn)
	admin := middleware.Requires(middleware.RoleAdmin)

	// self or admin, checked by the service
	group.Get("/:id", func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		out, err := users.Get(c.UserContext(), middleware.CurrentUser(c), id)
		if err != nil {
			return err
		}
		return c.JSON(out)
	})

	// 🔒 admin routes
	group.Get("/", admin, func(c *fiber.Ctx) error {
		out, err := users.List(c.UserContext(), limitQuery(c))
		if err != nil {
			return err
		}
		return c.JSON(out)
	})

	group.Post("/", admin, func(c *fiber.Ctx) error {
		var in services.NewUser
		if err := bindJSON(c, &in); err != nil {
			return err
		}
		out, err := users.Create(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	})

	group.Patch("/:id", admin, func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		var p services.UserPatch
		if err := bindPatch(c, &p); err != nil {
			return err
		}
		out, err := users.Patch(c.UserContext(), id, p)
		if err != nil {
			return err
		}
		return c.JSON(out)
	})

	group.Delete("/:id", admin, func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		if err := users.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "User deleted successfully"})
	})

	group.Post("/:id/add_recovery_classes", admin, func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		amount, err := intQuery(c, "amount")
		if err != nil {
			return err
		}
		out, err := reg.AdjustCredits(c.UserContext(), id, amount)
		if err != nil {
			return err
		}
		return c.JSON(out)
	})
}
