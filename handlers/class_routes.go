// handlers/class_routes.go
package handlers

import (
	"padel-club-api/middleware"
	"padel-club-api/services"

	"github.com/gofiber/fiber/v2"
)

func SetupClassRoutes(app *fiber.App, authn fiber.Handler, reg *services.RegistrationService, classes *services.ClassService) {
	group := app.Group("/classes", authn)
	admin := middleware.Requires(middleware.RoleAdmin)

	// 👤 member routes
	group.Get("/", func(c *fiber.Ctx) error {
		out, err := reg.ListClasses(c.UserContext(), middleware.CurrentUser(c), limitQuery(c))
		if err != nil {
			return err
		}
		return c.JSON(out)
	})

	group.Post("/:id/register", func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		out, err := reg.RegisterForClass(c.UserContext(), middleware.CurrentUser(c), id)
		if err != nil {
			return err
		}
		return c.JSON(out)
	})

	group.Delete("/:id/unregister", func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		out, err := reg.UnregisterFromClass(c.UserContext(), middleware.CurrentUser(c), id)
		if err != nil {
			return err
		}
		return c.JSON(out)
	})

	// 🔒 admin routes
	group.Post("/", admin, func(c *fiber.Ctx) error {
		var in services.NewClass
		if err := bindJSON(c, &in); err != nil {
			return err
		}
		out, err := classes.Create(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.JSON(out)
	})

	group.Patch("/:id", admin, func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		var p services.ClassPatch
		if err := bindPatch(c, &p); err != nil {
			return err
		}
		out, err := classes.Patch(c.UserContext(), id, p)
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
		if err := classes.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Class deleted successfully"})
	})

	group.Get("/:id/class_users", admin, func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		out, err := classes.Students(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(out)
	})
}
