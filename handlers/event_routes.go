// handlers/event_routes.go
package handlers

import (
	"padel-club-api/middleware"
	"padel-club-api/services"

	"github.com/gofiber/fiber/v2"
)

func SetupEventRoutes(app *fiber.App, authn fiber.Handler, reg *services.RegistrationService, events *services.EventService) {
	group := app.Group("/events", authn)
	admin := middleware.Requires(middleware.RoleAdmin)

	// 👤 member routes
	group.Get("/", func(c *fiber.Ctx) error {
		out, err := reg.ListEvents(c.UserContext(), middleware.CurrentUser(c), limitQuery(c))
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
		out, err := reg.RegisterForEvent(c.UserContext(), middleware.CurrentUser(c), id)
		if err != nil {
			return err
		}
		return c.JSON(out)
	})

	// user_id is mandatory; only admins may name someone else
	group.Delete("/:id/unregister", func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		target, err := intQuery(c, "user_id")
		if err != nil {
			return err
		}
		if target <= 0 {
			return validationError("user_id must be a positive integer")
		}
		out, err := reg.UnregisterFromEvent(c.UserContext(), middleware.CurrentUser(c), uint(target), id)
		if err != nil {
			return err
		}
		return c.JSON(out)
	})

	group.Get("/:id/get_users", func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		out, err := events.Participants(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(out)
	})

	// 🔒 admin routes
	group.Post("/", admin, func(c *fiber.Ctx) error {
		var in services.NewEvent
		if err := bindJSON(c, &in); err != nil {
			return err
		}
		out, err := events.Create(c.UserContext(), in)
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
		var p services.EventPatch
		if err := bindPatch(c, &p); err != nil {
			return err
		}
		out, err := events.Patch(c.UserContext(), id, p)
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
		if err := events.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Event deleted successfully"})
	})
}
