// handlers/team_routes.go
package handlers

import (
	"padel-club-api/middleware"
	"padel-club-api/services"

	"github.com/gofiber/fiber/v2"
)

// SetupTeamRoutes exposes competition teams. All of it is admin only.
func SetupTeamRoutes(app *fiber.App, authn fiber.Handler, teams *services.TeamService) {
	group := app.Group("/teams", authn, middleware.Requires(middleware.RoleAdmin))

	group.Get("/", func(c *fiber.Ctx) error {
		out, err := teams.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(out)
	})

	group.Post("/", func(c *fiber.Ctx) error {
		var in services.NewTeam
		if err := bindJSON(c, &in); err != nil {
			return err
		}
		out, err := teams.Create(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	})

	group.Delete("/:id", func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		if err := teams.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Team deleted successfully"})
	})

	group.Post("/:id/members/:user_id", func(c *fiber.Ctx) error {
		teamID, userID, err := teamMemberParams(c)
		if err != nil {
			return err
		}
		out, err := teams.AddMember(c.UserContext(), teamID, userID)
		if err != nil {
			return err
		}
		return c.JSON(out)
	})

	group.Delete("/:id/members/:user_id", func(c *fiber.Ctx) error {
		teamID, userID, err := teamMemberParams(c)
		if err != nil {
			return err
		}
		out, err := teams.RemoveMember(c.UserContext(), teamID, userID)
		if err != nil {
			return err
		}
		return c.JSON(out)
	})

	group.Post("/:id/matches", func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		var in services.NewMatch
		if err := bindJSON(c, &in); err != nil {
			return err
		}
		out, err := teams.RecordMatch(c.UserContext(), id, in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(out)
	})
}

func teamMemberParams(c *fiber.Ctx) (uint, uint, error) {
	teamID, err := idParam(c, "id")
	if err != nil {
		return 0, 0, err
	}
	userID, err := idParam(c, "user_id")
	if err != nil {
		return 0, 0, err
	}
	return teamID, userID, nil
}
