// handlers/announcement_routes.go
package handlers

import (
	"mime/multipart"
	"strings"
	"time"

	"padel-club-api/middleware"
	"padel-club-api/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAnnouncementRoutes(app *fiber.App, authn fiber.Handler, announcements *services.AnnouncementService) {
	group := app.Group("/announcements", authn)
	admin := middleware.Requires(middleware.RoleAdmin)

	group.Get("/", func(c *fiber.Ctx) error {
		out, err := announcements.List(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(out)
	})

	group.Get("/:id/images", func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		urls, err := announcements.Images(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"announcement_id": id, "images": urls})
	})

	// 🔒 admin routes
	// Accepts either a JSON body or a multipart form with "images" files.
	group.Post("/", admin, func(c *fiber.Ctx) error {
		in, files, err := parseAnnouncement(c)
		if err != nil {
			return err
		}
		out, err := announcements.Create(c.UserContext(), middleware.CurrentUser(c), in, files)
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
		if err := announcements.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"message": "Announcement deleted successfully"})
	})
}

func parseAnnouncement(c *fiber.Ctx) (services.NewAnnouncement, []*multipart.FileHeader, error) {
	var in services.NewAnnouncement
	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return in, nil, bindJSON(c, &in)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return in, nil, validationError("invalid multipart form")
	}
	in.Title = first(form.Value["title"])
	in.Content = first(form.Value["content"])
	if raw := first(form.Value["publish_at"]); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return in, nil, validationError("publish_at must be an RFC3339 timestamp")
		}
		in.PublishAt = &t
	}
	return in, form.File["images"], nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
