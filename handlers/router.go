// handlers/router.go
package handlers

import (
	"strings"

	"padel-club-api/config"
	"padel-club-api/middleware"
	"padel-club-api/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// Services groups everything the routes call into.
type Services struct {
	Auth          *services.AuthService
	Registration  *services.RegistrationService
	Users         *services.UserService
	Classes       *services.ClassService
	Events        *services.EventService
	Announcements *services.AnnouncementService
	Teams         *services.TeamService
	Home          *services.HomeService
}

// NewApp builds the fiber app with global middleware and every route.
func NewApp(cfg config.Config, log *zap.SugaredLogger, svc Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "padel-club-api",
		BodyLimit:             32 * 1024 * 1024, // 10 images per announcement
		ErrorHandler:          ErrorHandler(log),
		DisableStartupMessage: true,
	})

	origins := strings.Join(cfg.AllowedOrigins, ",")
	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: origins != "*", // fiber refuses credentials with a wildcard origin
		MaxAge:           86400,
	}))
	app.Use(middleware.RequestLogger(log))

	authn := middleware.Authenticate(svc.Auth)

	SetupHomeRoutes(app, authn, svc.Home)
	SetupAuthRoutes(app, svc.Auth)
	SetupClassRoutes(app, authn, svc.Registration, svc.Classes)
	SetupEventRoutes(app, authn, svc.Registration, svc.Events)
	SetupAnnouncementRoutes(app, authn, svc.Announcements)
	SetupUserRoutes(app, authn, svc.Users, svc.Registration)
	SetupTeamRoutes(app, authn, svc.Teams)

	return app
}
