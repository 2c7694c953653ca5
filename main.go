package main

import (
	"context"
	"errors"
	"net"
	"time"

	"padel-club-api/config"
	"padel-club-api/handlers"
	"padel-club-api/services"
	"padel-club-api/storage"
	"padel-club-api/utils"
	"padel-club-api/workers"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		fx.Provide(
			config.Load,
			newLogger,
			newStore,
			newImageBucket,
			newServices,
			newApp,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Invoke(runPublisher, runServer),
	).Run()
}

func newLogger(cfg config.Config) (*zap.Logger, *zap.SugaredLogger, error) {
	var (
		log *zap.Logger
		err error
	)
	if cfg.IsProduction() {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, nil, err
	}
	return log, log.Sugar(), nil
}

func newStore(lc fx.Lifecycle, cfg config.Config, log *zap.SugaredLogger) (*storage.Store, error) {
	store, err := storage.Open(cfg.Database, log.Named("storage"))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := store.Ping(ctx); err != nil {
				return err
			}
			return store.Migrate(ctx)
		},
		OnStop: func(context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}

// newImageBucket returns a nil bucket when R2 is not configured; image
// uploads are then refused while text announcements keep working.
func newImageBucket(cfg config.Config, log *zap.SugaredLogger) (services.ImageBucket, error) {
	if !cfg.R2.Enabled() {
		log.Warnw("R2 is not configured, announcement image uploads are disabled")
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	bucket, err := utils.NewR2Bucket(ctx, cfg.R2)
	if err != nil {
		return nil, err
	}
	return bucket, nil
}

func newServices(cfg config.Config, store *storage.Store, bucket services.ImageBucket, log *zap.SugaredLogger) handlers.Services {
	return handlers.Services{
		Auth:          services.NewAuthService(store, cfg.Auth, log.Named("auth")),
		Registration:  services.NewRegistrationService(store, log.Named("registration")),
		Users:         services.NewUserService(store, log.Named("users")),
		Classes:       services.NewClassService(store, log.Named("classes")),
		Events:        services.NewEventService(store, log.Named("events")),
		Announcements: services.NewAnnouncementService(store, bucket, log.Named("announcements")),
		Teams:         services.NewTeamService(store, store, log.Named("teams")),
		Home:          services.NewHomeService(store, store, store, log.Named("home")),
	}
}

func newApp(cfg config.Config, log *zap.SugaredLogger, svc handlers.Services) *fiber.App {
	return handlers.NewApp(cfg, log.Named("http"), svc)
}

func runPublisher(lc fx.Lifecycle, cfg config.Config, svc handlers.Services, log *zap.SugaredLogger) {
	publisher := workers.NewAnnouncementPublisher(svc.Announcements, cfg.PublishInterval, log.Named("publisher"))
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { return publisher.Start() },
		OnStop:  func(context.Context) error { return publisher.Stop() },
	})
}

func runServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg config.Config, app *fiber.App, log *zap.SugaredLogger) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", cfg.HTTPAddr)
			if err != nil {
				return err
			}
			go func() {
				if err := app.Listener(ln); err != nil && !errors.Is(err, net.ErrClosed) {
					log.Errorw("server stopped", "error", err)
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			log.Infow("server running", "addr", cfg.HTTPAddr, "env", cfg.Environment)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("shutting down server")
			return app.ShutdownWithContext(ctx)
		},
	})
}
