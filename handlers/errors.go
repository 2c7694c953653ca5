// handlers/errors.go
package handlers

import (
	"errors"

	"padel-club-api/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var kindStatus = map[services.Kind]int{
	services.KindNotFound:     fiber.StatusNotFound,
	services.KindUnauthorized: fiber.StatusUnauthorized,
	services.KindForbidden:    fiber.StatusForbidden,
	services.KindRejected:     fiber.StatusBadRequest,
	services.KindValidation:   fiber.StatusUnprocessableEntity,
}

// ErrorHandler turns service errors into {"detail": ...} responses with a
// fixed status per kind. Anything unexpected is logged and reported as 500.
func ErrorHandler(log *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var svcErr *services.Error
		if errors.As(err, &svcErr) {
			status, ok := kindStatus[svcErr.Kind]
			if !ok {
				status = fiber.StatusInternalServerError
			}
			if svcErr.Kind == services.KindUnauthorized {
				c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
			}
			return c.Status(status).JSON(fiber.Map{"detail": svcErr.Message})
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"detail": fe.Message})
		}

		log.Errorw("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Internal server error"})
	}
}

func validationError(msg string) error {
	return &services.Error{Kind: services.KindValidation, Message: msg}
}
