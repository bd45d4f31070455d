package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agenda-api/internal/apperr"
	"agenda-api/internal/auth"
	"agenda-api/internal/middleware"
	"agenda-api/pkg/logger"
)

// fail maps a domain error onto the uniform HTTP error shape. Internal
// causes are logged but never leaked to the caller.
func fail(c echo.Context, err error) error {
	kind := apperr.KindOf(err)
	status := kind.HTTPStatus()
	msg := err.Error()
	if kind == apperr.KindInternal {
		logger.FromContext(c).Error("internal error", zap.Error(err))
		msg = "internal server error"
	}
	return c.JSON(status, echo.Map{"error": msg})
}

// requireActor fetches the authenticated caller. A missing actor means
// the route was wired without AuthMiddleware; the caller must hand the
// error to fail so exactly one 401 response is written.
func requireActor(c echo.Context) (auth.Actor, error) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		return auth.Actor{}, apperr.Unauthorized("authentication required")
	}
	return actor, nil
}
