package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Middleware injects a request-scoped logger carrying the request id
// into the echo context.
func Middleware(base *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := base
			if requestID, ok := c.Get("X-Request-ID").(string); ok && requestID != "" {
				l = base.With(zap.String("request_id", requestID))
			}
			c.Set("logger", l)
			return next(c)
		}
	}
}

// FromContext retrieves the request-scoped logger, falling back to the
// global one.
func FromContext(c echo.Context) *zap.Logger {
	if l, ok := c.Get("logger").(*zap.Logger); ok {
		return l
	}
	return zap.L()
}
