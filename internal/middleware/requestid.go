package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDHeader carries the correlation id threaded through logs and
// echoed back on every response.
const RequestIDHeader = "X-Request-ID"

// RequestID tags the request with a correlation id, reusing the
// caller's when one was sent and minting a uuid otherwise. The id is
// stored in the context for the logger middleware and mirrored on the
// response so clients can quote it when reporting problems.
func RequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Response().Header().Set(RequestIDHeader, id)
		return next(c)
	}
}
