package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agenda-api/internal/auth"
	"agenda-api/pkg/jwtutil"
	"agenda-api/pkg/logger"
	"agenda-api/prometheus"
)

const actorKey = "actor"

// AuthMiddleware validates the bearer token and stores the resulting
// Actor in the echo context for handlers to pick up.
func AuthMiddleware(jwt *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				prometheus.RecordAuthError("invalid_auth_format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			claims, err := jwt.ValidateToken(parts[1])
			if err != nil {
				log.Warn("invalid JWT token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set(actorKey, auth.Actor{
				UserID:     claims.UserID,
				Email:      claims.Email,
				Role:       claims.Role,
				TenantID:   claims.TenantID,
				TenantSlug: claims.TenantSlug,
			})
			return next(c)
		}
	}
}

// ActorFromContext returns the authenticated caller stored by
// AuthMiddleware.
func ActorFromContext(c echo.Context) (auth.Actor, bool) {
	actor, ok := c.Get(actorKey).(auth.Actor)
	return actor, ok
}
