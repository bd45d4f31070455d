package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agenda-api/internal/service"
	"agenda-api/pkg/logger"
	"agenda-api/prometheus"
)

// Login authenticates a user and returns a bearer token with tenant
// and role claims.
func (h *Handler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, err := h.svc.Auth.Login(req.Email, req.Password)
	if err != nil {
		prometheus.RecordAuthError("login_failed")
		return fail(c, err)
	}

	token, err := h.jwt.GenerateToken(user)
	if err != nil {
		log.Error("failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("user logged in",
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)),
		zap.String("tenant_id", user.TenantID.String()))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user":  user,
	})
}

// Register resolves the registration mode and creates the account.
func (h *Handler) Register(c echo.Context) error {
	log := logger.FromContext(c)

	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	mode := req.Mode
	if mode == "" {
		mode = service.ModeRequestAccess
	}
	prometheus.RegisterCounter.WithLabelValues(string(mode)).Inc()

	user, err := h.svc.Auth.Register(req)
	if err != nil {
		prometheus.RecordAuthError("registration_failed")
		return fail(c, err)
	}

	log.Info("user registered",
		zap.String("email", user.Email),
		zap.String("mode", string(mode)))

	message := "User registered successfully"
	if mode == service.ModeRequestAccess {
		message = "Access requested, waiting for an administrator to activate the account"
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": message,
		"user":    user,
	})
}

// Profile returns the authenticated caller's own account.
func (h *Handler) Profile(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	user, err := h.svc.Auth.Profile(actor.UserID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword updates the caller's own password.
func (h *Handler) ChangePassword(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if err := h.svc.Users.ChangePassword(actor, req.CurrentPassword, req.NewPassword); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password changed successfully"})
}
