package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"agenda-api/internal/service"
)

// CreateUser adds a staff user to a tenant.
func (h *Handler) CreateUser(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	var req service.CreateUserInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	user, err := h.svc.Users.Create(actor, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// ListUsers returns the users visible to the caller. Superadmins may
// narrow by ?tenant_id.
func (h *Handler) ListUsers(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	var tenantID *uuid.UUID
	if raw := c.QueryParam("tenant_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant_id"})
		}
		tenantID = &id
	}
	users, err := h.svc.Users.List(actor, tenantID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser returns one user inside the caller's scope.
func (h *Handler) GetUser(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	user, err := h.svc.Users.Get(actor, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser modifies a user inside the caller's scope.
func (h *Handler) UpdateUser(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	var req service.UpdateUserInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	user, err := h.svc.Users.Update(actor, id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// ActivateUser approves a pending access request.
func (h *Handler) ActivateUser(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	user, err := h.svc.Users.Activate(actor, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "User activated successfully",
		"user":    user,
	})
}

// DeleteUser removes a user inside the caller's scope.
func (h *Handler) DeleteUser(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if err := h.svc.Users.Delete(actor, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}
