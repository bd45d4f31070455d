package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"agenda-api/internal/service"
	"agenda-api/pkg/logger"
	"agenda-api/prometheus"
)

// CreateTenant provisions a tenant. Superadmin only.
func (h *Handler) CreateTenant(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	prometheus.TenantOperationCounter.WithLabelValues("create").Inc()

	var req service.CreateTenantInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	tenant, err := h.svc.Tenants.Create(actor, req)
	if err != nil {
		return fail(c, err)
	}

	logger.FromContext(c).Info("tenant created",
		zap.String("slug", tenant.Slug), zap.String("by", actor.Email))
	return c.JSON(http.StatusCreated, tenant)
}

// ListTenants returns every tenant. Superadmin only.
func (h *Handler) ListTenants(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	tenants, err := h.svc.Tenants.List(actor)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, tenants)
}

// GetTenant returns one tenant inside the caller's scope.
func (h *Handler) GetTenant(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant id"})
	}
	tenant, err := h.svc.Tenants.Get(actor, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}

// UpdateTenant modifies tenant fields. Superadmin only.
func (h *Handler) UpdateTenant(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	prometheus.TenantOperationCounter.WithLabelValues("update").Inc()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant id"})
	}
	var req service.UpdateTenantInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	tenant, err := h.svc.Tenants.Update(actor, id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}

// DeleteTenant removes a tenant and its data. Superadmin only.
func (h *Handler) DeleteTenant(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	prometheus.TenantOperationCounter.WithLabelValues("delete").Inc()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant id"})
	}
	if err := h.svc.Tenants.Delete(actor, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Tenant deleted successfully"})
}

// UpdateTheme switches a tenant to another predefined theme.
func (h *Handler) UpdateTheme(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant id"})
	}
	var req struct {
		Theme string `json:"theme"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	tenant, err := h.svc.Tenants.UpdateTheme(actor, id, req.Theme)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}

// ListThemes returns the predefined theme catalog.
func (h *Handler) ListThemes(c echo.Context) error {
	return c.JSON(http.StatusOK, service.ListThemes())
}
