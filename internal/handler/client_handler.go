package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"agenda-api/internal/service"
)

// CreateClient adds a client to the caller's tenant.
func (h *Handler) CreateClient(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	var req service.CreateClientInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	client, err := h.svc.Clients.Create(actor, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, client)
}

// ListClients returns the tenant's clients, optionally searched by
// ?search over name, phone and email.
func (h *Handler) ListClients(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	clients, err := h.svc.Clients.List(actor, c.QueryParam("search"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, clients)
}

// GetClient returns one client inside the caller's scope.
func (h *Handler) GetClient(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid client id"})
	}
	client, err := h.svc.Clients.Get(actor, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, client)
}

// UpdateClient modifies a client inside the caller's scope.
func (h *Handler) UpdateClient(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid client id"})
	}
	var req service.UpdateClientInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	client, err := h.svc.Clients.Update(actor, id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, client)
}

// DeleteClient removes a client inside the caller's scope.
func (h *Handler) DeleteClient(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid client id"})
	}
	if err := h.svc.Clients.Delete(actor, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Client deleted successfully"})
}

// ClientStats returns the client's appointment counts by status.
func (h *Handler) ClientStats(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid client id"})
	}
	stats, err := h.svc.Clients.Stats(actor, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
