package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"agenda-api/internal/model"
	"agenda-api/internal/service"
)

// CreateAppointment books a slot for a staff user.
func (h *Handler) CreateAppointment(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	var req service.CreateAppointmentInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	appt, err := h.svc.Appointments.Create(actor, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, appt)
}

// ListAppointments returns the tenant's appointments, filtered by the
// optional from/to/status/client_id/user_id query parameters.
func (h *Handler) ListAppointments(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}

	var f service.AppointmentFilter
	if raw := c.QueryParam("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date, expected RFC3339"})
		}
		f.From = &t
	}
	if raw := c.QueryParam("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date, expected RFC3339"})
		}
		f.To = &t
	}
	if raw := c.QueryParam("status"); raw != "" {
		f.Status = model.AppointmentStatus(raw)
	}
	if raw := c.QueryParam("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid client_id"})
		}
		f.ClientID = &id
	}
	if raw := c.QueryParam("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
		}
		f.UserID = &id
	}

	appts, err := h.svc.Appointments.List(actor, f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, appts)
}

// Calendar lists the tenant's appointments for one month
// (?month=&year=, defaulting to the current one).
func (h *Handler) Calendar(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	month, year := monthYearParams(c)
	appts, err := h.svc.Appointments.Calendar(actor, month, year)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, appts)
}

// GetAppointment returns one appointment inside the caller's scope.
func (h *Handler) GetAppointment(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}
	appt, err := h.svc.Appointments.Get(actor, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, appt)
}

// UpdateAppointment modifies an appointment, rechecking conflicts when
// the time window changes.
func (h *Handler) UpdateAppointment(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}
	var req service.UpdateAppointmentInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	appt, err := h.svc.Appointments.Update(actor, id, req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, appt)
}

// DeleteAppointment removes an appointment inside the caller's scope.
func (h *Handler) DeleteAppointment(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}
	if err := h.svc.Appointments.Delete(actor, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Appointment deleted successfully"})
}

// DashboardStats returns the per-month aggregates for the caller's
// tenant.
func (h *Handler) DashboardStats(c echo.Context) error {
	actor, err := requireActor(c)
	if err != nil {
		return fail(c, err)
	}
	month, year := monthYearParams(c)
	stats, err := h.svc.Dashboard.Stats(actor, month, year)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// monthYearParams parses the optional month/year query parameters.
// Unparsable values come back as zero and fall through to the
// current-month default downstream.
func monthYearParams(c echo.Context) (int, int) {
	month, _ := strconv.Atoi(c.QueryParam("month"))
	year, _ := strconv.Atoi(c.QueryParam("year"))
	return month, year
}
