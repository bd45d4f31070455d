package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"agenda-api/internal/apperr"
	"agenda-api/internal/auth"
	"agenda-api/internal/model"
	"agenda-api/prometheus"
)

// AppointmentService manages bookings and detects scheduling conflicts.
type AppointmentService struct {
	db  *gorm.DB
	log *zap.Logger
}

// CreateAppointmentInput is the booking payload. The tenant is stamped
// from the actor; UserID defaults to the actor when omitted.
type CreateAppointmentInput struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description,omitempty"`
	StartTime   time.Time               `json:"start_time"`
	EndTime     time.Time               `json:"end_time"`
	Status      model.AppointmentStatus `json:"status,omitempty"`
	Notes       string                  `json:"notes,omitempty"`
	ClientID    uuid.UUID               `json:"client_id"`
	UserID      *uuid.UUID              `json:"user_id,omitempty"`
}

// UpdateAppointmentInput carries optional appointment updates.
type UpdateAppointmentInput struct {
	Title       *string                  `json:"title,omitempty"`
	Description *string                  `json:"description,omitempty"`
	StartTime   *time.Time               `json:"start_time,omitempty"`
	EndTime     *time.Time               `json:"end_time,omitempty"`
	Status      *model.AppointmentStatus `json:"status,omitempty"`
	Notes       *string                  `json:"notes,omitempty"`
}

// AppointmentFilter narrows a listing. Zero fields are ignored.
type AppointmentFilter struct {
	From     *time.Time
	To       *time.Time
	Status   model.AppointmentStatus
	ClientID *uuid.UUID
	UserID   *uuid.UUID
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. Touching endpoints do not overlap, so back-to-back
// appointments are allowed.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// Create books an appointment after validating references and checking
// for conflicts. The conflict check and the insert run in one
// transaction so two concurrent bookings cannot both pass the check.
func (s *AppointmentService) Create(actor auth.Actor, in CreateAppointmentInput) (*model.Appointment, error) {
	if err := auth.Authorize(actor, auth.ActionCreate, auth.ResourceAppointment); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, apperr.Validation("title is required")
	}
	if err := validateInterval(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = model.StatusScheduled
	}
	if !status.Valid() {
		return nil, apperr.Validation("unknown status")
	}

	tenantID := auth.StampTenant(actor)
	userID := actor.UserID
	if in.UserID != nil {
		userID = *in.UserID
	}

	var appt *model.Appointment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Referenced client and user must live in the same tenant.
		var client model.Client
		if err := tx.Where("id = ? AND tenant_id = ?", in.ClientID, tenantID).First(&client).Error; err != nil {
			return lookupErr(err, "client not found")
		}
		var user model.User
		if err := tx.Where("id = ? AND tenant_id = ?", userID, tenantID).First(&user).Error; err != nil {
			return lookupErr(err, "user not found")
		}

		if err := s.checkConflict(tx, in.StartTime, in.EndTime, tenantID, userID, nil); err != nil {
			return err
		}

		appt = &model.Appointment{
			Title:       in.Title,
			Description: in.Description,
			StartTime:   in.StartTime,
			EndTime:     in.EndTime,
			Status:      status,
			Notes:       in.Notes,
			ClientID:    in.ClientID,
			UserID:      userID,
			TenantID:    tenantID,
		}
		if err := tx.Create(appt).Error; err != nil {
			if isExclusionViolation(err) {
				return apperr.Conflict("time slot is already booked for this user")
			}
			return apperr.Internal("failed to create appointment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	prometheus.AppointmentOperationCounter.WithLabelValues("create").Inc()
	s.log.Info("appointment created",
		zap.String("title", appt.Title),
		zap.Time("start", appt.StartTime),
		zap.String("by", actor.Email))
	return appt, nil
}

// List returns the tenant's appointments matching the filter, ordered
// by start time.
func (s *AppointmentService) List(actor auth.Actor, f AppointmentFilter) ([]model.Appointment, error) {
	if err := auth.Authorize(actor, auth.ActionRead, auth.ResourceAppointment); err != nil {
		return nil, err
	}
	q := auth.TenantScoped(s.db.Preload("Client").Preload("User"), actor)
	if f.From != nil {
		q = q.Where("start_time >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("end_time <= ?", *f.To)
	}
	if f.Status != "" {
		if !f.Status.Valid() {
			return nil, apperr.Validation("unknown status")
		}
		q = q.Where("status = ?", f.Status)
	}
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}

	var appts []model.Appointment
	if err := q.Order("start_time").Find(&appts).Error; err != nil {
		return nil, apperr.Internal("database error", err)
	}
	return appts, nil
}

// Calendar lists the tenant's appointments for one month. Membership
// is decided by the start time alone, so a booking running past
// midnight into the next month still shows on the day it begins.
func (s *AppointmentService) Calendar(actor auth.Actor, month, year int) ([]model.Appointment, error) {
	if err := auth.Authorize(actor, auth.ActionRead, auth.ResourceAppointment); err != nil {
		return nil, err
	}
	from, to := monthRange(month, year, s.log)

	var appts []model.Appointment
	err := auth.TenantScoped(s.db.Preload("Client").Preload("User"), actor).
		Where("start_time >= ? AND start_time < ?", from, to).
		Order("start_time").
		Find(&appts).Error
	if err != nil {
		return nil, apperr.Internal("database error", err)
	}
	return appts, nil
}

// Get returns one appointment inside the actor's scope.
func (s *AppointmentService) Get(actor auth.Actor, id uuid.UUID) (*model.Appointment, error) {
	if err := auth.Authorize(actor, auth.ActionRead, auth.ResourceAppointment); err != nil {
		return nil, err
	}
	var appt model.Appointment
	err := auth.TenantScoped(s.db.Preload("Client").Preload("User"), actor).
		First(&appt, "id = ?", id).Error
	if err != nil {
		return nil, lookupErr(err, "appointment not found")
	}
	return &appt, nil
}

// Update modifies an appointment. When the interval changes, the
// conflict check reruns against everything except the appointment
// itself.
func (s *AppointmentService) Update(actor auth.Actor, id uuid.UUID, in UpdateAppointmentInput) (*model.Appointment, error) {
	appt, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor, auth.ActionUpdate, auth.ResourceAppointment); err != nil {
		return nil, err
	}

	start := appt.StartTime
	end := appt.EndTime
	if in.StartTime != nil {
		start = *in.StartTime
	}
	if in.EndTime != nil {
		end = *in.EndTime
	}
	timeChanged := in.StartTime != nil || in.EndTime != nil
	if timeChanged {
		if err := validateInterval(start, end); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, apperr.Validation("title cannot be empty")
		}
		updates["title"] = *in.Title
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, apperr.Validation("unknown status")
		}
		updates["status"] = *in.Status
	}
	if timeChanged {
		updates["start_time"] = start
		updates["end_time"] = end
	}
	if len(updates) == 0 {
		return appt, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if timeChanged {
			excludeID := appt.ID
			if err := s.checkConflict(tx, start, end, appt.TenantID, appt.UserID, &excludeID); err != nil {
				return err
			}
		}
		if err := tx.Model(appt).Updates(updates).Error; err != nil {
			if isExclusionViolation(err) {
				return apperr.Conflict("time slot is already booked for this user")
			}
			return apperr.Internal("failed to update appointment", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	prometheus.AppointmentOperationCounter.WithLabelValues("update").Inc()
	return appt, nil
}

// Delete removes an appointment inside the actor's scope.
func (s *AppointmentService) Delete(actor auth.Actor, id uuid.UUID) error {
	appt, err := s.Get(actor, id)
	if err != nil {
		return err
	}
	if err := auth.Authorize(actor, auth.ActionDelete, auth.ResourceAppointment); err != nil {
		return err
	}
	if err := s.db.Delete(appt).Error; err != nil {
		return apperr.Internal("failed to delete appointment", err)
	}
	prometheus.AppointmentOperationCounter.WithLabelValues("delete").Inc()
	return nil
}

// checkConflict looks for any appointment of the same (tenant, user)
// whose half-open interval intersects [start, end). Conflicts are per
// responsible user: two staff members can serve the same slot.
func (s *AppointmentService) checkConflict(tx *gorm.DB, start, end time.Time, tenantID, userID uuid.UUID, excludeID *uuid.UUID) error {
	q := tx.Model(&model.Appointment{}).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return apperr.Internal("database error", err)
	}
	if count > 0 {
		prometheus.ConflictCounter.Inc()
		return apperr.Conflict("time slot is already booked for this user")
	}
	return nil
}

func validateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperr.Validation("start_time and end_time are required")
	}
	if !start.Before(end) {
		return apperr.Validation("start_time must be before end_time")
	}
	return nil
}

// isExclusionViolation recognizes the postgres overlap backstop
// constraint (23P01) installed at migration time.
func isExclusionViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23P01") || strings.Contains(msg, "appointments_no_overlap")
}
